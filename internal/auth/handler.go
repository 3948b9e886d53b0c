package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/db"
	"github.com/omtii/marketplace/internal/roles"
)

type SignupRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AccountType string `json:"account_type"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// ===== Signup =====
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}
	if req.AccountType != "vendor" {
		req.AccountType = "client"
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	ctx := c.Request().Context()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	userID := uuid.New().String()
	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, password, full_name, account_type)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, req.Email, hashed, req.FullName, req.AccountType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	// Initial role follows the declared account type.
	_, err = tx.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
	`, userID, string(roles.ForAccountType(req.AccountType)))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role assignment failed"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	signed, err := IssueToken(userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusCreated, TokenResponse{Token: signed})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ===== Login =====
func Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := c.Request().Context()

	var (
		userID   string
		password string
		isActive bool
	)
	err := db.Conn.QueryRow(ctx, `
		SELECT id, password, is_active FROM users WHERE email = $1
	`, strings.TrimSpace(strings.ToLower(req.Email))).Scan(&userID, &password, &isActive)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !isActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account suspended"})
	}
	if err := ComparePassword(password, req.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	signed, err := IssueToken(userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: signed})
}

// SignOut revokes the presented token. The response is OK even if revocation
// storage is unavailable; the caller discards its token either way.
func SignOut(c echo.Context) error {
	jti, _ := c.Get("jti").(string)
	exp, _ := c.Get("token_exp").(time.Time)
	if jti != "" {
		_ = RevokeToken(c.Request().Context(), jti, exp)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "signed out"})
}

// Me returns the authenticated identity, its profile fields, and the live
// role set. Clients call this after login and after editing their own profile.
func Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()

	var (
		email, fullName, accountType string
		avatarURL, phone, bio        string
		createdAt                    time.Time
	)
	err := db.Conn.QueryRow(ctx, `
		SELECT email, full_name, account_type, avatar_url, phone, bio, created_at
		FROM users WHERE id = $1
	`, userID).Scan(&email, &fullName, &accountType, &avatarURL, &phone, &bio, &createdAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	roleSet, _ := c.Get("roles").([]roles.Role)

	return c.JSON(http.StatusOK, echo.Map{
		"id": userID,
		"profile": echo.Map{
			"full_name":    fullName,
			"email":        email,
			"account_type": accountType,
			"avatar_url":   avatarURL,
			"phone":        phone,
			"bio":          bio,
		},
		"roles":      roleSet,
		"created_at": createdAt.UTC().Format(time.RFC3339),
	})
}
