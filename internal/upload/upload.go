package upload

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/omtii/marketplace/internal/config"
)

const MaxFileSize = 10 * 1024 * 1024 // 10 MB

// Buckets the API accepts. Each maps to a directory under the upload root.
var Buckets = map[string]bool{
	"avatars":        true,
	"service-images": true,
}

// AllowedMimeTypes defines which file types are accepted.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store saves uploaded objects to local disk and hands back public URLs.
type Store struct {
	baseDir    string
	publicBase string
}

func NewStore(cfg config.UploadConfig) *Store {
	return &Store{baseDir: cfg.BaseDir, publicBase: strings.TrimSuffix(cfg.PublicBase, "/")}
}

// BaseDir is the on-disk root served as static content.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// PublicURL renders the servable URL for a stored object path.
func (s *Store) PublicURL(path string) string {
	return s.publicBase + "/" + path
}

// Handler accepts a multipart file and stores it in the named bucket.
// POST /uploads/:bucket
func (s *Store) Handler(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	bucket := c.Param("bucket")
	if !Buckets[bucket] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown bucket"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	if fileHeader.Size == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is empty"})
	}
	if fileHeader.Size > MaxFileSize {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file exceeds size limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to open file"})
	}
	defer file.Close()

	// Sniff the MIME type from content, not the client-supplied header.
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if !AllowedMimeTypes[mimeType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported file type"})
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read file"})
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = extensionFor(mimeType)
	}
	name := fmt.Sprintf("%s-%s%s", uid, uuid.New().String(), ext)
	relPath := filepath.Join(bucket, name)
	absDir := filepath.Join(s.baseDir, bucket)

	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to prepare storage"})
	}

	dst, err := os.Create(filepath.Join(absDir, name))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store file"})
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store file"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"path": relPath,
		"url":  s.PublicURL(filepath.ToSlash(relPath)),
	})
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
