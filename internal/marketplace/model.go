package marketplace

import "time"

// Service moderation statuses. Vendors create listings as pending; admins
// move them to approved or rejected. draft and published exist for listings
// staged or force-published by admins.
const (
	ServiceDraft     = "draft"
	ServicePending   = "pending"
	ServiceApproved  = "approved"
	ServiceRejected  = "rejected"
	ServicePublished = "published"
)

// ValidServiceStatus reports whether s is a known moderation status.
func ValidServiceStatus(s string) bool {
	switch s {
	case ServiceDraft, ServicePending, ServiceApproved, ServiceRejected, ServicePublished:
		return true
	}
	return false
}

// Service is a vendor-listed offering.
type Service struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CategoryID  *string   `json:"category_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	Status      string    `json:"status"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServiceSummary is a discovery row joined with the vendor's public profile.
type ServiceSummary struct {
	Service
	VendorName   string `json:"vendor_name"`
	VendorAvatar string `json:"vendor_avatar"`
}

// Category groups services for browsing.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServiceRequest links a client, a vendor, and a service. vendor_id is
// captured from the service owner at creation time.
type ServiceRequest struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	ClientID  string    `json:"client_id"`
	VendorID  string    `json:"vendor_id"`
	Message   *string   `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestRow is a dashboard listing row: the request joined with the service
// title and the counterpart's profile summary.
type RequestRow struct {
	ServiceRequest
	ServiceTitle      string `json:"service_title"`
	CounterpartID     string `json:"counterpart_id"`
	CounterpartName   string `json:"counterpart_name"`
	CounterpartEmail  string `json:"counterpart_email"`
	CounterpartAvatar string `json:"counterpart_avatar"`
}
