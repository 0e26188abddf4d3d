package model

import (
	"time"
)

// Sentinel values recorded when the requester sends no headers.
const (
	UnknownUserAgent = "Unknown"
	DirectReferer    = "Direct"
)

// Location is a coarse (country, city) classification of a requester.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// ClickEvent represents one successful resolution of an alias.
type ClickEvent struct {
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent"`
	Referer   string    `json:"referer"`
	Address   string    `json:"-"` // raw client address, kept for debugging only
	Location  Location  `json:"location"`
}

// AliasRecord is the stored mapping from shortcode to target URL.
// Immutable after creation except for the click analytics, which are
// mutated exclusively through the store.
type AliasRecord struct {
	ID          string       `json:"id"`
	ShortCode   string       `json:"short_code"`
	OriginalURL string       `json:"original_url"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
	ClickCount  int64        `json:"click_count"`
	Clicks      []ClickEvent `json:"clicks,omitempty"`
}

// CreateAliasRequest represents the request body for creating an alias.
// Validation happens in the service layer so that the error messages
// follow the documented order.
type CreateAliasRequest struct {
	URL       string `json:"url"`
	Validity  *int   `json:"validity,omitempty"` // minutes
	ShortCode string `json:"shortcode,omitempty"`
}

// CreateAliasResponse represents the response after creating an alias.
type CreateAliasResponse struct {
	ShortLink string `json:"shortLink"`
	Expiry    string `json:"expiry"`
}

// ClickDetail is one click as exposed by the statistics endpoint.
type ClickDetail struct {
	Timestamp time.Time `json:"timestamp"`
	Referer   string    `json:"referer"`
	UserAgent string    `json:"userAgent"`
	Location  Location  `json:"location"`
}

// AliasStatsResponse represents alias statistics, full click history included.
type AliasStatsResponse struct {
	TotalClicks  int64         `json:"totalClicks"`
	OriginalURL  string        `json:"originalUrl"`
	CreationDate string        `json:"creationDate"`
	ExpiryDate   string        `json:"expiryDate"`
	ClickDetails []ClickDetail `json:"clickDetails"`
}
