// Package store holds the authoritative shortcode-to-alias mapping. It
// owns uniqueness at insertion and all mutation of click analytics;
// callers only ever receive copies of records.
package store

import (
	"context"
	"errors"

	"github.com/jack/golang-url-alias-service/internal/model"
)

var (
	// ErrCodeExists is returned when inserting a shortcode that is
	// already mapped. Shortcodes are never reused, even after expiry.
	ErrCodeExists = errors.New("shortcode already exists")

	// ErrNotFound is returned for shortcodes with no record.
	ErrNotFound = errors.New("shortcode not found")
)

// Store is the alias storage contract. Insert must be atomic with
// respect to concurrent inserts of the same shortcode, and RecordClick
// must serialize updates per shortcode so no click is ever lost.
type Store interface {
	// Insert stores a new record, failing with ErrCodeExists when the
	// shortcode is already taken.
	Insert(ctx context.Context, record *model.AliasRecord) error

	// Contains reports whether the shortcode is mapped.
	Contains(ctx context.Context, shortCode string) (bool, error)

	// Get returns a copy of the record, ErrNotFound when absent.
	Get(ctx context.Context, shortCode string) (*model.AliasRecord, error)

	// RecordClick increments the click counter and appends the event in
	// one atomic step, ErrNotFound when the shortcode is absent.
	RecordClick(ctx context.Context, shortCode string, event model.ClickEvent) error

	// Health reports whether the backend is reachable.
	Health(ctx context.Context) error
}

func copyRecord(r *model.AliasRecord) *model.AliasRecord {
	out := *r
	out.Clicks = make([]model.ClickEvent, len(r.Clicks))
	copy(out.Clicks, r.Clicks)
	return &out
}
