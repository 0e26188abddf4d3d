package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jack/golang-url-alias-service/internal/config"
	"github.com/jack/golang-url-alias-service/internal/expiry"
	"github.com/jack/golang-url-alias-service/internal/geo"
	"github.com/jack/golang-url-alias-service/internal/logsink"
	"github.com/jack/golang-url-alias-service/internal/model"
	"github.com/jack/golang-url-alias-service/internal/shortcode"
	"github.com/jack/golang-url-alias-service/internal/store"
)

// RequestInfo carries requester metadata into the resolution path.
type RequestInfo struct {
	UserAgent string
	Referer   string
	Address   string
}

// CreateResult is the outcome of a successful alias creation.
type CreateResult struct {
	ShortLink string
	ExpiresAt time.Time
}

// AliasService orchestrates alias creation, resolution and statistics
// over the store, the code generator, the expiry policy and the
// location resolver.
type AliasService struct {
	store     store.Store
	codes     *shortcode.Generator
	locations geo.Resolver
	sink      *logsink.Client
	cfg       *config.Config

	now func() time.Time
}

func NewAliasService(
	st store.Store,
	codes *shortcode.Generator,
	locations geo.Resolver,
	sink *logsink.Client,
	cfg *config.Config,
) *AliasService {
	return &AliasService{
		store:     st,
		codes:     codes,
		locations: locations,
		sink:      sink,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create validates the request, allocates a shortcode and inserts the
// record. Validation order: url presence, url shape, validity, then the
// custom-code checks; nothing touches the store before all input is
// known-good.
func (s *AliasService) Create(ctx context.Context, req *model.CreateAliasRequest) (*CreateResult, error) {
	s.sink.Log("backend", "info", "service", "short link creation attempted")

	if req.URL == "" {
		s.sink.Log("backend", "warn", "service", "short link creation rejected: missing url")
		return nil, validationErr("missing url")
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		s.sink.Log("backend", "warn", "service", "short link creation rejected: invalid url")
		return nil, validationErr("invalid url")
	}

	validity := expiry.DefaultValidityMinutes
	if req.Validity != nil {
		if *req.Validity <= 0 {
			s.sink.Log("backend", "warn", "service", "short link creation rejected: invalid validity")
			return nil, validationErr("invalid validity")
		}
		validity = *req.Validity
	}

	now := s.now()
	record := &model.AliasRecord{
		ID:          uuid.NewString(),
		OriginalURL: req.URL,
		CreatedAt:   now,
		ExpiresAt:   expiry.At(now, validity),
	}

	if req.ShortCode != "" {
		if !shortcode.IsValidFormat(req.ShortCode) {
			s.sink.Log("backend", "warn", "service", "short link creation rejected: invalid shortcode format")
			return nil, validationErr("invalid shortcode format")
		}

		taken, err := s.store.Contains(ctx, req.ShortCode)
		if err != nil {
			return nil, fmt.Errorf("failed to check shortcode: %w", err)
		}
		if taken {
			s.sink.Log("backend", "warn", "service", "short link creation rejected: shortcode already exists")
			return nil, store.ErrCodeExists
		}

		record.ShortCode = req.ShortCode
		// Two racing requests for the same custom code can both pass the
		// check above; the store's uniqueness constraint picks the winner.
		if err := s.store.Insert(ctx, record); err != nil {
			if errors.Is(err, store.ErrCodeExists) {
				s.sink.Log("backend", "warn", "service", "short link creation rejected: shortcode already exists")
				return nil, err
			}
			s.sink.Log("backend", "error", "service", "short link creation failed: "+err.Error())
			return nil, fmt.Errorf("failed to insert alias: %w", err)
		}
	} else {
		if err := s.insertWithRandomCode(ctx, record); err != nil {
			s.sink.Log("backend", "error", "service", "short link creation failed: "+err.Error())
			return nil, err
		}
	}

	s.sink.Log("backend", "info", "service", "short link created: "+record.ShortCode)

	return &CreateResult{
		ShortLink: s.cfg.App.BaseURL + "/" + record.ShortCode,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// insertWithRandomCode retries generation until the insert wins. With a
// 62^6 space the loop exits on the first pass in practice; the cap only
// turns a theoretical livelock into an explicit error.
func (s *AliasService) insertWithRandomCode(ctx context.Context, record *model.AliasRecord) error {
	maxRetries := s.cfg.Alias.MaxGenerateRetries
	if maxRetries <= 0 {
		maxRetries = 10
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		record.ShortCode = s.codes.Generate()

		err := s.store.Insert(ctx, record)
		if err == nil {
			return nil
		}
		if errors.Is(err, store.ErrCodeExists) {
			continue
		}
		return fmt.Errorf("failed to insert alias: %w", err)
	}

	return fmt.Errorf("%w: shortcode space exhausted after %d attempts", ErrInternal, maxRetries)
}

// Resolve returns the redirect target for a shortcode and records the
// click. Expired aliases are refused but never deleted.
func (s *AliasService) Resolve(ctx context.Context, code string, info RequestInfo) (string, error) {
	if !shortcode.IsValidFormat(code) {
		s.sink.Log("backend", "warn", "service", "resolution rejected: invalid shortcode format")
		return "", validationErr("invalid shortcode format")
	}

	record, err := s.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sink.Log("backend", "warn", "service", "resolution failed: shortcode not found: "+code)
			return "", err
		}
		s.sink.Log("backend", "error", "service", "resolution failed: "+err.Error())
		return "", fmt.Errorf("failed to load alias: %w", err)
	}

	if expiry.Expired(s.now(), record.ExpiresAt) {
		s.sink.Log("backend", "warn", "service", "resolution refused: short link expired: "+code)
		return "", ErrExpired
	}

	event := model.ClickEvent{
		Timestamp: s.now(),
		UserAgent: info.UserAgent,
		Referer:   info.Referer,
		Address:   info.Address,
		Location:  s.locations.Resolve(info.Address),
	}
	if event.UserAgent == "" {
		event.UserAgent = model.UnknownUserAgent
	}
	if event.Referer == "" {
		event.Referer = model.DirectReferer
	}

	if err := s.store.RecordClick(ctx, code, event); err != nil {
		s.sink.Log("backend", "error", "service", "click recording failed: "+err.Error())
		return "", fmt.Errorf("failed to record click: %w", err)
	}

	s.sink.Log("backend", "info", "service", "short link resolved: "+code)
	return record.OriginalURL, nil
}

// Stats returns the full click history for a shortcode. It does not
// check expiry and does not count as a click.
func (s *AliasService) Stats(ctx context.Context, code string) (*model.AliasStatsResponse, error) {
	s.sink.Log("backend", "info", "service", "statistics requested: "+code)

	if !shortcode.IsValidFormat(code) {
		s.sink.Log("backend", "warn", "service", "statistics rejected: invalid shortcode format")
		return nil, validationErr("invalid shortcode format")
	}

	record, err := s.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sink.Log("backend", "warn", "service", "statistics failed: shortcode not found: "+code)
			return nil, err
		}
		s.sink.Log("backend", "error", "service", "statistics failed: "+err.Error())
		return nil, fmt.Errorf("failed to load alias: %w", err)
	}

	details := make([]model.ClickDetail, 0, len(record.Clicks))
	for _, click := range record.Clicks {
		details = append(details, model.ClickDetail{
			Timestamp: click.Timestamp,
			Referer:   click.Referer,
			UserAgent: click.UserAgent,
			Location:  click.Location,
		})
	}

	return &model.AliasStatsResponse{
		TotalClicks:  record.ClickCount,
		OriginalURL:  record.OriginalURL,
		CreationDate: record.CreatedAt.Format(time.RFC3339),
		ExpiryDate:   record.ExpiresAt.Format(time.RFC3339),
		ClickDetails: details,
	}, nil
}
