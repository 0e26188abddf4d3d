package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jack/golang-url-alias-service/internal/middleware"
	"github.com/jack/golang-url-alias-service/internal/model"
	"github.com/jack/golang-url-alias-service/internal/service"
	"github.com/jack/golang-url-alias-service/internal/store"
)

type Handler struct {
	service *service.AliasService
	store   store.Store
}

func NewHandler(svc *service.AliasService, st store.Store) *Handler {
	return &Handler{service: svc, store: st}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}

// respondInternalError hides internal details behind a fixed body.
func respondInternalError(c *gin.Context) {
	respondError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
}

func (h *Handler) CreateShortURL(c *gin.Context) {
	var req model.CreateAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			respondError(c, http.StatusBadRequest, "invalid_request", vErr.Reason)
			return
		}
		if errors.Is(err, store.ErrCodeExists) {
			respondError(c, http.StatusConflict, "conflict", "Shortcode already exists")
			return
		}
		log.Printf("create short url failed: ip=%s err=%v", c.ClientIP(), err)
		respondInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, model.CreateAliasResponse{
		ShortLink: result.ShortLink,
		Expiry:    result.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) Redirect(c *gin.Context) {
	code := c.Param("code")

	target, err := h.service.Resolve(c.Request.Context(), code, middleware.RequestInfoFrom(c))
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			respondError(c, http.StatusBadRequest, "invalid_request", vErr.Reason)
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "Short link not found")
			return
		}
		if errors.Is(err, service.ErrExpired) {
			respondError(c, http.StatusGone, "expired", "This short link has expired")
			return
		}
		log.Printf("redirect failed: code=%s ip=%s err=%v", code, c.ClientIP(), err)
		respondInternalError(c)
		return
	}

	// 302 keeps clients and caches coming back, so expiry and click
	// accounting stay in effect.
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) GetStats(c *gin.Context) {
	code := c.Param("code")

	stats, err := h.service.Stats(c.Request.Context(), code)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			respondError(c, http.StatusBadRequest, "invalid_request", vErr.Reason)
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, "not_found", "Short link not found")
			return
		}
		log.Printf("get stats failed: code=%s ip=%s err=%v", code, c.ClientIP(), err)
		respondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// NotFound handles every unmatched route.
func (h *Handler) NotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, "not_found", "Route not found")
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (h *Handler) HealthDetailed(c *gin.Context) {
	storeStatus := "connected"
	status := http.StatusOK
	if err := h.store.Health(c.Request.Context()); err != nil {
		storeStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": "healthy",
		"store":  storeStatus,
	})
}
