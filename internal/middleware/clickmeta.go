package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jack/golang-url-alias-service/internal/service"
)

const clickMetaKey = "clickMeta"

// ClickMeta collects requester metadata for the click pipeline: user
// agent, referer and the client address as seen through the trusted
// proxy chain. Defaults for absent headers are applied downstream so
// the service owns the sentinel values.
func ClickMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clickMetaKey, service.RequestInfo{
			UserAgent: c.Request.UserAgent(),
			Referer:   c.Request.Referer(),
			Address:   c.ClientIP(),
		})

		c.Next()
	}
}

// RequestInfoFrom returns the metadata collected by ClickMeta, or a
// zero value when the middleware did not run.
func RequestInfoFrom(c *gin.Context) service.RequestInfo {
	if v, ok := c.Get(clickMetaKey); ok {
		if info, ok := v.(service.RequestInfo); ok {
			return info
		}
	}
	return service.RequestInfo{}
}
