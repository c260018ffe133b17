package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/infrastructure/logger"
)

// Seller context keys
const (
	SellerIDKey     = "seller_id"
	SellerSlugKey   = "seller_slug"
	SellerHeaderKey = "X-Seller-ID"
)

// SellerInfo holds the resolved storefront identity
type SellerInfo struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
}

// SellerValidator checks that a storefront exists and is active
type SellerValidator interface {
	ValidateSeller(sellerID string) (*SellerInfo, error)
}

// SlugResolver maps a storefront slug (from a subdomain) to its seller ID
type SlugResolver interface {
	ResolveSlug(slug string) (*SellerInfo, error)
}

// SellerMiddlewareConfig holds configuration for seller scoping middleware
type SellerMiddlewareConfig struct {
	// HeaderEnabled enables X-Seller-ID header extraction
	HeaderEnabled bool
	// JWTEnabled enables JWT claim extraction (requires JWT middleware to run first)
	JWTEnabled bool
	// SubdomainEnabled enables storefront slug extraction from the Host header
	SubdomainEnabled bool
	// BaseDomain is the base domain for subdomain extraction (e.g., "marketplace.dev")
	BaseDomain string
	// SlugResolver resolves subdomain slugs; required when SubdomainEnabled
	SlugResolver SlugResolver
	// SkipPaths are paths that don't require seller context
	SkipPaths []string
	// Required determines if seller context is mandatory
	Required bool
	// Validator optionally checks that the storefront exists and is active
	Validator SellerValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultSellerConfig returns default seller middleware configuration
func DefaultSellerConfig() SellerMiddlewareConfig {
	return SellerMiddlewareConfig{
		HeaderEnabled:    true,
		JWTEnabled:       true,
		SubdomainEnabled: false,
		BaseDomain:       "",
		SkipPaths:        []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:         true,
		Validator:        nil,
		Logger:           nil,
	}
}

// SellerMiddleware scopes the request to one storefront.
// Extraction order: JWT claims > X-Seller-ID header > subdomain slug
func SellerMiddleware() gin.HandlerFunc {
	return SellerMiddlewareWithConfig(DefaultSellerConfig())
}

// SellerMiddlewareWithConfig returns seller middleware with custom configuration
func SellerMiddlewareWithConfig(cfg SellerMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		var sellerID string
		var sellerSlug string
		var extractionMethod string

		// Priority 1: JWT claims (if JWT middleware has already run)
		if cfg.JWTEnabled {
			if id := GetJWTSellerID(c); id != "" {
				sellerID = id
				extractionMethod = "jwt"
			}
		}

		// Priority 2: X-Seller-ID header
		if sellerID == "" && cfg.HeaderEnabled {
			if headerSellerID := c.GetHeader(SellerHeaderKey); headerSellerID != "" {
				sellerID = headerSellerID
				extractionMethod = "header"
			}
		}

		// Priority 3: storefront slug subdomain
		if sellerID == "" && cfg.SubdomainEnabled && cfg.BaseDomain != "" && cfg.SlugResolver != nil {
			if slug := extractSlugFromSubdomain(c.Request.Host, cfg.BaseDomain); slug != "" {
				info, err := cfg.SlugResolver.ResolveSlug(slug)
				if err != nil {
					respondUnauthorized(c, "Unknown storefront")
					return
				}
				sellerID = info.ID.String()
				sellerSlug = info.Slug
				extractionMethod = "subdomain"
			}
		}

		if sellerID != "" {
			if _, err := uuid.Parse(sellerID); err != nil {
				respondUnauthorized(c, "Invalid seller ID format")
				return
			}
		}

		if sellerID == "" && cfg.Required {
			respondUnauthorized(c, "Seller identification required")
			return
		}

		if sellerID != "" && cfg.Validator != nil {
			info, err := cfg.Validator.ValidateSeller(sellerID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Seller validation failed",
					zap.String("seller_id", sellerID),
					zap.Error(err),
				)
				respondUnauthorized(c, "Invalid or inactive storefront")
				return
			}
			sellerSlug = info.Slug
		}

		if sellerID != "" {
			c.Set(SellerIDKey, sellerID)
			if sellerSlug != "" {
				c.Set(SellerSlugKey, sellerSlug)
			}

			// Set in request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithSellerID(ctx, log, sellerID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Seller identified",
					zap.String("seller_id", sellerID),
					zap.String("method", extractionMethod),
				)
			}
		}

		c.Next()
	}
}

// extractSlugFromSubdomain extracts the storefront slug from a subdomain,
// e.g. "acme.marketplace.dev" with baseDomain "marketplace.dev" returns "acme"
func extractSlugFromSubdomain(host, baseDomain string) string {
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}

	if !strings.HasSuffix(host, baseDomain) {
		return ""
	}

	subdomain := strings.TrimSuffix(host, "."+baseDomain)
	if subdomain == host || subdomain == "" || subdomain == "www" {
		return ""
	}

	parts := strings.Split(subdomain, ".")
	return parts[0]
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetSellerID retrieves the seller ID from gin.Context
func GetSellerID(c *gin.Context) string {
	if sellerID, exists := c.Get(SellerIDKey); exists {
		if id, ok := sellerID.(string); ok {
			return id
		}
	}
	return ""
}

// GetSellerUUID retrieves the seller ID as UUID from gin.Context
func GetSellerUUID(c *gin.Context) (uuid.UUID, error) {
	sellerID := GetSellerID(c)
	if sellerID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(sellerID)
}

// GetSellerSlug retrieves the storefront slug from gin.Context
func GetSellerSlug(c *gin.Context) string {
	if slug, exists := c.Get(SellerSlugKey); exists {
		if s, ok := slug.(string); ok {
			return s
		}
	}
	return ""
}

// OptionalSellerMiddleware creates middleware that doesn't require seller context
func OptionalSellerMiddleware() gin.HandlerFunc {
	cfg := DefaultSellerConfig()
	cfg.Required = false
	return SellerMiddlewareWithConfig(cfg)
}
