package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/gin-exception/internal/platform/config"
	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// ContextKeyClaims is the gin context key of the request's *Claims.
const ContextKeyClaims = "claims"

// claimHeaders names the gateway headers claims are read from.
type claimHeaders struct {
	subject string
	roles   string
	scopes  string
}

var defaultClaimHeaders = claimHeaders{
	subject: "X-User-ID",
	roles:   "X-User-Roles",
	scopes:  "X-User-Scopes",
}

func headersFor(cfg *config.AuthConfig) claimHeaders {
	h := defaultClaimHeaders
	if cfg == nil {
		return h
	}

	if cfg.SubjectHeader != "" {
		h.subject = cfg.SubjectHeader
	}

	if cfg.RolesHeader != "" {
		h.roles = cfg.RolesHeader
	}

	if cfg.ScopesHeader != "" {
		h.scopes = cfg.ScopesHeader
	}

	return h
}

// Claims are the caller attributes forwarded by the gateway, which has
// already validated the token.
type Claims struct {
	Subject string
	Roles   []string
	Scopes  []string
}

// HasRole reports whether the caller has role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the caller has at least one of roles.
func (c *Claims) HasAnyRole(roles ...string) bool {
	return slices.ContainsFunc(roles, c.HasRole)
}

// MissingScopes returns the entries of scopes the caller was not granted.
func (c *Claims) MissingScopes(scopes ...string) []string {
	var missing []string
	for _, s := range scopes {
		if !slices.Contains(c.Scopes, s) {
			missing = append(missing, s)
		}
	}

	return missing
}

// ExtractClaims reads claims from the request headers. Roles are comma
// separated, scopes are space separated.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	h := headersFor(cfg)

	return &Claims{
		Subject: strings.TrimSpace(c.GetHeader(h.subject)),
		Roles:   splitList(c.GetHeader(h.roles), ","),
		Scopes:  splitList(c.GetHeader(h.scopes), " "),
	}
}

// GetClaims returns the claims stored by a guard, or nil.
func GetClaims(c *gin.Context) *Claims {
	claims, _ := c.Get(ContextKeyClaims)
	cl, _ := claims.(*Claims)

	return cl
}

// RequireAuth rejects requests without a subject with a 401. The metadata
// of the error names the expected header.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	header := headersFor(cfg).subject

	return func(c *gin.Context) {
		claims := claimsOf(c, cfg)
		if claims.Subject == "" {
			AbortWithError(c, exception.Unauthorized("authentication required",
				exception.WithMetadata(map[string]any{"header": header}),
			))

			return
		}

		c.Next()
	}
}

// RequireRole rejects callers holding none of roles with a 403.
func RequireRole(cfg *config.AuthConfig, roles ...string) gin.HandlerFunc {
	message := "insufficient permissions: one of roles [" + strings.Join(roles, ", ") + "] required"
	if len(roles) == 1 {
		message = "insufficient permissions: role " + roles[0] + " required"
	}

	return func(c *gin.Context) {
		if !claimsOf(c, cfg).HasAnyRole(roles...) {
			AbortWithError(c, exception.Forbidden(message,
				exception.WithMetadata(map[string]any{"required_roles": roles}),
			))

			return
		}

		c.Next()
	}
}

// RequireScopes rejects callers missing any of scopes with a 403 listing
// the missing ones.
func RequireScopes(cfg *config.AuthConfig, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		missing := claimsOf(c, cfg).MissingScopes(scopes...)
		if len(missing) > 0 {
			AbortWithError(c, exception.Forbidden(
				"insufficient permissions: scopes ["+strings.Join(missing, ", ")+"] missing",
				exception.WithMetadata(map[string]any{"missing_scopes": missing}),
			))

			return
		}

		c.Next()
	}
}

// claimsOf returns the stored claims, extracting and storing them on first use.
func claimsOf(c *gin.Context, cfg *config.AuthConfig) *Claims {
	if claims := GetClaims(c); claims != nil {
		return claims
	}

	claims := ExtractClaims(c, cfg)
	c.Set(ContextKeyClaims, claims)

	return claims
}

// splitList splits s on sep, dropping blank entries. It returns nil for
// an empty list.
func splitList(s, sep string) []string {
	var parts []string
	if sep == " " {
		parts = strings.Fields(s)
	} else {
		parts = strings.Split(s, sep)
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
