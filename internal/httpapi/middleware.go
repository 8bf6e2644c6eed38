// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/account"
	"github.com/holomush/tidewater/internal/ident"
	"github.com/holomush/tidewater/internal/logging"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	callerKey        = "tidewater.caller"
	maxRequestIDSize = 64
)

// RequestID reuses a client supplied request ID or assigns a new ULID, echoes
// it in the response and stores it in the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDSize {
			id = ident.New().String()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog writes one record per request.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"route", routeOf(c),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Recovery turns a handler panic into a 500.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "handler panic",
			"route", routeOf(c),
			"panic", recovered,
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// Metrics records request counts and latencies by route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		recordRequest(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

// CORS allows browsers on origins matching any of patterns. A "*" pattern
// allows every origin. With no patterns the middleware does nothing.
func CORS(patterns []string) (gin.HandlerFunc, error) {
	allowAll := false
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		if p == "*" {
			allowAll = true
			continue
		}
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, oops.Code("HTTPAPI_INVALID").With("pattern", p).Wrapf(err, "compile CORS origin")
		}
		globs = append(globs, g)
	}

	allowed := func(origin string) bool {
		if allowAll {
			return true
		}
		for _, g := range globs {
			if g.Match(origin) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if len(patterns) == 0 || origin == "" {
			c.Next()
			return
		}
		c.Writer.Header().Add("Vary", "Origin")
		if !allowed(origin) {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}, nil
}

// Authenticate resolves the bearer token to an account or answers 401.
func Authenticate(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			return
		}
		acct, err := accounts.VerifyToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": account.ErrUnauthenticated.Error()})
			return
		}
		c.Set(callerKey, acct)
		c.Next()
	}
}

// caller returns the account set by Authenticate.
func caller(c *gin.Context) *account.Account {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	acct, _ := v.(*account.Account)
	return acct
}
