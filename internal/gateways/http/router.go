package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"

	"notarycalc/internal/fees"
	"notarycalc/internal/gateways/http/mw"
	"notarycalc/internal/usecase"
)

const dateLayout = "2006-01-02"

type validatable interface {
	Validate(formats strfmt.Registry) error
}

func setupRouter(r *gin.Engine, u UseCases) {
	r.HandleMethodNotAllowed = true

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	{
		v1 := r.Group("api/v1/")
		setupFees(v1, u)
		setupAuth(v1, u)
		setupWebhooks(v1, u)

		// OPTIONS for private paths is registered on v1 so it answers without a session
		private := v1.Group("")
		private.Use(mw.RequireSession(u.Auth))
		setupSession(private, u)
		setupProfile(v1, private, u)
		setupClients(v1, private, u)
		setupCalculations(v1, private, u)
		setupTemplates(v1, private, u)
		setupAnalytics(v1, private, u)
		setupBilling(v1, private, u)
	}
}

// allow answers OPTIONS for a path with its method list.
func allow(r gin.IRoutes, path, methods string) {
	r.OPTIONS(path, func(c *gin.Context) {
		c.Writer.Header().Set("Allow", methods)
		c.Status(http.StatusNoContent)
	})
}

// bindJSON decodes and validates a JSON body, writing the error response itself on failure.
func bindJSON(c *gin.Context, input validatable) bool {
	if c.ContentType() != "" && c.ContentType() != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Use application/json"})
		return false
	}
	if err := c.ShouldBindJSON(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if err := input.Validate(strfmt.Default); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// writeError maps use case errors to HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, usecase.ErrInvalidID):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid id"})
	case errors.Is(err, usecase.ErrInvalidProfile),
		errors.Is(err, usecase.ErrInvalidClient),
		errors.Is(err, usecase.ErrInvalidCalculation),
		errors.Is(err, usecase.ErrInvalidTemplate),
		errors.Is(err, usecase.ErrInvalidPagination),
		errors.Is(err, usecase.ErrInvalidPeriod),
		errors.Is(err, usecase.ErrWeakPassword),
		errors.Is(err, fees.ErrInvalidLine),
		errors.Is(err, fees.ErrNoServices):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, usecase.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, usecase.ErrTooManyAttempts):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts"})
	case errors.Is(err, usecase.ErrInvalidResetToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset token"})
	case errors.Is(err, usecase.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
	case errors.Is(err, usecase.ErrBillingUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "billing unavailable"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// currentUser returns the session owner; RequireSession guarantees it on private routes.
func currentUser(c *gin.Context) (strfmt.UUID, bool) {
	id, ok := mw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}

// pathID reads and checks the :id route parameter.
func pathID(c *gin.Context) (strfmt.UUID, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if !strfmt.IsUUID(id) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid id"})
		return "", false
	}
	return strfmt.UUID(strings.ToLower(id)), true
}

// pagination reads optional limit and offset query parameters.
func pagination(c *gin.Context) (limit, offset int, ok bool) {
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid limit"})
			return 0, 0, false
		}
		limit = v
	}
	if s := c.Query("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid offset"})
			return 0, 0, false
		}
		offset = v
	}
	return limit, offset, true
}

// parseDay accepts a calendar date or an RFC 3339 timestamp; endOfDay extends a bare date to its last instant.
func parseDay(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date value")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func acceptsJSON(h string) bool {
	if h == "" || h == "*/*" {
		return true
	}
	parts := strings.Split(h, ",")
	for _, p := range parts {
		mt := strings.TrimSpace(strings.SplitN(p, ";", 2)[0])
		if mt == "application/json" || mt == "*/*" {
			return true
		}
	}
	return false
}

func requireAcceptJSON(c *gin.Context) bool {
	if acceptsJSON(c.GetHeader("Accept")) {
		return true
	}
	c.JSON(http.StatusNotAcceptable, gin.H{"error": "Accept application/json only"})
	return false
}
