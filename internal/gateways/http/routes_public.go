package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"

	"notarycalc/internal/fees"
	"notarycalc/internal/gateways/http/dto"
	"notarycalc/internal/gateways/http/mw"
	"notarycalc/internal/usecase"
)

// maxWebhookBody bounds provider webhook payloads.
const maxWebhookBody = 64 << 10

func setupFees(r *gin.RouterGroup, u UseCases) {
	r.GET("/fees/schedule", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		c.JSON(http.StatusOK, fees.Schedule())
	})
	allow(r, "/fees/schedule", "GET,OPTIONS")

	r.POST("/fees/quote", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		var input dto.QuoteInput
		if !bindJSON(c, &input) {
			return
		}
		q, err := u.Calculation.Quote(input.Services.Lines())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	})
	allow(r, "/fees/quote", "POST,OPTIONS")
}

func setupAuth(r *gin.RouterGroup, u UseCases) {
	r.POST("/auth/signup", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		var input dto.SignUpInput
		if !bindJSON(c, &input) {
			return
		}
		s, err := u.Auth.SignUp(c.Request.Context(), usecase.SignUpInput{
			Email:      input.Email.String(),
			Password:   swag.StringValue(input.Password),
			FullName:   input.FullName,
			Phone:      input.Phone,
			OfficeName: input.OfficeName,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		setSessionCookie(c, s.Token, s.ExpiresAt, u.now())
		c.JSON(http.StatusCreated, sessionBody(s, u.now()))
	})
	allow(r, "/auth/signup", "POST,OPTIONS")

	r.POST("/auth/login", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		var input dto.LoginInput
		if !bindJSON(c, &input) {
			return
		}
		s, err := u.Auth.Login(c.Request.Context(), swag.StringValue(input.Email), swag.StringValue(input.Password))
		if err != nil {
			writeError(c, err)
			return
		}
		setSessionCookie(c, s.Token, s.ExpiresAt, u.now())
		c.JSON(http.StatusOK, sessionBody(s, u.now()))
	})
	allow(r, "/auth/login", "POST,OPTIONS")

	r.POST("/auth/forgot-password", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		var input dto.ForgotPasswordInput
		if !bindJSON(c, &input) {
			return
		}
		if err := u.Auth.ForgotPassword(c.Request.Context(), input.Email.String()); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
	})
	allow(r, "/auth/forgot-password", "POST,OPTIONS")

	r.POST("/auth/reset-password", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		var input dto.ResetPasswordInput
		if !bindJSON(c, &input) {
			return
		}
		if err := u.Auth.ResetPassword(c.Request.Context(), swag.StringValue(input.Token), swag.StringValue(input.Password)); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	allow(r, "/auth/reset-password", "POST,OPTIONS")

	allow(r, "/auth/logout", "POST,OPTIONS")
	allow(r, "/auth/password", "PUT,OPTIONS")
}

func setupWebhooks(r *gin.RouterGroup, u UseCases) {
	r.POST("/webhooks/stripe", func(c *gin.Context) {
		payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
			return
		}
		if err := u.Billing.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	})
	allow(r, "/webhooks/stripe", "POST,OPTIONS")
}

func sessionBody(s *usecase.Session, now time.Time) *dto.Session {
	return &dto.Session{
		Token:     s.Token,
		ExpiresAt: strfmt.DateTime(s.ExpiresAt),
		Profile:   dto.NewProfile(s.Profile, now),
	}
}

func setSessionCookie(c *gin.Context, token string, expires, now time.Time) {
	maxAge := int(expires.Sub(now).Seconds())
	if token == "" || maxAge <= 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(mw.SessionCookie, token, maxAge, "/", "", secureRequest(c), true)
}

func secureRequest(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}
