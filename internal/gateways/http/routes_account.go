package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/swag"

	"notarycalc/internal/gateways/http/dto"
	"notarycalc/internal/gateways/http/mw"
	"notarycalc/internal/usecase"
)

func setupSession(r *gin.RouterGroup, u UseCases) {
	r.POST("/auth/logout", func(c *gin.Context) {
		if err := u.Auth.Logout(c.Request.Context(), mw.SessionToken(c)); err != nil {
			writeError(c, err)
			return
		}
		setSessionCookie(c, "", time.Time{}, u.now())
		c.Status(http.StatusNoContent)
	})

	r.PUT("/auth/password", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var input dto.ChangePasswordInput
		if !bindJSON(c, &input) {
			return
		}
		err := u.Auth.ChangePassword(c.Request.Context(), userID,
			swag.StringValue(input.CurrentPassword), swag.StringValue(input.NewPassword))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func setupProfile(pub, r *gin.RouterGroup, u UseCases) {
	r.GET("/profile", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		p, err := u.Profile.GetProfile(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewProfile(p, u.now()))
	})

	r.PUT("/profile", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var input dto.ProfileSettingsInput
		if !bindJSON(c, &input) {
			return
		}
		p, err := u.Profile.UpdateSettings(c.Request.Context(), userID, usecase.ProfileSettings{
			FullName:      input.FullName,
			Phone:         input.Phone,
			OfficeName:    input.OfficeName,
			OfficeAddress: input.OfficeAddress,
			OfficePhone:   input.OfficePhone,
			OfficeLogoURL: input.OfficeLogoURL.String(),
			Theme:         input.Theme,
			AccentColor:   input.AccentColor,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewProfile(p, u.now()))
	})
	allow(pub, "/profile", "GET,PUT,OPTIONS")

	r.GET("/dashboard", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		d, err := u.Profile.Dashboard(c.Request.Context(), userID, u.now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	})
	allow(pub, "/dashboard", "GET,OPTIONS")
}

func setupAnalytics(pub, r *gin.RouterGroup, u UseCases) {
	r.GET("/analytics", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		s, err := u.Analytics.Summary(c.Request.Context(), userID, c.Query("range"), u.now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	})
	allow(pub, "/analytics", "GET,OPTIONS")
}

func setupBilling(pub, r *gin.RouterGroup, u UseCases) {
	r.POST("/billing/checkout", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		s, err := u.Billing.Checkout(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": s.ID, "url": s.URL})
	})
	allow(pub, "/billing/checkout", "POST,OPTIONS")

	r.GET("/billing/payments", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		limit, offset, ok := pagination(c)
		if !ok {
			return
		}
		payments, err := u.Billing.ListPayments(c.Request.Context(), userID, limit, offset)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := make([]*dto.Payment, 0, len(payments))
		for _, p := range payments {
			resp = append(resp, dto.NewPayment(p))
		}
		c.JSON(http.StatusOK, resp)
	})
	allow(pub, "/billing/payments", "GET,OPTIONS")
}
