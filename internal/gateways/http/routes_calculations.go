package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"notarycalc/internal/export"
	"notarycalc/internal/gateways/http/dto"
	"notarycalc/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func setupCalculations(pub, r *gin.RouterGroup, u UseCases) {
	r.GET("/calculations", func(c *gin.Context) {
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
		f := usecase.CalcFilter{UserID: userID, Limit: limit, Offset: offset}

		clientID, ok := optionalUUID(c.Query("client_id"))
		if !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid client_id"})
			return
		}
		f.ClientID = clientID

		fromStr, toStr := c.Query("from"), c.Query("to")
		if fromStr != "" || toStr != "" {
			var p usecase.Period
			if fromStr != "" {
				t, err := parseDay(fromStr, false)
				if err != nil {
					c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid period: from"})
					return
				}
				p.From = t
			}
			if toStr != "" {
				t, err := parseDay(toStr, true)
				if err != nil {
					c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid period: to"})
					return
				}
				p.To = t
			}
			f.Period = &p
		}

		calcs, err := u.Calculation.ListCalculations(c.Request.Context(), f)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := make([]*dto.Calculation, 0, len(calcs))
		for _, calc := range calcs {
			resp = append(resp, dto.NewCalculation(calc))
		}
		c.JSON(http.StatusOK, resp)
	})

	r.POST("/calculations", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var input dto.CalculationInput
		if !bindJSON(c, &input) {
			return
		}
		created, err := u.Calculation.CreateCalculation(c.Request.Context(), usecase.CalculationDraft{
			UserID:     userID,
			ClientID:   input.ClientID,
			ClientName: input.ClientName,
			Lines:      input.Services.Lines(),
			Notes:      input.Notes,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewCalculation(created))
	})
	allow(pub, "/calculations", "GET,POST,OPTIONS")

	r.GET("/calculations/export", func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var since time.Time
		if s := c.Query("from"); s != "" {
			t, err := parseDay(s, false)
			if err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid period: from"})
				return
			}
			since = t
		}
		format := strings.ToLower(c.DefaultQuery("format", "csv"))
		if format != "csv" && format != "xlsx" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "format must be csv or xlsx"})
			return
		}

		calcs, err := u.Calculation.ExportCalculations(c.Request.Context(), userID, since)
		if err != nil {
			writeError(c, err)
			return
		}

		if format == "xlsx" {
			b, err := export.CalculationsXLSX(calcs)
			if err != nil {
				writeError(c, err)
				return
			}
			attachment(c, fmt.Sprintf("calculations-%s.xlsx", u.now().Format(dateLayout)))
			c.Data(http.StatusOK, xlsxContentType, b)
			return
		}
		writeCSV(c, "calculations", u, func(w *strings.Builder) error {
			return export.WriteCSV(w, calcs, export.CalculationColumns)
		})
	})
	allow(pub, "/calculations/export", "GET,OPTIONS")

	r.GET("/calculations/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		calc, err := u.Calculation.GetCalculation(c.Request.Context(), userID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewCalculation(calc))
	})

	r.DELETE("/calculations/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		deleted, err := u.Calculation.DeleteCalculation(c.Request.Context(), userID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewCalculation(deleted))
	})
	allow(pub, "/calculations/:id", "GET,DELETE,OPTIONS")

	r.GET("/calculations/:id/receipt", func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		calc, err := u.Calculation.GetCalculation(c.Request.Context(), userID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		office, err := u.Profile.GetProfile(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		var buf bytes.Buffer
		if err := export.WriteReceipt(&buf, office, calc); err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	})
	allow(pub, "/calculations/:id/receipt", "GET,OPTIONS")
}

func setupTemplates(pub, r *gin.RouterGroup, u UseCases) {
	r.GET("/templates", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		templates, err := u.Template.ListTemplates(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := make([]*dto.Template, 0, len(templates))
		for _, t := range templates {
			resp = append(resp, dto.NewTemplate(t))
		}
		c.JSON(http.StatusOK, resp)
	})

	r.POST("/templates", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var input dto.TemplateInput
		if !bindJSON(c, &input) {
			return
		}
		created, err := u.Template.CreateTemplate(c.Request.Context(), input.Entity(userID, ""))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewTemplate(created))
	})
	allow(pub, "/templates", "GET,POST,OPTIONS")

	r.GET("/templates/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		t, err := u.Template.GetTemplate(c.Request.Context(), userID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewTemplate(t))
	})

	r.PUT("/templates/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		var input dto.TemplateInput
		if !bindJSON(c, &input) {
			return
		}
		updated, err := u.Template.UpdateTemplate(c.Request.Context(), input.Entity(userID, id))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewTemplate(updated))
	})

	r.DELETE("/templates/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		deleted, err := u.Template.DeleteTemplate(c.Request.Context(), userID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewTemplate(deleted))
	})
	allow(pub, "/templates/:id", "GET,PUT,DELETE,OPTIONS")

	r.POST("/templates/:id/quote", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}
		q, err := u.Template.QuoteTemplate(c.Request.Context(), userID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	})
	allow(pub, "/templates/:id/quote", "POST,OPTIONS")
}
