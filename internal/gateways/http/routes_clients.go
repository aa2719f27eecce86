package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"

	"notarycalc/internal/entity"
	"notarycalc/internal/export"
	"notarycalc/internal/gateways/http/dto"
	"notarycalc/internal/usecase"
)

// exportPageSize is the page used to walk a full client list for export.
const exportPageSize = 200

func setupClients(pub, r *gin.RouterGroup, u UseCases) {
	r.GET("/clients", func(c *gin.Context) {
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
		clients, err := u.Client.ListClients(c.Request.Context(), usecase.ClientFilter{
			UserID: userID,
			Search: strings.TrimSpace(c.Query("search")),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		resp := make([]*dto.Client, 0, len(clients))
		for _, cl := range clients {
			resp = append(resp, dto.NewClient(cl))
		}
		c.JSON(http.StatusOK, resp)
	})

	r.POST("/clients", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var input dto.ClientInput
		if !bindJSON(c, &input) {
			return
		}
		created, err := u.Client.CreateClient(c.Request.Context(), input.Entity(userID, ""))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewClient(created))
	})
	allow(pub, "/clients", "GET,POST,OPTIONS")

	r.GET("/clients/export", func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var all []*entity.Client
		for offset := 0; ; offset += exportPageSize {
			page, err := u.Client.ListClients(c.Request.Context(), usecase.ClientFilter{
				UserID: userID,
				Limit:  exportPageSize,
				Offset: offset,
			})
			if err != nil {
				writeError(c, err)
				return
			}
			all = append(all, page...)
			if len(page) < exportPageSize {
				break
			}
		}
		writeCSV(c, "clients", u, func(w *strings.Builder) error {
			return export.WriteCSV(w, all, export.ClientColumns)
		})
	})
	allow(pub, "/clients/export", "GET,OPTIONS")

	r.GET("/clients/:id", func(c *gin.Context) {
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
		cl, err := u.Client.GetClient(c.Request.Context(), userID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewClient(cl))
	})

	r.PUT("/clients/:id", func(c *gin.Context) {
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
		var input dto.ClientInput
		if !bindJSON(c, &input) {
			return
		}
		updated, err := u.Client.UpdateClient(c.Request.Context(), input.Entity(userID, id))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewClient(updated))
	})

	r.DELETE("/clients/:id", func(c *gin.Context) {
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
		deleted, err := u.Client.DeleteClient(c.Request.Context(), userID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewClient(deleted))
	})
	allow(pub, "/clients/:id", "GET,PUT,DELETE,OPTIONS")
}

// writeCSV renders the whole file before any header is written.
func writeCSV(c *gin.Context, name string, u UseCases, render func(w *strings.Builder) error) {
	var b strings.Builder
	if err := render(&b); err != nil {
		writeError(c, err)
		return
	}
	attachment(c, fmt.Sprintf("%s-%s.csv", name, u.now().Format(dateLayout)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(b.String()))
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}

func optionalUUID(s string) (*strfmt.UUID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if !strfmt.IsUUID(s) {
		return nil, false
	}
	id := strfmt.UUID(strings.ToLower(s))
	return &id, true
}
