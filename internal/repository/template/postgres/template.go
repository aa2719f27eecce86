package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notarycalc/internal/entity"
	"notarycalc/internal/usecase"
)

type TemplateRepository struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

const templateColumns = `id, user_id, name, description, services, created_at`

func (r *TemplateRepository) SaveTemplate(ctx context.Context, t *entity.Template) (*entity.Template, error) {
	if t == nil {
		return nil, fmt.Errorf("save template: %w", usecase.ErrInvalidTemplate)
	}
	services, err := json.Marshal(t.Services)
	if err != nil {
		return nil, fmt.Errorf("save template: encode services: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO templates (user_id, name, description, services)
		VALUES ($1, $2, $3, $4)
		RETURNING `+templateColumns,
		t.UserID.String(), t.Name, t.Description, services,
	)
	out, err := scanTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return out, nil
}

func (r *TemplateRepository) UpdateTemplate(ctx context.Context, t *entity.Template) error {
	if t == nil {
		return fmt.Errorf("update template: %w", usecase.ErrInvalidTemplate)
	}
	services, err := json.Marshal(t.Services)
	if err != nil {
		return fmt.Errorf("update template: encode services: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE templates SET name = $3, description = $4, services = $5
		WHERE id = $1 AND user_id = $2`,
		t.ID.String(), t.UserID.String(), t.Name, t.Description, services,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *TemplateRepository) DeleteTemplate(ctx context.Context, userID, id strfmt.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1 AND user_id = $2`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *TemplateRepository) GetTemplateByID(ctx context.Context, userID, id strfmt.UUID) (*entity.Template, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1 AND user_id = $2`,
		id.String(), userID.String())
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, fmt.Errorf("get template by id=%s: %w", id, err)
	}
	return t, nil
}

func (r *TemplateRepository) ListTemplates(ctx context.Context, userID strfmt.UUID) ([]*entity.Template, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+templateColumns+` FROM templates
		WHERE user_id = $1
		ORDER BY name, created_at`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("list templates: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

func scanTemplate(row pgx.Row) (*entity.Template, error) {
	var (
		t          entity.Template
		id, userID string
		services   []byte
	)
	if err := row.Scan(&id, &userID, &t.Name, &t.Description, &services, &t.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(services, &t.Services); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	t.ID = strfmt.UUID(id)
	t.UserID = strfmt.UUID(userID)
	return &t, nil
}
