package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notarycalc/internal/entity"
	"notarycalc/internal/usecase"
)

type ClientRepository struct {
	pool *pgxpool.Pool
}

const defaultListLimit = 50

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = `id, user_id, name, id_number, phone, email, address, notes, created_at, updated_at`

func (r *ClientRepository) SaveClient(ctx context.Context, c *entity.Client) (*entity.Client, error) {
	if c == nil {
		return nil, fmt.Errorf("save client: %w", usecase.ErrInvalidClient)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (user_id, name, id_number, phone, email, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+clientColumns,
		c.UserID.String(), c.Name, c.IDNumber, c.Phone, c.Email, c.Address, c.Notes,
	)
	out, err := scanClient(row)
	if err != nil {
		return nil, fmt.Errorf("save client: %w", err)
	}
	return out, nil
}

func (r *ClientRepository) UpdateClient(ctx context.Context, c *entity.Client) error {
	if c == nil {
		return fmt.Errorf("update client: %w", usecase.ErrInvalidClient)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE clients SET
			name = $3, id_number = $4, phone = $5, email = $6, address = $7, notes = $8,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2`,
		c.ID.String(), c.UserID.String(), c.Name, c.IDNumber, c.Phone, c.Email, c.Address, c.Notes,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *ClientRepository) DeleteClient(ctx context.Context, userID, id strfmt.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND user_id = $2`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *ClientRepository) GetClientByID(ctx context.Context, userID, id strfmt.UUID) (*entity.Client, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1 AND user_id = $2`,
		id.String(), userID.String())
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, fmt.Errorf("get client by id=%s: %w", id, err)
	}
	return c, nil
}

func (r *ClientRepository) ListClients(ctx context.Context, f usecase.ClientFilter) ([]*entity.Client, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var search *string
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		search = &pattern
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE user_id = $1
			AND ($2::text IS NULL
				OR name ILIKE $2 OR id_number ILIKE $2 OR phone ILIKE $2 OR email ILIKE $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`,
		f.UserID.String(), search, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("list clients: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return out, nil
}

func (r *ClientRepository) CountClients(ctx context.Context, userID strfmt.UUID) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE user_id = $1`, userID.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var (
		c          entity.Client
		id, userID string
	)
	err := row.Scan(&id, &userID, &c.Name, &c.IDNumber, &c.Phone, &c.Email, &c.Address, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = strfmt.UUID(id)
	c.UserID = strfmt.UUID(userID)
	return &c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
