package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
	"notarycalc/internal/usecase"
)

type CalculationRepository struct {
	pool *pgxpool.Pool
}

const defaultListLimit = 50

func NewCalculationRepository(pool *pgxpool.Pool) *CalculationRepository {
	return &CalculationRepository{pool: pool}
}

const calculationColumns = `id, user_id, client_id, client_name, services,
	subtotal, vat, total, notes, created_at, updated_at`

const calculationFilter = `user_id = $1
	AND ($2::uuid IS NULL OR client_id = $2)
	AND ($3::timestamptz IS NULL OR created_at >= $3)
	AND ($4::timestamptz IS NULL OR created_at <= $4)`

func (r *CalculationRepository) SaveCalculation(ctx context.Context, c *entity.Calculation) (*entity.Calculation, error) {
	if c == nil {
		return nil, fmt.Errorf("save calculation: %w", usecase.ErrInvalidCalculation)
	}
	services, err := json.Marshal(c.Services)
	if err != nil {
		return nil, fmt.Errorf("save calculation: encode services: %w", err)
	}
	var clientID *string
	if c.ClientID != nil && *c.ClientID != "" {
		s := c.ClientID.String()
		clientID = &s
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO calculations (user_id, client_id, client_name, services, subtotal, vat, total, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+calculationColumns,
		c.UserID.String(), clientID, c.ClientName, services,
		int64(c.Subtotal), int64(c.VAT), int64(c.Total), c.Notes,
	)
	out, err := scanCalculation(row)
	if err != nil {
		return nil, fmt.Errorf("save calculation: %w", err)
	}
	return out, nil
}

func (r *CalculationRepository) DeleteCalculation(ctx context.Context, userID, id strfmt.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calculations WHERE id = $1 AND user_id = $2`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("delete calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *CalculationRepository) GetCalculationByID(ctx context.Context, userID, id strfmt.UUID) (*entity.Calculation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+calculationColumns+` FROM calculations WHERE id = $1 AND user_id = $2`,
		id.String(), userID.String())
	c, err := scanCalculation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, fmt.Errorf("get calculation by id=%s: %w", id, err)
	}
	return c, nil
}

func (r *CalculationRepository) ListCalculations(ctx context.Context, f usecase.CalcFilter) ([]*entity.Calculation, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	args := append(filterArgs(f), limit, offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+calculationColumns+` FROM calculations
		WHERE `+calculationFilter+`
		ORDER BY created_at DESC, id
		LIMIT $5 OFFSET $6`, args...)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	out, err := collectCalculations(rows)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	return out, nil
}

func (r *CalculationRepository) CalculationsSince(ctx context.Context, userID strfmt.UUID, since time.Time) ([]*entity.Calculation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+calculationColumns+` FROM calculations
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC, id`, userID.String(), since)
	if err != nil {
		return nil, fmt.Errorf("calculations since: %w", err)
	}
	out, err := collectCalculations(rows)
	if err != nil {
		return nil, fmt.Errorf("calculations since: %w", err)
	}
	return out, nil
}

func (r *CalculationRepository) SumCalculations(ctx context.Context, f usecase.CalcFilter) (usecase.CalcTotals, error) {
	var (
		count int64
		total int64
	)
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0)::bigint FROM calculations
		WHERE `+calculationFilter, filterArgs(f)...).Scan(&count, &total)
	if err != nil {
		return usecase.CalcTotals{}, fmt.Errorf("sum calculations: %w", err)
	}
	return usecase.CalcTotals{Count: count, Total: fees.Money(total)}, nil
}

func filterArgs(f usecase.CalcFilter) []any {
	var (
		clientID *string
		from, to *time.Time
	)
	if f.ClientID != nil && *f.ClientID != "" {
		s := f.ClientID.String()
		clientID = &s
	}
	if f.Period != nil {
		if !f.Period.From.IsZero() {
			v := f.Period.From
			from = &v
		}
		if !f.Period.To.IsZero() {
			v := f.Period.To
			to = &v
		}
	}
	return []any{f.UserID.String(), clientID, from, to}
}

func collectCalculations(rows pgx.Rows) ([]*entity.Calculation, error) {
	defer rows.Close()
	out := make([]*entity.Calculation, 0)
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCalculation(row pgx.Row) (*entity.Calculation, error) {
	var (
		c                    entity.Calculation
		id, userID           string
		clientID             *string
		services             []byte
		subtotal, vat, total int64
	)
	err := row.Scan(&id, &userID, &clientID, &c.ClientName, &services,
		&subtotal, &vat, &total, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(services, &c.Services); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	c.ID = strfmt.UUID(id)
	c.UserID = strfmt.UUID(userID)
	if clientID != nil {
		cid := strfmt.UUID(*clientID)
		c.ClientID = &cid
	}
	c.Subtotal, c.VAT, c.Total = fees.Money(subtotal), fees.Money(vat), fees.Money(total)
	return &c, nil
}
