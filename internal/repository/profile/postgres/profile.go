package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"notarycalc/internal/entity"
	"notarycalc/internal/usecase"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, email, password_hash, full_name, phone,
	office_name, office_address, office_phone, office_logo_url,
	subscription_status, subscription_start_date, subscription_end_date,
	trial_end_date, trial_notice_sent_at, COALESCE(stripe_customer_id, ''),
	theme, accent_color, created_at, updated_at`

func (r *ProfileRepository) CreateProfile(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	if p == nil {
		return nil, fmt.Errorf("create profile: %w", usecase.ErrInvalidProfile)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (email, password_hash, full_name, phone,
			office_name, office_address, office_phone, office_logo_url,
			subscription_status, trial_end_date, theme, accent_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+profileColumns,
		p.Email, p.PasswordHash, p.FullName, p.Phone,
		p.OfficeName, p.OfficeAddress, p.OfficePhone, p.OfficeLogoURL,
		string(p.SubscriptionStatus), p.TrialEndDate, p.Theme, p.AccentColor,
	)
	out, err := scanProfile(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, usecase.ErrEmailTaken
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return out, nil
}

func (r *ProfileRepository) GetProfileByID(ctx context.Context, id strfmt.UUID) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id.String())
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, fmt.Errorf("get profile by id=%s: %w", id, err)
	}
	return p, nil
}

func (r *ProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usecase.ErrNotFound
		}
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) UpdateProfile(ctx context.Context, p *entity.Profile) error {
	if p == nil {
		return fmt.Errorf("update profile: %w", usecase.ErrInvalidProfile)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles SET
			full_name = $2, phone = $3,
			office_name = $4, office_address = $5, office_phone = $6, office_logo_url = $7,
			theme = $8, accent_color = $9, updated_at = NOW()
		WHERE id = $1`,
		p.ID.String(), p.FullName, p.Phone,
		p.OfficeName, p.OfficeAddress, p.OfficePhone, p.OfficeLogoURL,
		p.Theme, p.AccentColor,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) UpdatePassword(ctx context.Context, id strfmt.UUID, hash string) error {
	return r.exec(ctx, "update password",
		`UPDATE profiles SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id.String(), hash)
}

func (r *ProfileRepository) SetCustomerID(ctx context.Context, id strfmt.UUID, customerID string) error {
	return r.exec(ctx, "set customer id",
		`UPDATE profiles SET stripe_customer_id = $2, updated_at = NOW() WHERE id = $1`, id.String(), customerID)
}

func (r *ProfileRepository) UpdateSubscription(ctx context.Context, id strfmt.UUID, u usecase.SubscriptionUpdate) error {
	var status *string
	if u.Status != "" {
		s := string(u.Status)
		status = &s
	}
	return r.exec(ctx, "update subscription", `
		UPDATE profiles SET
			subscription_status = COALESCE($2, subscription_status),
			subscription_start_date = COALESCE($3, subscription_start_date),
			subscription_end_date = COALESCE($4, subscription_end_date),
			stripe_customer_id = COALESCE(NULLIF($5, ''), stripe_customer_id),
			updated_at = NOW()
		WHERE id = $1`,
		id.String(), status, u.StartDate, u.EndDate, u.CustomerID,
	)
}

func (r *ProfileRepository) ListTrialsEnding(ctx context.Context, from, to time.Time) ([]*entity.Profile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+` FROM profiles
		WHERE subscription_status = 'trial'
			AND trial_end_date BETWEEN $1 AND $2
			AND trial_notice_sent_at IS NULL
		ORDER BY trial_end_date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list trials ending: %w", err)
	}
	defer rows.Close()

	var out []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("list trials ending: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trials ending: %w", err)
	}
	return out, nil
}

func (r *ProfileRepository) MarkTrialNoticeSent(ctx context.Context, id strfmt.UUID, at time.Time) error {
	return r.exec(ctx, "mark trial notice",
		`UPDATE profiles SET trial_notice_sent_at = $2 WHERE id = $1`, id.String(), at)
}

func (r *ProfileRepository) exec(ctx context.Context, op, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var (
		p      entity.Profile
		id     string
		status string
	)
	err := row.Scan(
		&id, &p.Email, &p.PasswordHash, &p.FullName, &p.Phone,
		&p.OfficeName, &p.OfficeAddress, &p.OfficePhone, &p.OfficeLogoURL,
		&status, &p.SubscriptionStartDate, &p.SubscriptionEndDate,
		&p.TrialEndDate, &p.TrialNoticeSentAt, &p.StripeCustomerID,
		&p.Theme, &p.AccentColor, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID = strfmt.UUID(id)
	p.SubscriptionStatus = entity.SubscriptionStatus(status)
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
