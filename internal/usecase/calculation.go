package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
	"notarycalc/internal/metrics"
)

// CalculationDraft — input for a stored calculation; prices are always computed server-side
type CalculationDraft struct {
	UserID strfmt.UUID
	// ClientID - optional owned client; its name is copied onto the calculation
	ClientID *strfmt.UUID
	// ClientName - free-text name used when no client is linked
	ClientName string
	Lines      []fees.Line
	Notes      string
}

// CalcStats — calculation counters for the dashboard
type CalcStats struct {
	Total        int64      `json:"total"`
	ThisMonth    int64      `json:"this_month"`
	Revenue      fees.Money `json:"revenue"`
	MonthRevenue fees.Money `json:"month_revenue"`
}

// Calculation coordinates fee quotes and calculation history
type Calculation struct {
	Cr  CalculationRepository
	Clr ClientRepository
}

// NewCalculation creates a use case service with the given repositories
func NewCalculation(cr CalculationRepository, clr ClientRepository) *Calculation {
	return &Calculation{
		Cr:  cr,
		Clr: clr,
	}
}

// Quote prices lines without storing anything
func (s *Calculation) Quote(lines []fees.Line) (*fees.Quote, error) {
	q, err := fees.Calculate(lines)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCalculation, err)
	}
	return q, nil
}

// CreateCalculation prices the draft and stores it in the owner's history
func (s *Calculation) CreateCalculation(ctx context.Context, d CalculationDraft) (*entity.Calculation, error) {
	if !validID(d.UserID) {
		return nil, fmt.Errorf("%w: empty user_id", ErrInvalidCalculation)
	}
	q, err := s.Quote(d.Lines)
	if err != nil {
		return nil, err
	}

	calc := &entity.Calculation{
		UserID:     d.UserID,
		ClientName: strings.TrimSpace(d.ClientName),
		Services:   q.Lines,
		Subtotal:   q.Subtotal,
		VAT:        q.VAT,
		Total:      q.Total,
		Notes:      strings.TrimSpace(d.Notes),
	}

	if d.ClientID != nil && *d.ClientID != "" {
		if !validID(*d.ClientID) {
			return nil, fmt.Errorf("%w: client_id", ErrInvalidID)
		}
		client, err := s.Clr.GetClientByID(ctx, d.UserID, *d.ClientID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown client", ErrInvalidCalculation)
			}
			return nil, err
		}
		id := client.ID
		calc.ClientID = &id
		calc.ClientName = client.Name
	}

	created, err := s.Cr.SaveCalculation(ctx, calc)
	if err != nil {
		return nil, err
	}
	metrics.CalculationsCreated.Inc()
	return created, nil
}

// GetCalculation fetches an owned calculation by id
func (s *Calculation) GetCalculation(ctx context.Context, userID, id strfmt.UUID) (*entity.Calculation, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	return s.Cr.GetCalculationByID(ctx, userID, id)
}

// DeleteCalculation removes an owned calculation and returns the previously stored record
func (s *Calculation) DeleteCalculation(ctx context.Context, userID, id strfmt.UUID) (*entity.Calculation, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	existing, err := s.Cr.GetCalculationByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.Cr.DeleteCalculation(ctx, userID, id); err != nil {
		return nil, err
	}
	return existing, nil
}

// ListCalculations normalizes the filter and returns matching calculations, newest first
func (s *Calculation) ListCalculations(ctx context.Context, f CalcFilter) ([]*entity.Calculation, error) {
	nf, err := normalizeCalcFilter(f)
	if err != nil {
		return nil, err
	}
	return s.Cr.ListCalculations(ctx, nf)
}

// ExportCalculations returns every calculation in the period, newest first, for file export
func (s *Calculation) ExportCalculations(ctx context.Context, userID strfmt.UUID, since time.Time) ([]*entity.Calculation, error) {
	if !validID(userID) {
		return nil, ErrUnauthorized
	}
	return s.Cr.CalculationsSince(ctx, userID, since)
}

// Stats returns all-time and current-month totals
func (s *Calculation) Stats(ctx context.Context, userID strfmt.UUID, now time.Time) (*CalcStats, error) {
	if !validID(userID) {
		return nil, ErrUnauthorized
	}
	all, err := s.Cr.SumCalculations(ctx, CalcFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	month, err := s.Cr.SumCalculations(ctx, CalcFilter{
		UserID: userID,
		Period: &Period{From: monthStart(now)},
	})
	if err != nil {
		return nil, err
	}
	return &CalcStats{
		Total:        all.Count,
		ThisMonth:    month.Count,
		Revenue:      all.Total,
		MonthRevenue: month.Total,
	}, nil
}

// monthStart truncates a time to the first day of its month in UTC
func monthStart(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// normalizeCalcFilter validates owner, period and pagination
func normalizeCalcFilter(f CalcFilter) (CalcFilter, error) {
	if !validID(f.UserID) {
		return f, ErrUnauthorized
	}
	if f.ClientID != nil && *f.ClientID != "" && !validID(*f.ClientID) {
		return f, fmt.Errorf("%w: client_id", ErrInvalidID)
	}
	if f.Period != nil {
		if f.Period.From.IsZero() && f.Period.To.IsZero() {
			f.Period = nil
		} else if !f.Period.From.IsZero() && !f.Period.To.IsZero() && f.Period.To.Before(f.Period.From) {
			return f, fmt.Errorf("%w: to < from", ErrInvalidPeriod)
		}
	}
	limit, offset, err := normalizePage(f.Limit, f.Offset)
	if err != nil {
		return f, err
	}
	f.Limit, f.Offset = limit, offset
	return f, nil
}
