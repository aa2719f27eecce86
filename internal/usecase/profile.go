package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/entity"
)

// ProfileSettings — user editable part of a profile
type ProfileSettings struct {
	FullName      string
	Phone         string
	OfficeName    string
	OfficeAddress string
	OfficePhone   string
	OfficeLogoURL string
	Theme         string
	AccentColor   string
}

// Dashboard — landing page summary
type Dashboard struct {
	SubscriptionStatus entity.SubscriptionStatus `json:"subscription_status"`
	HasAccess          bool                      `json:"has_access"`
	TrialDaysLeft      int                       `json:"trial_days_left"`
	Clients            int64                     `json:"clients"`
	Calculations       CalcStats                 `json:"calculations"`
}

// Profile coordinates account settings and the dashboard
type Profile struct {
	Pr  ProfileRepository
	Clr ClientRepository
	Cr  CalculationRepository
}

// NewProfile creates a use case service with the given repositories
func NewProfile(pr ProfileRepository, clr ClientRepository, cr CalculationRepository) *Profile {
	return &Profile{Pr: pr, Clr: clr, Cr: cr}
}

func (s *Profile) GetProfile(ctx context.Context, userID strfmt.UUID) (*entity.Profile, error) {
	if !validID(userID) {
		return nil, ErrUnauthorized
	}
	return s.Pr.GetProfileByID(ctx, userID)
}

// UpdateSettings validates and stores personal and office settings, returning the fresh copy
func (s *Profile) UpdateSettings(ctx context.Context, userID strfmt.UUID, in ProfileSettings) (*entity.Profile, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	in.Theme = strings.TrimSpace(in.Theme)
	if in.Theme == "" {
		in.Theme = p.Theme
	}
	if !slices.Contains(entity.Themes, in.Theme) {
		return nil, fmt.Errorf("%w: unknown theme %q", ErrInvalidProfile, in.Theme)
	}
	in.AccentColor = strings.TrimSpace(in.AccentColor)
	if in.AccentColor == "" {
		in.AccentColor = p.AccentColor
	}
	if !slices.Contains(entity.AccentColors, in.AccentColor) {
		return nil, fmt.Errorf("%w: unknown accent color %q", ErrInvalidProfile, in.AccentColor)
	}
	logo := strings.TrimSpace(in.OfficeLogoURL)
	if logo != "" && !strfmt.Default.Validates("uri", logo) {
		return nil, fmt.Errorf("%w: malformed office_logo_url", ErrInvalidProfile)
	}

	p.FullName = strings.TrimSpace(in.FullName)
	p.Phone = strings.TrimSpace(in.Phone)
	p.OfficeName = strings.TrimSpace(in.OfficeName)
	p.OfficeAddress = strings.TrimSpace(in.OfficeAddress)
	p.OfficePhone = strings.TrimSpace(in.OfficePhone)
	p.OfficeLogoURL = logo
	p.Theme = in.Theme
	p.AccentColor = in.AccentColor

	if err := s.Pr.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return s.Pr.GetProfileByID(ctx, userID)
}

// Dashboard collects subscription state and counters
func (s *Profile) Dashboard(ctx context.Context, userID strfmt.UUID, now time.Time) (*Dashboard, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	clients, err := s.Clr.CountClients(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := NewCalculation(s.Cr, s.Clr).Stats(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		SubscriptionStatus: p.SubscriptionStatus,
		HasAccess:          p.HasAccess(now),
		TrialDaysLeft:      p.TrialDaysLeft(now),
		Clients:            clients,
		Calculations:       *stats,
	}, nil
}
