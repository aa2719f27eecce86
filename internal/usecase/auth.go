package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/auth"
	"notarycalc/internal/entity"
)

// AuthSettings — session lifetimes, trial length and login throttling
type AuthSettings struct {
	SessionTTL     time.Duration
	ResetTTL       time.Duration
	TrialDays      int
	LoginPerMinute int
	LoginBurst     int
	// BaseURL - web app address used in emailed links
	BaseURL string
}

// SignUpInput — new account request
type SignUpInput struct {
	Email      string
	Password   string
	FullName   string
	Phone      string
	OfficeName string
}

// Session — issued login session
type Session struct {
	Token     string
	ExpiresAt time.Time
	Profile   *entity.Profile
}

// Auth coordinates accounts, sessions and password recovery
type Auth struct {
	Pr       ProfileRepository
	Sessions SessionStore
	Limiter  RateLimiter
	Mailer   Mailer
	Settings AuthSettings
	// Now - clock, replaced in tests
	Now func() time.Time
	log *slog.Logger
}

// NewAuth creates the auth use case; a nil logger falls back to slog.Default
func NewAuth(pr ProfileRepository, sessions SessionStore, limiter RateLimiter, mailer Mailer, settings AuthSettings, log *slog.Logger) *Auth {
	if log == nil {
		log = slog.Default()
	}
	return &Auth{
		Pr:       pr,
		Sessions: sessions,
		Limiter:  limiter,
		Mailer:   mailer,
		Settings: settings,
		Now:      time.Now,
		log:      log,
	}
}

// SignUp creates a trial account and logs it in
func (s *Auth) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if !strfmt.IsEmail(email) {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidProfile)
	}
	if len([]rune(in.Password)) < auth.MinPasswordLen {
		return nil, ErrWeakPassword
	}

	_, err := s.Pr.GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	trialEnd := now.AddDate(0, 0, s.Settings.TrialDays)
	created, err := s.Pr.CreateProfile(ctx, &entity.Profile{
		Email:              email,
		PasswordHash:       hash,
		FullName:           strings.TrimSpace(in.FullName),
		Phone:              strings.TrimSpace(in.Phone),
		OfficeName:         strings.TrimSpace(in.OfficeName),
		SubscriptionStatus: entity.SubscriptionTrial,
		TrialEndDate:       &trialEnd,
		Theme:              entity.Themes[0],
		AccentColor:        entity.AccentColors[0],
	})
	if err != nil {
		return nil, err
	}

	msg, err := welcomeEmail(created, s.Settings.TrialDays, s.Settings.BaseURL)
	if err == nil {
		err = deliver(ctx, s.Mailer, msg)
	}
	if err != nil {
		s.log.Warn("welcome email failed", slog.String("user_id", created.ID.String()), slog.Any("err", err))
	}

	return s.newSession(ctx, created)
}

// Login checks credentials and opens a session
func (s *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := s.throttle(ctx, "login:"+email); err != nil {
		return nil, err
	}

	p, err := s.Pr.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := auth.VerifyPassword(password, p.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return s.newSession(ctx, p)
}

// Logout revokes a session token
func (s *Auth) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Sessions.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its user id
func (s *Auth) Authenticate(ctx context.Context, token string) (strfmt.UUID, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	return s.Sessions.ResolveSession(ctx, token)
}

// ForgotPassword emails a single-use reset link. Unknown emails succeed silently.
func (s *Auth) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.throttle(ctx, "reset:"+email); err != nil {
		return err
	}

	p, err := s.Pr.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := s.Sessions.CreateResetToken(ctx, p.ID, s.Settings.ResetTTL)
	if err != nil {
		return err
	}
	link := s.Settings.BaseURL + "/auth/reset-password?token=" + url.QueryEscape(token)
	msg, err := resetPasswordEmail(p, link, s.Settings.ResetTTL)
	if err != nil {
		return err
	}
	return deliver(ctx, s.Mailer, msg)
}

// ResetPassword consumes a reset token and sets a new password
func (s *Auth) ResetPassword(ctx context.Context, token, password string) error {
	if len([]rune(password)) < auth.MinPasswordLen {
		return ErrWeakPassword
	}
	if token == "" {
		return ErrInvalidResetToken
	}
	userID, err := s.Sessions.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Pr.UpdatePassword(ctx, userID, hash)
}

// ChangePassword replaces the password after verifying the current one
func (s *Auth) ChangePassword(ctx context.Context, userID strfmt.UUID, current, next string) error {
	if len([]rune(next)) < auth.MinPasswordLen {
		return ErrWeakPassword
	}
	p, err := s.Pr.GetProfileByID(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := auth.VerifyPassword(current, p.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.Pr.UpdatePassword(ctx, userID, hash)
}

func (s *Auth) newSession(ctx context.Context, p *entity.Profile) (*Session, error) {
	token, err := s.Sessions.CreateSession(ctx, p.ID, s.Settings.SessionTTL)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: s.Now().UTC().Add(s.Settings.SessionTTL),
		Profile:   p,
	}, nil
}

// throttle applies the login token bucket; limiter outages fail open
func (s *Auth) throttle(ctx context.Context, key string) error {
	if s.Limiter == nil || s.Settings.LoginPerMinute <= 0 {
		return nil
	}
	allowed, err := s.Limiter.Allow(ctx, key, s.Settings.LoginPerMinute, s.Settings.LoginBurst)
	if err != nil {
		s.log.Warn("rate limiter unavailable", slog.String("key", key), slog.Any("err", err))
		return nil
	}
	if !allowed {
		return ErrTooManyAttempts
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
