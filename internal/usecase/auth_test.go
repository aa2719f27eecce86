package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/auth"
	"notarycalc/internal/entity"
)

var testAuthSettings = AuthSettings{
	SessionTTL:     24 * time.Hour,
	ResetTTL:       time.Hour,
	TrialDays:      14,
	LoginPerMinute: 10,
	LoginBurst:     5,
	BaseURL:        "https://app.example.com",
}

type authMocks struct {
	profiles *MockProfileRepository
	sessions *MockSessionStore
	limiter  *MockRateLimiter
	mailer   *MockMailer
}

func newAuth(ctrl *gomock.Controller, now time.Time) (*Auth, authMocks) {
	m := authMocks{
		profiles: NewMockProfileRepository(ctrl),
		sessions: NewMockSessionStore(ctrl),
		limiter:  NewMockRateLimiter(ctrl),
		mailer:   NewMockMailer(ctrl),
	}
	uc := NewAuth(m.profiles, m.sessions, m.limiter, m.mailer, testAuthSettings, nil)
	uc.Now = func() time.Time { return now }
	return uc, m
}

func Test_auth_SignUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)

	t.Run("err, weak password", func(t *testing.T) {
		uc, _ := newAuth(ctrl, now)
		_, err := uc.SignUp(context.Background(), SignUpInput{Email: "a@b.co", Password: "short"})
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("err, malformed email", func(t *testing.T) {
		uc, _ := newAuth(ctrl, now)
		_, err := uc.SignUp(context.Background(), SignUpInput{Email: "nobody", Password: "long enough"})
		assert.ErrorIs(t, err, ErrInvalidProfile)
	})

	t.Run("err, email taken", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, now)
		m.profiles.EXPECT().GetProfileByEmail(ctx, "dana@example.com").Return(&entity.Profile{ID: newID()}, nil)
		m.profiles.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Times(0)

		_, err := uc.SignUp(ctx, SignUpInput{Email: " Dana@Example.com ", Password: "long enough"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("ok, trial profile and session, email failure ignored", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, now)
		id := newID()

		m.profiles.EXPECT().GetProfileByEmail(ctx, "dana@example.com").Return(nil, ErrNotFound)
		m.profiles.EXPECT().CreateProfile(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p *entity.Profile) (*entity.Profile, error) {
				assert.Equal(t, "dana@example.com", p.Email)
				assert.Equal(t, entity.SubscriptionTrial, p.SubscriptionStatus)
				require.NotNil(t, p.TrialEndDate)
				assert.Equal(t, now.AddDate(0, 0, 14), *p.TrialEndDate)
				ok, err := auth.VerifyPassword("long enough", p.PasswordHash)
				require.NoError(t, err)
				assert.True(t, ok)
				p.ID = id
				return p, nil
			})
		m.mailer.EXPECT().Send(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, msg entity.EmailMessage) error {
				assert.Equal(t, EmailWelcome, msg.Kind)
				assert.Equal(t, "dana@example.com", msg.To)
				assert.Contains(t, msg.HTML, "Dana Levi")
				assert.Contains(t, msg.HTML, "14")
				return errors.New("ses down")
			})
		m.sessions.EXPECT().CreateSession(ctx, id, testAuthSettings.SessionTTL).Return("tok", nil)

		got, err := uc.SignUp(ctx, SignUpInput{Email: "dana@example.com", Password: "long enough", FullName: "Dana Levi"})
		require.NoError(t, err)
		assert.Equal(t, "tok", got.Token)
		assert.Equal(t, now.Add(24*time.Hour), got.ExpiresAt)
		assert.Equal(t, id, got.Profile.ID)
	})
}

func Test_auth_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	t.Run("err, rate limited", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, now)
		m.limiter.EXPECT().Allow(ctx, "login:dana@example.com", 10, 5).Return(false, nil)
		m.profiles.EXPECT().GetProfileByEmail(gomock.Any(), gomock.Any()).Times(0)

		_, err := uc.Login(ctx, "dana@example.com", "x")
		assert.ErrorIs(t, err, ErrTooManyAttempts)
	})

	t.Run("err, unknown email", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, now)
		m.limiter.EXPECT().Allow(ctx, gomock.Any(), 10, 5).Return(true, nil)
		m.profiles.EXPECT().GetProfileByEmail(ctx, "ghost@example.com").Return(nil, ErrNotFound)

		_, err := uc.Login(ctx, "ghost@example.com", "x")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("err, wrong password", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, now)
		m.limiter.EXPECT().Allow(ctx, gomock.Any(), 10, 5).Return(true, nil)
		m.profiles.EXPECT().GetProfileByEmail(ctx, "dana@example.com").Return(&entity.Profile{ID: newID(), PasswordHash: hash}, nil)

		_, err := uc.Login(ctx, "dana@example.com", "battery staple")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("ok, limiter outage fails open", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, now)
		id := newID()
		m.limiter.EXPECT().Allow(ctx, gomock.Any(), 10, 5).Return(false, errors.New("redis down"))
		m.profiles.EXPECT().GetProfileByEmail(ctx, "dana@example.com").Return(&entity.Profile{ID: id, PasswordHash: hash}, nil)
		m.sessions.EXPECT().CreateSession(ctx, id, testAuthSettings.SessionTTL).Return("tok", nil)

		got, err := uc.Login(ctx, "Dana@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "tok", got.Token)
	})
}

func Test_auth_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	uc, m := newAuth(ctrl, time.Now())

	_, err := uc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	id := newID()
	m.sessions.EXPECT().ResolveSession(gomock.Any(), "tok").Return(id, nil)
	got, err := uc.Authenticate(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func Test_auth_ForgotPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Now()

	t.Run("ok, unknown email is silent", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, now)
		m.limiter.EXPECT().Allow(ctx, "reset:ghost@example.com", 10, 5).Return(true, nil)
		m.profiles.EXPECT().GetProfileByEmail(ctx, "ghost@example.com").Return(nil, ErrNotFound)
		m.sessions.EXPECT().CreateResetToken(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		m.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

		assert.NoError(t, uc.ForgotPassword(ctx, "ghost@example.com"))
	})

	t.Run("ok, emails reset link", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, now)
		id := newID()
		m.limiter.EXPECT().Allow(ctx, gomock.Any(), 10, 5).Return(true, nil)
		m.profiles.EXPECT().GetProfileByEmail(ctx, "dana@example.com").Return(&entity.Profile{ID: id, Email: "dana@example.com"}, nil)
		m.sessions.EXPECT().CreateResetToken(ctx, id, time.Hour).Return("reset-tok", nil)
		m.mailer.EXPECT().Send(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, msg entity.EmailMessage) error {
				assert.Equal(t, EmailResetPassword, msg.Kind)
				assert.True(t, strings.Contains(msg.HTML, "https://app.example.com/auth/reset-password?token=reset-tok"))
				assert.Contains(t, msg.HTML, "60")
				return nil
			})

		assert.NoError(t, uc.ForgotPassword(ctx, "dana@example.com"))
	})
}

func Test_auth_ResetPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("err, token consumed", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, time.Now())
		m.sessions.EXPECT().ConsumeResetToken(ctx, "tok").Return(strfmt.UUID(""), ErrInvalidResetToken)
		m.profiles.EXPECT().UpdatePassword(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		assert.ErrorIs(t, uc.ResetPassword(ctx, "tok", "brand new pass"), ErrInvalidResetToken)
	})

	t.Run("ok", func(t *testing.T) {
		ctx := context.Background()
		uc, m := newAuth(ctrl, time.Now())
		id := newID()
		m.sessions.EXPECT().ConsumeResetToken(ctx, "tok").Return(id, nil)
		m.profiles.EXPECT().UpdatePassword(ctx, id, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, hash string) error {
				ok, err := auth.VerifyPassword("brand new pass", hash)
				require.NoError(t, err)
				assert.True(t, ok)
				return nil
			})

		assert.NoError(t, uc.ResetPassword(ctx, "tok", "brand new pass"))
	})
}

func Test_auth_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, err := auth.HashPassword("old password")
	require.NoError(t, err)

	ctx := context.Background()
	uc, m := newAuth(ctrl, time.Now())
	id := newID()
	m.profiles.EXPECT().GetProfileByID(ctx, id).Return(&entity.Profile{ID: id, PasswordHash: hash}, nil).Times(2)
	m.profiles.EXPECT().UpdatePassword(ctx, id, gomock.Any()).Return(nil).Times(1)

	assert.ErrorIs(t, uc.ChangePassword(ctx, id, "wrong password", "new password"), ErrInvalidCredentials)
	assert.NoError(t, uc.ChangePassword(ctx, id, "old password", "new password"))
	assert.ErrorIs(t, uc.ChangePassword(ctx, id, "old password", "short"), ErrWeakPassword)
}
