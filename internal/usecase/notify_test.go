package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/entity"
)

func Test_notifier_NotifyTrialsEnding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)

	t.Run("err, non-positive window", func(t *testing.T) {
		n := NewNotifier(NewMockProfileRepository(ctrl), NewMockMailer(ctrl), "", nil)
		_, err := n.NotifyTrialsEnding(context.Background(), now, 0)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("ok, sends once per profile and stamps", func(t *testing.T) {
		ctx := context.Background()
		profiles := NewMockProfileRepository(ctrl)
		mailer := NewMockMailer(ctrl)

		end1 := now.Add(30 * time.Hour)
		end2 := now.Add(60 * time.Hour)
		p1 := &entity.Profile{ID: newID(), Email: "a@example.com", FullName: "A", SubscriptionStatus: entity.SubscriptionTrial, TrialEndDate: &end1}
		p2 := &entity.Profile{ID: newID(), Email: "b@example.com", SubscriptionStatus: entity.SubscriptionTrial, TrialEndDate: &end2}

		profiles.EXPECT().ListTrialsEnding(ctx, now, now.Add(72*time.Hour)).Return([]*entity.Profile{p1, p2}, nil)
		mailer.EXPECT().Send(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, msg entity.EmailMessage) error {
				assert.Equal(t, EmailTrialEnding, msg.Kind)
				if msg.To == "a@example.com" {
					assert.Contains(t, msg.HTML, "בעוד 2 ימים")
					return nil
				}
				return errors.New("bounced")
			}).Times(2)
		profiles.EXPECT().MarkTrialNoticeSent(ctx, p1.ID, now).Return(nil)

		n := NewNotifier(profiles, mailer, "https://app.example.com", nil)
		sent, err := n.NotifyTrialsEnding(ctx, now, 72*time.Hour)
		require.Error(t, err)
		assert.Equal(t, 1, sent)
	})
}

func TestRenderEmails(t *testing.T) {
	p := &entity.Profile{Email: "dana@example.com", FullName: "<b>Dana</b>", OfficeName: "Levi & Co"}

	msg, err := welcomeEmail(p, 14, "https://app.example.com")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", msg.To)
	assert.Contains(t, msg.HTML, `dir="rtl"`)
	assert.Contains(t, msg.HTML, "&lt;b&gt;Dana&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "Levi &amp; Co")
	assert.Contains(t, msg.HTML, "https://app.example.com/dashboard")

	msg, err = trialEndingEmail(&entity.Profile{Email: "x@example.com"}, 3, "")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "x@example.com")
	assert.Equal(t, EmailTrialEnding, msg.Kind)
}
