package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

func Test_profile_UpdateSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("err, unknown theme", func(t *testing.T) {
		ctx := context.Background()
		profiles := NewMockProfileRepository(ctrl)
		id := newID()
		profiles.EXPECT().GetProfileByID(ctx, id).Return(&entity.Profile{ID: id, Theme: "light", AccentColor: "blue"}, nil)
		profiles.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).Times(0)

		_, err := NewProfile(profiles, nil, nil).UpdateSettings(ctx, id, ProfileSettings{Theme: "solarized"})
		assert.ErrorIs(t, err, ErrInvalidProfile)
	})

	t.Run("err, unknown accent", func(t *testing.T) {
		ctx := context.Background()
		profiles := NewMockProfileRepository(ctrl)
		id := newID()
		profiles.EXPECT().GetProfileByID(ctx, id).Return(&entity.Profile{ID: id, Theme: "light", AccentColor: "blue"}, nil)

		_, err := NewProfile(profiles, nil, nil).UpdateSettings(ctx, id, ProfileSettings{AccentColor: "pink"})
		assert.ErrorIs(t, err, ErrInvalidProfile)
	})

	t.Run("ok, keeps theme when omitted", func(t *testing.T) {
		ctx := context.Background()
		profiles := NewMockProfileRepository(ctrl)
		id := newID()
		stored := &entity.Profile{ID: id, Theme: "dark", AccentColor: "green"}
		profiles.EXPECT().GetProfileByID(ctx, id).Return(stored, nil).Times(2)
		profiles.EXPECT().UpdateProfile(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p *entity.Profile) error {
				assert.Equal(t, "dark", p.Theme)
				assert.Equal(t, "purple", p.AccentColor)
				assert.Equal(t, "Levi Notary Office", p.OfficeName)
				return nil
			})

		got, err := NewProfile(profiles, nil, nil).UpdateSettings(ctx, id, ProfileSettings{
			OfficeName:  " Levi Notary Office ",
			AccentColor: "purple",
		})
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})
}

func Test_profile_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	now := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)
	trialEnd := now.Add(36 * time.Hour)
	id := newID()

	profiles := NewMockProfileRepository(ctrl)
	clients := NewMockClientRepository(ctrl)
	calcs := NewMockCalculationRepository(ctrl)

	profiles.EXPECT().GetProfileByID(ctx, id).Return(&entity.Profile{
		ID:                 id,
		SubscriptionStatus: entity.SubscriptionTrial,
		TrialEndDate:       &trialEnd,
	}, nil)
	clients.EXPECT().CountClients(ctx, id).Return(int64(12), nil)
	calcs.EXPECT().SumCalculations(ctx, gomock.Any()).Return(CalcTotals{Count: 4, Total: fees.Shekels(1000)}, nil).Times(2)

	got, err := NewProfile(profiles, clients, calcs).Dashboard(ctx, id, now)
	require.NoError(t, err)
	assert.True(t, got.HasAccess)
	assert.Equal(t, 2, got.TrialDaysLeft)
	assert.Equal(t, int64(12), got.Clients)
	assert.Equal(t, int64(4), got.Calculations.Total)
}
