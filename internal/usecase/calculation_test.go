package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

func Test_calculation_Quote(t *testing.T) {
	uc := NewCalculation(nil, nil)

	t.Run("err, unknown service", func(t *testing.T) {
		_, err := uc.Quote([]fees.Line{{Type: "stamp"}})
		assert.ErrorIs(t, err, ErrInvalidCalculation)
		assert.ErrorIs(t, err, fees.ErrUnknownService)
	})

	t.Run("ok", func(t *testing.T) {
		q, err := uc.Quote([]fees.Line{{Type: fees.Translation, Words: 1500}})
		require.NoError(t, err)
		assert.Equal(t, fees.Shekels(2462), q.Subtotal)
	})
}

func Test_calculation_CreateCalculation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("err, no services", func(t *testing.T) {
		repo := NewMockCalculationRepository(ctrl)
		repo.EXPECT().SaveCalculation(gomock.Any(), gomock.Any()).Times(0)

		uc := NewCalculation(repo, NewMockClientRepository(ctrl))

		_, err := uc.CreateCalculation(context.Background(), CalculationDraft{UserID: newID()})
		assert.ErrorIs(t, err, ErrInvalidCalculation)
		assert.ErrorIs(t, err, fees.ErrNoServices)
	})

	t.Run("err, client of another tenant", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		repo := NewMockCalculationRepository(ctrl)
		clients := NewMockClientRepository(ctrl)
		user, client := newID(), newID()
		clients.EXPECT().GetClientByID(ctx, user, client).Return(nil, ErrNotFound)
		repo.EXPECT().SaveCalculation(gomock.Any(), gomock.Any()).Times(0)

		uc := NewCalculation(repo, clients)

		_, err := uc.CreateCalculation(ctx, CalculationDraft{
			UserID:   user,
			ClientID: &client,
			Lines:    []fees.Line{{Type: fees.Signature}},
		})
		assert.ErrorIs(t, err, ErrInvalidCalculation)
	})

	t.Run("ok, priced server side with client snapshot", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		repo := NewMockCalculationRepository(ctrl)
		clients := NewMockClientRepository(ctrl)
		user, client, id := newID(), newID(), newID()

		clients.EXPECT().GetClientByID(ctx, user, client).Return(&entity.Client{ID: client, UserID: user, Name: "Yossi Cohen"}, nil)
		repo.EXPECT().SaveCalculation(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, c *entity.Calculation) (*entity.Calculation, error) {
				assert.Equal(t, "Yossi Cohen", c.ClientName)
				require.NotNil(t, c.ClientID)
				assert.Equal(t, client, *c.ClientID)
				assert.Len(t, c.Services, 2)
				c.ID = id
				return c, nil
			})

		uc := NewCalculation(repo, clients)

		got, err := uc.CreateCalculation(ctx, CalculationDraft{
			UserID:     user,
			ClientID:   &client,
			ClientName: "ignored",
			Lines: []fees.Line{
				{Type: fees.Signature, SubType: "first"},
				{Type: fees.Photocopy, Pages: 3, Copies: 2},
			},
			Notes: " urgent ",
		})
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, fees.Shekels(346), got.Subtotal)
		assert.Equal(t, fees.Money(6228), got.VAT)
		assert.Equal(t, fees.Money(40828), got.Total)
		assert.Equal(t, "urgent", got.Notes)
	})

	t.Run("ok, free text client", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		repo := NewMockCalculationRepository(ctrl)
		repo.EXPECT().SaveCalculation(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, c *entity.Calculation) (*entity.Calculation, error) {
				assert.Nil(t, c.ClientID)
				return c, nil
			})

		uc := NewCalculation(repo, NewMockClientRepository(ctrl))

		got, err := uc.CreateCalculation(ctx, CalculationDraft{
			UserID:     newID(),
			ClientName: " Walk-in ",
			Lines:      []fees.Line{{Type: fees.Alive}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Walk-in", got.ClientName)
	})
}

func Test_calculation_ListCalculations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("err, inverted period", func(t *testing.T) {
		uc := NewCalculation(NewMockCalculationRepository(ctrl), nil)

		from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
		_, err := uc.ListCalculations(context.Background(), CalcFilter{
			UserID: newID(),
			Period: &Period{From: from, To: from.AddDate(0, -1, 0)},
		})
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("err, malformed client id", func(t *testing.T) {
		uc := NewCalculation(NewMockCalculationRepository(ctrl), nil)

		bad := strfmt.UUID("x")
		_, err := uc.ListCalculations(context.Background(), CalcFilter{UserID: newID(), ClientID: &bad})
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("ok, empty period dropped", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		repo := NewMockCalculationRepository(ctrl)
		user := newID()
		repo.EXPECT().ListCalculations(ctx, CalcFilter{UserID: user, Limit: defaultListLimit}).Return([]*entity.Calculation{{ID: newID()}}, nil)

		uc := NewCalculation(repo, nil)

		got, err := uc.ListCalculations(ctx, CalcFilter{UserID: user, Period: &Period{}})
		assert.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func Test_calculation_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := NewMockCalculationRepository(ctrl)
	user := newID()
	now := time.Date(2025, 8, 17, 10, 0, 0, 0, time.UTC)

	repo.EXPECT().SumCalculations(ctx, CalcFilter{UserID: user}).Return(CalcTotals{Count: 10, Total: fees.Shekels(5000)}, nil)
	repo.EXPECT().SumCalculations(ctx, CalcFilter{
		UserID: user,
		Period: &Period{From: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
	}).Return(CalcTotals{Count: 2, Total: fees.Shekels(700)}, nil)

	uc := NewCalculation(repo, nil)

	got, err := uc.Stats(ctx, user, now)
	require.NoError(t, err)
	assert.Equal(t, &CalcStats{Total: 10, ThisMonth: 2, Revenue: fees.Shekels(5000), MonthRevenue: fees.Shekels(700)}, got)
}

func Test_calculation_DeleteCalculation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := NewMockCalculationRepository(ctrl)
	user, id := newID(), newID()
	existing := &entity.Calculation{ID: id, UserID: user}
	repo.EXPECT().GetCalculationByID(ctx, user, id).Return(existing, nil)
	repo.EXPECT().DeleteCalculation(ctx, user, id).Return(nil)

	uc := NewCalculation(repo, nil)

	got, err := uc.DeleteCalculation(ctx, user, id)
	assert.NoError(t, err)
	assert.Equal(t, existing, got)

	_, err = uc.DeleteCalculation(ctx, user, "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
}
