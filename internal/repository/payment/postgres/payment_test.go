package postgres

import (
	"context"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
	"notarycalc/internal/repository/pgtest"
	"notarycalc/internal/usecase"
)

var dsn string

func TestMain(m *testing.M) {
	pgtest.Main(m, &dsn)
}

func TestPaymentRepository_SavePayment(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t, dsn, "profiles")
	pr := NewPaymentRepository(pool)
	owner := pgtest.NewProfile(t, pool)

	tcases := []struct {
		Name    string
		ForSave *entity.Payment
		Error   error
	}{
		{
			Name: "ok",
			ForSave: &entity.Payment{
				UserID:          owner,
				Amount:          fees.Shekels(39),
				Currency:        "ILS",
				Status:          entity.PaymentSuccess,
				StripePaymentID: "cs_test_1",
			},
		},
		{
			Name:    "missing status",
			ForSave: &entity.Payment{UserID: owner, Amount: 100},
			Error:   usecase.ErrInvalidPayment,
		},
		{
			Name:    "nil",
			ForSave: nil,
			Error:   usecase.ErrInvalidPayment,
		},
	}
	for _, tc := range tcases {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := pr.SavePayment(ctx, tc.ForSave)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			require.NoError(t, err)
			assert.True(t, strfmt.IsUUID(got.ID.String()))
			assert.Equal(t, tc.ForSave.Amount, got.Amount)
			assert.Equal(t, tc.ForSave.Status, got.Status)
			assert.Equal(t, "cs_test_1", got.StripePaymentID)
		})
	}
}

func TestPaymentRepository_ListPayments(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t, dsn, "profiles")
	pr := NewPaymentRepository(pool)
	owner := pgtest.NewProfile(t, pool)
	other := pgtest.NewProfile(t, pool)

	for _, st := range []entity.PaymentStatus{entity.PaymentSuccess, entity.PaymentFailed, entity.PaymentSuccess} {
		_, err := pr.SavePayment(ctx, &entity.Payment{UserID: owner, Amount: fees.Shekels(39), Currency: "ILS", Status: st})
		require.NoError(t, err)
	}
	_, err := pr.SavePayment(ctx, &entity.Payment{UserID: other, Amount: 1, Currency: "ILS", Status: entity.PaymentSuccess})
	require.NoError(t, err)

	got, err := pr.ListPayments(ctx, owner, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, entity.PaymentSuccess, got[0].Status)
	assert.Equal(t, entity.PaymentFailed, got[1].Status)

	got, err = pr.ListPayments(ctx, owner, 2, 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
