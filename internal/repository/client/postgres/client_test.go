package postgres

import (
	"context"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/entity"
	"notarycalc/internal/repository/pgtest"
	"notarycalc/internal/usecase"
)

var dsn string

func TestMain(m *testing.M) {
	pgtest.Main(m, &dsn)
}

func TestClientRepository_SaveClient(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t, dsn, "profiles")
	cr := NewClientRepository(pool)
	owner := pgtest.NewProfile(t, pool)

	tcases := []struct {
		Name    string
		ForSave *entity.Client
		Error   error
	}{
		{
			Name:    "ok",
			ForSave: &entity.Client{UserID: owner, Name: "Dana Levi", IDNumber: "123456782", Email: "dana@example.com"},
		},
		{
			Name:    "nil client",
			ForSave: nil,
			Error:   usecase.ErrInvalidClient,
		},
		{
			Name:    "unknown owner",
			ForSave: &entity.Client{UserID: strfmt.UUID(uuid.NewString()), Name: "Orphan"},
			Error:   assert.AnError,
		},
	}
	for _, tc := range tcases {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := cr.SaveClient(ctx, tc.ForSave)
			switch {
			case tc.Error == assert.AnError:
				assert.Error(t, err)
			case tc.Error != nil:
				assert.ErrorIs(t, err, tc.Error)
			default:
				require.NoError(t, err)
				assert.True(t, strfmt.IsUUID(got.ID.String()))
				assert.Equal(t, owner, got.UserID)
				assert.Equal(t, tc.ForSave.Name, got.Name)
				assert.Equal(t, tc.ForSave.IDNumber, got.IDNumber)
				assert.False(t, got.CreatedAt.IsZero())
			}
		})
	}
}

func TestClientRepository_TenantScope(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t, dsn, "profiles")
	cr := NewClientRepository(pool)
	owner := pgtest.NewProfile(t, pool)
	other := pgtest.NewProfile(t, pool)

	c, err := cr.SaveClient(ctx, &entity.Client{UserID: owner, Name: "Dana"})
	require.NoError(t, err)

	_, err = cr.GetClientByID(ctx, other, c.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	foreign := *c
	foreign.UserID = other
	foreign.Name = "Hijacked"
	assert.ErrorIs(t, cr.UpdateClient(ctx, &foreign), usecase.ErrNotFound)
	assert.ErrorIs(t, cr.DeleteClient(ctx, other, c.ID), usecase.ErrNotFound)

	c.Name = "Dana Cohen"
	c.Phone = "050-1234567"
	require.NoError(t, cr.UpdateClient(ctx, c))
	got, err := cr.GetClientByID(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Cohen", got.Name)
	assert.Equal(t, "050-1234567", got.Phone)

	require.NoError(t, cr.DeleteClient(ctx, owner, c.ID))
	_, err = cr.GetClientByID(ctx, owner, c.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestClientRepository_ListClients(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t, dsn, "profiles")
	cr := NewClientRepository(pool)
	owner := pgtest.NewProfile(t, pool)
	other := pgtest.NewProfile(t, pool)

	for _, c := range []*entity.Client{
		{UserID: owner, Name: "Dana Levi", Phone: "050-1111111"},
		{UserID: owner, Name: "Avi Cohen", IDNumber: "300000007"},
		{UserID: owner, Name: "100% Legal", Email: "legal@example.com"},
		{UserID: other, Name: "Dana Other"},
	} {
		_, err := cr.SaveClient(ctx, c)
		require.NoError(t, err)
	}

	tcases := []struct {
		Name   string
		Filter usecase.ClientFilter
		Want   []string
	}{
		{
			Name:   "all of one tenant, newest first",
			Filter: usecase.ClientFilter{UserID: owner},
			Want:   []string{"100% Legal", "Avi Cohen", "Dana Levi"},
		},
		{
			Name:   "search by name is case insensitive",
			Filter: usecase.ClientFilter{UserID: owner, Search: "dana"},
			Want:   []string{"Dana Levi"},
		},
		{
			Name:   "search by id number",
			Filter: usecase.ClientFilter{UserID: owner, Search: "30000"},
			Want:   []string{"Avi Cohen"},
		},
		{
			Name:   "percent sign is literal",
			Filter: usecase.ClientFilter{UserID: owner, Search: "%"},
			Want:   []string{"100% Legal"},
		},
		{
			Name:   "paging",
			Filter: usecase.ClientFilter{UserID: owner, Limit: 1, Offset: 1},
			Want:   []string{"Avi Cohen"},
		},
	}
	for _, tc := range tcases {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := cr.ListClients(ctx, tc.Filter)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, c := range got {
				names = append(names, c.Name)
			}
			assert.Equal(t, tc.Want, names)
		})
	}

	n, err := cr.CountClients(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
