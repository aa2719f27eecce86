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

func TestTemplateRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(t, dsn, "profiles")
	tr := NewTemplateRepository(pool)
	owner := pgtest.NewProfile(t, pool)
	other := pgtest.NewProfile(t, pool)

	services := []fees.Line{
		{Type: fees.Signature, SubType: "first", Quantity: 1, Copies: 2},
		{Type: fees.Translation, Words: 450},
	}
	saved, err := tr.SaveTemplate(ctx, &entity.Template{UserID: owner, Name: "Power of attorney", Services: services})
	require.NoError(t, err)
	assert.True(t, strfmt.IsUUID(saved.ID.String()))
	assert.Equal(t, services, saved.Services)

	_, err = tr.SaveTemplate(ctx, &entity.Template{UserID: owner, Name: "Apostille pack", Services: services[:1]})
	require.NoError(t, err)

	list, err := tr.ListTemplates(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Apostille pack", list[0].Name)

	list, err = tr.ListTemplates(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)

	saved.Description = "two signatures and a translation"
	saved.Services = services[1:]
	require.NoError(t, tr.UpdateTemplate(ctx, saved))
	got, err := tr.GetTemplateByID(ctx, owner, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "two signatures and a translation", got.Description)
	assert.Equal(t, services[1:], got.Services)

	_, err = tr.GetTemplateByID(ctx, other, saved.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
	foreign := *saved
	foreign.UserID = other
	assert.ErrorIs(t, tr.UpdateTemplate(ctx, &foreign), usecase.ErrNotFound)
	assert.ErrorIs(t, tr.DeleteTemplate(ctx, other, saved.ID), usecase.ErrNotFound)

	require.NoError(t, tr.DeleteTemplate(ctx, owner, saved.ID))
	_, err = tr.GetTemplateByID(ctx, owner, saved.ID)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}
