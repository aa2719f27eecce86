package usecase

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

func Test_template_CreateTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("err, empty name", func(t *testing.T) {
		repo := NewMockTemplateRepository(ctrl)
		repo.EXPECT().SaveTemplate(gomock.Any(), gomock.Any()).Times(0)

		_, err := NewTemplate(repo).CreateTemplate(context.Background(), &entity.Template{
			UserID:   newID(),
			Services: []fees.Line{{Type: fees.Signature}},
		})
		assert.ErrorIs(t, err, ErrInvalidTemplate)
	})

	t.Run("err, unpriceable line", func(t *testing.T) {
		repo := NewMockTemplateRepository(ctrl)
		repo.EXPECT().SaveTemplate(gomock.Any(), gomock.Any()).Times(0)

		_, err := NewTemplate(repo).CreateTemplate(context.Background(), &entity.Template{
			UserID:   newID(),
			Name:     "Power of attorney",
			Services: []fees.Line{{Type: fees.CommercialDoc, Copies: 3}},
		})
		assert.ErrorIs(t, err, ErrInvalidTemplate)
		assert.ErrorIs(t, err, fees.ErrCopiesNotSupported)
	})

	t.Run("ok", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		repo := NewMockTemplateRepository(ctrl)
		id := newID()
		repo.EXPECT().SaveTemplate(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, tpl *entity.Template) (*entity.Template, error) {
				tpl.ID = id
				return tpl, nil
			})

		got, err := NewTemplate(repo).CreateTemplate(ctx, &entity.Template{
			UserID:   newID(),
			Name:     " Apostille bundle ",
			Services: []fees.Line{{Type: fees.Signature}, {Type: fees.Translation, Words: 300}},
		})
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Apostille bundle", got.Name)
	})
}

func Test_template_QuoteTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := NewMockTemplateRepository(ctrl)
	user, id := newID(), newID()
	repo.EXPECT().GetTemplateByID(ctx, user, id).Return(&entity.Template{
		ID:       id,
		UserID:   user,
		Name:     "Will",
		Services: []fees.Line{{Type: fees.Will}, {Type: fees.Alive}},
	}, nil)

	q, err := NewTemplate(repo).QuoteTemplate(ctx, user, id)
	require.NoError(t, err)
	assert.Equal(t, fees.Shekels(286+193), q.Subtotal)
	assert.Equal(t, q.Subtotal+fees.VAT(q.Subtotal), q.Total)
}

func Test_template_UpdateTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := NewMockTemplateRepository(ctrl)
	user, id := newID(), newID()
	fresh := &entity.Template{ID: id, UserID: user, Name: "B", Services: []fees.Line{{Type: fees.Other}}}

	repo.EXPECT().UpdateTemplate(ctx, gomock.Any()).Return(nil)
	repo.EXPECT().GetTemplateByID(ctx, user, id).Return(fresh, nil)

	got, err := NewTemplate(repo).UpdateTemplate(ctx, &entity.Template{ID: id, UserID: user, Name: "B", Services: fresh.Services})
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}
