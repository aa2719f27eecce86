package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

// Template coordinates saved service bundles
type Template struct {
	Tr TemplateRepository
}

// NewTemplate creates a use case service with the given repository
func NewTemplate(tr TemplateRepository) *Template {
	return &Template{
		Tr: tr,
	}
}

// CreateTemplate validates the bundle and saves it
func (s *Template) CreateTemplate(ctx context.Context, t *entity.Template) (*entity.Template, error) {
	if err := validateAndNormalizeTemplate(t); err != nil {
		return nil, err
	}
	return s.Tr.SaveTemplate(ctx, t)
}

// UpdateTemplate validates and updates an owned template, returning the fresh copy
func (s *Template) UpdateTemplate(ctx context.Context, t *entity.Template) (*entity.Template, error) {
	if t == nil || !validID(t.ID) {
		return nil, ErrInvalidID
	}
	if err := validateAndNormalizeTemplate(t); err != nil {
		return nil, err
	}
	if err := s.Tr.UpdateTemplate(ctx, t); err != nil {
		return nil, err
	}
	return s.Tr.GetTemplateByID(ctx, t.UserID, t.ID)
}

// DeleteTemplate removes an owned template and returns the previously stored record
func (s *Template) DeleteTemplate(ctx context.Context, userID, id strfmt.UUID) (*entity.Template, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	existing, err := s.Tr.GetTemplateByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.Tr.DeleteTemplate(ctx, userID, id); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Template) GetTemplate(ctx context.Context, userID, id strfmt.UUID) (*entity.Template, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	return s.Tr.GetTemplateByID(ctx, userID, id)
}

func (s *Template) ListTemplates(ctx context.Context, userID strfmt.UUID) ([]*entity.Template, error) {
	if !validID(userID) {
		return nil, ErrUnauthorized
	}
	return s.Tr.ListTemplates(ctx, userID)
}

// QuoteTemplate prices the lines bundled in an owned template
func (s *Template) QuoteTemplate(ctx context.Context, userID, id strfmt.UUID) (*fees.Quote, error) {
	t, err := s.GetTemplate(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	q, err := fees.Calculate(t.Services)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	return q, nil
}

// validateAndNormalizeTemplate requires a name and lines the fee schedule can price
func validateAndNormalizeTemplate(t *entity.Template) error {
	if t == nil {
		return fmt.Errorf("%w: nil", ErrInvalidTemplate)
	}
	if !validID(t.UserID) {
		return fmt.Errorf("%w: empty user_id", ErrInvalidTemplate)
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTemplate)
	}
	t.Description = strings.TrimSpace(t.Description)
	if _, err := fees.Calculate(t.Services); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	return nil
}
