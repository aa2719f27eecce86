package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/entity"
)

// Client coordinates client use cases via the repository
type Client struct {
	Cr ClientRepository
}

// NewClient creates a use case service with the given repository
func NewClient(cr ClientRepository) *Client {
	return &Client{
		Cr: cr,
	}
}

// CreateClient validates/normalizes and saves a new client
func (s *Client) CreateClient(ctx context.Context, c *entity.Client) (*entity.Client, error) {
	if err := validateAndNormalizeClient(c); err != nil {
		return nil, err
	}
	return s.Cr.SaveClient(ctx, c)
}

// UpdateClient validates/normalizes and updates an owned client, returning the fresh copy
func (s *Client) UpdateClient(ctx context.Context, c *entity.Client) (*entity.Client, error) {
	if c == nil || !validID(c.ID) {
		return nil, ErrInvalidID
	}
	if err := validateAndNormalizeClient(c); err != nil {
		return nil, err
	}
	if err := s.Cr.UpdateClient(ctx, c); err != nil {
		return nil, err
	}
	return s.Cr.GetClientByID(ctx, c.UserID, c.ID)
}

// DeleteClient removes an owned client and returns the previously stored record
func (s *Client) DeleteClient(ctx context.Context, userID, id strfmt.UUID) (*entity.Client, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	existing, err := s.Cr.GetClientByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.Cr.DeleteClient(ctx, userID, id); err != nil {
		return nil, err
	}
	return existing, nil
}

// GetClient fetches an owned client by id
func (s *Client) GetClient(ctx context.Context, userID, id strfmt.UUID) (*entity.Client, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	return s.Cr.GetClientByID(ctx, userID, id)
}

// ListClients normalizes the filter and returns matching clients ordered by name
func (s *Client) ListClients(ctx context.Context, f ClientFilter) ([]*entity.Client, error) {
	if !validID(f.UserID) {
		return nil, ErrUnauthorized
	}
	limit, offset, err := normalizePage(f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Limit, f.Offset = limit, offset
	return s.Cr.ListClients(ctx, f)
}

// validateAndNormalizeClient trims fields and enforces required ones
func validateAndNormalizeClient(c *entity.Client) error {
	if c == nil {
		return fmt.Errorf("%w: nil", ErrInvalidClient)
	}
	if !validID(c.UserID) {
		return fmt.Errorf("%w: empty user_id", ErrInvalidClient)
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidClient)
	}
	c.IDNumber = strings.TrimSpace(c.IDNumber)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Email != "" && !strfmt.IsEmail(c.Email) {
		return fmt.Errorf("%w: malformed email", ErrInvalidClient)
	}
	c.Address = strings.TrimSpace(c.Address)
	c.Notes = strings.TrimSpace(c.Notes)
	return nil
}
