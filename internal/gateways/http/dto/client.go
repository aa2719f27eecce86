package dto

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"

	"notarycalc/internal/entity"
)

// ClientInput client input
//
// swagger:model ClientInput
type ClientInput struct {

	// name
	// Required: true
	// Min Length: 1
	// Max Length: 200
	Name *string `json:"name"`

	// id number
	// Max Length: 20
	IDNumber string `json:"id_number,omitempty"`

	// phone
	// Max Length: 30
	Phone string `json:"phone,omitempty"`

	// email
	// Format: email
	Email strfmt.Email `json:"email,omitempty"`

	// address
	// Max Length: 300
	Address string `json:"address,omitempty"`

	// notes
	// Max Length: 2000
	Notes string `json:"notes,omitempty"`
}

// Validate validates this client input
func (m *ClientInput) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("name", "body", m.Name); err != nil {
		res = append(res, err)
	} else {
		if err := validate.MinLength("name", "body", *m.Name, 1); err != nil {
			res = append(res, err)
		}
		if err := validate.MaxLength("name", "body", *m.Name, 200); err != nil {
			res = append(res, err)
		}
	}
	if err := validate.MaxLength("id_number", "body", m.IDNumber, 20); err != nil {
		res = append(res, err)
	}
	if err := validate.MaxLength("phone", "body", m.Phone, 30); err != nil {
		res = append(res, err)
	}
	if m.Email != "" {
		if err := validate.FormatOf("email", "body", "email", m.Email.String(), formats); err != nil {
			res = append(res, err)
		}
	}
	if err := validate.MaxLength("address", "body", m.Address, 300); err != nil {
		res = append(res, err)
	}
	if err := validate.MaxLength("notes", "body", m.Notes, 2000); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// Entity builds an owned client from the validated body
func (m *ClientInput) Entity(userID, id strfmt.UUID) *entity.Client {
	return &entity.Client{
		ID:       id,
		UserID:   userID,
		Name:     swag.StringValue(m.Name),
		IDNumber: m.IDNumber,
		Phone:    m.Phone,
		Email:    m.Email.String(),
		Address:  m.Address,
		Notes:    m.Notes,
	}
}

// Client client
//
// swagger:model Client
type Client struct {
	ID        strfmt.UUID     `json:"id"`
	Name      string          `json:"name"`
	IDNumber  string          `json:"id_number"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	Address   string          `json:"address"`
	Notes     string          `json:"notes"`
	CreatedAt strfmt.DateTime `json:"created_at"`
	UpdatedAt strfmt.DateTime `json:"updated_at"`
}

// NewClient maps a stored client to its response body
func NewClient(c *entity.Client) *Client {
	return &Client{
		ID:        c.ID,
		Name:      c.Name,
		IDNumber:  c.IDNumber,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: strfmt.DateTime(c.CreatedAt),
		UpdatedAt: strfmt.DateTime(c.UpdatedAt),
	}
}

// MarshalBinary interface implementation
func (m *Client) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *Client) UnmarshalBinary(b []byte) error {
	var res Client
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
