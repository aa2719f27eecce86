package dto

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

// CalculationInput calculation input
//
// swagger:model CalculationInput
type CalculationInput struct {

	// client id
	// Format: uuid
	ClientID *strfmt.UUID `json:"client_id,omitempty"`

	// client name
	// Max Length: 200
	ClientName string `json:"client_name,omitempty"`

	// services
	// Required: true
	// Min Items: 1
	Services ServiceLines `json:"services"`

	// notes
	// Max Length: 2000
	Notes string `json:"notes,omitempty"`
}

// Validate validates this calculation input
func (m *CalculationInput) Validate(formats strfmt.Registry) error {
	var res []error

	if m.ClientID != nil {
		if err := validate.FormatOf("client_id", "body", "uuid", m.ClientID.String(), formats); err != nil {
			res = append(res, err)
		}
	}
	if err := validate.MaxLength("client_name", "body", m.ClientName, 200); err != nil {
		res = append(res, err)
	}
	if err := m.Services.validateAt("services", formats); err != nil {
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

// Calculation calculation
//
// swagger:model Calculation
type Calculation struct {
	ID         strfmt.UUID       `json:"id"`
	ClientID   *strfmt.UUID      `json:"client_id"`
	ClientName string            `json:"client_name"`
	Services   []fees.PricedLine `json:"services"`
	Subtotal   fees.Money        `json:"subtotal"`
	VAT        fees.Money        `json:"vat"`
	Total      fees.Money        `json:"total"`
	Notes      string            `json:"notes"`
	CreatedAt  strfmt.DateTime   `json:"created_at"`
}

// NewCalculation maps a stored calculation to its response body
func NewCalculation(c *entity.Calculation) *Calculation {
	services := c.Services
	if services == nil {
		services = []fees.PricedLine{}
	}
	return &Calculation{
		ID:         c.ID,
		ClientID:   c.ClientID,
		ClientName: c.ClientName,
		Services:   services,
		Subtotal:   c.Subtotal,
		VAT:        c.VAT,
		Total:      c.Total,
		Notes:      c.Notes,
		CreatedAt:  strfmt.DateTime(c.CreatedAt),
	}
}

// TemplateInput template input
//
// swagger:model TemplateInput
type TemplateInput struct {

	// name
	// Required: true
	// Min Length: 1
	// Max Length: 200
	Name *string `json:"name"`

	// description
	// Max Length: 1000
	Description string `json:"description,omitempty"`

	// services
	// Required: true
	// Min Items: 1
	Services ServiceLines `json:"services"`
}

// Validate validates this template input
func (m *TemplateInput) Validate(formats strfmt.Registry) error {
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
	if err := validate.MaxLength("description", "body", m.Description, 1000); err != nil {
		res = append(res, err)
	}
	if err := m.Services.validateAt("services", formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// Entity builds an owned template from the validated body
func (m *TemplateInput) Entity(userID, id strfmt.UUID) *entity.Template {
	t := &entity.Template{
		ID:          id,
		UserID:      userID,
		Description: m.Description,
		Services:    m.Services.Lines(),
	}
	if m.Name != nil {
		t.Name = *m.Name
	}
	return t
}

// Template template
//
// swagger:model Template
type Template struct {
	ID          strfmt.UUID     `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Services    []fees.Line     `json:"services"`
	CreatedAt   strfmt.DateTime `json:"created_at"`
}

// NewTemplate maps a stored template to its response body
func NewTemplate(t *entity.Template) *Template {
	services := t.Services
	if services == nil {
		services = []fees.Line{}
	}
	return &Template{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Services:    services,
		CreatedAt:   strfmt.DateTime(t.CreatedAt),
	}
}
