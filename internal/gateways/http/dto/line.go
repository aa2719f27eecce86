package dto

import (
	"strconv"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"

	"notarycalc/internal/fees"
)

// ServiceLine service line
//
// swagger:model ServiceLine
type ServiceLine struct {

	// type
	// Required: true
	Type *string `json:"type"`

	// sub type
	SubType string `json:"sub_type,omitempty"`

	// quantity
	// Minimum: 0
	// Maximum: 10000
	Quantity int64 `json:"quantity,omitempty"`

	// copies
	// Minimum: 0
	// Maximum: 10000
	Copies int64 `json:"copies,omitempty"`

	// pages
	// Minimum: 0
	// Maximum: 10000
	Pages int64 `json:"pages,omitempty"`

	// words
	// Minimum: 0
	// Maximum: 10000000
	Words int64 `json:"words,omitempty"`

	// include translation
	IncludeTranslation bool `json:"include_translation,omitempty"`

	// description
	// Max Length: 500
	Description string `json:"description,omitempty"`
}

var serviceLineTypeEnum []interface{}

func init() {
	for _, s := range fees.Schedule() {
		serviceLineTypeEnum = append(serviceLineTypeEnum, string(s.Type))
	}
}

// Validate validates this service line
func (m *ServiceLine) Validate(formats strfmt.Registry) error {
	return m.validateAt("", formats)
}

func (m *ServiceLine) validateAt(prefix string, formats strfmt.Registry) error {
	var res []error

	if err := validate.Required(prefix+"type", "body", m.Type); err != nil {
		res = append(res, err)
	} else if err := validate.EnumCase(prefix+"type", "body", *m.Type, serviceLineTypeEnum, true); err != nil {
		res = append(res, err)
	}
	for _, f := range []struct {
		name string
		v    int64
		max  int64
	}{
		{"quantity", m.Quantity, fees.MaxUnits},
		{"copies", m.Copies, fees.MaxUnits},
		{"pages", m.Pages, fees.MaxUnits},
		{"words", m.Words, fees.MaxWords},
	} {
		if err := validate.MinimumInt(prefix+f.name, "body", f.v, 0, false); err != nil {
			res = append(res, err)
		} else if err := validate.MaximumInt(prefix+f.name, "body", f.v, f.max, false); err != nil {
			res = append(res, err)
		}
	}
	if err := validate.MaxLength(prefix+"description", "body", m.Description, 500); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// Line converts the validated body into a fee engine line
func (m *ServiceLine) Line() fees.Line {
	return fees.Line{
		Type:               fees.ServiceType(swag.StringValue(m.Type)),
		SubType:            m.SubType,
		Quantity:           int(m.Quantity),
		Copies:             int(m.Copies),
		Pages:              int(m.Pages),
		Words:              int(m.Words),
		IncludeTranslation: m.IncludeTranslation,
		Description:        m.Description,
	}
}

// ServiceLines service lines
//
// swagger:model ServiceLines
type ServiceLines []*ServiceLine

// Validate validates this service lines
func (m ServiceLines) Validate(formats strfmt.Registry) error {
	return m.validateAt("services", formats)
}

func (m ServiceLines) validateAt(path string, formats strfmt.Registry) error {
	var res []error

	if err := validate.MinItems(path, "body", int64(len(m)), 1); err != nil {
		res = append(res, err)
	}
	if err := validate.MaxItems(path, "body", int64(len(m)), fees.MaxLines); err != nil {
		res = append(res, err)
	}
	for i, l := range m {
		if l == nil {
			res = append(res, errors.Required(path+"."+strconv.Itoa(i), "body", nil))
			continue
		}
		if err := l.validateAt(path+"."+strconv.Itoa(i)+".", formats); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// Lines converts every entry into fee engine lines
func (m ServiceLines) Lines() []fees.Line {
	out := make([]fees.Line, 0, len(m))
	for _, l := range m {
		if l != nil {
			out = append(out, l.Line())
		}
	}
	return out
}

// QuoteInput quote input
//
// swagger:model QuoteInput
type QuoteInput struct {

	// services
	// Required: true
	// Min Items: 1
	Services ServiceLines `json:"services"`
}

// Validate validates this quote input
func (m *QuoteInput) Validate(formats strfmt.Registry) error {
	return m.Services.validateAt("services", formats)
}
