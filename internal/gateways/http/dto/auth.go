// Package dto holds request and response bodies of the HTTP API together with their validation.
package dto

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

const minPasswordLength = 8

// SignUpInput sign up input
//
// swagger:model SignUpInput
type SignUpInput struct {

	// email
	// Required: true
	// Format: email
	Email *strfmt.Email `json:"email"`

	// password
	// Required: true
	// Min Length: 8
	Password *string `json:"password"`

	// full name
	// Max Length: 200
	FullName string `json:"full_name,omitempty"`

	// phone
	// Max Length: 30
	Phone string `json:"phone,omitempty"`

	// office name
	// Max Length: 200
	OfficeName string `json:"office_name,omitempty"`
}

// Validate validates this sign up input
func (m *SignUpInput) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validateEmail("email", m.Email, formats); err != nil {
		res = append(res, err)
	}
	if err := validatePassword("password", m.Password); err != nil {
		res = append(res, err)
	}
	if err := validate.MaxLength("full_name", "body", m.FullName, 200); err != nil {
		res = append(res, err)
	}
	if err := validate.MaxLength("phone", "body", m.Phone, 30); err != nil {
		res = append(res, err)
	}
	if err := validate.MaxLength("office_name", "body", m.OfficeName, 200); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// LoginInput login input
//
// swagger:model LoginInput
type LoginInput struct {

	// email
	// Required: true
	Email *string `json:"email"`

	// password
	// Required: true
	Password *string `json:"password"`
}

// Validate validates this login input
func (m *LoginInput) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("email", "body", m.Email); err != nil {
		res = append(res, err)
	}
	if err := validate.Required("password", "body", m.Password); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ForgotPasswordInput forgot password input
//
// swagger:model ForgotPasswordInput
type ForgotPasswordInput struct {

	// email
	// Required: true
	// Format: email
	Email *strfmt.Email `json:"email"`
}

// Validate validates this forgot password input
func (m *ForgotPasswordInput) Validate(formats strfmt.Registry) error {
	if err := validateEmail("email", m.Email, formats); err != nil {
		return errors.CompositeValidationError(err)
	}
	return nil
}

// ResetPasswordInput reset password input
//
// swagger:model ResetPasswordInput
type ResetPasswordInput struct {

	// token
	// Required: true
	Token *string `json:"token"`

	// password
	// Required: true
	// Min Length: 8
	Password *string `json:"password"`
}

// Validate validates this reset password input
func (m *ResetPasswordInput) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("token", "body", m.Token); err != nil {
		res = append(res, err)
	} else if err := validate.MinLength("token", "body", *m.Token, 1); err != nil {
		res = append(res, err)
	}
	if err := validatePassword("password", m.Password); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ChangePasswordInput change password input
//
// swagger:model ChangePasswordInput
type ChangePasswordInput struct {

	// current password
	// Required: true
	CurrentPassword *string `json:"current_password"`

	// new password
	// Required: true
	// Min Length: 8
	NewPassword *string `json:"new_password"`
}

// Validate validates this change password input
func (m *ChangePasswordInput) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("current_password", "body", m.CurrentPassword); err != nil {
		res = append(res, err)
	}
	if err := validatePassword("new_password", m.NewPassword); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func validateEmail(path string, v *strfmt.Email, formats strfmt.Registry) error {
	if err := validate.Required(path, "body", v); err != nil {
		return err
	}
	if err := validate.FormatOf(path, "body", "email", v.String(), formats); err != nil {
		return err
	}
	return nil
}

func validatePassword(path string, v *string) error {
	if err := validate.Required(path, "body", v); err != nil {
		return err
	}
	if err := validate.MinLength(path, "body", swag.StringValue(v), minPasswordLength); err != nil {
		return err
	}
	return nil
}
