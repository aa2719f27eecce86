package entity

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// Client - a customer of the notary office
type Client struct {
	ID     strfmt.UUID
	UserID strfmt.UUID
	// Name - required display name
	Name string
	// IDNumber - Israeli ID (teudat zehut) or passport number
	IDNumber  string
	Phone     string
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
