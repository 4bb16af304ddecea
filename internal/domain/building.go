package domain

import (
	"fmt"
	"time"
)

// Building is a managed property that tickets are reported against.
type Building struct {
	ID        string
	Name      string
	Address   string
	City      string
	State     string
	ZipCode   string
	ManagerID *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullAddress renders a single-line postal address.
func (b *Building) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", b.Address, b.City, b.State, b.ZipCode)
}
