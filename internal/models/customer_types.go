package models

import "time"

// CustomerStatus is the lifecycle flag of a client account.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "ACTIVE"
	CustomerInactive CustomerStatus = "INACTIVE"
)

func (s CustomerStatus) Valid() bool {
	return s == CustomerActive || s == CustomerInactive
}

// Customer is the model for the 'customers' table.
type Customer struct {
	ID        string         `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Email     string         `json:"email" db:"email"`
	Phone     *string        `json:"phone" db:"phone"`
	Address   *string        `json:"address" db:"address"`
	Status    CustomerStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

// CustomerPatch carries the optional fields of a partial update. Nil means "leave unchanged".
type CustomerPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Status  *CustomerStatus
}

// Apply copies every set field onto c.
func (p CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	if p.Address != nil {
		c.Address = p.Address
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
}
