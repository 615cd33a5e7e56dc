package po

import (
	"time"

	"pizzeria/domain/customer"
)

// CustomerPO Customer persistence object
type CustomerPO struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Name      string    `gorm:"size:150;not null;index"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Phone     string    `gorm:"size:20;not null"`
	Address   string    `gorm:"size:200;not null"`
	ZipCode   string    `gorm:"size:10"`
	City      string    `gorm:"size:100"`
	State     string    `gorm:"size:50"`
	Version   int       `gorm:"default:0;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CustomerPO) TableName() string {
	return "customers"
}

func FromCustomerDomain(c *customer.Customer) *CustomerPO {
	addr := c.Address()
	return &CustomerPO{
		ID:        c.ID(),
		Name:      c.Name(),
		Email:     c.Email().Value(),
		Phone:     c.Phone(),
		Address:   addr.Street(),
		ZipCode:   addr.ZipCode(),
		City:      addr.City(),
		State:     addr.State(),
		Version:   c.Version(),
		CreatedAt: c.CreatedAt().UTC(),
		UpdatedAt: c.UpdatedAt().UTC(),
	}
}

func (po *CustomerPO) ToDomain() *customer.Customer {
	return customer.RebuildFromDTO(customer.ReconstructionDTO{
		ID:        po.ID,
		Name:      po.Name,
		Email:     po.Email,
		Phone:     po.Phone,
		Address:   po.Address,
		ZipCode:   po.ZipCode,
		City:      po.City,
		State:     po.State,
		Version:   po.Version,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}
