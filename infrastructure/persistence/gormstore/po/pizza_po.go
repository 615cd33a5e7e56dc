package po

import (
	"time"

	"pizzeria/domain/pizza"
	"pizzeria/domain/shared"

	"github.com/shopspring/decimal"
)

// PizzaPO Pizza persistence object
type PizzaPO struct {
	ID          string          `gorm:"primaryKey;size:64"`
	Name        string          `gorm:"size:100;not null;index"`
	Description string          `gorm:"size:500"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Size        string          `gorm:"size:20;not null"`
	Available   bool            `gorm:"not null;index"`
	Version     int             `gorm:"default:0;not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

func (PizzaPO) TableName() string {
	return "pizzas"
}

func FromPizzaDomain(p *pizza.Pizza) *PizzaPO {
	return &PizzaPO{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price().Amount(),
		Size:        string(p.Size()),
		Available:   p.Available(),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt().UTC(),
		UpdatedAt:   p.UpdatedAt().UTC(),
	}
}

func (po *PizzaPO) ToDomain() *pizza.Pizza {
	return pizza.RebuildFromDTO(pizza.ReconstructionDTO{
		ID:          po.ID,
		Name:        po.Name,
		Description: po.Description,
		Price:       shared.NewMoney(po.Price),
		Size:        pizza.Size(po.Size),
		Available:   po.Available,
		Version:     po.Version,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	})
}
