package pizza

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pizzeria/domain/shared"

	"github.com/google/uuid"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

// Pizza is a catalog entry. Orders copy name and price at creation time, so
// edits here never reach existing orders.
type Pizza struct {
	id          string
	name        string
	description string
	price       shared.Money
	size        Size
	available   bool
	version     int
	createdAt   time.Time
	updatedAt   time.Time

	events shared.EventRecorder
	isNew  bool
}

// Details holds the editable fields of a pizza.
type Details struct {
	Name        string
	Description string
	Price       shared.Money
	Size        Size
}

// NewPizza creates an available pizza.
func NewPizza(d Details) (*Pizza, error) {
	if err := validateDetails(d); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Pizza{
		id:          uuid.New().String(),
		name:        strings.TrimSpace(d.Name),
		description: strings.TrimSpace(d.Description),
		price:       d.Price,
		size:        d.Size,
		available:   true,
		createdAt:   now,
		updatedAt:   now,
		isNew:       true,
	}
	p.events.Record(NewPizzaAddedEvent(p))
	return p, nil
}

// Update replaces the editable fields and the availability flag.
func (p *Pizza) Update(d Details, available bool) error {
	if err := validateDetails(d); err != nil {
		return err
	}

	oldPrice := p.price
	p.name = strings.TrimSpace(d.Name)
	p.description = strings.TrimSpace(d.Description)
	p.price = d.Price
	p.size = d.Size
	p.available = available
	p.updatedAt = time.Now()

	if !oldPrice.Equals(p.price) {
		p.events.Record(NewPizzaPriceChangedEvent(p, oldPrice))
	}
	return nil
}

func (p *Pizza) MarkDeleted() {
	p.events.Record(NewPizzaRemovedEvent(p))
}

func validateDetails(d Details) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return NewValidationError("name", fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Description)) > MaxDescriptionLength {
		return NewValidationError("description", fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength))
	}
	if !d.Price.IsPositive() {
		return NewInvalidPriceError(d.Price)
	}
	if !d.Size.IsValid() {
		return NewValidationError("size", "unknown pizza size: "+string(d.Size))
	}
	return nil
}

func (p *Pizza) IsNew() bool              { return p.isNew }
func (p *Pizza) ClearNewFlag()            { p.isNew = false }
func (p *Pizza) IncrementVersionForSave() { p.version++ }

func (p *Pizza) ID() string           { return p.id }
func (p *Pizza) Name() string         { return p.name }
func (p *Pizza) Description() string  { return p.description }
func (p *Pizza) Price() shared.Money  { return p.price }
func (p *Pizza) Size() Size           { return p.size }
func (p *Pizza) Available() bool      { return p.available }
func (p *Pizza) Version() int         { return p.version }
func (p *Pizza) CreatedAt() time.Time { return p.createdAt }
func (p *Pizza) UpdatedAt() time.Time { return p.updatedAt }

func (p *Pizza) PullEvents() []shared.DomainEvent {
	return p.events.PullEvents()
}

// ReconstructionDTO is used by repositories only.
type ReconstructionDTO struct {
	ID          string
	Name        string
	Description string
	Price       shared.Money
	Size        Size
	Available   bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Pizza {
	return &Pizza{
		id:          dto.ID,
		name:        dto.Name,
		description: dto.Description,
		price:       dto.Price,
		size:        dto.Size,
		available:   dto.Available,
		version:     dto.Version,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
	}
}

var _ shared.AggregateRoot = (*Pizza)(nil)
