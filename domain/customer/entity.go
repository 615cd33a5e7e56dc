package customer

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pizzeria/domain/shared"

	"github.com/google/uuid"
)

// 字段长度上限
const (
	maxNameLength    = 150
	maxPhoneLength   = 20
	maxAddressLength = 200
	maxZipCodeLength = 10
	maxCityLength    = 100
	maxStateLength   = 50
)

// Customer 顾客聚合根
// 聚合内只有 Customer 自身；订单只保存顾客 ID，不持有顾客对象
type Customer struct {
	id        string
	name      string
	email     Email
	phone     string
	address   Address
	version   int // 乐观锁版本号
	createdAt time.Time
	updatedAt time.Time

	events shared.EventRecorder
	isNew  bool
}

// Profile 创建或更新顾客时的全部可编辑字段
type Profile struct {
	Name    string
	Email   string
	Phone   string
	Address string
	ZipCode string
	City    string
	State   string
}

// NewCustomer 创建新顾客
func NewCustomer(p Profile) (*Customer, error) {
	email, addr, err := validateProfile(p)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Customer{
		id:        uuid.New().String(),
		name:      strings.TrimSpace(p.Name),
		email:     email,
		phone:     strings.TrimSpace(p.Phone),
		address:   addr,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}

	// 记录领域事件
	c.events.Record(NewCustomerRegisteredEvent(c))
	return c, nil
}

// ============================================================================
// 领域行为方法
// ============================================================================

// UpdateProfile 整体替换可编辑字段；邮箱唯一性由应用层在保存前检查
func (c *Customer) UpdateProfile(p Profile) error {
	email, addr, err := validateProfile(p)
	if err != nil {
		return err
	}

	previousEmail := c.email
	c.name = strings.TrimSpace(p.Name)
	c.email = email
	c.phone = strings.TrimSpace(p.Phone)
	c.address = addr
	c.updatedAt = time.Now()

	c.events.Record(NewCustomerUpdatedEvent(c, !previousEmail.Equals(email)))
	return nil
}

// MarkDeleted 记录删除事件，实际删除由仓储完成
func (c *Customer) MarkDeleted() {
	c.events.Record(NewCustomerDeletedEvent(c))
}

func validateProfile(p Profile) (Email, Address, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Email{}, Address{}, NewValidationError("name", "name is required")
	}
	if err := maxLen("name", name, maxNameLength); err != nil {
		return Email{}, Address{}, err
	}

	email, err := NewEmail(p.Email)
	if err != nil {
		return Email{}, Address{}, err
	}

	phone := strings.TrimSpace(p.Phone)
	if phone == "" {
		return Email{}, Address{}, NewValidationError("phone", "phone is required")
	}
	if err := maxLen("phone", phone, maxPhoneLength); err != nil {
		return Email{}, Address{}, err
	}

	addr, err := NewAddress(p.Address, p.ZipCode, p.City, p.State)
	if err != nil {
		return Email{}, Address{}, err
	}

	return *email, addr, nil
}

func maxLen(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return NewValidationError(field, fmt.Sprintf("%s must be at most %d characters", field, limit))
	}
	return nil
}

// ============================================================================
// 持久化辅助
// ============================================================================

func (c *Customer) IsNew() bool              { return c.isNew }
func (c *Customer) ClearNewFlag()            { c.isNew = false }
func (c *Customer) IncrementVersionForSave() { c.version++ }

// ============================================================================
// Getters - 只读访问器
// ============================================================================

func (c *Customer) ID() string           { return c.id }
func (c *Customer) Name() string         { return c.name }
func (c *Customer) Email() Email         { return c.email }
func (c *Customer) Phone() string        { return c.phone }
func (c *Customer) Address() Address     { return c.address }
func (c *Customer) Version() int         { return c.version }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time { return c.updatedAt }

// PullEvents 获取并清空聚合根的事件列表
func (c *Customer) PullEvents() []shared.DomainEvent {
	return c.events.PullEvents()
}

// ReconstructionDTO 顾客重建数据传输对象
// ⚠️ 注意：此DTO仅应在仓储实现中使用，不应在应用层调用
type ReconstructionDTO struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	ZipCode   string
	City      string
	State     string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RebuildFromDTO 从DTO重建Customer聚合根
func RebuildFromDTO(dto ReconstructionDTO) *Customer {
	return &Customer{
		id:    dto.ID,
		name:  dto.Name,
		email: Email{value: dto.Email},
		phone: dto.Phone,
		address: Address{
			street:  dto.Address,
			zipCode: dto.ZipCode,
			city:    dto.City,
			state:   dto.State,
		},
		version:   dto.Version,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}
}

// 编译时检查 Customer 实现了 AggregateRoot 接口
var _ shared.AggregateRoot = (*Customer)(nil)
