package gormstore

import (
	"context"
	"errors"
	"strings"

	"pizzeria/domain/customer"
	"pizzeria/domain/shared"
	"pizzeria/infrastructure/persistence"
	"pizzeria/infrastructure/persistence/gormstore/po"
	"pizzeria/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// CustomerRepository GORM implementation of customer repository
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository Create customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save Save customer (create or update)
// 邮箱唯一索引冲突翻译为 ErrEmailAlreadyExists
func (r *CustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	customerPO := po.FromCustomerDomain(c)
	db := r.getDB(ctx)

	if c.IsNew() {
		if err := db.Create(customerPO).Error; err != nil {
			if isDuplicateKeyError(err) {
				return customer.NewEmailAlreadyExistsError(customerPO.Email)
			}
			return err
		}
		c.ClearNewFlag()
		return nil
	}

	expectedVersion := c.Version()
	result := db.Model(&po.CustomerPO{}).
		Where("id = ? AND version = ?", c.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"name":       customerPO.Name,
			"email":      customerPO.Email,
			"phone":      customerPO.Phone,
			"address":    customerPO.Address,
			"zip_code":   customerPO.ZipCode,
			"city":       customerPO.City,
			"state":      customerPO.State,
			"version":    expectedVersion + 1,
			"updated_at": customerPO.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return customer.NewEmailAlreadyExistsError(customerPO.Email)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&po.CustomerPO{}).Where("id = ?", c.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return customer.NewCustomerNotFoundError(c.ID())
		}
		return customer.NewConcurrentModificationError(c.ID())
	}

	c.IncrementVersionForSave()
	return nil
}

// FindByID Find customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	var customerPO po.CustomerPO
	if err := r.getDB(ctx).First(&customerPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.NewCustomerNotFoundError(id)
		}
		return nil, err
	}
	return customerPO.ToDomain(), nil
}

// FindByEmail Find customer by normalized email
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var customerPO po.CustomerPO
	if err := r.getDB(ctx).First(&customerPO, "email = ?", customer.NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.NewCustomerNotFoundByEmailError(email)
		}
		return nil, err
	}
	return customerPO.ToDomain(), nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	return r.findWhere(ctx, nil)
}

// FindBySpecification translates to SQL when possible, otherwise filters in memory.
func (r *CustomerRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*customer.Customer]) ([]*customer.Customer, error) {
	if scope, ok := specification.CustomerTranslator.Scope(spec); ok {
		return r.findWhere(ctx, scope)
	}

	all, err := r.findWhere(ctx, nil)
	if err != nil {
		return nil, err
	}
	matched := make([]*customer.Customer, 0, len(all))
	for _, c := range all {
		if spec.IsSatisfiedBy(ctx, c) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (r *CustomerRepository) findWhere(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*customer.Customer, error) {
	db := r.getDB(ctx).Model(&po.CustomerPO{})
	if scope != nil {
		db = db.Scopes(scope)
	}

	var customerPOs []po.CustomerPO
	if err := db.Order("name ASC").Order("id ASC").Find(&customerPOs).Error; err != nil {
		return nil, err
	}

	customers := make([]*customer.Customer, len(customerPOs))
	for i := range customerPOs {
		customers[i] = customerPOs[i].ToDomain()
	}
	return customers, nil
}

// Delete Delete customer
func (r *CustomerRepository) Delete(ctx context.Context, c *customer.Customer) error {
	result := r.getDB(ctx).Where("id = ?", c.ID()).Delete(&po.CustomerPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return customer.NewCustomerNotFoundError(c.ID())
	}
	return nil
}

// isDuplicateKeyError 兼容未开启 TranslateError 的驱动
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "Error 1062") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

var _ customer.Repository = (*CustomerRepository)(nil)
