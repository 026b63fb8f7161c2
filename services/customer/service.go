package customer

import (
	"context"
	"time"

	"smart-delivery/logger"
	"smart-delivery/models/assignment"
	customerModel "smart-delivery/models/customer"
	"smart-delivery/models/delivery"
	"smart-delivery/services/ledger"
	"smart-delivery/types"
	customerTypes "smart-delivery/types/customer"
	"smart-delivery/utils"

	"gorm.io/gorm"
)

// Service handles customer directory operations
type Service struct {
	DB     *gorm.DB
	Ledger *ledger.Engine
	Now    func() time.Time
}

// NewCustomerService creates a new customer service
func NewCustomerService(db *gorm.DB, engine *ledger.Engine) *Service {
	return &Service{DB: db, Ledger: engine, Now: time.Now}
}

// List returns every customer ordered by id.
func (s *Service) List(ctx context.Context) ([]customerModel.Customer, error) {
	customers := []customerModel.Customer{}
	if err := s.DB.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, types.FromDB(err, "customers")
	}
	return customers, nil
}

// Get loads one customer.
func (s *Service) Get(ctx context.Context, id uint) (*customerModel.Customer, error) {
	var c customerModel.Customer
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, types.FromDB(err, "customer")
	}
	return &c, nil
}

// Add creates a customer with nothing owed.
func (s *Service) Add(ctx context.Context, req customerTypes.CustomerRequest) (*customerModel.Customer, error) {
	f, err := req.Validate(utils.Day(s.Now()))
	if err != nil {
		return nil, err
	}

	c := customerModel.Customer{
		FullName:          f.FullName,
		Phone:             f.Phone,
		Address:           f.Address,
		Location:          f.Location,
		Plan:              f.Plan,
		SubscriptionStart: f.SubscriptionStart,
		SubscriptionDays:  f.SubscriptionDays,
	}
	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, types.FromDB(err, "customer")
	}

	logger.Success("Customer created: " + c.FullName)
	return &c, nil
}

// Update replaces the editable fields of a customer. The owed counter is kept
// and the subscription end is recomputed from the new start and length.
func (s *Service) Update(ctx context.Context, id uint, req customerTypes.CustomerRequest) (*customerModel.Customer, error) {
	f, err := req.Validate(utils.Day(s.Now()))
	if err != nil {
		return nil, err
	}

	unlock := s.Ledger.Lock(id)
	defer unlock()

	var c *customerModel.Customer
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err = ledger.LockCustomer(tx, id)
		if err != nil {
			return err
		}

		c.FullName = f.FullName
		c.Phone = f.Phone
		c.Address = f.Address
		c.Location = f.Location
		c.Plan = f.Plan
		c.SubscriptionStart = f.SubscriptionStart
		c.SubscriptionDays = f.SubscriptionDays

		if err := tx.Save(c).Error; err != nil {
			return types.FromDB(err, "customer")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a customer together with its assignments, deliveries and
// status events.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&customerModel.Customer{}, id).Error; err != nil {
			return types.FromDB(err, "customer")
		}
		if err := tx.Where("customer_id = ?", id).Delete(&delivery.DeliveryStatusEvent{}).Error; err != nil {
			return types.FromDB(err, "delivery events")
		}
		if err := tx.Where("customer_id = ?", id).Delete(&delivery.Delivery{}).Error; err != nil {
			return types.FromDB(err, "deliveries")
		}
		if err := tx.Where("customer_id = ?", id).Delete(&assignment.Assignment{}).Error; err != nil {
			return types.FromDB(err, "assignments")
		}
		if err := tx.Delete(&customerModel.Customer{}, id).Error; err != nil {
			return types.FromDB(err, "customer")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Warning("Customer deleted with its delivery history")
	return nil
}

// CarryForward lists customers with owed deliveries, most owed first.
func (s *Service) CarryForward(ctx context.Context) ([]customerModel.Customer, error) {
	customers := []customerModel.Customer{}
	err := s.DB.WithContext(ctx).
		Where("owed > 0").
		Order("owed DESC, id").
		Find(&customers).Error
	if err != nil {
		return nil, types.FromDB(err, "customers")
	}
	return customers, nil
}
