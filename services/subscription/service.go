package subscription

import (
	"context"
	"time"

	"smart-delivery/logger"
	"smart-delivery/metrics"
	"smart-delivery/models/customer"
	"smart-delivery/services/ledger"
	"smart-delivery/types"
	"smart-delivery/utils"

	"gorm.io/gorm"
)

// Service renews subscriptions and lists their windows.
type Service struct {
	DB     *gorm.DB
	Ledger *ledger.Engine
	// Now is the clock used for "today"; tests replace it.
	Now func() time.Time
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(db *gorm.DB, engine *ledger.Engine) *Service {
	return &Service{
		DB:     db,
		Ledger: engine,
		Now:    time.Now,
	}
}

func (s *Service) today() time.Time {
	return utils.Day(s.Now())
}

// Overview is a customer with its computed window.
type Overview struct {
	customer.Customer
	Status string `json:"subscription_status"`
}

// Renew starts a fresh cycle of extraDays beginning today and clears owed.
// The customer must be expired with nothing owed.
func (s *Service) Renew(ctx context.Context, customerID uint, extraDays int) (*customer.Customer, error) {
	if extraDays < 1 {
		return nil, types.Validation("days must be at least 1")
	}

	unlock := s.Ledger.Lock(customerID)
	defer unlock()

	today := s.today()
	var renewed *customer.Customer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := ledger.LockCustomer(tx, customerID)
		if err != nil {
			return err
		}
		if err := CheckRenewal(c, today); err != nil {
			return err
		}

		c.SubscriptionStart = today
		c.SubscriptionDays = extraDays
		c.Owed = 0
		if err := tx.Save(c).Error; err != nil {
			return types.FromDB(err, "customer")
		}
		renewed = c
		return nil
	})
	if err != nil {
		metrics.ObserveRenewal(string(types.KindOf(err)))
		return nil, err
	}

	metrics.ObserveRenewal("renewed")
	logger.Info("Renewed subscription for customer " + renewed.FullName + " until " + utils.FormatDate(renewed.SubscriptionEnd))
	return renewed, nil
}

// BulkRenew renews each customer in its own transaction and reports every
// outcome; one failure does not stop the others.
func (s *Service) BulkRenew(ctx context.Context, customerIDs []uint, extraDays int) types.BulkResult {
	var result types.BulkResult
	for _, id := range customerIDs {
		_, err := s.Renew(ctx, id, extraDays)
		result.Add(id, err)
	}
	return result
}

// ListOverview returns every customer with its window status as of asOf.
func (s *Service) ListOverview(ctx context.Context, asOf time.Time) ([]Overview, error) {
	var customers []customer.Customer
	if err := s.DB.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, types.FromDB(err, "customers")
	}

	rows := make([]Overview, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, Overview{Customer: c, Status: Status(&c, asOf)})
	}
	return rows, nil
}

// ListExpired returns customers whose window ended before asOf.
func (s *Service) ListExpired(ctx context.Context, asOf time.Time) ([]customer.Customer, error) {
	var customers []customer.Customer
	err := s.DB.WithContext(ctx).
		Where("subscription_end < ?", utils.Day(asOf)).
		Order("full_name").
		Find(&customers).Error
	if err != nil {
		return nil, types.FromDB(err, "customers")
	}
	return customers, nil
}
