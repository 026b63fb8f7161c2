// Package ledger maintains the owed counter of each customer: the number of
// missed deliveries not yet compensated. Every owed change extends the
// customer's subscription end by the same number of days.
package ledger

import (
	"context"
	"strings"
	"time"

	"smart-delivery/metrics"
	"smart-delivery/models/customer"
	"smart-delivery/models/delivery"
	"smart-delivery/types"
	"smart-delivery/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Strategy selects how missed deliveries are carried forward. Only one is
// active at a time.
type Strategy string

const (
	// StrategyExtend counts misses in owed and pushes the subscription end out.
	StrategyExtend Strategy = "extend"
	// StrategyClone leaves owed alone; misses are re-attempted by copying the
	// missed delivery to the next day.
	StrategyClone Strategy = "clone"
)

// ParseStrategy reads CARRY_FORWARD_STRATEGY, defaulting to StrategyExtend.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyExtend:
		return StrategyExtend, nil
	case StrategyClone:
		return StrategyClone, nil
	default:
		return "", types.Validation("unknown carry-forward strategy %q", s)
	}
}

// OwedDelta is the change in owed when a delivery moves from old to next.
// old is nil when no record exists yet. Only first marks and corrections
// between delivered and missed move owed; a day that was paused or pending
// keeps owed where it is whatever it becomes next.
func OwedDelta(old *delivery.Status, next delivery.Status) int {
	switch {
	case old == nil:
		if next == delivery.StatusMissed {
			return 1
		}
	case *old == delivery.StatusMissed && next == delivery.StatusDelivered:
		return -1
	case *old == delivery.StatusDelivered && next == delivery.StatusMissed:
		return 1
	}
	return 0
}

// ApplyTransition returns the owed value after a transition, never below zero.
func ApplyTransition(owed int, old *delivery.Status, next delivery.Status) int {
	owed += OwedDelta(old, next)
	if owed < 0 {
		return 0
	}
	return owed
}

// Result describes the effect of one transition on a customer.
type Result struct {
	CustomerID      uint      `json:"customer_id"`
	OwedBefore      int       `json:"owed_before"`
	OwedAfter       int       `json:"owed_after"`
	SubscriptionEnd time.Time `json:"subscription_end"`
}

// Delta is the applied owed change after clamping.
func (r Result) Delta() int {
	return r.OwedAfter - r.OwedBefore
}

// Engine applies status transitions to the owed ledger.
type Engine struct {
	DB       *gorm.DB
	Strategy Strategy
	locks    *keyedMutex
}

// NewEngine creates a ledger engine
func NewEngine(db *gorm.DB, strategy Strategy) *Engine {
	if strategy == "" {
		strategy = StrategyExtend
	}
	return &Engine{
		DB:       db,
		Strategy: strategy,
		locks:    newKeyedMutex(),
	}
}

// Lock serialises ledger work for one customer inside this process. Callers
// must take it before opening the transaction that touches the customer.
func (e *Engine) Lock(customerID uint) func() {
	return e.locks.Lock(customerID)
}

// LockCustomer loads the customer row with a row lock held until tx ends.
func LockCustomer(tx *gorm.DB, customerID uint) (*customer.Customer, error) {
	var c customer.Customer
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, customerID).Error
	if err != nil {
		return nil, types.FromDB(err, "customer")
	}
	return &c, nil
}

// Snapshot is the Result of a transition that leaves c unchanged.
func Snapshot(c *customer.Customer) Result {
	return Result{
		CustomerID:      c.ID,
		OwedBefore:      c.Owed,
		OwedAfter:       c.Owed,
		SubscriptionEnd: c.SubscriptionEnd,
	}
}

// ApplyInTx applies the transition old -> next to c's owed counter and
// rewrites the subscription end in the same update. c must have been loaded
// with LockCustomer in tx before old was read, and tx must also write the new
// delivery status.
func (e *Engine) ApplyInTx(tx *gorm.DB, c *customer.Customer, old *delivery.Status, next delivery.Status) (Result, error) {
	res := Snapshot(c)
	if e.Strategy != StrategyExtend {
		return res, nil
	}

	c.Owed = ApplyTransition(c.Owed, old, next)
	if err := tx.Save(c).Error; err != nil {
		return Result{}, types.FromDB(err, "customer")
	}

	res.OwedAfter = c.Owed
	res.SubscriptionEnd = c.SubscriptionEnd
	return res, nil
}

// RecordStatusTransition reads the prior status of (assignmentID, date) and
// applies the owed change for moving to next. It does not write the delivery
// row; delivery.Service.Mark performs both as one unit.
func (e *Engine) RecordStatusTransition(ctx context.Context, customerID, assignmentID uint, date time.Time, next delivery.Status) (Result, error) {
	if !next.IsMarkable() {
		return Result{}, types.Validation("status must be delivered or missed, got %q", next)
	}

	unlock := e.Lock(customerID)
	defer unlock()

	var res Result
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the row lock comes first so a second instance cannot read the
		// same prior status
		c, err := LockCustomer(tx, customerID)
		if err != nil {
			return err
		}
		old, err := PriorStatus(tx, assignmentID, date)
		if err != nil {
			return err
		}
		res, err = e.ApplyInTx(tx, c, old, next)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	metrics.ObserveOwedChange(res.Delta())
	return res, nil
}

// PriorStatus returns the recorded status for (assignmentID, date), or nil
// when the date has not been marked yet.
func PriorStatus(tx *gorm.DB, assignmentID uint, date time.Time) (*delivery.Status, error) {
	var d delivery.Delivery
	err := tx.Where("assignment_id = ? AND delivery_date = ?", assignmentID, utils.Day(date)).
		Limit(1).Find(&d).Error
	if err != nil {
		return nil, types.FromDB(err, "delivery")
	}
	if d.ID == 0 {
		return nil, nil
	}
	status := d.Status
	return &status, nil
}
