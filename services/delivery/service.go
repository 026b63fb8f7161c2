// Package delivery records delivery outcomes and keeps the owed ledger in step
// with them.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smart-delivery/logger"
	"smart-delivery/metrics"
	"smart-delivery/models/assignment"
	"smart-delivery/models/delivery"
	"smart-delivery/models/driver"
	"smart-delivery/services/ledger"
	"smart-delivery/types"
	"smart-delivery/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles delivery operations
type Service struct {
	DB     *gorm.DB
	Ledger *ledger.Engine
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(db *gorm.DB, engine *ledger.Engine) *Service {
	return &Service{DB: db, Ledger: engine}
}

// MarkResult is the stored delivery together with its owed effect.
type MarkResult struct {
	Delivery  delivery.Delivery `json:"delivery"`
	OldStatus *delivery.Status  `json:"old_status,omitempty"`
	Ledger    ledger.Result     `json:"ledger"`
}

// Mark records status for an assignment on date. Re-marking replaces the
// previous status and the owed counter follows the transition. The delivery
// row, the owed update and the audit event are written in one transaction.
// Under the extend strategy date must be the assignment's own date; clone
// re-attempts live on later dates of the same assignment.
func (s *Service) Mark(ctx context.Context, assignmentID uint, date time.Time, status delivery.Status, markedBy *uint) (*MarkResult, error) {
	if !status.IsMarkable() {
		return nil, types.Validation("status must be delivered or missed")
	}

	var a assignment.Assignment
	if err := s.DB.WithContext(ctx).First(&a, assignmentID).Error; err != nil {
		return nil, types.FromDB(err, "assignment")
	}

	day := utils.Day(date)
	if s.Ledger.Strategy == ledger.StrategyExtend && !day.Equal(utils.Day(a.AssignDate)) {
		return nil, types.Validation("delivery date %s does not match the assignment date %s",
			utils.FormatDate(day), utils.FormatDate(a.AssignDate))
	}
	return s.record(ctx, &a, day, status, markedBy)
}

// Pause marks the customer's delivery on date as paused. The customer must
// have an assignment for that date. Pausing never changes owed.
func (s *Service) Pause(ctx context.Context, customerID uint, date time.Time, markedBy *uint) (*MarkResult, error) {
	day := utils.Day(date)

	var a assignment.Assignment
	err := s.DB.WithContext(ctx).
		Where("customer_id = ? AND assign_date = ?", customerID, day).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("No assignment exists for this customer on the selected date")
		}
		return nil, types.FromDB(err, "assignment")
	}
	return s.record(ctx, &a, day, delivery.StatusPaused, markedBy)
}

// record writes status for a on day together with its audit event. Only
// delivered and missed go through the owed ledger.
func (s *Service) record(ctx context.Context, a *assignment.Assignment, day time.Time, status delivery.Status, markedBy *uint) (*MarkResult, error) {
	unlock := s.Ledger.Lock(a.CustomerID)
	defer unlock()

	var out MarkResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := ledger.LockCustomer(tx, a.CustomerID)
		if err != nil {
			return err
		}

		old, err := ledger.PriorStatus(tx, a.ID, day)
		if err != nil {
			return err
		}

		res := ledger.Snapshot(c)
		if status.IsMarkable() {
			res, err = s.Ledger.ApplyInTx(tx, c, old, status)
			if err != nil {
				return err
			}
		}

		d, err := upsert(tx, a, day, status, markedBy)
		if err != nil {
			return err
		}

		event := delivery.DeliveryStatusEvent{
			AssignmentID: a.ID,
			CustomerID:   a.CustomerID,
			DriverID:     a.DriverID,
			DeliveryDate: day,
			OldStatus:    old,
			NewStatus:    status,
			OwedDelta:    res.Delta(),
			OwedAfter:    res.OwedAfter,
			MarkedBy:     markedBy,
		}
		if err := tx.Create(&event).Error; err != nil {
			return types.FromDB(err, "delivery event")
		}

		out = MarkResult{Delivery: *d, OldStatus: old, Ledger: res}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveStatusMark(status.String())
	metrics.ObserveOwedChange(out.Ledger.Delta())
	if out.Ledger.Delta() != 0 {
		logger.Info(fmt.Sprintf("Owed changed for customer %d on %s: status %s, delta %+d, owed %d",
			a.CustomerID, utils.FormatDate(day), status, out.Ledger.Delta(), out.Ledger.OwedAfter))
	}
	return &out, nil
}

// Upsert stores status for (assignmentID, date) without touching the owed
// counter. Mark is the path that keeps owed in step with the status.
func (s *Service) Upsert(ctx context.Context, assignmentID uint, date time.Time, status delivery.Status, markedBy *uint) (*delivery.Delivery, error) {
	if !status.IsValid() {
		return nil, types.Validation("invalid status %q", status)
	}

	var out *delivery.Delivery
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a assignment.Assignment
		if err := tx.First(&a, assignmentID).Error; err != nil {
			return types.FromDB(err, "assignment")
		}
		d, err := upsert(tx, &a, utils.Day(date), status, markedBy)
		out = d
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// upsert writes the status for (assignment, day), updating an existing row in
// place.
func upsert(tx *gorm.DB, a *assignment.Assignment, day time.Time, status delivery.Status, markedBy *uint) (*delivery.Delivery, error) {
	d := delivery.Delivery{
		AssignmentID: a.ID,
		DeliveryDate: day,
		CustomerID:   a.CustomerID,
		DriverID:     a.DriverID,
		Status:       status,
		MarkedBy:     markedBy,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "assignment_id"}, {Name: "delivery_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "marked_by", "updated_at"}),
	}).Create(&d).Error
	if err != nil {
		return nil, types.FromDB(err, "delivery")
	}

	var stored delivery.Delivery
	err = tx.Where("assignment_id = ? AND delivery_date = ?", a.ID, day).First(&stored).Error
	if err != nil {
		return nil, types.FromDB(err, "delivery")
	}
	return &stored, nil
}

type statusCount struct {
	Status delivery.Status
	Count  int64
}

func kpisFrom(counts []statusCount) delivery.KPIs {
	var k delivery.KPIs
	for _, c := range counts {
		switch c.Status {
		case delivery.StatusDelivered:
			k.Delivered = c.Count
		case delivery.StatusMissed:
			k.Missed = c.Count
		}
		k.Total += c.Count
	}
	k.Pending = k.Total - k.Delivered - k.Missed
	return k
}

// KPIsForDate counts deliveries recorded on date by outcome.
func (s *Service) KPIsForDate(ctx context.Context, date time.Time) (delivery.KPIs, error) {
	day := utils.Day(date)
	return s.KPIsForRange(ctx, day, day)
}

// KPIsForRange counts deliveries recorded between from and to inclusive.
func (s *Service) KPIsForRange(ctx context.Context, from, to time.Time) (delivery.KPIs, error) {
	from, to = utils.Day(from), utils.Day(to)
	if from.After(to) {
		return delivery.KPIs{}, types.Validation("from must not be after to")
	}

	var counts []statusCount
	err := s.DB.WithContext(ctx).
		Model(&delivery.Delivery{}).
		Select("status, COUNT(*) AS count").
		Where("delivery_date BETWEEN ? AND ?", from, to).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return delivery.KPIs{}, types.FromDB(err, "deliveries")
	}
	return kpisFrom(counts), nil
}

// MissedByDriver counts missed deliveries of one driver between from and to.
func (s *Service) MissedByDriver(ctx context.Context, driverID uint, from, to time.Time) (delivery.DriverMissed, error) {
	from, to = utils.Day(from), utils.Day(to)
	if from.After(to) {
		return delivery.DriverMissed{}, types.Validation("from must not be after to")
	}

	var d driver.Driver
	if err := s.DB.WithContext(ctx).First(&d, driverID).Error; err != nil {
		return delivery.DriverMissed{}, types.FromDB(err, "driver")
	}

	var count int64
	err := s.DB.WithContext(ctx).
		Model(&delivery.Delivery{}).
		Where("driver_id = ? AND status = ? AND delivery_date BETWEEN ? AND ?", driverID, delivery.StatusMissed, from, to).
		Count(&count).Error
	if err != nil {
		return delivery.DriverMissed{}, types.FromDB(err, "deliveries")
	}

	return delivery.DriverMissed{
		DriverID:    d.ID,
		DriverName:  d.FullName,
		MissedCount: count,
	}, nil
}

// CopyMissed clones every delivery missed on prevDate into a missed record on
// newDate for the same assignment, unless that assignment already has a record
// on newDate. Only available with the clone strategy, where misses are not
// counted as owed.
func (s *Service) CopyMissed(ctx context.Context, prevDate, newDate time.Time, markedBy *uint) (int64, error) {
	if s.Ledger.Strategy != ledger.StrategyClone {
		return 0, types.InvalidState("copying missed deliveries requires the clone carry-forward strategy")
	}

	prev, next := utils.Day(prevDate), utils.Day(newDate)
	if !next.After(prev) {
		return 0, types.Validation("new date must be after the previous date")
	}

	var missed []delivery.Delivery
	err := s.DB.WithContext(ctx).
		Where("delivery_date = ? AND status = ?", prev, delivery.StatusMissed).
		Where("NOT EXISTS (?)", s.DB.Table("deliveries AS n").
			Select("1").
			Where("n.assignment_id = deliveries.assignment_id AND n.delivery_date = ?", next)).
		Order("id").
		Find(&missed).Error
	if err != nil {
		return 0, types.FromDB(err, "deliveries")
	}
	if len(missed) == 0 {
		return 0, nil
	}

	rows := make([]delivery.Delivery, 0, len(missed))
	for _, d := range missed {
		rows = append(rows, delivery.Delivery{
			AssignmentID: d.AssignmentID,
			DeliveryDate: next,
			CustomerID:   d.CustomerID,
			DriverID:     d.DriverID,
			Status:       delivery.StatusMissed,
			MarkedBy:     markedBy,
		})
	}

	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assignment_id"}, {Name: "delivery_date"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, types.FromDB(res.Error, "deliveries")
	}

	logger.Info("Copied missed deliveries from " + utils.FormatDate(prev) + " to " + utils.FormatDate(next))
	return res.RowsAffected, nil
}
