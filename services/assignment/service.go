// Package assignment owns the (customer, date) -> driver mapping.
package assignment

import (
	"context"
	"errors"
	"iter"
	"time"

	"smart-delivery/logger"
	"smart-delivery/metrics"
	assignmentModel "smart-delivery/models/assignment"
	"smart-delivery/models/customer"
	"smart-delivery/models/delivery"
	"smart-delivery/models/driver"
	"smart-delivery/types"
	"smart-delivery/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotMarked is reported for assignments without a delivery record.
const NotMarked = "not_marked"

// Service handles assignment operations
type Service struct {
	DB *gorm.DB
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// DriverRow is an assignment of one driver with the status recorded for the
// assignment date.
type DriverRow struct {
	assignmentModel.View
	Status   string `json:"status"`
	MarkedBy *uint  `json:"marked_by,omitempty"`
}

// Create assigns driverID to customerID on date. A second assignment for the
// same customer and date fails with types.ErrDuplicateAssignment and leaves the
// first one untouched.
func (s *Service) Create(ctx context.Context, date time.Time, customerID, driverID uint, createdBy *uint) (*assignmentModel.Assignment, error) {
	day := utils.Day(date)
	a := assignmentModel.Assignment{
		CustomerID: customerID,
		DriverID:   driverID,
		AssignDate: day,
		CreatedBy:  createdBy,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&customer.Customer{}, customerID).Error; err != nil {
			return types.FromDB(err, "customer")
		}
		if err := tx.Select("id").First(&driver.Driver{}, driverID).Error; err != nil {
			return types.FromDB(err, "driver")
		}

		var existing int64
		if err := tx.Model(&assignmentModel.Assignment{}).
			Where("customer_id = ? AND assign_date = ?", customerID, day).
			Count(&existing).Error; err != nil {
			return types.FromDB(err, "assignment")
		}
		if existing > 0 {
			return types.ErrDuplicateAssignment
		}

		if err := tx.Omit(clause.Associations).Create(&a).Error; err != nil {
			// a concurrent insert can still hit the unique index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return types.ErrDuplicateAssignment
			}
			return types.FromDB(err, "assignment")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrDuplicateAssignment) {
			metrics.ObserveAssignmentConflict()
		}
		return nil, err
	}

	logger.Debug("Assignment created for customer " + utils.FormatDate(day))
	return &a, nil
}

// BulkCreate assigns one driver to several customers on a date. Conflicts are
// reported per customer.
func (s *Service) BulkCreate(ctx context.Context, date time.Time, customerIDs []uint, driverID uint, createdBy *uint) types.BulkResult {
	var result types.BulkResult
	for _, id := range customerIDs {
		_, err := s.Create(ctx, date, id, driverID, createdBy)
		result.Add(id, err)
	}
	return result
}

// Get loads one assignment.
func (s *Service) Get(ctx context.Context, id uint) (*assignmentModel.Assignment, error) {
	var a assignmentModel.Assignment
	if err := s.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, types.FromDB(err, "assignment")
	}
	return &a, nil
}

// FindForCustomerOnDate returns the assignment of a customer on a date.
func (s *Service) FindForCustomerOnDate(ctx context.Context, customerID uint, date time.Time) (*assignmentModel.Assignment, error) {
	var a assignmentModel.Assignment
	err := s.DB.WithContext(ctx).
		Where("customer_id = ? AND assign_date = ?", customerID, utils.Day(date)).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("no assignment exists for this customer on %s", utils.FormatDate(date))
		}
		return nil, types.FromDB(err, "assignment")
	}
	return &a, nil
}

func (s *Service) viewQuery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("assignments AS a").
		Select(`a.id AS assignment_id, a.assign_date AS assign_date,
			a.customer_id AS customer_id, c.full_name AS customer_name, c.location AS location,
			a.driver_id AS driver_id, d.full_name AS driver_name`).
		Joins("JOIN customers c ON c.id = a.customer_id").
		Joins("JOIN drivers d ON d.id = a.driver_id")
}

// ListForDate yields the assignments of a date ordered by customer name. Each
// range over the sequence runs a fresh query, so it can be iterated again.
// The loop body must not use the database while iterating.
func (s *Service) ListForDate(ctx context.Context, date time.Time) iter.Seq2[assignmentModel.View, error] {
	day := utils.Day(date)
	return func(yield func(assignmentModel.View, error) bool) {
		rows, err := s.viewQuery(ctx).
			Where("a.assign_date = ?", day).
			Order("c.full_name, a.id").
			Rows()
		if err != nil {
			yield(assignmentModel.View{}, types.FromDB(err, "assignments"))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var v assignmentModel.View
			if err := s.DB.ScanRows(rows, &v); err != nil {
				yield(assignmentModel.View{}, types.FromDB(err, "assignments"))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(assignmentModel.View{}, types.FromDB(err, "assignments"))
		}
	}
}

// CollectForDate drains ListForDate into a slice.
func (s *Service) CollectForDate(ctx context.Context, date time.Time) ([]assignmentModel.View, error) {
	views := []assignmentModel.View{}
	for v, err := range s.ListForDate(ctx, date) {
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// ListForDriverOnDate returns one driver's assignments on a date with the
// delivery status recorded for that date.
func (s *Service) ListForDriverOnDate(ctx context.Context, date time.Time, driverID uint) ([]DriverRow, error) {
	day := utils.Day(date)

	var views []assignmentModel.View
	err := s.viewQuery(ctx).
		Where("a.assign_date = ? AND a.driver_id = ?", day, driverID).
		Order("c.full_name, a.id").
		Scan(&views).Error
	if err != nil {
		return nil, types.FromDB(err, "assignments")
	}

	rows := make([]DriverRow, 0, len(views))
	if len(views) == 0 {
		return rows, nil
	}

	ids := make([]uint, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.AssignmentID)
	}
	var deliveries []delivery.Delivery
	err = s.DB.WithContext(ctx).
		Where("assignment_id IN ? AND delivery_date = ?", ids, day).
		Find(&deliveries).Error
	if err != nil {
		return nil, types.FromDB(err, "deliveries")
	}
	byAssignment := make(map[uint]delivery.Delivery, len(deliveries))
	for _, d := range deliveries {
		byAssignment[d.AssignmentID] = d
	}

	for _, v := range views {
		row := DriverRow{View: v, Status: NotMarked}
		if d, ok := byAssignment[v.AssignmentID]; ok {
			row.Status = d.Status.String()
			row.MarkedBy = d.MarkedBy
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Remove deletes an assignment. Delivery history recorded for it is kept.
func (s *Service) Remove(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&assignmentModel.Assignment{}, id)
	if res.Error != nil {
		return types.FromDB(res.Error, "assignment")
	}
	if res.RowsAffected == 0 {
		return types.NotFound("assignment not found")
	}
	return nil
}
