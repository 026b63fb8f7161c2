package driver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"smart-delivery/logger"
	"smart-delivery/models/assignment"
	"smart-delivery/models/delivery"
	driverModel "smart-delivery/models/driver"
	"smart-delivery/models/user"
	"smart-delivery/services/auth"
	"smart-delivery/types"
	driverTypes "smart-delivery/types/driver"
	"smart-delivery/utils"

	"gorm.io/gorm"
)

// Service handles driver directory operations
type Service struct {
	DB *gorm.DB
	// DefaultPassword is the provisional password for new driver logins. A
	// random one is generated per driver when empty.
	DefaultPassword string
}

// NewDriverService creates a new driver service
func NewDriverService(db *gorm.DB, defaultPassword string) *Service {
	return &Service{DB: db, DefaultPassword: defaultPassword}
}

// Created is a new driver with the credentials of its login account. The
// provisional password is only ever returned here.
type Created struct {
	Driver              driverModel.Driver `json:"driver"`
	Username            string             `json:"username"`
	ProvisionalPassword string             `json:"provisional_password"`
}

// List returns every driver ordered by name.
func (s *Service) List(ctx context.Context) ([]driverModel.Driver, error) {
	drivers := []driverModel.Driver{}
	if err := s.DB.WithContext(ctx).Order("full_name, id").Find(&drivers).Error; err != nil {
		return nil, types.FromDB(err, "drivers")
	}
	return drivers, nil
}

// Get loads one driver.
func (s *Service) Get(ctx context.Context, id uint) (*driverModel.Driver, error) {
	var d driverModel.Driver
	if err := s.DB.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, types.FromDB(err, "driver")
	}
	return &d, nil
}

// Add creates a driver and its login. The username is the driver's phone and
// the account must change its password on first login.
func (s *Service) Add(ctx context.Context, req driverTypes.DriverRequest) (*Created, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	password := s.DefaultPassword
	if password == "" {
		generated, err := randomPassword()
		if err != nil {
			return nil, types.Dependency("failed to generate password", err)
		}
		password = generated
	}

	d := driverModel.Driver{FullName: req.FullName, Phone: req.Phone}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&d).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return types.Conflict("a driver with this phone already exists")
			}
			return types.FromDB(err, "driver")
		}
		if _, err := auth.CreateAccountTx(tx, d.Phone, password, user.RoleDriver, &d.ID, true); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return types.Conflict("a login with this phone already exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Success(fmt.Sprintf("Driver created: %s (%s)", d.FullName, utils.MaskPhone(d.Phone)))
	return &Created{Driver: d, Username: d.Phone, ProvisionalPassword: password}, nil
}

// Delete removes a driver together with its assignments, deliveries, status
// events and login account.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&driverModel.Driver{}, id).Error; err != nil {
			return types.FromDB(err, "driver")
		}
		if err := tx.Where("driver_id = ?", id).Delete(&delivery.DeliveryStatusEvent{}).Error; err != nil {
			return types.FromDB(err, "delivery events")
		}
		if err := tx.Where("driver_id = ?", id).Delete(&delivery.Delivery{}).Error; err != nil {
			return types.FromDB(err, "deliveries")
		}
		if err := tx.Where("driver_id = ?", id).Delete(&assignment.Assignment{}).Error; err != nil {
			return types.FromDB(err, "assignments")
		}
		if err := tx.Where("driver_id = ?", id).Delete(&user.User{}).Error; err != nil {
			return types.FromDB(err, "users")
		}
		if err := tx.Delete(&driverModel.Driver{}, id).Error; err != nil {
			return types.FromDB(err, "driver")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Warning("Driver deleted with its assignments and login")
	return nil
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
