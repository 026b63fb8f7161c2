package driver

import (
	"time"

	"smart-delivery/logger"
	assignmentService "smart-delivery/services/assignment"
	driverService "smart-delivery/services/driver"
	"smart-delivery/types"
	driverTypes "smart-delivery/types/driver"
	"smart-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

// DriverController handles driver-related HTTP requests
type DriverController struct {
	Drivers     *driverService.Service
	Assignments *assignmentService.Service
	Now         func() time.Time
}

// NewDriverController creates a new driver controller
func NewDriverController(drivers *driverService.Service, assignments *assignmentService.Service) *DriverController {
	return &DriverController{Drivers: drivers, Assignments: assignments, Now: time.Now}
}

// Index lists every driver
func (dc *DriverController) Index(c *fiber.Ctx) error {
	drivers, err := dc.Drivers.List(c.UserContext())
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Drivers retrieved successfully", drivers)
}

// Store creates a driver with a login that must change its password
func (dc *DriverController) Store(c *fiber.Ctx) error {
	var req driverTypes.DriverRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}

	created, err := dc.Drivers.Add(c.UserContext(), req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusCreated, "Driver created successfully", created)
}

// Destroy deletes a driver, its assignments and its login
func (dc *DriverController) Destroy(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := dc.Drivers.Delete(c.UserContext(), id); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Driver deleted successfully", nil)
}

// Assignments lists a driver's assignments on ?date (default today)
func (dc *DriverController) Assignments(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	date, err := utils.ParseDateOr(c.Query("date"), dc.Now())
	if err != nil {
		return utils.RespondError(c, types.Validation("%s", err.Error()))
	}
	if _, err := dc.Drivers.Get(c.UserContext(), id); err != nil {
		return utils.RespondError(c, err)
	}

	rows, err := dc.Assignments.ListForDriverOnDate(c.UserContext(), date, id)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Driver assignments retrieved successfully", rows)
}
