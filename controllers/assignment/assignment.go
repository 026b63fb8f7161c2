package assignment

import (
	"time"

	"smart-delivery/logger"
	"smart-delivery/middleware"
	assignmentService "smart-delivery/services/assignment"
	"smart-delivery/types"
	assignmentTypes "smart-delivery/types/assignment"
	"smart-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

// AssignmentController handles assignment-related HTTP requests
type AssignmentController struct {
	Assignments *assignmentService.Service
	Now         func() time.Time
}

// NewAssignmentController creates a new assignment controller
func NewAssignmentController(assignments *assignmentService.Service) *AssignmentController {
	return &AssignmentController{Assignments: assignments, Now: time.Now}
}

// Index lists the assignments of ?date (default today)
func (ac *AssignmentController) Index(c *fiber.Ctx) error {
	date, err := utils.ParseDateOr(c.Query("date"), ac.Now())
	if err != nil {
		return utils.RespondError(c, types.Validation("%s", err.Error()))
	}
	views, err := ac.Assignments.CollectForDate(c.UserContext(), date)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Assignments retrieved successfully", views)
}

// Store assigns a driver to a customer on a date
func (ac *AssignmentController) Store(c *fiber.Ctx) error {
	var req assignmentTypes.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}
	date, err := req.Validate()
	if err != nil {
		return utils.RespondError(c, err)
	}

	created, err := ac.Assignments.Create(c.UserContext(), date, req.CustomerID, req.DriverID, middleware.CurrentUserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusCreated, "Assignment created successfully", created)
}

// BulkStore assigns a driver to several customers on a date
func (ac *AssignmentController) BulkStore(c *fiber.Ctx) error {
	var req assignmentTypes.BulkAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}
	date, err := req.Validate()
	if err != nil {
		return utils.RespondError(c, err)
	}

	result := ac.Assignments.BulkCreate(c.UserContext(), date, req.CustomerIDs, req.DriverID, middleware.CurrentUserID(c))
	return utils.Respond(c, fiber.StatusOK, "Bulk assignment processed", result)
}

// Destroy removes an assignment; recorded deliveries are kept
func (ac *AssignmentController) Destroy(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := ac.Assignments.Remove(c.UserContext(), id); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Assignment removed successfully", nil)
}

// Mine lists the authenticated driver's assignments on ?date (default today)
func (ac *AssignmentController) Mine(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentClaims(c)
	if !ok || claims.DriverID == nil {
		return utils.RespondError(c, types.Forbidden("No driver is linked to this account"))
	}
	date, err := utils.ParseDateOr(c.Query("date"), ac.Now())
	if err != nil {
		return utils.RespondError(c, types.Validation("%s", err.Error()))
	}

	rows, err := ac.Assignments.ListForDriverOnDate(c.UserContext(), date, *claims.DriverID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Assignments retrieved successfully", rows)
}
