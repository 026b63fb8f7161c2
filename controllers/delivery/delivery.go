package delivery

import (
	"time"

	"smart-delivery/logger"
	"smart-delivery/middleware"
	"smart-delivery/models/user"
	assignmentService "smart-delivery/services/assignment"
	deliveryService "smart-delivery/services/delivery"
	"smart-delivery/types"
	deliveryTypes "smart-delivery/types/delivery"
	"smart-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

// DeliveryController handles delivery-related HTTP requests
type DeliveryController struct {
	Deliveries  *deliveryService.Service
	Assignments *assignmentService.Service
	Now         func() time.Time
}

// NewDeliveryController creates a new delivery controller
func NewDeliveryController(deliveries *deliveryService.Service, assignments *assignmentService.Service) *DeliveryController {
	return &DeliveryController{Deliveries: deliveries, Assignments: assignments, Now: time.Now}
}

// Mark records delivered or missed for an assignment. Drivers may only mark
// their own assignments.
func (dc *DeliveryController) Mark(c *fiber.Ctx) error {
	var req deliveryTypes.MarkRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}
	date, status, err := req.Validate(dc.Now())
	if err != nil {
		return utils.RespondError(c, err)
	}

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return utils.RespondError(c, &types.AppError{Kind: types.KindUnauthorized, Message: "Invalid user claims"})
	}
	if claims.Role == user.RoleDriver {
		a, err := dc.Assignments.Get(c.UserContext(), req.AssignmentID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		if claims.DriverID == nil || a.DriverID != *claims.DriverID {
			return utils.RespondError(c, types.Forbidden("This assignment belongs to another driver"))
		}
	}

	result, err := dc.Deliveries.Mark(c.UserContext(), req.AssignmentID, date, status, middleware.CurrentUserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Delivery marked as "+status.String(), result)
}

// CopyMissed clones missed deliveries of one date into the next
func (dc *DeliveryController) CopyMissed(c *fiber.Ctx) error {
	var req deliveryTypes.CopyMissedRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}
	prev, next, err := req.Validate()
	if err != nil {
		return utils.RespondError(c, err)
	}

	copied, err := dc.Deliveries.CopyMissed(c.UserContext(), prev, next, middleware.CurrentUserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Missed deliveries copied", fiber.Map{
		"prev_date": utils.FormatDate(prev),
		"new_date":  utils.FormatDate(next),
		"copied":    copied,
	})
}
