package customer

import (
	"time"

	"smart-delivery/logger"
	"smart-delivery/middleware"
	customerService "smart-delivery/services/customer"
	deliveryService "smart-delivery/services/delivery"
	"smart-delivery/services/subscription"
	"smart-delivery/types"
	customerTypes "smart-delivery/types/customer"
	deliveryTypes "smart-delivery/types/delivery"
	subscriptionTypes "smart-delivery/types/subscription"
	"smart-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

// CustomerController handles customer-related HTTP requests
type CustomerController struct {
	Customers     *customerService.Service
	Subscriptions *subscription.Service
	Deliveries    *deliveryService.Service
	Now           func() time.Time
}

// NewCustomerController creates a new customer controller
func NewCustomerController(customers *customerService.Service, subscriptions *subscription.Service, deliveries *deliveryService.Service) *CustomerController {
	return &CustomerController{
		Customers:     customers,
		Subscriptions: subscriptions,
		Deliveries:    deliveries,
		Now:           time.Now,
	}
}

// Index lists every customer
func (cc *CustomerController) Index(c *fiber.Ctx) error {
	customers, err := cc.Customers.List(c.UserContext())
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Customers retrieved successfully", customers)
}

// Store creates a customer
func (cc *CustomerController) Store(c *fiber.Ctx) error {
	var req customerTypes.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}

	created, err := cc.Customers.Add(c.UserContext(), req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusCreated, "Customer created successfully", created)
}

// Update replaces the editable fields of a customer
func (cc *CustomerController) Update(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	var req customerTypes.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}

	updated, err := cc.Customers.Update(c.UserContext(), id, req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Customer updated successfully", updated)
}

// Destroy deletes a customer and its history
func (cc *CustomerController) Destroy(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}
	if err := cc.Customers.Delete(c.UserContext(), id); err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Customer deleted successfully", nil)
}

// Overview lists customers with their window status as of ?date (default today)
func (cc *CustomerController) Overview(c *fiber.Ctx) error {
	asOf, err := utils.ParseDateOr(c.Query("date"), cc.Now())
	if err != nil {
		return utils.RespondError(c, types.Validation("%s", err.Error()))
	}
	rows, err := cc.Subscriptions.ListOverview(c.UserContext(), asOf)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Subscription overview retrieved successfully", rows)
}

// CarryForward lists customers with owed deliveries
func (cc *CustomerController) CarryForward(c *fiber.Ctx) error {
	customers, err := cc.Customers.CarryForward(c.UserContext())
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Carry-forward customers retrieved successfully", customers)
}

// Expired lists customers whose window ended before ?date (default today)
func (cc *CustomerController) Expired(c *fiber.Ctx) error {
	asOf, err := utils.ParseDateOr(c.Query("date"), cc.Now())
	if err != nil {
		return utils.RespondError(c, types.Validation("%s", err.Error()))
	}
	customers, err := cc.Subscriptions.ListExpired(c.UserContext(), asOf)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Expired customers retrieved successfully", customers)
}

// Renew starts a fresh subscription cycle for one customer
func (cc *CustomerController) Renew(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	var req subscriptionTypes.RenewRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return utils.RespondError(c, err)
	}

	renewed, err := cc.Subscriptions.Renew(c.UserContext(), id, req.Days)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Subscription renewed successfully", renewed)
}

// BulkRenew renews several customers and reports each outcome
func (cc *CustomerController) BulkRenew(c *fiber.Ctx) error {
	var req subscriptionTypes.BulkRenewRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return utils.RespondError(c, types.Validation("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return utils.RespondError(c, err)
	}

	result := cc.Subscriptions.BulkRenew(c.UserContext(), req.CustomerIDs, req.Days)
	return utils.Respond(c, fiber.StatusOK, "Bulk renewal processed", result)
}

// Pause marks the customer's delivery on a date as paused
func (cc *CustomerController) Pause(c *fiber.Ctx) error {
	id, err := utils.ParamUint(c, "id")
	if err != nil {
		return utils.RespondError(c, err)
	}

	var req deliveryTypes.PauseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			logger.Error("Failed to parse request body", err)
			return utils.RespondError(c, types.Validation("Invalid request body"))
		}
	}
	date, err := utils.ParseDateOr(req.Date, cc.Now())
	if err != nil {
		return utils.RespondError(c, types.Validation("%s", err.Error()))
	}

	result, err := cc.Deliveries.Pause(c.UserContext(), id, date, middleware.CurrentUserID(c))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Delivery paused successfully", result)
}
