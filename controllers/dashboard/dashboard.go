package dashboard

import (
	"strconv"
	"time"

	deliveryService "smart-delivery/services/delivery"
	"smart-delivery/types"
	"smart-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// DashboardController serves the delivery KPIs
type DashboardController struct {
	Deliveries *deliveryService.Service
	Now        func() time.Time
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(deliveries *deliveryService.Service) *DashboardController {
	return &DashboardController{Deliveries: deliveries, Now: time.Now}
}

// dateRange reads ?from=&to=. Without them it falls back to ?date, and without
// that to today. fallbackMonth widens the default to the current month.
func (dc *DashboardController) dateRange(c *fiber.Ctx, fallbackMonth bool) (time.Time, time.Time, error) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		if date := c.Query("date"); date != "" || !fallbackMonth {
			day, err := utils.ParseDateOr(date, dc.Now())
			if err != nil {
				return time.Time{}, time.Time{}, types.Validation("%s", err.Error())
			}
			return day, day, nil
		}
		month := now.With(utils.Day(dc.Now()))
		return utils.Day(month.BeginningOfMonth()), utils.Day(month.EndOfMonth()), nil
	}

	start, err := utils.ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, types.Validation("from: %s", err.Error())
	}
	end, err := utils.ParseDateOr(to, start)
	if err != nil {
		return time.Time{}, time.Time{}, types.Validation("to: %s", err.Error())
	}
	return start, end, nil
}

// KPIs counts deliveries by outcome for ?date or ?from=&to=
func (dc *DashboardController) KPIs(c *fiber.Ctx) error {
	from, to, err := dc.dateRange(c, false)
	if err != nil {
		return utils.RespondError(c, err)
	}
	kpis, err := dc.Deliveries.KPIsForRange(c.UserContext(), from, to)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "KPIs retrieved successfully", fiber.Map{
		"from": utils.FormatDate(from),
		"to":   utils.FormatDate(to),
		"kpis": kpis,
	})
}

// DriverMissed counts one driver's missed deliveries over ?from=&to=, the
// current month by default
func (dc *DashboardController) DriverMissed(c *fiber.Ctx) error {
	driverID, err := strconv.ParseUint(c.Query("driver_id"), 10, 32)
	if err != nil || driverID == 0 {
		return utils.RespondError(c, types.Validation("driver_id is required"))
	}
	from, to, err := dc.dateRange(c, true)
	if err != nil {
		return utils.RespondError(c, err)
	}

	missed, err := dc.Deliveries.MissedByDriver(c.UserContext(), uint(driverID), from, to)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return utils.Respond(c, fiber.StatusOK, "Driver missed deliveries retrieved successfully", missed)
}
