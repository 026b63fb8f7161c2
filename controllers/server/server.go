package server

import (
	"smart-delivery/database"
	"smart-delivery/logger"
	"smart-delivery/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ServerController struct {
	db *gorm.DB
}

func NewServerController(db *gorm.DB) *ServerController {
	return &ServerController{db: db}
}

// Health reports whether the database answers
func (h *ServerController) Health(c *fiber.Ctx) error {
	if err := database.Ping(h.db); err != nil {
		logger.Error("Health check failed", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
			Message: "Database unreachable",
			Status:  fiber.StatusServiceUnavailable,
		})
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
	})
}
