package dashboard

import (
	"election-portal/logger"
	ballotService "election-portal/services/ballot"
	"election-portal/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller serves the administrative overview and results views.
type Controller struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Ballots *ballotService.Service
}

func NewDashboardController(db *gorm.DB, asyncLogger *logger.AsyncLogger, ballots *ballotService.Service) *Controller {
	return &Controller{
		DB:      db,
		Logger:  asyncLogger,
		Ballots: ballots,
	}
}

// Dashboard aggregates voter counts, vote totals and current tallies.
func (dc *Controller) Dashboard(c *fiber.Ctx) error {
	overview, err := dc.Ballots.Dashboard()
	if err != nil {
		logger.Error("Failed to build dashboard", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Dashboard",
		Data:    overview,
	})
}

// Results returns the per-position tallies. The detailed flag (default on)
// adds candidate photos. Winner flags appear only once the election has
// ended.
func (dc *Controller) Results(c *fiber.Ctx) error {
	detailed := c.QueryBool("detailed", true)
	results, err := dc.Ballots.Results(detailed)
	if err != nil {
		logger.Error("Failed to compute results", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Results",
		Data:    results,
	})
}
