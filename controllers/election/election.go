package election

import (
	"errors"
	"time"

	"election-portal/logger"
	election_model "election-portal/models/election"
	electionService "election-portal/services/election"
	"election-portal/types"
	electionTypes "election-portal/types/election"
	"election-portal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller exposes the election lifecycle over HTTP.
type Controller struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Election *electionService.Service
}

func NewElectionController(db *gorm.DB, asyncLogger *logger.AsyncLogger, election *electionService.Service) *Controller {
	return &Controller{
		DB:       db,
		Logger:   asyncLogger,
		Election: election,
	}
}

func epochMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// statusResponse converts the stored state into its wire form.
func (ec *Controller) statusResponse(st *election_model.Status) electionTypes.StatusResponse {
	hours, minutes := ec.Election.Remaining(st)
	return electionTypes.StatusResponse{
		Status:         st.Label(),
		IsActive:       st.IsActive,
		StartTime:      epochMillis(st.StartTime),
		EndTime:        epochMillis(st.EndTime),
		DurationMs:     st.DurationMs,
		HoursRemaining: hours,
		MinsRemaining:  minutes,
	}
}

// Status reports the current election state. Public: both the voting page
// and the admin panel poll it.
func (ec *Controller) Status(c *fiber.Ctx) error {
	st, err := ec.Election.Status()
	if err != nil {
		logger.Error("Failed to load election status", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Election status",
		Data:    ec.statusResponse(st),
	})
}

// Start activates the election, optionally overriding the duration.
func (ec *Controller) Start(c *fiber.Ctx) error {
	var req electionTypes.StartRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			logger.Error("Failed to parse request body", err)
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid request body",
				Data:    nil,
			})
		}
	}

	var duration *time.Duration
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Duration must be positive",
				Data:    nil,
			})
		}
		d := time.Duration(*req.DurationMinutes) * time.Minute
		duration = &d
	}

	st, err := ec.Election.Start(duration)
	if err != nil {
		switch {
		case errors.Is(err, electionService.ErrAlreadyActive):
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "The election is already active",
				Data:    nil,
			})
		case errors.Is(err, electionService.ErrAlreadyEnded):
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "The election has ended and cannot be restarted",
				Data:    nil,
			})
		}
		logger.Error("Failed to start election", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	logger.Success("Election started")
	logEntry := utils.CreateSanitizedLogEntry(c)
	ec.Logger.Log(logEntry)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Election started",
		Data:    ec.statusResponse(st),
	})
}

// Stop ends the active election.
func (ec *Controller) Stop(c *fiber.Ctx) error {
	st, err := ec.Election.Stop()
	if err != nil {
		if errors.Is(err, electionService.ErrNotActive) {
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "The election is not active",
				Data:    nil,
			})
		}
		logger.Error("Failed to stop election", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	logger.Success("Election stopped")
	logEntry := utils.CreateSanitizedLogEntry(c)
	ec.Logger.Log(logEntry)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Election stopped",
		Data:    ec.statusResponse(st),
	})
}

// Reset returns the election to its initial state so a new one can be run.
// Stored votes are left in place.
func (ec *Controller) Reset(c *fiber.Ctx) error {
	st, err := ec.Election.Reset()
	if err != nil {
		logger.Error("Failed to reset election", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	logger.Warning("Election reset to initial state")
	logEntry := utils.CreateSanitizedLogEntry(c)
	ec.Logger.Log(logEntry)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Election reset",
		Data:    ec.statusResponse(st),
	})
}
