package ballot

import (
	"errors"

	"election-portal/logger"
	ballotService "election-portal/services/ballot"
	"election-portal/types"
	voteTypes "election-portal/types/vote"
	"election-portal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller serves the ballot and accepts vote submissions.
type Controller struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Ballots *ballotService.Service
}

func NewBallotController(db *gorm.DB, asyncLogger *logger.AsyncLogger, ballots *ballotService.Service) *Controller {
	return &Controller{
		DB:      db,
		Logger:  asyncLogger,
		Ballots: ballots,
	}
}

// Ballot returns the active positions with their active candidates.
func (bc *Controller) Ballot(c *fiber.Ctx) error {
	positions, err := bc.Ballots.Ballot()
	if err != nil {
		logger.Error("Failed to build ballot", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Ballot",
		Data:    positions,
	})
}

// Submit records the authenticated member's vote.
func (bc *Controller) Submit(c *fiber.Ctx) error {
	var req voteTypes.SubmitVoteRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	memberID := c.Locals("member_id").(uint)

	voteID, err := bc.Ballots.Submit(memberID, req.Votes)
	if err != nil {
		var alreadyVoted *ballotService.AlreadyVotedError
		switch {
		case errors.As(err, &alreadyVoted):
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "You have already voted",
				Data: voteTypes.SubmitVoteResponse{
					VoteID: alreadyVoted.VoteID,
				},
			})
		case errors.Is(err, ballotService.ErrElectionNotActive):
			return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "The election is not active",
				Data:    nil,
			})
		case errors.Is(err, ballotService.ErrEmptyBallot):
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "The vote contains no choices",
				Data:    nil,
			})
		case errors.Is(err, ballotService.ErrInvalidPosition),
			errors.Is(err, ballotService.ErrInvalidCandidate):
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "The vote references an invalid position or candidate",
				Data:    nil,
			})
		}
		logger.Error("Failed to record vote", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	logger.Success("Vote recorded")
	logEntry := utils.CreateSanitizedLogEntry(c)
	bc.Logger.Log(logEntry)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Vote recorded",
		Data: voteTypes.SubmitVoteResponse{
			VoteID: voteID,
		},
	})
}
