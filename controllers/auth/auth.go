package auth

import (
	"errors"

	"election-portal/constants"
	"election-portal/logger"
	member_model "election-portal/models/member"
	session_model "election-portal/models/session"
	ballotService "election-portal/services/ballot"
	otpService "election-portal/services/otp"
	sessionService "election-portal/services/session"
	"election-portal/types"
	authTypes "election-portal/types/auth"
	"election-portal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller handles member and administrator authentication.
type Controller struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	OTP      *otpService.Service
	Sessions *sessionService.Service
	Ballots  *ballotService.Service
}

func NewAuthController(db *gorm.DB, asyncLogger *logger.AsyncLogger, otp *otpService.Service, sessions *sessionService.Service, ballots *ballotService.Service) *Controller {
	return &Controller{
		DB:       db,
		Logger:   asyncLogger,
		OTP:      otp,
		Sessions: sessions,
		Ballots:  ballots,
	}
}

// otpErrorResponse maps a credential-phase error onto an HTTP response.
func otpErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, otpService.ErrUnknownIdentity):
		// The response is deliberately identical in shape to the success
		// path's failure modes so phone numbers cannot be enumerated.
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "No eligible member found with this phone number",
			Data:    nil,
		})
	case errors.Is(err, otpService.ErrNoActiveChallenge):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "No verification code has been requested",
			Data:    nil,
		})
	case errors.Is(err, otpService.ErrChallengeExpired):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "The verification code has expired, please request a new one",
			Data:    nil,
		})
	case errors.Is(err, otpService.ErrTooManyAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(types.ApiResponse{
			Status:  fiber.StatusTooManyRequests,
			Message: "Too many failed attempts, please request a new code",
			Data:    nil,
		})
	case errors.Is(err, otpService.ErrCodeMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "The verification code is incorrect",
			Data:    nil,
		})
	case errors.Is(err, otpService.ErrDeliveryFailed):
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Failed to send the verification code, please try again",
			Data:    nil,
		})
	default:
		logger.Error("OTP operation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}
}

// RequestCode sends a one-time login code to a member's phone.
func (ac *Controller) RequestCode(c *fiber.Ctx) error {
	var req authTypes.RequestCodeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if !utils.ValidatePhoneNumber(req.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid phone number format",
			Data:    nil,
		})
	}

	if err := ac.OTP.RequestCode(req.Phone); err != nil {
		return otpErrorResponse(c, err)
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Verification code sent",
		Data:    nil,
	})
}

// ResendCode invalidates any pending code and sends a fresh one.
func (ac *Controller) ResendCode(c *fiber.Ctx) error {
	var req authTypes.RequestCodeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if !utils.ValidatePhoneNumber(req.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid phone number format",
			Data:    nil,
		})
	}

	if err := ac.OTP.ResendCode(req.Phone); err != nil {
		return otpErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "A new verification code has been sent",
		Data:    nil,
	})
}

// memberInfoResponse assembles the authenticated member view with their
// voted state.
func (ac *Controller) memberInfoResponse(memberID uint) (*authTypes.VerifyCodeResponse, error) {
	var m member_model.Member
	if err := ac.DB.First(&m, memberID).Error; err != nil {
		return nil, err
	}

	voted, voteID, err := ac.Ballots.HasVoted(memberID)
	if err != nil {
		return nil, err
	}

	return &authTypes.VerifyCodeResponse{
		Member: authTypes.MemberInfo{
			ID:               m.ID,
			Name:             m.Name,
			MembershipNumber: m.MembershipNumber,
		},
		HasVoted: voted,
		VoteID:   voteID,
	}, nil
}

// VerifyCode exchanges a one-time code for a member session cookie.
func (ac *Controller) VerifyCode(c *fiber.Ctx) error {
	var req authTypes.VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	memberID, err := ac.OTP.VerifyCode(req.Phone, req.Code)
	if err != nil {
		return otpErrorResponse(c, err)
	}

	token, err := ac.Sessions.Create(constants.OwnerMember, memberID)
	if err != nil {
		logger.Error("Failed to create member session", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	resp, err := ac.memberInfoResponse(memberID)
	if err != nil {
		logger.Error("Failed to load member info", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	utils.SetSessionCookie(c, constants.MemberSessionCookie, token)

	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Login successful",
		Data:    resp,
	})
}

// Session returns the member attached to the current session cookie, so a
// reloaded client can restore its state.
func (ac *Controller) Session(c *fiber.Ctx) error {
	sess := c.Locals("session").(*session_model.Session)

	resp, err := ac.memberInfoResponse(sess.OwnerID)
	if err != nil {
		logger.Error("Failed to load member info", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Session active",
		Data:    resp,
	})
}

// Logout ends the member session. Logging out without a session still
// succeeds.
func (ac *Controller) Logout(c *fiber.Ctx) error {
	token := c.Cookies(constants.MemberSessionCookie)
	if err := ac.Sessions.End(token); err != nil {
		logger.Error("Failed to end member session", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	utils.ClearSessionCookie(c, constants.MemberSessionCookie)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Logged out",
		Data:    nil,
	})
}

// AdminLogin authenticates an administrator with username and password.
func (ac *Controller) AdminLogin(c *fiber.Ctx) error {
	var req authTypes.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	token, mustChange, err := ac.Sessions.VerifyAdminCredentials(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, sessionService.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid username or password",
				Data:    nil,
			})
		}
		logger.Error("Admin login failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	utils.SetSessionCookie(c, constants.AdminSessionCookie, token)

	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Login successful",
		Data: authTypes.AdminLoginResponse{
			Username:           req.Username,
			MustChangePassword: mustChange,
		},
	})
}

// AdminLogout ends the administrator session.
func (ac *Controller) AdminLogout(c *fiber.Ctx) error {
	token := c.Cookies(constants.AdminSessionCookie)
	if err := ac.Sessions.End(token); err != nil {
		logger.Error("Failed to end admin session", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	utils.ClearSessionCookie(c, constants.AdminSessionCookie)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Logged out",
		Data:    nil,
	})
}

// ChangePassword replaces the administrator password after verifying the
// current one. Required once after first login with the seeded default.
func (ac *Controller) ChangePassword(c *fiber.Ctx) error {
	var req authTypes.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if len(req.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "New password must be at least 8 characters",
			Data:    nil,
		})
	}

	adminID := c.Locals("admin_id").(uint)
	if err := ac.Sessions.ChangeAdminPassword(adminID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, sessionService.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Current password is incorrect",
				Data:    nil,
			})
		}
		logger.Error("Failed to change admin password", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Password changed successfully",
		Data:    nil,
	})
}
