package middleware

import (
	"errors"

	"election-portal/constants"
	sessionService "election-portal/services/session"
	"election-portal/types"

	"github.com/gofiber/fiber/v2"
)

// RequireMemberSession guards member-only routes. The validated session is
// stored in Locals under "session"; the member id under "member_id".
func RequireMemberSession(sessions *sessionService.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(constants.MemberSessionCookie)
		sess, err := sessions.ValidateMember(token)
		if err != nil {
			if errors.Is(err, sessionService.ErrNoSession) {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
					Status:  fiber.StatusUnauthorized,
					Message: "Authentication required",
					Data:    nil,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Internal server error",
				Data:    nil,
			})
		}

		c.Locals("session", sess)
		c.Locals("member_id", sess.OwnerID)
		return c.Next()
	}
}

// RequireAdminSession guards administrative routes. The validated session is
// stored in Locals under "session"; the admin id under "admin_id".
func RequireAdminSession(sessions *sessionService.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(constants.AdminSessionCookie)
		sess, err := sessions.ValidateAdmin(token)
		if err != nil {
			if errors.Is(err, sessionService.ErrNoSession) {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
					Status:  fiber.StatusUnauthorized,
					Message: "Authentication required",
					Data:    nil,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Internal server error",
				Data:    nil,
			})
		}

		c.Locals("session", sess)
		c.Locals("admin_id", sess.OwnerID)
		return c.Next()
	}
}
