package routes

import (
	"os"
	"strconv"
	"time"

	"election-portal/constants"
	authController "election-portal/controllers/auth"
	ballotController "election-portal/controllers/ballot"
	dashboardController "election-portal/controllers/dashboard"
	electionController "election-portal/controllers/election"
	"election-portal/httpServices/sms"
	"election-portal/logger"
	"election-portal/middleware"
	ballotService "election-portal/services/ballot"
	electionService "election-portal/services/election"
	otpService "election-portal/services/otp"
	sessionService "election-portal/services/session"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// envDuration reads a numeric environment variable as a duration in the
// given unit, falling back when unset or invalid.
func envDuration(key string, unit, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		logger.Warning("Ignoring invalid " + key + " value: " + raw)
		return fallback
	}
	return time.Duration(n) * unit
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	smsClient := sms.NewClient()
	asyncLogger := logger.NewAsyncLogger(db)

	otpTTL := envDuration("OTP_TTL_MINUTES", time.Minute, constants.OTPDefaultTTL)
	sessionDuration := envDuration("SESSION_DURATION_MINUTES", time.Minute, constants.SessionDuration)
	electionDuration := envDuration("ELECTION_DURATION_HOURS", time.Hour, constants.ElectionDefaultDuration)

	otpSvc := otpService.NewService(db, smsClient, otpTTL)
	sessionSvc := sessionService.NewService(db, sessionDuration)
	electionSvc := electionService.NewService(db, electionDuration)
	ballotSvc := ballotService.NewService(db, electionSvc)

	auth := authController.NewAuthController(db, asyncLogger, otpSvc, sessionSvc, ballotSvc)
	election := electionController.NewElectionController(db, asyncLogger, electionSvc)
	ballot := ballotController.NewBallotController(db, asyncLogger, ballotSvc)
	dashboard := dashboardController.NewDashboardController(db, asyncLogger, ballotSvc)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Election portal API")
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/auth/request-code", auth.RequestCode)
	api.Post("/auth/resend-code", auth.ResendCode)
	api.Post("/auth/verify-code", auth.VerifyCode)
	api.Post("/auth/logout", auth.Logout)
	api.Get("/election/status", election.Status)

	/*=============================================================================
	| Member Routes
	===============================================================================*/
	memberOnly := middleware.RequireMemberSession(sessionSvc)
	api.Get("/auth/session", memberOnly, auth.Session)
	api.Get("/ballot", memberOnly, ballot.Ballot)
	api.Post("/vote", memberOnly, ballot.Submit)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	api.Post("/admin/login", auth.AdminLogin)
	api.Post("/admin/logout", auth.AdminLogout)

	admin := api.Group("/admin").Use(middleware.RequireAdminSession(sessionSvc))
	admin.Post("/change-password", auth.ChangePassword)
	admin.Post("/election/start", election.Start)
	admin.Post("/election/stop", election.Stop)
	admin.Post("/election/reset", election.Reset)
	admin.Get("/dashboard", dashboard.Dashboard)
	admin.Get("/results", dashboard.Results)
}
