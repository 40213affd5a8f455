package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"election-portal/constants"
	sessionService "election-portal/services/session"
	"election-portal/testutil"

	"github.com/gofiber/fiber/v2"
)

func setupApp(t *testing.T) (*fiber.App, *sessionService.Service) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	sessions := sessionService.NewService(db, time.Minute)

	app := fiber.New()
	app.Get("/member-only", RequireMemberSession(sessions), func(c *fiber.Ctx) error {
		return c.SendString("member ok")
	})
	app.Get("/admin-only", RequireAdminSession(sessions), func(c *fiber.Ctx) error {
		return c.SendString("admin ok")
	})

	return app, sessions
}

func request(t *testing.T, app *fiber.App, path, cookieName, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func TestMissingSessionRejected(t *testing.T) {
	app, _ := setupApp(t)

	resp := request(t, app, "/member-only", "", "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without cookie, got %d", resp.StatusCode)
	}

	resp = request(t, app, "/admin-only", "", "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without cookie, got %d", resp.StatusCode)
	}
}

func TestValidSessionAccepted(t *testing.T) {
	app, sessions := setupApp(t)

	memberToken, err := sessions.Create(constants.OwnerMember, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	adminToken, err := sessions.Create(constants.OwnerAdmin, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp := request(t, app, "/member-only", constants.MemberSessionCookie, memberToken)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with member cookie, got %d", resp.StatusCode)
	}

	resp = request(t, app, "/admin-only", constants.AdminSessionCookie, adminToken)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with admin cookie, got %d", resp.StatusCode)
	}
}

func TestCrossSurfaceTokensRejected(t *testing.T) {
	app, sessions := setupApp(t)

	memberToken, err := sessions.Create(constants.OwnerMember, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A member token in the admin cookie must not grant admin access.
	resp := request(t, app, "/admin-only", constants.AdminSessionCookie, memberToken)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for member token on admin route, got %d", resp.StatusCode)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sessions := sessionService.NewService(db, 10*time.Millisecond)

	app := fiber.New()
	app.Get("/member-only", RequireMemberSession(sessions), func(c *fiber.Ctx) error {
		return c.SendString("member ok")
	})

	token, err := sessions.Create(constants.OwnerMember, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	resp := request(t, app, "/member-only", constants.MemberSessionCookie, token)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for expired session, got %d", resp.StatusCode)
	}
}
