package utils

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"election-portal/constants"
	"election-portal/types"

	"github.com/gofiber/fiber/v2"
)

var phonePattern = regexp.MustCompile(`^(?:\+88)?01[0-9]{9}$`)

// ValidatePhoneNumber checks a phone number against the local mobile format.
func ValidatePhoneNumber(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// sanitizeRequestBody strips one-time codes and passwords from a request body
// before it reaches the audit log.
func sanitizeRequestBody(c *fiber.Ctx) string {
	body := string(c.Body())
	if body == "" {
		return body
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return body
	}

	for _, key := range []string{"code", "password", "current_password", "new_password"} {
		if _, ok := parsed[key]; ok {
			parsed[key] = "[REDACTED]"
		}
	}

	if sanitized, err := json.Marshal(parsed); err == nil {
		return string(sanitized)
	}
	return body
}

// CreateSanitizedLogEntry builds a log entry from the request/response pair,
// deep-copying the buffers so the async logger never reads a recycled fiber
// buffer.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeRequestBody(c)
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	return types.LogEntry{
		Method:       method,
		URL:          url,
		RequestBody:  requestBody,
		ResponseBody: responseBody,
		StatusCode:   c.Response().StatusCode(),
		CreatedAt:    time.Now(),
	}
}

// SetSessionCookie attaches a session token as an HTTP-only strict-same-site
// cookie, keeping it out of reach of page scripts.
func SetSessionCookie(c *fiber.Ctx, name, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Expires:  time.Now().Add(constants.SessionDuration),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

// ClearSessionCookie expires the named session cookie.
func ClearSessionCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}
