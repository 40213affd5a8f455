package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"election-portal/constants"
	admin_model "election-portal/models/admin"
	session_model "election-portal/models/session"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrNoSession covers missing, unknown and expired tokens alike; the
	// caller cannot tell which, by design.
	ErrNoSession = errors.New("no session")

	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Service mints, validates and ends opaque session tokens for members and
// administrators. Validation slides the expiry window forward; the
// last-writer-wins race on concurrent extension is benign.
type Service struct {
	db       *gorm.DB
	duration time.Duration
}

func NewService(db *gorm.DB, duration time.Duration) *Service {
	if duration <= 0 {
		duration = constants.SessionDuration
	}
	return &Service{db: db, duration: duration}
}

// generateToken returns an opaque 43-character URL-safe token from 32 random
// bytes.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create mints a session for the given owner and returns the token.
func (s *Service) Create(ownerType string, ownerID uint) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	sess := session_model.Session{
		Token:     token,
		OwnerType: ownerType,
		OwnerID:   ownerID,
		ExpiresAt: time.Now().Add(s.duration),
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// Validate resolves a token to its session. An expired session is evicted as
// a side effect; a live one has its expiry extended to now + duration.
func (s *Service) Validate(token string) (*session_model.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	var sess session_model.Session
	err := s.db.Where("token = ?", token).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if sess.Expired() {
		s.db.Where("token = ?", token).Delete(&session_model.Session{})
		return nil, ErrNoSession
	}

	sess.ExpiresAt = time.Now().Add(s.duration)
	if err := s.db.Model(&session_model.Session{}).
		Where("token = ?", token).
		Update("expires_at", sess.ExpiresAt).Error; err != nil {
		return nil, fmt.Errorf("failed to extend session: %w", err)
	}

	return &sess, nil
}

// ValidateMember is Validate restricted to member-owned sessions.
func (s *Service) ValidateMember(token string) (*session_model.Session, error) {
	sess, err := s.Validate(token)
	if err != nil {
		return nil, err
	}
	if sess.OwnerType != constants.OwnerMember {
		return nil, ErrNoSession
	}
	return sess, nil
}

// ValidateAdmin is Validate restricted to admin-owned sessions.
func (s *Service) ValidateAdmin(token string) (*session_model.Session, error) {
	sess, err := s.Validate(token)
	if err != nil {
		return nil, err
	}
	if sess.OwnerType != constants.OwnerAdmin {
		return nil, ErrNoSession
	}
	return sess, nil
}

// End deletes the session. Idempotent: ending an unknown token succeeds.
func (s *Service) End(token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.Where("token = ?", token).Delete(&session_model.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// VerifyAdminCredentials checks a username/password pair and mints an admin
// session. The bcrypt comparison is constant-time by construction. The
// second return reports whether the seeded default password is still in
// force, which the client uses to start the forced-change flow.
func (s *Service) VerifyAdminCredentials(username, password string) (string, bool, error) {
	var adm admin_model.Admin
	err := s.db.Where("username = ?", username).First(&adm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, ErrInvalidCredentials
		}
		return "", false, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(password)); err != nil {
		return "", false, ErrInvalidCredentials
	}

	token, err := s.Create(constants.OwnerAdmin, adm.ID)
	if err != nil {
		return "", false, err
	}

	return token, !adm.PasswordChanged, nil
}

// ChangeAdminPassword verifies the current password and replaces it, ending
// the forced-change state.
func (s *Service) ChangeAdminPassword(adminID uint, currentPassword, newPassword string) error {
	var adm admin_model.Admin
	if err := s.db.First(&adm, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Model(&admin_model.Admin{}).
		Where("id = ?", adm.ID).
		Updates(map[string]interface{}{
			"password_hash":    string(hash),
			"password_changed": true,
		}).Error
}
