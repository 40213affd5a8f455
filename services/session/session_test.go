package session

import (
	"errors"
	"testing"
	"time"

	"election-portal/constants"
	"election-portal/testutil"
)

func TestCreateAndValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Minute)

	token, err := svc.Create(constants.OwnerMember, 42)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(token) != 43 {
		t.Errorf("Expected a 43-character token, got %d characters", len(token))
	}

	sess, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if sess.OwnerType != constants.OwnerMember || sess.OwnerID != 42 {
		t.Errorf("Unexpected session owner: %s/%d", sess.OwnerType, sess.OwnerID)
	}
}

func TestValidateUnknownToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Minute)

	if _, err := svc.Validate("not-a-real-token"); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
	if _, err := svc.Validate(""); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession for empty token, got %v", err)
	}
}

func TestValidateOwnerTypeRestriction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Minute)

	memberToken, err := svc.Create(constants.OwnerMember, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	adminToken, err := svc.Create(constants.OwnerAdmin, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.ValidateAdmin(memberToken); !errors.Is(err, ErrNoSession) {
		t.Errorf("Member token must not pass admin validation, got %v", err)
	}
	if _, err := svc.ValidateMember(adminToken); !errors.Is(err, ErrNoSession) {
		t.Errorf("Admin token must not pass member validation, got %v", err)
	}
	if _, err := svc.ValidateMember(memberToken); err != nil {
		t.Errorf("Member token failed member validation: %v", err)
	}
	if _, err := svc.ValidateAdmin(adminToken); err != nil {
		t.Errorf("Admin token failed admin validation: %v", err)
	}
}

func TestExpiredSessionEvicted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, 10*time.Millisecond)

	token, err := svc.Create(constants.OwnerMember, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(25 * time.Millisecond)

	if _, err := svc.Validate(token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Expected ErrNoSession for expired token, got %v", err)
	}

	// Eviction is permanent, not per-read.
	if _, err := svc.Validate(token); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession on repeat validation, got %v", err)
	}
}

func TestValidateSlidesExpiry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, 60*time.Millisecond)

	token, err := svc.Create(constants.OwnerMember, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Keep touching the session past its original window.
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		if _, err := svc.Validate(token); err != nil {
			t.Fatalf("Validation %d failed: %v", i+1, err)
		}
	}
}

func TestEndIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Minute)

	token, err := svc.Create(constants.OwnerMember, 1)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.End(token); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if _, err := svc.Validate(token); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession after End, got %v", err)
	}

	// Ending again, or ending garbage, still succeeds.
	if err := svc.End(token); err != nil {
		t.Errorf("Repeated End failed: %v", err)
	}
	if err := svc.End("unknown-token"); err != nil {
		t.Errorf("End of unknown token failed: %v", err)
	}
	if err := svc.End(""); err != nil {
		t.Errorf("End of empty token failed: %v", err)
	}
}

func TestVerifyAdminCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Minute)
	testutil.CreateTestAdmin(t, db, "admin", "admin123", false)

	token, mustChange, err := svc.VerifyAdminCredentials("admin", "admin123")
	if err != nil {
		t.Fatalf("VerifyAdminCredentials failed: %v", err)
	}
	if !mustChange {
		t.Error("Expected must-change flag for unchanged default password")
	}
	if _, err := svc.ValidateAdmin(token); err != nil {
		t.Errorf("Minted admin token failed validation: %v", err)
	}

	if _, _, err := svc.VerifyAdminCredentials("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.VerifyAdminCredentials("nobody", "admin123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown username, got %v", err)
	}
}

func TestChangeAdminPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, time.Minute)
	adm := testutil.CreateTestAdmin(t, db, "admin", "admin123", false)

	if err := svc.ChangeAdminPassword(adm.ID, "wrong", "newpassword1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if err := svc.ChangeAdminPassword(adm.ID, "admin123", "newpassword1"); err != nil {
		t.Fatalf("ChangeAdminPassword failed: %v", err)
	}

	// Old password no longer works; the must-change flag clears.
	if _, _, err := svc.VerifyAdminCredentials("admin", "admin123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected old password to be rejected, got %v", err)
	}
	_, mustChange, err := svc.VerifyAdminCredentials("admin", "newpassword1")
	if err != nil {
		t.Fatalf("Login with new password failed: %v", err)
	}
	if mustChange {
		t.Error("Must-change flag should clear after a password change")
	}
}
