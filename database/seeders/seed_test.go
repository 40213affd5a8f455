package seeders

import (
	"testing"

	admin_model "election-portal/models/admin"
	election_model "election-portal/models/election"
	"election-portal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestSeedCreatesDefaultAdminAndStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)

	if err := Seed(db); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	username, password := testutil.DefaultAdminCredentials()

	var adm admin_model.Admin
	if err := db.Where("username = ?", username).First(&adm).Error; err != nil {
		t.Fatalf("Default admin not seeded: %v", err)
	}
	if adm.PasswordChanged {
		t.Error("Seeded admin must be flagged for a password change")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(password)); err != nil {
		t.Errorf("Seeded password hash does not match default password: %v", err)
	}

	var st election_model.Status
	if err := db.First(&st, election_model.SingletonID).Error; err != nil {
		t.Fatalf("Election status singleton not seeded: %v", err)
	}
	if st.IsActive || st.StartTime != nil || st.EndTime != nil {
		t.Errorf("Seeded election status must be not_started, got %+v", st)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	if err := Seed(db); err != nil {
		t.Fatalf("First seed failed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}

	var count int64
	if err := db.Model(&admin_model.Admin{}).Count(&count).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 admin after repeated seeding, got %d", count)
	}
}
