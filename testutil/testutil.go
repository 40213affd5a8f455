package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"election-portal/constants"
	"election-portal/database"
	admin_model "election-portal/models/admin"
	candidate_model "election-portal/models/candidate"
	member_model "election-portal/models/member"
	position_model "election-portal/models/position"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB opens a per-test SQLite database and runs the full migration
// set against it. The file lives in the test's temp dir and is removed with
// it.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "election_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestMember inserts an eligible member with a deterministic phone
// number derived from n.
func CreateTestMember(t *testing.T, db *gorm.DB, n int) *member_model.Member {
	t.Helper()

	m := member_model.Member{
		Name:             fmt.Sprintf("Member %d", n),
		Phone:            fmt.Sprintf("017%08d", n),
		MembershipNumber: fmt.Sprintf("M-%04d", n),
		IsEligible:       true,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}
	return &m
}

// CreateIneligibleMember inserts a member who may not vote.
func CreateIneligibleMember(t *testing.T, db *gorm.DB, n int) *member_model.Member {
	t.Helper()

	m := member_model.Member{
		Name:             fmt.Sprintf("Former Member %d", n),
		Phone:            fmt.Sprintf("018%08d", n),
		MembershipNumber: fmt.Sprintf("X-%04d", n),
		IsEligible:       false,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("Failed to create ineligible member: %v", err)
	}
	return &m
}

// CreateTestPosition inserts an active position.
func CreateTestPosition(t *testing.T, db *gorm.DB, name string) *position_model.Position {
	t.Helper()

	p := position_model.Position{
		Name:     name,
		IsActive: true,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}
	return &p
}

// CreateTestCandidate inserts an active candidate under the given position.
func CreateTestCandidate(t *testing.T, db *gorm.DB, positionID uint, name string) *candidate_model.Candidate {
	t.Helper()

	c := candidate_model.Candidate{
		Name:       name,
		PositionID: positionID,
		IsActive:   true,
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return &c
}

// CreateTestAdmin inserts an administrator with the given password.
func CreateTestAdmin(t *testing.T, db *gorm.DB, username, password string, passwordChanged bool) *admin_model.Admin {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	a := admin_model.Admin{
		Username:        username,
		PasswordHash:    string(hash),
		PasswordChanged: passwordChanged,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
	return &a
}

// RecordingSender captures delivered codes instead of sending them.
type RecordingSender struct {
	Codes  map[string]string
	Failed bool
}

func NewRecordingSender() *RecordingSender {
	return &RecordingSender{Codes: make(map[string]string)}
}

// SendCode records the code keyed by phone, or fails when Failed is set.
func (r *RecordingSender) SendCode(phone, code string) error {
	if r.Failed {
		return fmt.Errorf("simulated gateway outage")
	}
	r.Codes[phone] = code
	return nil
}

// DefaultAdminCredentials returns the seeded username/password pair.
func DefaultAdminCredentials() (string, string) {
	return constants.DefaultAdminUsername, constants.DefaultAdminPassword
}
