package database

import (
	"fmt"
	"os"

	"election-portal/logger"
	"election-portal/models/admin"
	"election-portal/models/candidate"
	"election-portal/models/election"
	log_model "election-portal/models/log"
	"election-portal/models/member"
	"election-portal/models/position"
	"election-portal/models/session"
	"election-portal/models/vote"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection, runs migrations and creates
// the supporting indexes.
func InitDB() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(DB); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// Migrate runs auto migration for all models, foundation entities first.
func Migrate(db *gorm.DB) error {
	// Stage 1: entities without references
	stage1Models := []interface{}{
		&member.Member{},
		&admin.Admin{},
		&position.Position{},
		&election.Status{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: entities referencing stage 1
	stage2Models := []interface{}{
		&candidate.Candidate{},
		&session.Session{},
		&vote.Vote{},
	}

	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: remaining models
	if err := db.AutoMigrate(&log_model.Log{}); err != nil {
		return fmt.Errorf("failed to migrate %T: %w", &log_model.Log{}, err)
	}

	return nil
}

// createIndexes creates additional indexes for better performance. The unique
// index on votes.member_id is the storage-level duplicate-vote guard and must
// exist even if the column tag ever changes.
func createIndexes(db *gorm.DB) error {
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_member_id ON votes(member_id)").Error; err != nil {
		return fmt.Errorf("failed to create vote member_id index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_members_phone ON members(phone)").Error; err != nil {
		return fmt.Errorf("failed to create member phone index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)").Error; err != nil {
		return fmt.Errorf("failed to create session expires_at index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_candidates_position_id ON candidates(position_id)").Error; err != nil {
		return fmt.Errorf("failed to create candidate position_id index: %w", err)
	}

	return nil
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}
