package seeders

import (
	"fmt"

	"election-portal/constants"
	admin_model "election-portal/models/admin"
	"election-portal/models/election"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed ensures the records the system cannot run without: the default admin
// account and the election-status singleton.
func Seed(db *gorm.DB) error {
	if err := seedDefaultAdmin(db); err != nil {
		return err
	}
	return seedElectionStatus(db)
}

func seedDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&admin_model.Admin{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(constants.DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	defaultAdmin := admin_model.Admin{
		Username:        constants.DefaultAdminUsername,
		PasswordHash:    string(hash),
		PasswordChanged: false,
	}
	if err := db.Create(&defaultAdmin).Error; err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	return nil
}

func seedElectionStatus(db *gorm.DB) error {
	var count int64
	if err := db.Model(&election.Status{}).Where("id = ?", election.SingletonID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count election status: %w", err)
	}
	if count > 0 {
		return nil
	}

	status := election.Status{
		ID:         election.SingletonID,
		IsActive:   false,
		DurationMs: constants.ElectionDefaultDuration.Milliseconds(),
	}
	if err := db.Create(&status).Error; err != nil {
		return fmt.Errorf("failed to seed election status: %w", err)
	}

	return nil
}
