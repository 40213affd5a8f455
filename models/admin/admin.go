package admin

import "time"

// Admin is an administrator account. PasswordChanged stays false until the
// seeded default password is replaced; login responses carry that flag so the
// client can force the change flow.
type Admin struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username        string    `gorm:"type:varchar(100);not null;unique" json:"username"`
	PasswordHash    string    `gorm:"type:varchar(255);not null" json:"-"`
	PasswordChanged bool      `gorm:"default:false" json:"password_changed"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
