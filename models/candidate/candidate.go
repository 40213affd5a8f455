package candidate

import "time"

// Candidate runs for exactly one position. Deactivating a candidate hides
// them from ballots and tallies without touching stored votes.
type Candidate struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	PositionID uint      `gorm:"not null;index" json:"position_id"`
	Photo      string    `gorm:"type:varchar(2048)" json:"photo"`
	Info       string    `gorm:"type:text" json:"info"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
