package session

import "time"

// Session is an opaque bearer credential for an authenticated member or
// administrator. ExpiresAt slides forward on every validated use; expired
// rows are evicted when detected.
type Session struct {
	Token     string    `gorm:"primaryKey;size:64" json:"-"`
	OwnerType string    `gorm:"type:varchar(10);not null;index" json:"owner_type"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// Expired reports whether the session is past its absolute expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
