package log

import "time"

// Log is one persisted request audit entry, written asynchronously.
type Log struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Method       string    `gorm:"type:varchar(10);not null" json:"method"`
	URL          string    `gorm:"type:varchar(2048);not null" json:"url"`
	RequestBody  string    `gorm:"type:text" json:"request_body"`
	ResponseBody string    `gorm:"type:text" json:"response_body"`
	StatusCode   int       `gorm:"index" json:"status_code"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
