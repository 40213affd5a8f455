package logger

import (
	"log"

	log_model "election-portal/models/log"
	"election-portal/types"

	"gorm.io/gorm"
)

type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100), // Buffered channel to hold log entries
	}
}

// ProcessLog drains the channel and persists entries; run it in its own
// goroutine.
func (logger *AsyncLogger) ProcessLog() {
	for logEntry := range logger.channel {
		dbLog := log_model.Log{
			Method:       logEntry.Method,
			URL:          logEntry.URL,
			RequestBody:  logEntry.RequestBody,
			ResponseBody: logEntry.ResponseBody,
			StatusCode:   logEntry.StatusCode,
			CreatedAt:    logEntry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			log.Printf("Failed to insert audit log entry: %v", err)
		}
	}
}

// Log pushes a log entry into the channel.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	logger.channel <- entry
}
