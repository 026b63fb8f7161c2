package logger

import (
	"sync"

	log_model "smart-delivery/models/log"
	"smart-delivery/types"

	"gorm.io/gorm"
)

type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
	done    chan struct{}
	once    sync.Once
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100), // Buffered channel to hold log entries
		done:    make(chan struct{}),
	}
}

// ProcessLog drains the channel into the logs table until Close is called.
func (logger *AsyncLogger) ProcessLog() {
	defer close(logger.done)
	Info("Starting asynchronous request logger")

	for logEntry := range logger.channel {
		dbLog := log_model.Log{
			Method:       logEntry.Method,
			URL:          logEntry.URL,
			RequestBody:  logEntry.RequestBody,
			ResponseBody: logEntry.ResponseBody,
			StatusCode:   logEntry.StatusCode,
			UserID:       logEntry.UserID,
			DurationMs:   logEntry.DurationMs,
			CreatedAt:    logEntry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			Error("Failed to insert request log entry", err)
		}
	}
}

// Log queues an entry. When the buffer is full the entry is dropped rather
// than blocking the request.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case logger.channel <- entry:
	default:
		Warning("Request log buffer full, dropping entry for " + entry.Method + " " + entry.URL)
	}
}

// Close stops accepting entries and waits for queued ones to be written.
// ProcessLog must be running.
func (logger *AsyncLogger) Close() {
	logger.once.Do(func() {
		close(logger.channel)
		<-logger.done
	})
}
