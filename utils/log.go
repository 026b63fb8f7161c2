package utils

import (
	"encoding/json"
	"strings"
	"time"

	"smart-delivery/types"

	"github.com/gofiber/fiber/v2"
)

const maxLoggedBody = 4000

var redactedFields = []string{"password", "current_password", "new_password", "provisional_password", "token"}

// CreateSanitizedLogEntry copies the request and response of c into a log
// entry with credentials redacted.
func CreateSanitizedLogEntry(c *fiber.Ctx, userID *uint, elapsed time.Duration) types.LogEntry {
	return types.LogEntry{
		Method:       string([]byte(c.Method())),
		URL:          string([]byte(c.OriginalURL())),
		RequestBody:  sanitizeBody(c.Body()),
		ResponseBody: sanitizeBody(c.Response().Body()),
		StatusCode:   c.Response().StatusCode(),
		UserID:       userID,
		DurationMs:   elapsed.Milliseconds(),
		CreatedAt:    time.Now(),
	}
}

func sanitizeBody(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return truncate(string(append([]byte(nil), raw...)))
	}
	redact(payload)

	out, err := json.Marshal(payload)
	if err != nil {
		return "[UNREADABLE_BODY]"
	}
	return truncate(string(out))
}

func redact(v interface{}) {
	switch node := v.(type) {
	case map[string]interface{}:
		for key, child := range node {
			if isRedacted(key) {
				node[key] = "[REDACTED]"
				continue
			}
			redact(child)
		}
	case []interface{}:
		for _, child := range node {
			redact(child)
		}
	}
}

func isRedacted(key string) bool {
	key = strings.ToLower(key)
	for _, f := range redactedFields {
		if key == f {
			return true
		}
	}
	return false
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "...[TRUNCATED]"
}
