package dream

import (
	"os"
	"strings"
	"time"
)

// SaveLastRun writes today's date to path for incremental (since=auto) runs.
func SaveLastRun(path string) error {
	return os.WriteFile(path, []byte(time.Now().Format("2006-01-02")), 0o640)
}

// ReadLastRun returns the last saved run date, or "" if none exists.
func ReadLastRun(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
