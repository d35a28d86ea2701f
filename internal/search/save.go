package search

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// saveCapture writes a raw search capture to the data directory as JSON.
func (c *Client) saveCapture(searchType string, capt capture) error {
	if err := os.MkdirAll(c.dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.json", searchType, time.Now().Format("20060102_150405"))
	path := filepath.Join(c.dataDir, filename)

	data, err := json.MarshalIndent(capt, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal capture: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write capture: %w", err)
	}
	return nil
}
