// Package dataset loads the bulk training corpus from disk. The file is a
// JSON document carrying an "emails" list of {subject, body, category,
// priority} records.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
)

// File is the on-disk shape of the training corpus.
type File struct {
	Emails []ensemble.Email `json:"emails"`
}

// ErrNotFound reports a missing training data file.
type ErrNotFound struct {
	Path string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("training data file not found: %s", e.Path)
}

// Load reads and parses the training data file.
func Load(path string) ([]ensemble.Email, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ErrNotFound{Path: path}
		}
		return nil, fmt.Errorf("failed to read training data: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse training data: %w", err)
	}
	return file.Emails, nil
}
