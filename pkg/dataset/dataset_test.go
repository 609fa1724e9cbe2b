package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "training_data.json")
	payload := `{"emails": [
		{"subject": "Server down", "body": "Production outage", "category": "support", "priority": "high"},
		{"subject": "Pricing question", "body": "How much is the premium plan?", "category": "sales", "priority": "low"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	emails, err := Load(path)
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "Server down", emails[0].Subject)
	assert.Equal(t, "sales", emails[1].Category)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	var notFound *ErrNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
