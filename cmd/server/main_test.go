package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunFailsOnInvalidConfig(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", t.TempDir())

	err := run()
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
}
