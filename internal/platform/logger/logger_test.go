// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/platform/logger"
)

/*
TestParseLevel checks textual level mapping.
*/
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.input))
		})
	}
}

/*
TestNewWithWriter verifies JSON output, the app attribute and level filtering.
*/
func TestNewWithWriter(t *testing.T) {
	var buffer bytes.Buffer
	log, closer := logger.NewWithWriter(&buffer, logger.Options{Level: "warn"})
	defer closer.Close()

	log.Info("ignored")
	log.Warn("post_created", slog.Int64("post_id", 1))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
	assert.Equal(t, "post_created", record["msg"])
	assert.Equal(t, "inkwell", record["app"])
}

/*
TestNewWithWriter_File verifies records are duplicated to the rotating file.
*/
func TestNewWithWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")

	var buffer bytes.Buffer
	log, closer := logger.NewWithWriter(&buffer, logger.Options{Debug: true, File: path})

	log.Debug("debug_enabled")
	require.NoError(t, closer.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "debug_enabled")
	assert.Contains(t, buffer.String(), "debug_enabled")
}
