package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 8, 24, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		logsDir     string
		sessionName string
		want        string
	}{
		{
			name:        "relative dir",
			logsDir:     "./racerlogs",
			sessionName: "streetracer",
			want:        filepath.Join("./racerlogs", "streetracer.20260824_150405.log"),
		},
		{
			name:        "absolute dir",
			logsDir:     "/var/log/streetracer",
			sessionName: "streetracer",
			want:        filepath.Join("/var/log/streetracer", "streetracer.20260824_150405.log"),
		},
		{
			name:        "empty dir",
			logsDir:     "",
			sessionName: "run",
			want:        "run.20260824_150405.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.sessionName, start)
			assert.Equal(t, tt.want, got)
		})
	}
}
