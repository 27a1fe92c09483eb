package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/tagship/tagship/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "Valid level: debug", level: "debug", wantErr: false},
		{name: "Valid level: DEBUG (case insensitive)", level: "DEBUG", wantErr: false},
		{name: "Valid level: info", level: "info", wantErr: false},
		{name: "Valid level: warn", level: "warn", wantErr: false},
		{name: "Valid level: error", level: "error", wantErr: false},
		{name: "Invalid level: invalid", level: "invalid", wantErr: true},
		{name: "Invalid level: empty string", level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &config.Logger{
				Level: tt.level,
				JSON:  false,
			}

			result, err := logger.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, result).NotNil()
		})
	}
}

func TestLogger_Configure_JSONFormat(t *testing.T) {
	for _, jsonMode := range []bool{true, false} {
		logger := &config.Logger{
			Level: "info",
			JSON:  jsonMode,
		}

		result, err := logger.Configure()
		gt.NoError(t, err)
		gt.Value(t, result).NotNil()

		// Verify logger can be used
		result.Info("test log message")
	}
}

func TestLogger_Flags(t *testing.T) {
	logger := &config.Logger{}
	flags := logger.Flags()
	gt.Number(t, len(flags)).Equal(2)
}
