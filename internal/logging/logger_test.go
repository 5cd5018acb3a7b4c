package logging

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		_ = Configure("info", "json")
	})

	tests := []struct {
		name    string
		level   string
		format  string
		want    logrus.Level
		wantErr bool
	}{
		{name: "Debug text", level: "debug", format: "text", want: logrus.DebugLevel},
		{name: "Warn json", level: "warn", format: "json", want: logrus.WarnLevel},
		{name: "Default format", level: "error", format: "", want: logrus.ErrorLevel},
		{name: "Bad level", level: "loud", format: "json", wantErr: true},
		{name: "Bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Configure(tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Configure() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && Log.GetLevel() != tt.want {
				t.Errorf("Log level = %v, want %v", Log.GetLevel(), tt.want)
			}
		})
	}
}

func TestLog_WritesToStderr(t *testing.T) {
	if Log.Out != os.Stderr {
		t.Error("Expected the logger to write to stderr")
	}
}
