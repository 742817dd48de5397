package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, debug := range []bool{false, true} {
		logger, err := New(debug)
		if err != nil {
			t.Fatalf("New(%v): %v", debug, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != debug {
			t.Errorf("New(%v): debug level enabled = %v", debug, got)
		}
	}
}

func TestMust(t *testing.T) {
	if Must(false) == nil {
		t.Fatal("Must returned nil")
	}
	if !Must(true).Core().Enabled(zapcore.DebugLevel) {
		t.Error("Must(true) should log at debug level")
	}
}
