package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	log, err := New("debug", "console")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !log.Core().Enabled(zap.DebugLevel) {
		t.Error("debug should be enabled")
	}

	log, err = New("warn", "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn")
	}
}

func TestNewRejectsUnknownInput(t *testing.T) {
	if _, err := New("loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
