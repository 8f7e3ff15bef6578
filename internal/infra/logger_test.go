package infra

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Infof(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := NewLoggerWith(zap.New(core))

	logger.Infof("test message %s", "value")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "test message value" {
		t.Fatalf("unexpected message: %s", entries[0].Message)
	}
	if entries[0].Level != zap.InfoLevel {
		t.Fatalf("expected info level, got %v", entries[0].Level)
	}
}

func TestZapLogger_Errorf(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := NewLoggerWith(zap.New(core))

	logger.Errorf("error message %s", "boom")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "error message boom" {
		t.Fatalf("unexpected message: %s", entries[0].Message)
	}
	if entries[0].Level != zap.ErrorLevel {
		t.Fatalf("expected error level, got %v", entries[0].Level)
	}
}

func TestNewZapLogger(t *testing.T) {
	logger := NewZapLogger()
	if logger == nil {
		t.Fatalf("expected non-nil logger")
	}
	logger.Infof("test")
	logger.Errorf("test")
}
