package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	cases := map[string]zap.AtomicLevel{
		"debug":   zap.NewAtomicLevelAt(zap.DebugLevel),
		"info":    zap.NewAtomicLevelAt(zap.InfoLevel),
		"warn":    zap.NewAtomicLevelAt(zap.WarnLevel),
		"error":   zap.NewAtomicLevelAt(zap.ErrorLevel),
		"verbose": zap.NewAtomicLevelAt(zap.InfoLevel),
	}
	for level, want := range cases {
		log, err := New(level)
		if err != nil {
			t.Fatalf("%s: %v", level, err)
		}
		if !log.Core().Enabled(want.Level()) {
			t.Fatalf("%s: level %s should be enabled", level, want.Level())
		}
		if want.Level() > zap.DebugLevel && log.Core().Enabled(want.Level()-1) {
			t.Fatalf("%s: level %s should be disabled", level, want.Level()-1)
		}
	}
}
