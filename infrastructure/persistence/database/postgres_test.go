package database

import (
	"testing"

	"go.uber.org/zap"
)

func TestGormConfigTranslatesDriverErrors(t *testing.T) {
	cfg := gormConfig(zap.NewNop())

	if !cfg.TranslateError {
		t.Fatal("TranslateError is off: duplicate-key errors would never map to gorm.ErrDuplicatedKey")
	}
	if cfg.Logger == nil {
		t.Fatal("expected gorm logger to be configured")
	}
}
