package logger

import (
	"go.uber.org/zap"
)

const serviceName = "onagui-ledger"

var Log = zap.NewNop()

// Initialize replaces Log with a JSON production logger at level. Log is left
// untouched when level does not parse.
func Initialize(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = zl.With(zap.String("service", serviceName))
	return nil
}
