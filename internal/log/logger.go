package log

import (
	"go.uber.org/zap"
)

var base = zap.NewNop()

// Init builds the process logger. prod selects the JSON production config,
// otherwise the coloured development one.
func Init(prod bool) (*zap.Logger, error) {
	var (
		lg  *zap.Logger
		err error
	)
	if prod {
		lg, err = zap.NewProduction()
	} else {
		lg, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	base = lg
	return lg, nil
}

// L returns the logger set by Init, or a nop logger before Init is called.
func L() *zap.Logger { return base }

func Sync() { _ = base.Sync() }
