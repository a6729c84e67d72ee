package erasviz

import (
	"errors"

	"github.com/himanishpuri/erasviz/pkg/logger"
)

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

var (
	ErrUnknownDataset    = errors.New("unknown dataset")
	ErrUnknownChart      = errors.New("unknown chart")
	ErrUnknownStoryboard = errors.New("unknown storyboard")
	ErrUnknownTrack      = errors.New("unknown track")
	ErrViewClosed        = errors.New("view closed")
	ErrEngineClosed      = errors.New("engine closed")
	ErrNotReady          = errors.New("view not ready")
	ErrNoAnalysis        = errors.New("audio analysis unavailable")
)

// named gives log a component tag when it is the application logger.
func named(log Logger, component string) Logger {
	if l, ok := log.(*logger.Logger); ok {
		return l.Named(component)
	}
	return log
}
