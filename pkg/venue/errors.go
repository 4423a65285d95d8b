package venue

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrGap marks an explicit discontinuity in a venue's update stream.
	ErrGap = errors.New("sequence gap")
	// ErrParse marks a malformed or unrecognized venue message.
	ErrParse = errors.New("malformed message")
)

type Fault string

const (
	FaultNone      Fault = ""
	FaultGap       Fault = "gap"
	FaultParse     Fault = "parse"
	FaultTransport Fault = "transport"
)

// Classify maps a session error to the fault class that ended it.
func Classify(err error) Fault {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return FaultNone
	case errors.Is(err, ErrGap):
		return FaultGap
	case errors.Is(err, ErrParse):
		return FaultParse
	default:
		return FaultTransport
	}
}

func Gapf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrGap, format, args...)
}

func ParseError(err error, what string) error {
	if err == nil {
		return errors.Wrap(ErrParse, what)
	}
	return errors.Wrapf(ErrParse, "%s: %v", what, err)
}
