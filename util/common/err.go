// Package common provides shared utilities and error helpers used across the
// forum server.
package common

import (
	"errors"
	"fmt"

	"github.com/forumkit/forumkit/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

func NewError(a ...any) error {
	msg := fmt.Sprintln(a...)
	return errors.New(msg)
}

// Combine merges multiple errors into one, skipping nils.
func Combine(errs ...error) error {
	msg := ""
	for _, err := range errs {
		if err != nil {
			msg += err.Error() + ", "
		}
	}
	if msg != "" {
		return errors.New(msg[:len(msg)-2])
	}
	return nil
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
