package utils

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// RecoverError turns a panic in the calling goroutine into *err, logging the stack.
// It must be deferred directly.
func RecoverError(log *zap.Logger, err *error) {
	if r := recover(); r != nil {
		log.With(zap.String("stack", string(debug.Stack()))).Error("recovered panic", zap.Any("panic", r))
		if err != nil {
			*err = fmt.Errorf("recovered panic: %v", r)
		}
	}
}
