// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime/debug"
)

// AsStandard converts any error into a StandardError. Errors that already
// carry a code pass through unchanged; everything else becomes an
// INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se
	}
	return NewInternalError(err)
}

// Recovered converts a recovered panic value into a StandardError with
// the stack attached for logging.
func Recovered(v interface{}) *StandardError {
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", v)
	}
	return NewInternalError(err).WithMetadata(map[string]interface{}{
		"stack": string(debug.Stack()),
	})
}
