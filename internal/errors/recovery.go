package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/samfrons/Messai.io-sub005/internal/logging"
)

// Recover converts a panic inside an optimization or prediction run into an
// *Error carrying the panic value and stack, logging it on the way out.
// Intended use:
//
//	defer errors.Recover(logger, "genetic-algorithm", &err)
func Recover(logger *logging.Logger, component string, errp *error) {
	rec := recover()
	if rec == nil {
		return
	}

	stack := string(debug.Stack())
	if logger != nil {
		logger.Error("Recovered from panic", map[string]interface{}{
			"component": component,
			"error":     fmt.Sprintf("%v", rec),
			"stack":     stack,
		})
	}

	e := Errorf("panic: %v", rec).WithComponent(component)
	if prev, ok := rec.(error); ok {
		e.Err = prev
	}
	*errp = e
}
