package mines

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid board configuration")

// ConfigError reports board parameters that fall outside the allowed
// ranges. It is returned before any board state is touched.
type ConfigError struct {
	Params Params
	Reason string
}

// [ConfigError] implements [error]
func (e ConfigError) Error() string {
	return fmt.Sprintf("%s (columns = %d, rows = %d, mines = %d)",
		e.Reason, e.Params.Columns, e.Params.Rows, e.Params.Mines,
	)
}

func (e ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
