package observability

import (
	"github.com/max8938/FinalCallATC/internal/logging"
	"github.com/rs/zerolog"
)

// ComponentLogger tags the process logger with a component name for
// structured events such as request logs.
func ComponentLogger(component string) zerolog.Logger {
	return logging.Logger().With().Str("component", component).Logger()
}
