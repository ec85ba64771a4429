package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger logs admin requests tagged with the bridge instance.
// Successful polls log at debug since consumers hit /snapshot every frame.
func RequestLogger(logger zerolog.Logger, instance string) gin.HandlerFunc {
	logger = logger.With().Str("instance", instance).Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zerolog.DebugLevel
		switch {
		case status >= 500:
			level = zerolog.ErrorLevel
		case status >= 400 && status != 404 && status != 503:
			level = zerolog.WarnLevel
		}

		event := logger.WithLevel(level).
			Str("route", routeLabel(c)).
			Int("status", status).
			Int64("latency_us", time.Since(start).Microseconds())
		if n := c.Writer.Size(); n > 0 {
			event = event.Int("bytes", n)
		}
		if name := c.Param("name"); name != "" {
			event = event.Str("lookup", name)
		}
		event.Msg("admin request")
	}
}

// routeLabel is the matched route, with unmatched paths sharing one label
// to keep cardinality bounded.
func routeLabel(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unmatched"
}

func RequestMetricsMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		m.RecordHTTPRequest(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}
