package logging

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	current.Store(&l)
}

func setLogger(l zerolog.Logger) {
	current.Store(&l)
}

// Logger returns the process logger for structured events.
func Logger() zerolog.Logger {
	return *current.Load()
}

func Debugf(format string, args ...any) {
	current.Load().Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	current.Load().Info().Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	current.Load().Warn().Msgf(format, args...)
}

func Errf(format string, args ...any) {
	current.Load().Error().Msgf(format, args...)
}

// Logf logs without a level, used by tests to leave a trail of what ran.
func Logf(format string, args ...any) {
	current.Load().Log().Msgf(format, args...)
}

// Limiter lets at most one event per key through per interval.
// The tick path uses it so a condition repeating every frame logs once.
type Limiter struct {
	every rate.Limit
	now   func() time.Time

	mu   sync.Mutex
	keys map[string]*rate.Limiter
}

func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		every: rate.Every(interval),
		now:   time.Now,
		keys:  make(map[string]*rate.Limiter),
	}
}

// Allow reports whether an event for key may be logged now.
func (l *Limiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	lim, ok := l.keys[key]
	if !ok {
		lim = rate.NewLimiter(l.every, 1)
		l.keys[key] = lim
	}
	l.mu.Unlock()
	return lim.AllowN(l.now(), 1)
}
