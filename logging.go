package fuse

import "log/slog"

// WithLogger wires structured logging for state changes and rejections
// through the circuit's hooks. Hooks registered by the caller still run
// after the log line. Without this option the circuit never logs.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		c.logger = log
	}
}

func logStateChange(log *slog.Logger, next OnStateChangeFunc) OnStateChangeFunc {
	return func(name string, from, to State) {
		log.Info("circuit state change",
			slog.String("circuit", name),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
		if next != nil {
			next(name, from, to)
		}
	}
}

func logReject(log *slog.Logger, next OnRejectFunc) OnRejectFunc {
	return func(name string) {
		log.Warn("circuit rejected call", slog.String("circuit", name))
		if next != nil {
			next(name)
		}
	}
}
