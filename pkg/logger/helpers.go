package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// UnitFields builds the standard fields identifying a work unit. An empty
// collection is omitted.
func UnitFields(country, category, collection string) map[string]interface{} {
	fields := map[string]interface{}{
		"country":  country,
		"category": category,
	}
	if collection != "" {
		fields["collection"] = collection
	}
	return fields
}

// LogRequest logs an HTTP exchange with a level chosen by status code
func LogRequest(log Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":   method,
		"url":      url,
		"status":   statusCode,
		"duration": duration,
	}

	switch {
	case statusCode >= 500:
		log.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		log.WarnWithFields("HTTP request client error", fields)
	default:
		log.DebugWithFields("HTTP request completed", fields)
	}
}

// LogPage logs the outcome of one processed page
func LogPage(log Logger, page, fetched, matched, total int) {
	log.InfoWithFields("page processed", map[string]interface{}{
		"page":    page,
		"fetched": fetched,
		"matched": matched,
		"total":   total,
	})
}

// LogRetry logs a failed attempt that will be retried after delay
func LogRetry(log Logger, attempt int, delay time.Duration, err error) {
	log.WithError(err).WarnWithFields("attempt failed, retrying", map[string]interface{}{
		"attempt":  attempt,
		"delay_ms": delay.Milliseconds(),
	})
}

// LogComponentStart logs when a component starts
func LogComponentStart(log Logger, component string, config map[string]interface{}) {
	l := log.WithField("component", component)
	if len(config) > 0 {
		l = l.WithFields(config)
	}
	l.Info("component started")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}

func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
