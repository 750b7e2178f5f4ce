package telemetry

import (
	"fmt"
	"log/slog"
)

// SlogAPI implements API using the log/slog package. A nil Logger means
// slog.Default().
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func attrs(id string, params []any) []any {
	out := make([]any, 0, 2+len(params)*2)
	out = append(out, "id", id)
	for i, p := range params {
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.logger().Error("broken component", attrs(id, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.logger().Warn("warning", attrs(id, params)...)
}
