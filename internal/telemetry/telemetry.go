package telemetry

import (
	"fmt"
)

// API is an abstraction over logging, it lets tests assert on what would
// have been logged.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a component that has broken in a way that should be addressed
	ReportBroken(id string, params ...any)

	// ReportWarning reports a scenario that does not prevent the operation from
	// completing, but that the user should know about
	ReportWarning(id string, params ...any)
}

// ScopedAPI prefixes every id reported through it with a namespace.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s:%s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s:%s", s.namespace, id), params...)
}
