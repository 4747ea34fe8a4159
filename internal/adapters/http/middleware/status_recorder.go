// Package middleware holds the inbound HTTP pipeline. Standard assembles it
// in this order:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → router
package middleware

import "net/http"

// statusRecorder remembers the status and body size a handler produced so
// that outer middleware can log, trace and recover around it.
type statusRecorder struct {
	http.ResponseWriter
	code  int
	wrote bool
	bytes int64
}

func recordStatus(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w}
}

// WriteHeader forwards the first call only.
func (s *statusRecorder) WriteHeader(code int) {
	if s.wrote {
		return
	}
	s.code, s.wrote = code, true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wrote {
		s.WriteHeader(http.StatusOK)
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += int64(n)
	return n, err
}

// Unwrap exposes the inner writer to http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Status is the committed status, or 200 when the handler wrote nothing.
func (s *statusRecorder) Status() int {
	if !s.wrote {
		return http.StatusOK
	}
	return s.code
}

// Committed reports whether a status line has been sent.
func (s *statusRecorder) Committed() bool {
	return s.wrote
}
