package middleware

import "net/http"

// ResponseRecorder wraps ResponseWriter, captures the status code, and runs
// an optional hook just before the first byte or header is written (used to
// flush the session cookie in time).
type ResponseRecorder struct {
	http.ResponseWriter
	status      int
	wrote       bool
	beforeWrite func(http.ResponseWriter)
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w, status: http.StatusOK}
}

// SetBeforeWrite registers fn to run once, right before headers are sent.
func (rw *ResponseRecorder) SetBeforeWrite(fn func(http.ResponseWriter)) {
	rw.beforeWrite = fn
}

func (rw *ResponseRecorder) WriteHeader(statusCode int) {
	rw.fireBeforeWrite()
	rw.status = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseRecorder) Write(b []byte) (int, error) {
	rw.fireBeforeWrite()
	return rw.ResponseWriter.Write(b)
}

func (rw *ResponseRecorder) fireBeforeWrite() {
	if !rw.wrote {
		rw.wrote = true
		if rw.beforeWrite != nil {
			rw.beforeWrite(rw.ResponseWriter)
		}
	}
}

func (rw *ResponseRecorder) Status() int { return rw.status }
