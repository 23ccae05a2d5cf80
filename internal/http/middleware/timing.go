package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// processTimeHeader carries the server-side handling time in seconds.
const processTimeHeader = "X-Process-Time"

// timedWriter defers the X-Process-Time header until the response status is
// about to be written. Headers cannot be added after the first body byte, so
// the elapsed time is stamped inside WriteHeader rather than after c.Next().
type timedWriter struct {
	gin.ResponseWriter
	start   time.Time
	stamped bool
}

func (w *timedWriter) stamp() {
	if w.stamped {
		return
	}
	w.stamped = true
	elapsed := time.Since(w.start).Seconds()
	w.Header().Set(processTimeHeader, fmt.Sprintf("%.3f", elapsed))
}

func (w *timedWriter) WriteHeader(code int) {
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timedWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *timedWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

// ProcessTime adds an X-Process-Time header to every response, measured from
// middleware entry to the moment the response starts being written, formatted
// as seconds with millisecond precision (e.g. "0.042").
//
// Place this right after RequestID() so the measurement covers the full chain.
func ProcessTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &timedWriter{ResponseWriter: c.Writer, start: time.Now()}
		c.Next()
	}
}
