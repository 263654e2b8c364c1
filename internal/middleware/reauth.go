package middleware

import (
	"context"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// ReauthenticateHeader tells the client its session was rejected upstream and
// it should sign in again. The response body is still served, usually from
// the fallback source.
const ReauthenticateHeader = "X-Reauthenticate"

type reauthKey struct{}

// MarkReauthenticate flags the request carried by ctx for re-authentication.
// It has the signature of mealdb.UnauthorizedFunc and is a no-op outside a
// request handled by Reauthenticate.
func MarkReauthenticate(ctx context.Context) {
	if flag, ok := ctx.Value(reauthKey{}).(*atomic.Bool); ok {
		flag.Store(true)
	}
}

// Reauthenticate adds ReauthenticateHeader to the response of any request
// during which MarkReauthenticate was called.
func Reauthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		flag := &atomic.Bool{}
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), reauthKey{}, flag))
		c.Writer = &reauthWriter{ResponseWriter: c.Writer, flag: flag}
		c.Next()
	}
}

// reauthWriter sets the header just before the status line goes out
type reauthWriter struct {
	gin.ResponseWriter
	flag *atomic.Bool
}

func (w *reauthWriter) mark() {
	if w.flag.Load() && !w.Written() {
		w.Header().Set(ReauthenticateHeader, "true")
	}
}

func (w *reauthWriter) WriteHeader(code int) {
	w.mark()
	w.ResponseWriter.WriteHeader(code)
}

func (w *reauthWriter) WriteHeaderNow() {
	w.mark()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *reauthWriter) Write(data []byte) (int, error) {
	w.mark()
	return w.ResponseWriter.Write(data)
}

func (w *reauthWriter) WriteString(s string) (int, error) {
	w.mark()
	return w.ResponseWriter.WriteString(s)
}
