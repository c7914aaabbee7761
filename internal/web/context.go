package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/jaarrekening/internal/core"
	"github.com/JonMunkholm/jaarrekening/internal/web/middleware"
)

// withClient attaches the caller's address and user agent for the upload
// history. RemoteAddr has already been resolved by TrustedRealIP.
func withClient(r *http.Request) context.Context {
	return core.WithClient(r.Context(), core.Client{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
}
