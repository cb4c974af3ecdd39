package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/netinventory/internal/core"
	mw "github.com/JonMunkholm/netinventory/internal/web/middleware"
)

// withRequestMetadata adds the client address and user agent to ctx so the
// import pipeline can log who uploaded what.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClient(ctx, mw.ClientIP(r), r.UserAgent())
}
