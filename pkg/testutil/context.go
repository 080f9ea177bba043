package testutil

import (
	"net/http"

	id "warehouse/pkg/domain"
	"warehouse/pkg/requestcontext"
)

// WithPrincipal simulates what the auth middleware does for an authenticated request.
// Invalid user IDs leave the request unauthenticated.
func WithPrincipal(req *http.Request, userID, role string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	ctx := requestcontext.WithPrincipal(req.Context(), requestcontext.Principal{
		UserID: parsed,
		Role:   role,
	})
	return req.WithContext(ctx)
}
