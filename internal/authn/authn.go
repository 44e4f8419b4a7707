// Package authn maps a verified bearer JWT to the string ownerID convention
// the rest of docflow uses. Token issuance is out of scope; this package
// only consumes tokens already verified by middleware.JWT.
package authn

import (
	"github.com/momentumlabs/docflow/core/handler"
	"github.com/momentumlabs/docflow/middleware"
)

// OwnerID returns the subject of the request's JWT claims, the ownerID
// every Document/Job row is scoped to. False when no claims are present,
// which middleware.JWT guarantees only happens for unauthenticated routes.
func OwnerID(ctx handler.Context) (string, bool) {
	claims, ok := middleware.GetStandardClaims(ctx)
	if !ok || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
