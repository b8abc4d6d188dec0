package sections

import (
	"net/http"

	"github.com/wishlane/landing/internal/cart"
	"github.com/wishlane/landing/internal/identity"
)

// Visitor is what the navbar knows about the person viewing the page.
type Visitor struct {
	Viewer    identity.Viewer
	CartCount int
}

// ResolveVisitor asks the providers about r. A nil provider means an
// anonymous viewer or an empty cart.
func ResolveVisitor(r *http.Request, auth identity.Authenticator, counter cart.Counter) Visitor {
	var v Visitor
	if auth != nil {
		v.Viewer = auth.Authenticate(r)
	}
	if counter != nil {
		v.CartCount = counter.Count(r)
	}
	return v
}
