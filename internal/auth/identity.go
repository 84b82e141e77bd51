package auth

import (
	"github.com/gin-gonic/gin"

	"firebase.google.com/go/v4/auth"
)

const ctxIdentity = "identity"

// Identity is the verified caller of a request. It is stored in the Gin context
// by the middleware and passed explicitly into services, so tests can inject
// identities without touching any global state.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Admin       bool   `json:"admin"`
}

// IdentityFromToken maps a verified Firebase ID token onto an Identity.
// The admin capability comes from the `admin` custom claim set server-side;
// a client-editable display name is never the authorization gate.
func IdentityFromToken(token *auth.Token) *Identity {
	id := &Identity{UID: token.UID}

	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		id.DisplayName = name
	}
	if admin, ok := token.Claims["admin"].(bool); ok {
		id.Admin = admin
	}

	return id
}

// SetIdentity stores the identity in the Gin context. Exported so handler tests
// can install a caller directly.
func SetIdentity(c *gin.Context, id *Identity) {
	c.Set(ctxIdentity, id)
}

// CurrentIdentity returns the verified caller, or nil for anonymous requests.
func CurrentIdentity(c *gin.Context) *Identity {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return nil
	}
	id, ok := v.(*Identity)
	if !ok {
		return nil
	}
	return id
}
