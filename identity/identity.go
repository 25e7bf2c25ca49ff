package identity

import (
	"net/http"

	"voltshop/apperr"
	"voltshop/middleware"

	"go.mongodb.org/mongo-driver/bson"
)

// Identity is the key a cart or guest checkout is scoped by: either an
// authenticated user or an anonymous session, never both.
type Identity struct {
	UserID    string
	SessionID string
}

func Authenticated(userID string) Identity { return Identity{UserID: userID} }
func Anonymous(sessionID string) Identity  { return Identity{SessionID: sessionID} }

func (id Identity) IsAuthenticated() bool { return id.UserID != "" }
func (id Identity) IsZero() bool          { return id.UserID == "" && id.SessionID == "" }

// Filter returns the Mongo filter selecting documents owned by this
// identity. Exactly one key is ever set.
func (id Identity) Filter() bson.M {
	if id.IsAuthenticated() {
		return bson.M{"userId": id.UserID}
	}
	return bson.M{"sessionId": id.SessionID}
}

// Fields returns the owner fields to stamp onto a new document.
func (id Identity) Fields() bson.M {
	return id.Filter()
}

// FromRequest resolves the caller's identity: the JWT user id when
// authenticated, else the session id minted by the guest-session
// endpoint (sent back via the X-Session-Id header).
func FromRequest(r *http.Request) (Identity, error) {
	if uid := middleware.UserID(r.Context()); uid != "" {
		return Authenticated(uid), nil
	}
	if sid := middleware.SessionID(r.Context()); sid != "" {
		return Anonymous(sid), nil
	}
	return Identity{}, apperr.Unauthorized("Missing user or session identity")
}
