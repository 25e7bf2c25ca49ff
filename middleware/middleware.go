package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	ID        string `json:"id"`
	UID       string `json:"uid"`
	Role      string `json:"role"`
	SessionID string `json:"sessionId,omitempty"`
	jwt.RegisteredClaims
}

type contextKey string

const (
	userIDKey    contextKey = "userId"
	roleKey      contextKey = "role"
	sessionIDKey contextKey = "sessionId"
)

// UserID returns the authenticated user id from ctx, or "".
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// SessionID returns the anonymous session id from ctx, or "".
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// Role returns the caller's role from ctx, or "".
func Role(ctx context.Context) string {
	v, _ := ctx.Value(roleKey).(string)
	return v
}

// Auth wraps route handlers with JWT verification. One instance is
// built in main from config and shared by all routes.
type Auth struct {
	Secret []byte
}

func NewAuth(secret []byte) *Auth { return &Auth{Secret: secret} }

func (a *Auth) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	if claims.UID != "" {
		ctx = context.WithValue(ctx, userIDKey, claims.UID)
	}
	if claims.Role != "" {
		ctx = context.WithValue(ctx, roleKey, claims.Role)
	}
	if claims.SessionID != "" {
		ctx = context.WithValue(ctx, sessionIDKey, claims.SessionID)
	}
	return ctx
}

func bearerToken(r *http.Request) string {
	tokenString := r.Header.Get("Authorization")
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return ""
	}
	return tokenString[7:]
}

// Authenticate rejects requests without a valid bearer token.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if websocket.IsWebSocketUpgrade(r) {
			// Websocket clients pass the token as a query param since
			// browsers cannot set headers on upgrade requests.
			claims, err := a.parse(r.URL.Query().Get("token"))
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			next(w, r.WithContext(withClaims(r.Context(), claims)), ps)
			return
		}

		token := bearerToken(r)
		if token == "" {
			http.Error(w, "Missing token", http.StatusUnauthorized)
			return
		}
		claims, err := a.parse(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(withClaims(r.Context(), claims)), ps)
	}
}

// OptionalAuth attaches claims when a valid token is present and lets
// the request through either way. Guest carts ride on the session id
// claim of an anonymous token.
func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if token := bearerToken(r); token != "" {
			if claims, err := a.parse(token); err == nil {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
		}
		next(w, r, ps)
	}
}

// RequireRole gates a route to the given roles; implies Authenticate.
func (a *Auth) RequireRole(next httprouter.Handle, roles ...string) httprouter.Handle {
	return a.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		role := Role(r.Context())
		for _, allowed := range roles {
			if role == allowed {
				next(w, r, ps)
				return
			}
		}
		http.Error(w, "Forbidden", http.StatusForbidden)
	})
}
