// Package middle contains HTTP middleware for the rpalserve server.
package middle

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	// AuthLoggedIn reports whether the request carried a valid bearer
	// token (only meaningful after OptionalAuth; RequireAuth rejects the
	// request outright instead of leaving this false).
	AuthLoggedIn AuthKey = iota
)

const issuer = "rpalserve"

// AuthHandler is middleware that extracts a bearer JWT from a request and
// validates it against a single shared secret. Unlike the teacher's
// AuthHandler (which resolves the token's subject to a stored dao.User),
// this service has no user database -- every valid token authorizes the
// same single principal, the holder of the configured API key.
type AuthHandler struct {
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool

	tok, err := getBearerToken(req)
	if err == nil {
		err = validateJWT(tok, ah.secret)
	}

	if err != nil {
		if ah.required {
			writeUnauthorized(w, ah.unauthedDelay, err.Error())
			return
		}
	} else {
		loggedIn = true
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

// RequireAuth returns middleware that rejects any request without a valid
// bearer token signed with secret.
func RequireAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{secret: secret, unauthedDelay: unauthDelay, required: true, next: next}
	}
}

// OptionalAuth returns middleware that records whether a request carried a
// valid bearer token (via AuthLoggedIn in its context) but never rejects
// the request for lacking one.
func OptionalAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{secret: secret, unauthedDelay: unauthDelay, required: false, next: next}
	}
}

// DontPanic returns a Middleware that recovers from a panic in the wrapped
// handler and writes a generic HTTP-500 instead of letting it crash the
// server.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		log.Printf("ERROR panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "An internal server error occurred",
		})
		return true
	}
	return false
}

func writeUnauthorized(w http.ResponseWriter, delay time.Duration, msg string) {
	time.Sleep(delay)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	tok := strings.TrimSpace(authParts[1])
	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return tok, nil
}

func validateJWT(tok string, secret []byte) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))
	return err
}
