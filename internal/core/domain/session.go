package domain

import "errors"

var ErrUnauthenticated = errors.New("not logged in")

// Session is the server-side record binding a request to an authenticated
// identity. It lives in the session store under its ID for the token TTL and
// is destroyed by logout; the cookie only carries a signed reference to it.
type Session struct {
	ID     string `json:"-"`
	UserID string `json:"id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}
