package api

import "fmt"

// AuthError is a rejection from the identity endpoint. Message is the
// provider's own text, shown verbatim next to the login form.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// QueryError is a failed data fetch after a token was accepted: either a
// non-2xx transport status or a GraphQL-level error in the response body.
type QueryError struct {
	Status  int
	Message string
}

func (e *QueryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("query failed (%d): %s", e.Status, e.Message)
	}
	return "query failed: " + e.Message
}

// ShapeError marks a response that decoded fine but is missing a field the
// dashboard needs. It exists so a renamed provider field surfaces as an
// error instead of a crash in the render path.
type ShapeError struct {
	Field string
}

func (e *ShapeError) Error() string {
	return "unexpected response shape: missing " + e.Field
}
