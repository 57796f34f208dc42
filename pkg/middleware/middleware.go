// Package middleware provides the HTTP middleware stack and the middleware
// used by API modules.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware.
type System interface {
	// Use appends middleware. The first added runs outermost.
	Use(fns ...func(http.Handler) http.Handler)
	// Apply wraps handler with the stack.
	Apply(handler http.Handler) http.Handler
}

type stack []func(http.Handler) http.Handler

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fns ...func(http.Handler) http.Handler) {
	for _, fn := range fns {
		if fn != nil {
			*s = append(*s, fn)
		}
	}
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		handler = (*s)[i](handler)
	}
	return handler
}
