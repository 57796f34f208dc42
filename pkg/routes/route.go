// Package routes describes HTTP endpoints as data so domain handlers can
// declare them and the api module can register them on a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
