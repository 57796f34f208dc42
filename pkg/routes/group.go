package routes

import "net/http"

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Patterns returns every "METHOD /path" pattern the group registers,
// children included, in declaration order.
func (g Group) Patterns() []string {
	var out []string
	g.walk("", func(pattern string, _ func(http.ResponseWriter, *http.Request)) {
		out = append(out, pattern)
	})
	return out
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		group.walk("", mux.HandleFunc)
	}
}

func (g Group) walk(parentPrefix string, visit func(string, func(http.ResponseWriter, *http.Request))) {
	fullPrefix := parentPrefix + g.Prefix
	for _, route := range g.Routes {
		visit(route.Method+" "+fullPrefix+route.Pattern, route.Handler)
	}
	for _, child := range g.Children {
		child.walk(fullPrefix, visit)
	}
}
