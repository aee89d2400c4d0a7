// Package urls keeps a declaration-ordered table of named routes, resolves
// "namespace:name" keys back to paths and builds the chi router that serves
// them.
//
// Patterns are relative and use chi's placeholder syntax: "" is the root of
// the including prefix, "sobre/" a literal page, "{id}/change/" a page with
// a parameter.
package urls

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

var (
	ErrNoReverseMatch   = errors.New("no reverse match")
	ErrDuplicatePattern = errors.New("duplicate route pattern")
	ErrDuplicateName    = errors.New("duplicate route name")
)

// Route binds a relative path pattern to a handler under an optional name.
type Route struct {
	Pattern string
	Handler http.Handler
	Name    string
}

// Path is shorthand for a Route built from a handler function.
func Path(pattern string, h http.HandlerFunc, name string) Route {
	return Route{Pattern: pattern, Handler: h, Name: name}
}

// Module is a namespaced group of routes meant to be included into a Table.
type Module struct {
	Namespace string
	Routes    []Route
}

// Entry is a route as registered in a Table.
type Entry struct {
	Path    string
	Name    string
	handler http.Handler
}

type mount struct {
	prefix  string
	handler http.Handler
}

type Table struct {
	entries []Entry
	mounts  []mount
	names   map[string]int
	paths   map[string]bool
}

func NewTable() *Table {
	return &Table{
		names: map[string]int{},
		paths: map[string]bool{},
	}
}

// Include registers every route of m under prefix. Names are qualified with
// the module namespace. Nothing is registered when an error is returned.
func (t *Table) Include(prefix string, m Module) error {
	added := make([]Entry, 0, len(m.Routes))
	seenPaths := map[string]bool{}
	seenNames := map[string]bool{}

	for _, route := range m.Routes {
		if route.Handler == nil {
			return fmt.Errorf("route %q in %q has no handler", route.Pattern, m.Namespace)
		}

		p := join(prefix, route.Pattern)
		if t.paths[p] || seenPaths[p] {
			return fmt.Errorf("%w: %s", ErrDuplicatePattern, p)
		}
		seenPaths[p] = true

		name := qualify(m.Namespace, route.Name)
		if name != "" {
			if _, ok := t.names[name]; ok || seenNames[name] {
				return fmt.Errorf("%w: %s", ErrDuplicateName, name)
			}
			seenNames[name] = true
		}

		added = append(added, Entry{Path: p, Name: name, handler: route.Handler})
	}

	for _, e := range added {
		t.paths[e.Path] = true
		if e.Name != "" {
			t.names[e.Name] = len(t.entries)
		}
		t.entries = append(t.entries, e)
	}
	return nil
}

// Mount hands every path under prefix to h, unnamed. Used for file servers.
func (t *Table) Mount(prefix string, h http.Handler) {
	t.mounts = append(t.mounts, mount{prefix: join(prefix, ""), handler: h})
}

// Entries returns the registered routes in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Reverse returns the path for a qualified route name, filling placeholders
// with args in order.
func (t *Table) Reverse(name string, args ...string) (string, error) {
	i, ok := t.names[name]
	if !ok {
		return "", fmt.Errorf("%w: %q is not a registered route name", ErrNoReverseMatch, name)
	}

	segments := strings.Split(t.entries[i].Path, "/")
	next := 0
	for j, seg := range segments {
		if !isPlaceholder(seg) {
			continue
		}
		if next >= len(args) {
			return "", fmt.Errorf("%w: %q expects more arguments", ErrNoReverseMatch, name)
		}
		if args[next] == "" || strings.Contains(args[next], "/") {
			return "", fmt.Errorf("%w: invalid argument %q for %q", ErrNoReverseMatch, args[next], name)
		}
		segments[j] = args[next]
		next++
	}
	if next != len(args) {
		return "", fmt.Errorf("%w: %q takes %d arguments, got %d", ErrNoReverseMatch, name, next, len(args))
	}
	return strings.Join(segments, "/"), nil
}

// Router builds a chi router serving the table behind the given middlewares.
// Paths missing only their trailing slash are redirected to the slashed form.
func (t *Table) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares...)

	for _, e := range t.entries {
		r.Handle(e.Path, e.handler)
	}
	for _, m := range t.mounts {
		r.Handle(m.prefix+"*", m.handler)
	}

	r.NotFound(appendSlash(r, http.NotFoundHandler()))
	return r
}

func appendSlash(routes chi.Routes, notFound http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if (r.Method == http.MethodGet || r.Method == http.MethodHead) && !strings.HasSuffix(p, "/") {
			if routes.Match(chi.NewRouteContext(), r.Method, p+"/") {
				target := p + "/"
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusMovedPermanently)
				return
			}
		}
		notFound.ServeHTTP(w, r)
	}
}

func join(prefix, pattern string) string {
	p := "/" + strings.TrimPrefix(prefix, "/")
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p + strings.TrimPrefix(pattern, "/")
}

func qualify(namespace, name string) string {
	if name == "" {
		return ""
	}
	if namespace == "" {
		return name
	}
	return namespace + ":" + name
}

func isPlaceholder(seg string) bool {
	return strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}
