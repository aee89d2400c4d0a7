// Package render renders pongo2 (Django syntax) templates into HTTP
// responses. Templates are parsed once and cached.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Context holds the template variables of a single render.
type Context map[string]any

// Renderer writes the named template with ctx as the response body.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, name string, ctx Context) error
}

// ReverseFunc resolves a qualified route name into a path.
type ReverseFunc func(name string, args ...string) (string, error)

type Option func(*Engine)

// WithReverse exposes {{ url("namespace:name") }} to templates.
func WithReverse(fn ReverseFunc) Option {
	return func(e *Engine) {
		e.reverse = fn
	}
}

// WithStaticURL sets the prefix used by {{ static("css/site.css") }}.
func WithStaticURL(prefix string) Option {
	return func(e *Engine) {
		e.staticURL = prefix
	}
}

// WithGlobals adds values visible to every template.
func WithGlobals(globals Context) Option {
	return func(e *Engine) {
		for k, v := range globals {
			e.globals[k] = v
		}
	}
}

type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template

	globals   Context
	reverse   ReverseFunc
	staticURL string
}

var _ Renderer = (*Engine)(nil)

func New(templates fs.FS, opts ...Option) (*Engine, error) {
	if templates == nil {
		return nil, errors.New("render: templates fs is required")
	}

	e := &Engine{
		set:       pongo2.NewSet("loja", pongo2.NewFSLoader(templates)),
		templates: map[string]*pongo2.Template{},
		globals:   Context{},
		staticURL: "/static/",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Preload parses the named templates so that syntax errors surface at startup.
func (e *Engine) Preload(names ...string) error {
	for _, name := range names {
		if _, err := e.template(name); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) Render(w http.ResponseWriter, r *http.Request, name string, ctx Context) error {
	var buf bytes.Buffer
	if err := e.Execute(&buf, r, name, ctx); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("render: write %q: %w", name, err)
	}
	return nil
}

// Execute renders into buf without touching any response.
func (e *Engine) Execute(buf *bytes.Buffer, r *http.Request, name string, ctx Context) error {
	tpl, err := e.template(name)
	if err != nil {
		return err
	}
	if err := tpl.ExecuteWriter(e.context(r, ctx), buf); err != nil {
		return fmt.Errorf("render: execute %q: %w", name, err)
	}
	return nil
}

func (e *Engine) context(r *http.Request, ctx Context) pongo2.Context {
	out := make(pongo2.Context, len(e.globals)+len(ctx)+3)
	for k, v := range e.globals {
		out[k] = v
	}
	out["url"] = e.url
	out["static"] = e.static
	if r != nil {
		out["request_path"] = r.URL.Path
	}
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

func (e *Engine) url(name string) string {
	if e.reverse == nil {
		return "#"
	}
	p, err := e.reverse(name)
	if err != nil {
		return "#"
	}
	return p
}

func (e *Engine) static(path string) string {
	return strings.TrimSuffix(e.staticURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tpl, ok := e.templates[name]
	e.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if tpl, ok := e.templates[name]; ok {
		return tpl, nil
	}
	tpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", name, err)
	}
	e.templates[name] = tpl
	return tpl, nil
}
