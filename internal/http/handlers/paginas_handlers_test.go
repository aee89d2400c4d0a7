package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rogerio-castellano/loja/internal/render"
	"github.com/rogerio-castellano/loja/internal/urls"
)

type captureRenderer struct {
	name string
	ctx  render.Context
	err  error
}

func (c *captureRenderer) Render(w http.ResponseWriter, r *http.Request, name string, ctx render.Context) error {
	if c.err != nil {
		return c.err
	}
	c.name = name
	c.ctx = ctx
	w.Write([]byte(name))
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	table := urls.NewTable()
	if err := table.Include("", PaginasURLs()); err != nil {
		t.Fatal(err)
	}
	return table.Router()
}

func TestPaginas_RenderTemplateAndTitulo(t *testing.T) {
	capture := &captureRenderer{}
	SetRenderer(capture)
	r := newTestRouter(t)

	tests := []struct {
		path     string
		template string
		titulo   string
	}{
		{"/", "paginas/home.html", "Página Inicial"},
		{"/sobre/", "paginas/sobre.html", "Sobre Nós"},
		{"/politica-privacidade/", "paginas/politica_privacidade.html", "Política de Privacidade"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if capture.name != tt.template {
				t.Errorf("expected template %q, got %q", tt.template, capture.name)
			}
			if diff := cmp.Diff(render.Context{"titulo": tt.titulo}, capture.ctx); diff != "" {
				t.Errorf("context mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaginas_Reverse(t *testing.T) {
	table := urls.NewTable()
	if err := table.Include("", PaginasURLs()); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"paginas:home":                 "/",
		"paginas:sobre":                "/sobre/",
		"paginas:politica_privacidade": "/politica-privacidade/",
	}
	for name, path := range want {
		got, err := table.Reverse(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if got != path {
			t.Errorf("%s: expected %q, got %q", name, path, got)
		}
	}
}

func TestPaginas_RenderFailure(t *testing.T) {
	SetRenderer(&captureRenderer{err: errors.New("template missing")})
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sobre/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if w.Body.String() != "could not render page\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}
