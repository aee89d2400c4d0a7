package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rogerio-castellano/loja/internal/config"
	"github.com/rogerio-castellano/loja/internal/repo"
)

func testConfig(t *testing.T, debug bool) *config.Config {
	t.Helper()
	return &config.Config{
		Debug:     debug,
		Static:    config.FilesConfig{URL: "/static/"},
		Media:     config.FilesConfig{URL: "/media/", Root: t.TempDir()},
		Auth:      config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour},
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
		RateLimit: config.RateLimitConfig{RPS: 1, Burst: 5},
	}
}

func newTestSite(t *testing.T, cfg *config.Config) *Site {
	t.Helper()
	site, err := NewRouter(Deps{
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Produtos: repo.NewInMemoryProdutoRepository(),
		Users:    repo.NewInMemoryUserRepository(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return site
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewRouter_Pages(t *testing.T) {
	site := newTestSite(t, testConfig(t, false))

	tests := []struct {
		path   string
		titulo string
	}{
		{"/", "Página Inicial"},
		{"/sobre/", "Sobre Nós"},
		{"/politica-privacidade/", "Política de Privacidade"},
	}
	for _, tt := range tests {
		w := get(site.Handler, tt.path)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tt.path, w.Code)
			continue
		}
		body := w.Body.String()
		if !strings.Contains(body, "<h1>"+tt.titulo+"</h1>") {
			t.Errorf("%s: expected titulo %q in body", tt.path, tt.titulo)
		}
		for _, link := range []string{`href="/"`, `href="/sobre/"`, `href="/politica-privacidade/"`, `href="/static/css/site.css"`} {
			if !strings.Contains(body, link) {
				t.Errorf("%s: expected %s in body", tt.path, link)
			}
		}
	}

	if w := get(site.Handler, "/sobre"); w.Code != http.StatusMovedPermanently {
		t.Errorf("expected redirect to slashed path, got %d", w.Code)
	}
	if w := get(site.Handler, "/contato/"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown page, got %d", w.Code)
	}
}

func TestNewRouter_Reverse(t *testing.T) {
	site := newTestSite(t, testConfig(t, false))

	tests := map[string]string{
		"paginas:home":                 "/",
		"paginas:sobre":                "/sobre/",
		"paginas:politica_privacidade": "/politica-privacidade/",
		"admin:index":                  "/admin/",
		"admin:login":                  "/admin/login/",
	}
	for name, want := range tests {
		if got, err := site.URLs.Reverse(name); err != nil || got != want {
			t.Errorf("reverse %s: expected %q, got %q (%v)", name, want, got, err)
		}
	}
	if got, _ := site.URLs.Reverse("admin:changelist", "produtos", "produto"); got != "/admin/produtos/produto/" {
		t.Errorf("unexpected produto changelist path %q", got)
	}
}

func TestNewRouter_FilesOnlyInDebug(t *testing.T) {
	t.Run("debug off", func(t *testing.T) {
		cfg := testConfig(t, false)
		os.WriteFile(filepath.Join(cfg.Media.Root, "foto.png"), []byte("png"), 0o644)
		site := newTestSite(t, cfg)

		for _, path := range []string{"/static/css/site.css", "/static/css/custom_admin.css", "/media/foto.png"} {
			if w := get(site.Handler, path); w.Code != http.StatusNotFound {
				t.Errorf("%s: expected 404 without debug, got %d", path, w.Code)
			}
		}
	})

	t.Run("debug on", func(t *testing.T) {
		cfg := testConfig(t, true)
		os.WriteFile(filepath.Join(cfg.Media.Root, "foto.png"), []byte("png"), 0o644)
		site := newTestSite(t, cfg)

		w := get(site.Handler, "/static/css/custom_admin.css")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "#changelist") {
			t.Errorf("expected embedded admin css, got %d", w.Code)
		}
		w = get(site.Handler, "/media/foto.png")
		if w.Code != http.StatusOK || w.Body.String() != "png" {
			t.Errorf("expected media file, got %d %q", w.Code, w.Body.String())
		}
		if w := get(site.Handler, "/media/nada.png"); w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for missing media, got %d", w.Code)
		}
	})

	t.Run("static root", func(t *testing.T) {
		cfg := testConfig(t, true)
		cfg.Static.Root = t.TempDir()
		os.WriteFile(filepath.Join(cfg.Static.Root, "app.js"), []byte("js"), 0o644)
		site := newTestSite(t, cfg)

		if w := get(site.Handler, "/static/app.js"); w.Code != http.StatusOK || w.Body.String() != "js" {
			t.Errorf("expected file from static root, got %d", w.Code)
		}
	})
}

func TestNewRouter_Admin(t *testing.T) {
	site := newTestSite(t, testConfig(t, false))

	w := get(site.Handler, "/admin/produtos/produto/")
	if w.Code != http.StatusFound || !strings.HasPrefix(w.Header().Get("Location"), "/admin/login/?next=") {
		t.Errorf("expected redirect to admin login, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if _, err := site.Admin.ModelAdmin("produtos.produto"); err != nil {
		t.Errorf("expected produto registered: %v", err)
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	cfg := testConfig(t, false)
	site := newTestSite(t, cfg)

	get(site.Handler, "/sobre/")
	w := get(site.Handler, "/metrics")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "loja_http_requests_total") {
		t.Errorf("expected metrics exposition, got %d", w.Code)
	}

	cfg = testConfig(t, false)
	cfg.Metrics.Enabled = false
	site = newTestSite(t, cfg)
	if w := get(site.Handler, "/metrics"); w.Code != http.StatusNotFound {
		t.Errorf("expected metrics to be disabled, got %d", w.Code)
	}
}

func TestNewRouter_RequiresConfig(t *testing.T) {
	if _, err := NewRouter(Deps{}); err == nil {
		t.Error("expected error without config")
	}
}

func TestNewRouter_LogsRoutes(t *testing.T) {
	var buf strings.Builder
	_, err := NewRouter(Deps{
		Config:   testConfig(t, false),
		Logger:   slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Produtos: repo.NewInMemoryProdutoRepository(),
		Users:    repo.NewInMemoryUserRepository(),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`msg="route registered" path=/ name=paginas:home`,
		`path=/sobre/ name=paginas:sobre`,
		`path=/admin/login/ name=admin:login`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected log to contain %q", want)
		}
	}
}
