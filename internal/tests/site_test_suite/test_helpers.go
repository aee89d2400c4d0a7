package site_test_suite

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rogerio-castellano/loja/internal/admin"
	"github.com/rogerio-castellano/loja/internal/auth"
	"github.com/rogerio-castellano/loja/internal/config"
	api "github.com/rogerio-castellano/loja/internal/http"
	"github.com/rogerio-castellano/loja/internal/repo"
)

var (
	site        *api.Site
	produtoRepo *repo.InMemoryProdutoRepository
	session     *http.Cookie
)

func init() {
	mediaRoot, err := os.MkdirTemp("", "loja-media")
	if err != nil {
		panic(err)
	}

	produtoRepo = repo.NewInMemoryProdutoRepository()
	userRepo := repo.NewInMemoryUserRepository()
	if _, err := auth.EnsureStaffUser(userRepo, "admin", "secret"); err != nil {
		panic(err)
	}

	site, err = api.NewRouter(api.Deps{
		Config: &config.Config{
			Debug:     true,
			Static:    config.FilesConfig{URL: "/static/"},
			Media:     config.FilesConfig{URL: "/media/", Root: mediaRoot},
			Auth:      config.AuthConfig{Secret: "secret-key", TokenTTL: time.Hour},
			RateLimit: config.RateLimitConfig{RPS: 100, Burst: 100},
		},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Produtos: produtoRepo,
		Users:    userRepo,
	})
	if err != nil {
		panic(fmt.Sprintf("error building site: %v", err))
	}

	session, err = login("admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error logging in: %v", err))
	}
}

func clearAllProdutos() {
	produtoRepo.Clear()
}

func login(username, password string) (*http.Cookie, error) {
	w := postForm("/admin/login/", url.Values{"username": {username}, "password": {password}}, nil)
	if w.Code != http.StatusFound {
		return nil, fmt.Errorf("login returned %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == admin.SessionCookie {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no session cookie")
}

func get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	site.Handler.ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	site.Handler.ServeHTTP(w, req)
	return w
}
