package site_integrated_test_suite

import (
	"context"
	"database/sql"
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
	"github.com/rogerio-castellano/loja/internal/db"
	api "github.com/rogerio-castellano/loja/internal/http"
	"github.com/rogerio-castellano/loja/internal/repo"
)

const schema = `
CREATE TABLE IF NOT EXISTS produtos (
	id SERIAL PRIMARY KEY,
	nome VARCHAR(200) NOT NULL,
	descricao TEXT NOT NULL DEFAULT '',
	preco NUMERIC(10, 2) NOT NULL,
	estoque INTEGER NOT NULL DEFAULT 0,
	imagem VARCHAR(255) NOT NULL DEFAULT '',
	data_criacao TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	username VARCHAR(150) NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_staff BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

var (
	site        *api.Site
	produtoRepo *repo.PostgresProdutoRepository
	database    *sql.DB
	session     *http.Cookie
)

// setup connects to DATABASE_URL. It reports false when no database is
// configured so the suite can be skipped.
func setup() (bool, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return false, nil
	}

	var err error
	database, err = db.Connect(context.Background(), dbURL)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := database.ExecContext(ctx, schema); err != nil {
		return false, fmt.Errorf("create schema: %w", err)
	}

	produtoRepo = repo.NewPostgresProdutoRepository(database)
	userRepo := repo.NewPostgresUserRepository(database)
	if _, err := auth.EnsureStaffUser(userRepo, "admin", "secret"); err != nil {
		return false, err
	}

	site, err = api.NewRouter(api.Deps{
		Config: &config.Config{
			Static:    config.FilesConfig{URL: "/static/"},
			Media:     config.FilesConfig{URL: "/media/", Root: os.TempDir()},
			Auth:      config.AuthConfig{Secret: "secret-key", TokenTTL: time.Hour},
			RateLimit: config.RateLimitConfig{RPS: 100, Burst: 100},
		},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Produtos: produtoRepo,
		Users:    userRepo,
	})
	if err != nil {
		return false, err
	}

	w := postForm("/admin/login/", url.Values{"username": {"admin"}, "password": {"secret"}}, nil)
	for _, c := range w.Result().Cookies() {
		if c.Name == admin.SessionCookie {
			session = c
		}
	}
	if session == nil {
		return false, fmt.Errorf("login returned %d without session", w.Code)
	}
	return true, nil
}

func clearAllProdutos() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE produtos RESTART IDENTITY")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate produtos table: %w", err))
	}
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
