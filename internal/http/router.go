package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/loja/internal/actionlog"
	"github.com/rogerio-castellano/loja/internal/admin"
	"github.com/rogerio-castellano/loja/internal/auth"
	"github.com/rogerio-castellano/loja/internal/config"
	"github.com/rogerio-castellano/loja/internal/http/handlers"
	mw "github.com/rogerio-castellano/loja/internal/http/middleware"
	rl "github.com/rogerio-castellano/loja/internal/http/rate_limiter"
	"github.com/rogerio-castellano/loja/internal/produtos"
	"github.com/rogerio-castellano/loja/internal/render"
	"github.com/rogerio-castellano/loja/internal/repo"
	"github.com/rogerio-castellano/loja/internal/urls"
	"github.com/rogerio-castellano/loja/web"
)

// Deps are the collaborators the site is built from. History and Limiter
// default to in-memory implementations.
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Produtos repo.ProdutoRepository
	Users    repo.UserRepository
	History  actionlog.Log
	Limiter  *rl.Limiter
}

// Site is the assembled application.
type Site struct {
	Handler http.Handler
	URLs    *urls.Table
	Admin   *admin.Site
	Limiter *rl.Limiter
}

var templates = []string{
	handlers.HomeTemplate,
	handlers.SobreTemplate,
	handlers.PoliticaPrivacidadeTemplate,
	"admin/login.html",
	"admin/index.html",
	"admin/change_list.html",
	"admin/change_form.html",
	"admin/delete_confirmation.html",
}

// NewRouter wires the public pages, the admin site and, in debug mode, the
// static and media file servers.
func NewRouter(d Deps) (*Site, error) {
	cfg := d.Config
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limiter := d.Limiter
	if limiter == nil {
		limiter = rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	table := urls.NewTable()

	engine, err := render.New(web.Templates(),
		render.WithReverse(table.Reverse),
		render.WithStaticURL(cfg.Static.URL),
		render.WithGlobals(render.Context{"debug": cfg.Debug}),
	)
	if err != nil {
		return nil, err
	}
	if err := engine.Preload(templates...); err != nil {
		return nil, err
	}
	handlers.SetRenderer(engine)
	handlers.SetLogger(logger)

	if err := table.Include("", handlers.PaginasURLs()); err != nil {
		return nil, fmt.Errorf("include paginas: %w", err)
	}

	site := admin.NewSite(admin.Options{
		Renderer: engine,
		Users:    d.Users,
		Issuer:   auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		History:  d.History,
		Limiter:  limiter,
		Files:    admin.DirStorage{Root: cfg.Media.Root},
		MediaURL: cfg.Media.URL,
		Secure:   !cfg.Debug,
		Logger:   logger,
	})
	if err := produtos.Register(site, d.Produtos); err != nil {
		return nil, fmt.Errorf("register produtos: %w", err)
	}
	if err := site.Include(table, "admin/"); err != nil {
		return nil, fmt.Errorf("include admin: %w", err)
	}

	middlewares := []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.Recoverer,
		mw.Logger(logger),
	}

	if cfg.Metrics.Enabled {
		metrics := mw.NewMetrics()
		err := table.Include("", urls.Module{Routes: []urls.Route{
			{Pattern: strings.TrimPrefix(cfg.Metrics.Path, "/"), Handler: metrics.Handler()},
		}})
		if err != nil {
			return nil, fmt.Errorf("include metrics: %w", err)
		}
		middlewares = append(middlewares, metrics.Middleware)
	}

	if cfg.Debug {
		table.Mount(cfg.Static.URL, http.StripPrefix(cfg.Static.URL, staticHandler(cfg.Static.Root)))
		table.Mount(cfg.Media.URL, http.StripPrefix(cfg.Media.URL, http.FileServer(http.Dir(cfg.Media.Root))))
		logger.Warn("debug mode: serving static and media files", "static", cfg.Static.URL, "media", cfg.Media.URL)
	}

	for _, e := range table.Entries() {
		logger.Debug("route registered", "path", e.Path, "name", e.Name)
	}

	return &Site{
		Handler: table.Router(middlewares...),
		URLs:    table,
		Admin:   site,
		Limiter: limiter,
	}, nil
}

// staticHandler serves root when set and the embedded assets otherwise.
func staticHandler(root string) http.Handler {
	if root != "" {
		return http.FileServer(http.Dir(root))
	}
	return http.FileServer(http.FS(web.Static()))
}
