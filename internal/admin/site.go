// Package admin generates a staff-only management UI from declarative
// ModelAdmin values: a changelist with search and filters, a change form
// grouped into fieldsets, deletion, and a history of recent actions.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rogerio-castellano/loja/internal/actionlog"
	"github.com/rogerio-castellano/loja/internal/auth"
	"github.com/rogerio-castellano/loja/internal/http/rate_limiter"
	"github.com/rogerio-castellano/loja/internal/render"
	"github.com/rogerio-castellano/loja/internal/repo"
	"github.com/rogerio-castellano/loja/internal/urls"
)

// Namespace of the admin route names.
const Namespace = "admin"

const (
	SessionCookie = "loja_admin_session"
	listPerPage   = 100
	recentActions = 10
)

type Options struct {
	Title    string
	Renderer render.Renderer
	Users    repo.UserRepository
	Issuer   *auth.Issuer
	History  actionlog.Log
	Limiter  *rate_limiter.Limiter
	Files    FileStorage
	MediaURL string
	Secure   bool
	Logger   *slog.Logger
}

type registered struct {
	model Model
	admin ModelAdmin
}

type Site struct {
	title    string
	renderer render.Renderer
	users    repo.UserRepository
	issuer   *auth.Issuer
	history  actionlog.Log
	limiter  *rate_limiter.Limiter
	files    FileStorage
	mediaURL string
	secure   bool
	logger   *slog.Logger
	policy   *bluemonday.Policy

	models  map[string]*registered
	reverse func(name string, args ...string) (string, error)
	now     func() time.Time
}

func NewSite(opts Options) *Site {
	s := &Site{
		title:    opts.Title,
		renderer: opts.Renderer,
		users:    opts.Users,
		issuer:   opts.Issuer,
		history:  opts.History,
		limiter:  opts.Limiter,
		files:    opts.Files,
		mediaURL: opts.MediaURL,
		secure:   opts.Secure,
		logger:   opts.Logger,
		policy:   bluemonday.StrictPolicy(),
		models:   map[string]*registered{},
		now:      time.Now,
	}
	if s.title == "" {
		s.title = "Administração"
	}
	if s.history == nil {
		s.history = actionlog.NewMemoryLog()
	}
	if s.limiter == nil {
		s.limiter = rate_limiter.New(1, 5)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Register adds a model to the site after checking its declaration.
func (s *Site) Register(m Model, a ModelAdmin) error {
	if m.Store == nil {
		return fmt.Errorf("%s: model has no store", m.Label())
	}
	if _, dup := s.models[m.Label()]; dup {
		return fmt.Errorf("%s: model already registered", m.Label())
	}
	if err := Check(m, a); err != nil {
		return err
	}
	s.models[m.Label()] = &registered{model: m, admin: a}
	return nil
}

// ModelAdmin returns the declaration registered for "app.model".
func (s *Site) ModelAdmin(label string) (ModelAdmin, error) {
	reg, ok := s.models[label]
	if !ok {
		return ModelAdmin{}, fmt.Errorf("%w: %s", ErrNotRegistered, label)
	}
	return reg.admin, nil
}

// Include registers the admin routes on t under prefix and resolves the
// site's links through t from then on.
func (s *Site) Include(t *urls.Table, prefix string) error {
	if err := t.Include(prefix, s.urls()); err != nil {
		return err
	}
	s.reverse = t.Reverse
	return nil
}

func (s *Site) urls() urls.Module {
	return urls.Module{
		Namespace: Namespace,
		Routes: []urls.Route{
			urls.Path("", s.requireStaff(s.indexView), "index"),
			urls.Path("login/", s.loginView, "login"),
			urls.Path("logout/", s.logoutView, "logout"),
			urls.Path("{app}/{model}/", s.requireStaff(s.changelistView), "changelist"),
			urls.Path("{app}/{model}/add/", s.requireStaff(s.addView), "add"),
			urls.Path("{app}/{model}/{id}/change/", s.requireStaff(s.changeView), "change"),
			urls.Path("{app}/{model}/{id}/delete/", s.requireStaff(s.deleteView), "delete"),
		},
	}
}

func (s *Site) url(name string, args ...string) string {
	if s.reverse == nil {
		return "#"
	}
	p, err := s.reverse(Namespace+":"+name, args...)
	if err != nil {
		s.logger.Warn("admin url not resolvable", "name", name, "error", err)
		return "#"
	}
	return p
}

func (s *Site) modelURL(name string, m Model, args ...string) string {
	return s.url(name, append([]string{m.AppLabel, m.Name}, args...)...)
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, name string, ctx render.Context) {
	ctx["site_title"] = s.title
	ctx["index_url"] = s.url("index")
	ctx["logout_url"] = s.url("logout")
	if u, ok := userFrom(r.Context()); ok {
		ctx["user"] = u
	}
	if err := s.renderer.Render(w, r, name, ctx); err != nil {
		s.logger.Error("failed to render admin page", "template", name, "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
	}
}

type modelLink struct {
	Name          string
	ChangelistURL string
	AddURL        string
}

type appGroup struct {
	Label  string
	Models []modelLink
}

type historyItem struct {
	Verb       string
	ObjectRepr string
	ModelLabel string
	Username   string
	Time       string
	URL        string
}

func (s *Site) indexView(w http.ResponseWriter, r *http.Request) {
	groups := map[string]*appGroup{}
	for _, reg := range s.models {
		m := reg.model
		g, ok := groups[m.AppLabel]
		if !ok {
			g = &appGroup{Label: m.AppLabel}
			groups[m.AppLabel] = g
		}
		g.Models = append(g.Models, modelLink{
			Name:          m.VerboseNamePlural,
			ChangelistURL: s.modelURL("changelist", m),
			AddURL:        s.modelURL("add", m),
		})
	}

	apps := make([]appGroup, 0, len(groups))
	for _, g := range groups {
		sort.Slice(g.Models, func(i, j int) bool { return g.Models[i].Name < g.Models[j].Name })
		apps = append(apps, *g)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Label < apps[j].Label })

	s.render(w, r, "admin/index.html", render.Context{
		"titulo":  s.title,
		"apps":    apps,
		"history": s.recentHistory(r.Context()),
	})
}

func (s *Site) recentHistory(ctx context.Context) []historyItem {
	entries, err := s.history.Recent(ctx, recentActions)
	if err != nil {
		s.logger.Warn("could not read admin history", "error", err)
		return nil
	}

	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		item := historyItem{
			Verb:       e.Verb(),
			ObjectRepr: e.ObjectRepr,
			ModelLabel: e.ModelLabel,
			Username:   e.Username,
			Time:       e.Time.Format("02/01/2006 15:04"),
		}
		if reg, ok := s.models[e.ModelLabel]; ok && e.Action != actionlog.Deletion {
			item.URL = s.modelURL("change", reg.model, e.ObjectID)
		}
		items = append(items, item)
	}
	return items
}

func (s *Site) logAction(r *http.Request, action actionlog.Action, m Model, obj Object) {
	username := ""
	if u, ok := userFrom(r.Context()); ok {
		username = u
	}
	entry := actionlog.NewEntry(username, action, m.Label(), fmt.Sprint(obj.ID), obj.Repr)
	if err := s.history.Record(r.Context(), entry); err != nil {
		s.logger.Warn("could not record admin action", "action", action, "model", m.Label(), "error", err)
	}
}

func (s *Site) lookup(r *http.Request) (*registered, bool) {
	reg, ok := s.models[chiParam(r, "app")+"."+chiParam(r, "model")]
	return reg, ok
}
