package admin

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/loja/internal/auth"
	"github.com/rogerio-castellano/loja/internal/render"
	"github.com/rogerio-castellano/loja/internal/repo"
)

type contextKey string

const userKey = contextKey("admin_user")

const loginFailed = "Por favor, insira um usuário e senha corretos para uma conta de equipe. Note que ambos os campos diferenciam maiúsculas e minúsculas."

func userFrom(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(userKey).(string)
	return u, ok
}

func chiParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// requireStaff redirects to the login page unless the request carries a
// valid staff session.
func (s *Site) requireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.session(r)
		if err != nil || !claims.Staff {
			target := s.url("login") + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, claims.Subject)
		next(w, r.WithContext(ctx))
	}
}

func (s *Site) session(r *http.Request) (*auth.Claims, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, err
	}
	return s.issuer.ParseToken(c.Value)
}

func (s *Site) loginView(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.FormValue("next"), s.url("index"))

	if claims, err := s.session(r); err == nil && claims.Staff && r.Method == http.MethodGet {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}

	ctx := render.Context{"titulo": "Acessar", "next": next}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.render(w, r, "admin/login.html", ctx)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !s.limiter.Allow(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusTooManyRequests)
		ctx["error"] = "Muitas tentativas de acesso. Aguarde e tente novamente."
		s.render(w, r, "admin/login.html", ctx)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	ctx["username"] = username

	user, err := s.users.GetByUsername(username)
	if err != nil && !errors.Is(err, repo.ErrUserNotFound) {
		s.logger.Error("failed to load user", "username", username, "error", err)
		http.Error(w, "could not log in", http.StatusInternalServerError)
		return
	}
	if err != nil || !user.IsStaff || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info("admin login failed", "username", username)
		ctx["error"] = loginFailed
		s.render(w, r, "admin/login.html", ctx)
		return
	}

	token, err := s.issuer.GenerateToken(user)
	if err != nil {
		s.logger.Error("failed to generate token", "error", err)
		http.Error(w, "could not log in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     s.url("index"),
		MaxAge:   int(s.issuer.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info("admin login", "username", username)
	http.Redirect(w, r, next, http.StatusFound)
}

func (s *Site) logoutView(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     s.url("index"),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.url("login"), http.StatusFound)
}

// safeNext only follows local, non-protocol-relative paths. Browsers drop
// tabs and newlines from a Location, so control characters are refused too.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsRune(next, '\\') {
		return fallback
	}
	if strings.IndexFunc(next, unicode.IsControl) >= 0 {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
