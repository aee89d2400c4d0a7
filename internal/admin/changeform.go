package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/loja/internal/actionlog"
	"github.com/rogerio-castellano/loja/internal/render"
)

func (s *Site) addView(w http.ResponseWriter, r *http.Request) {
	reg, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.changeForm(w, r, reg, nil)
}

func (s *Site) changeView(w http.ResponseWriter, r *http.Request) {
	reg, obj, ok := s.object(w, r)
	if !ok {
		return
	}
	s.changeForm(w, r, reg, &obj)
}

// changeForm serves both the add form (obj == nil) and the change form.
func (s *Site) changeForm(w http.ResponseWriter, r *http.Request, reg *registered, obj *Object) {
	m, a := reg.model, reg.admin

	existing := Values{}
	if obj != nil {
		existing = obj.Values
	}

	ctx := render.Context{
		"model_name":     m.VerboseNamePlural,
		"changelist_url": s.modelURL("changelist", m),
		"media_css":      mediaCSS(a.Media),
		"adding":         obj == nil,
	}
	if obj == nil {
		ctx["titulo"] = "Adicionar " + m.VerboseName
	} else {
		ctx["titulo"] = "Modificar " + m.VerboseName
		ctx["object_repr"] = obj.Repr
		ctx["delete_url"] = s.modelURL("delete", m, strconv.Itoa(obj.ID))
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		ctx["fieldsets"] = s.buildForm(m, a, existing, nil, nil)
		s.render(w, r, "admin/change_form.html", ctx)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	values, raw, errs, err := s.parseForm(r, m, a, existing)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if len(errs) > 0 {
		shown := Values{}
		for k, v := range existing {
			shown[k] = v
		}
		for k, v := range values {
			shown[k] = v
		}
		ctx["errors"] = true
		ctx["fieldsets"] = s.buildForm(m, a, shown, raw, errs)
		s.render(w, r, "admin/change_form.html", ctx)
		return
	}

	var saved Object
	action := actionlog.Change
	if obj == nil {
		action = actionlog.Addition
		saved, err = m.Store.Create(r.Context(), values)
	} else {
		saved, err = m.Store.Update(r.Context(), obj.ID, values)
	}
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("failed to save object", "model", m.Label(), "error", err)
		http.Error(w, fmt.Sprintf("could not save %s", m.VerboseName), http.StatusInternalServerError)
		return
	}

	s.logAction(r, action, m, saved)
	s.logger.Info("admin object saved", "model", m.Label(), "id", saved.ID, "action", action)

	target := s.modelURL("changelist", m)
	switch {
	case r.PostFormValue("_continue") != "":
		target = s.modelURL("change", m, strconv.Itoa(saved.ID))
	case r.PostFormValue("_addanother") != "":
		target = s.modelURL("add", m)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Site) deleteView(w http.ResponseWriter, r *http.Request) {
	reg, obj, ok := s.object(w, r)
	if !ok {
		return
	}
	m := reg.model

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.render(w, r, "admin/delete_confirmation.html", render.Context{
			"titulo":         "Tem certeza?",
			"model_name":     m.VerboseNamePlural,
			"verbose_name":   m.VerboseName,
			"object_repr":    obj.Repr,
			"changelist_url": s.modelURL("changelist", m),
			"change_url":     s.modelURL("change", m, strconv.Itoa(obj.ID)),
		})
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := m.Store.Delete(r.Context(), obj.ID); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("failed to delete object", "model", m.Label(), "id", obj.ID, "error", err)
		http.Error(w, fmt.Sprintf("could not delete %s", m.VerboseName), http.StatusInternalServerError)
		return
	}

	s.logAction(r, actionlog.Deletion, m, obj)
	s.logger.Info("admin object deleted", "model", m.Label(), "id", obj.ID)
	http.Redirect(w, r, s.modelURL("changelist", m), http.StatusFound)
}

// object resolves the model and object of the request, answering 404 itself
// when either is unknown.
func (s *Site) object(w http.ResponseWriter, r *http.Request) (*registered, Object, bool) {
	reg, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return nil, Object{}, false
	}

	id, err := strconv.Atoi(chiParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid object ID", http.StatusBadRequest)
		return nil, Object{}, false
	}

	obj, err := reg.model.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.NotFound(w, r)
			return nil, Object{}, false
		}
		s.logger.Error("failed to fetch object", "model", reg.model.Label(), "id", id, "error", err)
		http.Error(w, "could not fetch object", http.StatusInternalServerError)
		return nil, Object{}, false
	}
	return reg, obj, true
}
