package admin

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/loja/internal/render"
)

type column struct {
	Label string
}

type cell struct {
	HTML string
	URL  string
}

type row struct {
	Cells []cell
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

func (s *Site) changelistView(w http.ResponseWriter, r *http.Request) {
	reg, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	m, a := reg.model, reg.admin
	params := r.URL.Query()

	q := Query{
		Search:       strings.TrimSpace(params.Get("q")),
		SearchFields: a.SearchFields,
		Limit:        listPerPage,
	}
	if len(a.SearchFields) == 0 {
		q.Search = ""
	}

	filters := make([]filterGroup, 0, len(a.ListFilter))
	for _, name := range a.ListFilter {
		f, _ := m.Field(name)
		if rng, ok := dateRange(name, params.Get(name), s.now()); ok {
			q.Ranges = append(q.Ranges, rng)
		}
		filters = append(filters, buildFilterGroup(f, params))
	}

	page := 1
	if p, err := strconv.Atoi(params.Get("p")); err == nil && p > 1 {
		page = p
	}
	q.Offset = (page - 1) * listPerPage

	objects, total, err := m.Store.List(r.Context(), q)
	if err != nil {
		s.logger.Error("failed to list objects", "model", m.Label(), "error", err)
		http.Error(w, "could not fetch objects", http.StatusInternalServerError)
		return
	}

	columns := make([]column, 0, len(a.ListDisplay))
	for _, name := range a.ListDisplay {
		f, _ := m.Field(name)
		columns = append(columns, column{Label: f.Label})
	}
	if len(columns) == 0 {
		columns = append(columns, column{Label: m.VerboseName})
	}

	rows := make([]row, 0, len(objects))
	for _, obj := range objects {
		rows = append(rows, s.buildRow(m, a, obj))
	}

	s.render(w, r, "admin/change_list.html", render.Context{
		"titulo":       fmt.Sprintf("Selecione %s para alterar", strings.ToLower(m.VerboseName)),
		"model_name":   m.VerboseNamePlural,
		"verbose_name": m.VerboseName,
		"add_url":      s.modelURL("add", m),
		"columns":      columns,
		"rows":         rows,
		"total":        total,
		"search":       q.Search,
		"has_search":   len(a.SearchFields) > 0,
		"filters":      filters,
		"pages":        pageLinks(params, page, total),
		"media_css":    mediaCSS(a.Media),
		"preserved":    preservedFilters(params, a.ListFilter),
	})
}

// buildRow links the first column to the change form. Cell contents are
// reduced to escaped plain text.
func (s *Site) buildRow(m Model, a ModelAdmin, obj Object) row {
	changeURL := s.modelURL("change", m, strconv.Itoa(obj.ID))

	if len(a.ListDisplay) == 0 {
		return row{Cells: []cell{{HTML: html.EscapeString(obj.Repr), URL: changeURL}}}
	}

	out := row{}
	for i, name := range a.ListDisplay {
		f, _ := m.Field(name)
		c := cell{HTML: s.policy.Sanitize(formatDisplay(f, obj.Values[name]))}
		if i == 0 {
			c.URL = changeURL
		}
		out.Cells = append(out.Cells, c)
	}
	return out
}

func pageLinks(params map[string][]string, current, total int) []pageLink {
	pages := (total + listPerPage - 1) / listPerPage
	if pages <= 1 {
		return nil
	}
	links := make([]pageLink, 0, pages)
	for n := 1; n <= pages; n++ {
		q := cloneValues(params)
		q.Set("p", strconv.Itoa(n))
		links = append(links, pageLink{Number: n, URL: "?" + q.Encode(), Current: n == current})
	}
	return links
}

// preservedFilters are carried as hidden inputs by the search form.
func preservedFilters(params map[string][]string, filters []string) map[string]string {
	out := map[string]string{}
	for _, name := range filters {
		if v := params[name]; len(v) > 0 && v[0] != "" {
			out[name] = v[0]
		}
	}
	return out
}

// mediaCSS flattens Media.CSS into link descriptors, "all" first.
func mediaCSS(m Media) []map[string]string {
	var out []map[string]string
	if all, ok := m.CSS["all"]; ok {
		for _, href := range all {
			out = append(out, map[string]string{"media": "all", "href": href})
		}
	}
	for medium, hrefs := range m.CSS {
		if medium == "all" {
			continue
		}
		for _, href := range hrefs {
			out = append(out, map[string]string{"media": medium, "href": href})
		}
	}
	return out
}
