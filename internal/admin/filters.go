package admin

import (
	"net/url"
	"time"
)

type dateChoice struct {
	Value string
	Label string
}

var dateChoices = []dateChoice{
	{"", "Qualquer data"},
	{"today", "Hoje"},
	{"past_7_days", "Últimos 7 dias"},
	{"this_month", "Este mês"},
	{"this_year", "Este ano"},
}

// dateRange turns a filter choice into a half-open range around now.
func dateRange(field, choice string, now time.Time) (DateRange, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	switch choice {
	case "today":
		return DateRange{Field: field, From: today, To: tomorrow}, true
	case "past_7_days":
		return DateRange{Field: field, From: today.AddDate(0, 0, -7), To: tomorrow}, true
	case "this_month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Field: field, From: first, To: first.AddDate(0, 1, 0)}, true
	case "this_year":
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return DateRange{Field: field, From: first, To: first.AddDate(1, 0, 0)}, true
	}
	return DateRange{}, false
}

type filterChoice struct {
	Label    string
	URL      string
	Selected bool
}

type filterGroup struct {
	Label   string
	Choices []filterChoice
}

func buildFilterGroup(f Field, current url.Values) filterGroup {
	group := filterGroup{Label: f.Label}
	selected := current.Get(f.Name)

	for _, c := range dateChoices {
		q := cloneValues(current)
		q.Del("p")
		if c.Value == "" {
			q.Del(f.Name)
		} else {
			q.Set(f.Name, c.Value)
		}
		group.Choices = append(group.Choices, filterChoice{
			Label:    c.Label,
			URL:      "?" + q.Encode(),
			Selected: c.Value == selected,
		})
	}
	return group
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
