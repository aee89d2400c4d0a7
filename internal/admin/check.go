package admin

import (
	"errors"
	"fmt"
)

// Check validates a declaration against its model: every referenced field
// exists, fieldsets only hold editable fields and never repeat one, search
// runs on text fields and list filters have a filter implementation.
func Check(m Model, a ModelAdmin) error {
	var errs []error
	label := m.Label()

	for i, name := range a.ListDisplay {
		if _, ok := m.Field(name); !ok {
			errs = append(errs, fmt.Errorf("%s: list_display[%d] refers to unknown field %q", label, i, name))
		}
	}

	for i, name := range a.SearchFields {
		f, ok := m.Field(name)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s: search_fields[%d] refers to unknown field %q", label, i, name))
		case f.Kind != CharField && f.Kind != TextField:
			errs = append(errs, fmt.Errorf("%s: search_fields[%d] %q is not a text field", label, i, name))
		}
	}

	for i, name := range a.ListFilter {
		f, ok := m.Field(name)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%s: list_filter[%d] refers to unknown field %q", label, i, name))
		case f.Kind != DateTimeField:
			errs = append(errs, fmt.Errorf("%s: list_filter[%d] %q has no filter for its kind", label, i, name))
		}
	}

	seen := map[string]int{}
	for i, fs := range a.Fieldsets {
		if len(fs.Fields) == 0 {
			errs = append(errs, fmt.Errorf("%s: fieldsets[%d] %q has no fields", label, i, fs.Label))
		}
		for _, name := range fs.Fields {
			f, ok := m.Field(name)
			if !ok {
				errs = append(errs, fmt.Errorf("%s: fieldsets[%d] refers to unknown field %q", label, i, name))
				continue
			}
			if !f.Editable {
				errs = append(errs, fmt.Errorf("%s: fieldsets[%d] field %q is not editable", label, i, name))
			}
			if prev, dup := seen[name]; dup {
				errs = append(errs, fmt.Errorf("%s: field %q appears in fieldsets[%d] and fieldsets[%d]", label, name, prev, i))
				continue
			}
			seen[name] = i
		}
	}

	for _, f := range m.Fields {
		if f.Editable && f.Required {
			if _, ok := seen[f.Name]; !ok && len(a.Fieldsets) > 0 {
				errs = append(errs, fmt.Errorf("%s: required field %q is missing from fieldsets", label, f.Name))
			}
		}
	}

	return errors.Join(errs...)
}
