package admin

// Fieldset groups change-form fields under a label.
type Fieldset struct {
	Label  string
	Fields []string
}

// Media lists extra assets for the changelist and change form, as paths
// relative to the static URL. CSS is keyed by media type ("all", "print").
type Media struct {
	CSS map[string][]string
}

// ModelAdmin declares how a model is presented in the admin.
type ModelAdmin struct {
	ListDisplay  []string
	SearchFields []string
	ListFilter   []string
	Fieldsets    []Fieldset
	Media        Media
}

// FormFields returns the fieldset fields in declaration order.
func (a ModelAdmin) FormFields() []string {
	var out []string
	for _, fs := range a.Fieldsets {
		out = append(out, fs.Fields...)
	}
	return out
}
