package admin

import (
	"strings"
	"testing"
)

func TestCheck_Valid(t *testing.T) {
	if err := Check(testModel(newFakeStore()), testAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheck_Errors(t *testing.T) {
	m := testModel(newFakeStore())

	tests := []struct {
		name  string
		admin ModelAdmin
		want  string
	}{
		{"unknown list_display", ModelAdmin{ListDisplay: []string{"peso"}}, `list_display[0] refers to unknown field "peso"`},
		{"search on decimal", ModelAdmin{SearchFields: []string{"preco"}}, `"preco" is not a text field`},
		{"filter on char", ModelAdmin{ListFilter: []string{"nome"}}, `"nome" has no filter for its kind`},
		{"empty fieldset", ModelAdmin{Fieldsets: []Fieldset{{Label: "Vazio"}, {Fields: []string{"nome"}}}}, `"Vazio" has no fields`},
		{"non-editable in fieldset", ModelAdmin{Fieldsets: []Fieldset{{Fields: []string{"nome", "criado"}}}}, `"criado" is not editable`},
		{"duplicate in fieldsets", ModelAdmin{Fieldsets: []Fieldset{{Fields: []string{"nome"}}, {Fields: []string{"nome"}}}}, `"nome" appears in fieldsets[0] and fieldsets[1]`},
		{"required missing", ModelAdmin{Fieldsets: []Fieldset{{Fields: []string{"preco"}}}}, `required field "nome" is missing`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(m, tt.admin)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestRegister_RejectsInvalidDeclaration(t *testing.T) {
	site := NewSite(Options{})
	if err := site.Register(testModel(newFakeStore()), ModelAdmin{ListDisplay: []string{"peso"}}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := site.ModelAdmin("loja.item"); err == nil {
		t.Error("invalid declaration must not be registered")
	}
	if err := site.Register(Model{AppLabel: "loja", Name: "x"}, ModelAdmin{}); err == nil {
		t.Error("expected error for model without store")
	}
}
