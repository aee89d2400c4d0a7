package produtos

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rogerio-castellano/loja/internal/admin"
	"github.com/rogerio-castellano/loja/internal/models"
	"github.com/rogerio-castellano/loja/internal/repo"
)

func TestProdutoAdmin_Check(t *testing.T) {
	if err := admin.Check(Model(repo.NewInMemoryProdutoRepository()), ProdutoAdmin); err != nil {
		t.Fatalf("expected valid declaration, got %v", err)
	}
}

func TestProdutoAdmin_FieldsetsCoverEditableFields(t *testing.T) {
	m := Model(repo.NewInMemoryProdutoRepository())

	var editable []string
	for _, f := range m.Fields {
		if f.Editable {
			editable = append(editable, f.Name)
		}
	}
	if diff := cmp.Diff(editable, ProdutoAdmin.FormFields()); diff != "" {
		t.Errorf("fieldsets mismatch (-editable +fieldsets):\n%s", diff)
	}
}

func TestProdutoAdmin_Declaration(t *testing.T) {
	want := admin.ModelAdmin{
		ListDisplay:  []string{"nome", "preco", "estoque", "data_criacao"},
		SearchFields: []string{"nome"},
		ListFilter:   []string{"data_criacao"},
		Fieldsets: []admin.Fieldset{
			{Label: "Informações Básicas", Fields: []string{"nome", "descricao", "preco"}},
			{Label: "Estoque e Imagem", Fields: []string{"estoque", "imagem"}},
		},
		Media: admin.Media{CSS: map[string][]string{"all": {"css/custom_admin.css"}}},
	}
	if diff := cmp.Diff(want, ProdutoAdmin); diff != "" {
		t.Errorf("declaration mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_Twice(t *testing.T) {
	site := admin.NewSite(admin.Options{})
	r := repo.NewInMemoryProdutoRepository()

	if err := Register(site, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Register(site, r); err == nil {
		t.Error("expected error registering produto twice")
	}
	if _, err := site.ModelAdmin("produtos.produto"); err != nil {
		t.Errorf("expected produto to be registered: %v", err)
	}
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewStore(repo.NewInMemoryProdutoRepository())

	created, err := s.Create(ctx, admin.Values{"nome": " Caneca ", "preco": 19.9, "estoque": 3})
	if err != nil {
		t.Fatal(err)
	}
	if created.Repr != "Caneca" {
		t.Errorf("expected repr Caneca, got %q", created.Repr)
	}
	if created.Values["data_criacao"].(time.Time).IsZero() {
		t.Error("expected creation time to be stamped")
	}

	updated, err := s.Update(ctx, created.ID, admin.Values{"estoque": 10})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Values["estoque"] != 10 || updated.Values["nome"] != "Caneca" {
		t.Errorf("expected partial update, got %v", updated.Values)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, admin.ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
	if _, err := s.Update(ctx, created.ID, admin.Values{}); !errors.Is(err, admin.ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound on update, got %v", err)
	}
	if err := s.Delete(ctx, created.ID); !errors.Is(err, admin.ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound on delete, got %v", err)
	}
}

func TestStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	r := repo.NewInMemoryProdutoRepository()
	old := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	r.Create(models.Produto{Nome: "Caneca azul", DataCriacao: old})
	r.Create(models.Produto{Nome: "Camiseta", DataCriacao: recent})
	r.Create(models.Produto{Nome: "Caneca verde", DataCriacao: recent})
	s := NewStore(r)

	objs, total, err := s.List(ctx, admin.Query{Search: "caneca", SearchFields: []string{"nome"}})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(objs) != 2 {
		t.Fatalf("expected 2 canecas, got %d (%d)", len(objs), total)
	}

	objs, total, _ = s.List(ctx, admin.Query{
		Search:       "caneca",
		SearchFields: []string{"nome"},
		Ranges: []admin.DateRange{{
			Field: "data_criacao",
			From:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			To:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		}},
	})
	if total != 1 || objs[0].Repr != "Caneca verde" {
		t.Errorf("expected only Caneca verde, got %v", objs)
	}

	objs, total, _ = s.List(ctx, admin.Query{Offset: 1, Limit: 1})
	if total != 3 || len(objs) != 1 || objs[0].Repr != "Camiseta" {
		t.Errorf("expected second newest on page 2, got %v (%d)", objs, total)
	}

	if _, _, err := s.List(ctx, admin.Query{Ranges: []admin.DateRange{{Field: "preco"}}}); !errors.Is(err, repo.ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestNonNegative(t *testing.T) {
	for _, v := range []any{0, 5, 0.0, 9.99, "x"} {
		if err := nonNegative(v); err != nil {
			t.Errorf("%v: unexpected error %v", v, err)
		}
	}
	for _, v := range []any{-1, -0.01, math.NaN(), math.Inf(-1)} {
		if err := nonNegative(v); err == nil {
			t.Errorf("%v: expected error", v)
		}
	}
}
