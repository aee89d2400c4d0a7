package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rogerio-castellano/loja/internal/models"
)

func seed(t *testing.T, r *InMemoryProdutoRepository, nomes ...string) {
	t.Helper()
	for _, n := range nomes {
		if _, err := r.Create(models.Produto{Nome: n, Preco: 10}); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}
}

func nomes(ps []models.Produto) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.Nome)
	}
	return out
}

func TestInMemoryProduto_CRUD(t *testing.T) {
	r := NewInMemoryProdutoRepository()

	created, err := r.Create(models.Produto{Nome: "Caneca", Preco: 25.5, Estoque: 3})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != 1 || created.DataCriacao.IsZero() {
		t.Fatalf("expected id 1 and creation time, got %+v", created)
	}

	created.Nome = "Caneca Azul"
	created.DataCriacao = time.Time{}
	updated, err := r.Update(created)
	if err != nil {
		t.Fatal(err)
	}
	if updated.DataCriacao.IsZero() {
		t.Errorf("update must keep data_criacao")
	}

	got, _ := r.GetByID(1)
	if got.Nome != "Caneca Azul" {
		t.Errorf("expected updated name, got %q", got.Nome)
	}

	if err := r.Delete(1); err != nil {
		t.Fatal(err)
	}
	if _, err := r.GetByID(1); !errors.Is(err, ErrProdutoNotFound) {
		t.Errorf("expected ErrProdutoNotFound, got %v", err)
	}
	if err := r.Delete(1); !errors.Is(err, ErrProdutoNotFound) {
		t.Errorf("expected ErrProdutoNotFound on second delete, got %v", err)
	}
	if _, err := r.Update(models.Produto{ID: 99}); !errors.Is(err, ErrProdutoNotFound) {
		t.Errorf("expected ErrProdutoNotFound on update, got %v", err)
	}
}

func TestInMemoryProduto_FilterSearch(t *testing.T) {
	r := NewInMemoryProdutoRepository()
	seed(t, r, "Camiseta Azul", "Caneca", "Boné azul")

	got, total, err := r.Filter(ProdutoFilter{Search: "AZUL", SearchFields: []string{"nome"}})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("expected 2 matches, got %d", total)
	}
	if diff := cmp.Diff([]string{"Boné azul", "Camiseta Azul"}, nomes(got)); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}

	if _, _, err := r.Filter(ProdutoFilter{Search: "x", SearchFields: []string{"preco"}}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestInMemoryProduto_FilterEveryWord(t *testing.T) {
	r := NewInMemoryProdutoRepository()
	seed(t, r, "Camisa polo azul", "Camisa branca", "Caneca azul", "Cupom 50%_off", "Cupom 50 off")

	got, total, err := r.Filter(ProdutoFilter{Search: "camisa  AZUL", SearchFields: []string{"nome", "descricao"}})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("expected 1 match, got %d", total)
	}
	if diff := cmp.Diff([]string{"Camisa polo azul"}, nomes(got)); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}

	got, _, _ = r.Filter(ProdutoFilter{Search: "50%_off", SearchFields: []string{"nome"}})
	if diff := cmp.Diff([]string{"Cupom 50%_off"}, nomes(got)); diff != "" {
		t.Errorf("wildcards should match literally (-want +got):\n%s", diff)
	}
}

func TestInMemoryProduto_FilterDateAndPage(t *testing.T) {
	r := NewInMemoryProdutoRepository()
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, n := range []string{"a", "b", "c", "d"} {
		r.Create(models.Produto{Nome: n, DataCriacao: base.AddDate(0, 0, i)})
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 3)
	got, total, _ := r.Filter(ProdutoFilter{CreatedFrom: &from, CreatedTo: &to})
	if total != 2 {
		t.Errorf("expected 2 in range, got %d", total)
	}
	if diff := cmp.Diff([]string{"c", "b"}, nomes(got)); diff != "" {
		t.Errorf("unexpected range result (-want +got):\n%s", diff)
	}

	offset, limit := 1, 2
	got, total, _ = r.Filter(ProdutoFilter{Offset: &offset, Limit: &limit})
	if total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
	if diff := cmp.Diff([]string{"c", "b"}, nomes(got)); diff != "" {
		t.Errorf("unexpected page (-want +got):\n%s", diff)
	}

	offset = 10
	got, _, _ = r.Filter(ProdutoFilter{Offset: &offset})
	if len(got) != 0 {
		t.Errorf("expected empty page past the end, got %v", nomes(got))
	}
}

func TestInMemoryUser_Duplicate(t *testing.T) {
	r := NewInMemoryUserRepository()
	if _, err := r.CreateUser(models.User{Username: "admin"}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.CreateUser(models.User{Username: "admin"}); !errors.Is(err, ErrDuplicatedValueUnique) {
		t.Errorf("expected ErrDuplicatedValueUnique, got %v", err)
	}
	if _, err := r.GetByUsername("ninguem"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
