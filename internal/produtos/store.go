package produtos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/loja/internal/admin"
	"github.com/rogerio-castellano/loja/internal/models"
	"github.com/rogerio-castellano/loja/internal/repo"
)

// Store adapts a ProdutoRepository to admin.Store.
type Store struct {
	repo repo.ProdutoRepository
}

var _ admin.Store = (*Store)(nil)

func NewStore(r repo.ProdutoRepository) *Store {
	return &Store{repo: r}
}

func (s *Store) List(ctx context.Context, q admin.Query) ([]admin.Object, int, error) {
	f := repo.ProdutoFilter{
		Search:       q.Search,
		SearchFields: q.SearchFields,
	}
	for _, rng := range q.Ranges {
		if rng.Field != "data_criacao" {
			return nil, 0, fmt.Errorf("%w: %s", repo.ErrUnknownField, rng.Field)
		}
		from, to := rng.From, rng.To
		f.CreatedFrom, f.CreatedTo = &from, &to
	}
	if q.Offset > 0 {
		f.Offset = &q.Offset
	}
	if q.Limit > 0 {
		f.Limit = &q.Limit
	}

	produtos, total, err := s.repo.Filter(f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]admin.Object, 0, len(produtos))
	for _, p := range produtos {
		out = append(out, toObject(p))
	}
	return out, total, nil
}

func (s *Store) Get(ctx context.Context, id int) (admin.Object, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return admin.Object{}, notFound(err)
	}
	return toObject(p), nil
}

func (s *Store) Create(ctx context.Context, v admin.Values) (admin.Object, error) {
	p, err := s.repo.Create(fromValues(models.Produto{}, v))
	if err != nil {
		return admin.Object{}, err
	}
	return toObject(p), nil
}

func (s *Store) Update(ctx context.Context, id int, v admin.Values) (admin.Object, error) {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return admin.Object{}, notFound(err)
	}
	p, err := s.repo.Update(fromValues(current, v))
	if err != nil {
		return admin.Object{}, notFound(err)
	}
	return toObject(p), nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	return notFound(s.repo.Delete(id))
}

func notFound(err error) error {
	if errors.Is(err, repo.ErrProdutoNotFound) {
		return admin.ErrObjectNotFound
	}
	return err
}

func toObject(p models.Produto) admin.Object {
	return admin.Object{
		ID:   p.ID,
		Repr: p.String(),
		Values: admin.Values{
			"nome":         p.Nome,
			"descricao":    p.Descricao,
			"preco":        p.Preco,
			"estoque":      p.Estoque,
			"imagem":       p.Imagem,
			"data_criacao": p.DataCriacao,
		},
	}
}

// fromValues overlays the submitted values on p. Fields absent from v keep
// their current value.
func fromValues(p models.Produto, v admin.Values) models.Produto {
	if s, ok := v["nome"].(string); ok {
		p.Nome = strings.TrimSpace(s)
	}
	if s, ok := v["descricao"].(string); ok {
		p.Descricao = s
	}
	if f, ok := v["preco"].(float64); ok {
		p.Preco = f
	}
	if n, ok := v["estoque"].(int); ok {
		p.Estoque = n
	}
	if s, ok := v["imagem"].(string); ok {
		p.Imagem = s
	}
	if t, ok := v["data_criacao"].(time.Time); ok {
		p.DataCriacao = t
	}
	return p
}
