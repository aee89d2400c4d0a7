package repo

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/loja/internal/models"
)

// InMemoryProdutoRepository is an in-memory implementation of ProdutoRepository.
type InMemoryProdutoRepository struct {
	mu       sync.RWMutex
	produtos []models.Produto
	nextID   int
	now      func() time.Time
}

// NewInMemoryProdutoRepository creates a new instance of InMemoryProdutoRepository.
func NewInMemoryProdutoRepository() *InMemoryProdutoRepository {
	return &InMemoryProdutoRepository{
		produtos: []models.Produto{},
		nextID:   1,
		now:      time.Now,
	}
}

// Create adds a new produto and stamps its creation time.
func (r *InMemoryProdutoRepository) Create(p models.Produto) (models.Produto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	r.nextID++
	if p.DataCriacao.IsZero() {
		p.DataCriacao = r.now()
	}
	r.produtos = append(r.produtos, p)
	return p, nil
}

// GetAll returns every produto, newest first.
func (r *InMemoryProdutoRepository) GetAll() ([]models.Produto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return newestFirst(r.produtos), nil
}

func (r *InMemoryProdutoRepository) GetByID(id int) (models.Produto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.produtos {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Produto{}, ErrProdutoNotFound
}

// Update replaces the editable fields of an existing produto.
func (r *InMemoryProdutoRepository) Update(p models.Produto) (models.Produto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.produtos {
		if existing.ID == p.ID {
			p.DataCriacao = existing.DataCriacao
			r.produtos[i] = p
			return p, nil
		}
	}
	return models.Produto{}, ErrProdutoNotFound
}

func (r *InMemoryProdutoRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.produtos {
		if p.ID == id {
			r.produtos = append(r.produtos[:i], r.produtos[i+1:]...)
			return nil
		}
	}
	return ErrProdutoNotFound
}

// Filter returns one page of matching produtos and the total match count.
func (r *InMemoryProdutoRepository) Filter(f ProdutoFilter) ([]models.Produto, int, error) {
	for _, field := range f.SearchFields {
		if _, ok := searchableColumns[field]; !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	r.mu.RLock()
	all := newestFirst(r.produtos)
	r.mu.RUnlock()

	filtered := []models.Produto{}
	for _, p := range all {
		if matchesFilter(p, f) {
			filtered = append(filtered, p)
		}
	}

	start := 0
	if f.Offset != nil {
		start = clamp(*f.Offset, 0, len(filtered))
	}
	end := len(filtered)
	if f.Limit != nil && *f.Limit > 0 {
		end = clamp(start+*f.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryProdutoRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.produtos = []models.Produto{}
}

func matchesFilter(p models.Produto, f ProdutoFilter) bool {
	if f.CreatedFrom != nil && p.DataCriacao.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && !p.DataCriacao.Before(*f.CreatedTo) {
		return false
	}

	terms := f.searchTerms()
	if len(terms) == 0 || len(f.SearchFields) == 0 {
		return true
	}
	for _, term := range terms {
		if !matchesTerm(p, f.SearchFields, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func matchesTerm(p models.Produto, fields []string, term string) bool {
	for _, field := range fields {
		var value string
		switch field {
		case "nome":
			value = p.Nome
		case "descricao":
			value = p.Descricao
		}
		if strings.Contains(strings.ToLower(value), term) {
			return true
		}
	}
	return false
}

func newestFirst(in []models.Produto) []models.Produto {
	out := make([]models.Produto, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
