package repo

import "github.com/rogerio-castellano/loja/internal/models"

// ProdutoRepository defines the interface for produto data operations.
type ProdutoRepository interface {
	Create(p models.Produto) (models.Produto, error)
	GetAll() ([]models.Produto, error)
	GetByID(id int) (models.Produto, error)
	Update(p models.Produto) (models.Produto, error)
	Delete(id int) error
	Filter(f ProdutoFilter) ([]models.Produto, int, error)
}
