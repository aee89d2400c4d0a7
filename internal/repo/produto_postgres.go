package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/loja/internal/models"
)

const produtoColumns = `id, nome, descricao, preco, estoque, imagem, data_criacao`

type PostgresProdutoRepository struct {
	db *sql.DB
}

func NewPostgresProdutoRepository(db *sql.DB) *PostgresProdutoRepository {
	return &PostgresProdutoRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduto(s rowScanner) (models.Produto, error) {
	var p models.Produto
	err := s.Scan(&p.ID, &p.Nome, &p.Descricao, &p.Preco, &p.Estoque, &p.Imagem, &p.DataCriacao)
	return p, err
}

func (r *PostgresProdutoRepository) Create(p models.Produto) (models.Produto, error) {
	query := `INSERT INTO produtos (nome, descricao, preco, estoque, imagem, data_criacao)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING ` + produtoColumns
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if p.DataCriacao.IsZero() {
		p.DataCriacao = time.Now().UTC()
	}
	created, err := scanProduto(r.db.QueryRowContext(ctx, query, p.Nome, p.Descricao, p.Preco, p.Estoque, p.Imagem, p.DataCriacao))
	if err != nil {
		return models.Produto{}, translatePgError(err)
	}
	return created, nil
}

func (r *PostgresProdutoRepository) GetAll() ([]models.Produto, error) {
	query := `SELECT ` + produtoColumns + ` FROM produtos ORDER BY id DESC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProdutos(rows)
}

func (r *PostgresProdutoRepository) GetByID(id int) (models.Produto, error) {
	query := `SELECT ` + produtoColumns + ` FROM produtos WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	p, err := scanProduto(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Produto{}, ErrProdutoNotFound
	}
	return p, err
}

// Update never touches data_criacao.
func (r *PostgresProdutoRepository) Update(p models.Produto) (models.Produto, error) {
	query := `UPDATE produtos SET nome = $1, descricao = $2, preco = $3, estoque = $4, imagem = $5
		WHERE id = $6 RETURNING ` + produtoColumns
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	updated, err := scanProduto(r.db.QueryRowContext(ctx, query, p.Nome, p.Descricao, p.Preco, p.Estoque, p.Imagem, p.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Produto{}, ErrProdutoNotFound
	}
	if err != nil {
		return models.Produto{}, translatePgError(err)
	}
	return updated, nil
}

func (r *PostgresProdutoRepository) Delete(id int) error {
	query := `DELETE FROM produtos WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProdutoNotFound
	}
	return nil
}

func (r *PostgresProdutoRepository) Filter(f ProdutoFilter) ([]models.Produto, int, error) {
	conditions, args, err := filterConditions(f)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM produtos WHERE 1=1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + produtoColumns + ` FROM produtos WHERE 1=1` + conditions + " ORDER BY id DESC"
	argIdx := len(args) + 1
	if f.Limit != nil && *f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *f.Limit)
		argIdx++
	}
	if f.Offset != nil && *f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	produtos, err := collectProdutos(rows)
	if err != nil {
		return nil, 0, err
	}
	return produtos, totalCount, nil
}

// likeEscaper keeps LIKE metacharacters in a search term literal.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func filterConditions(f ProdutoFilter) (string, []any, error) {
	query := ""
	args := []any{}

	if terms := f.searchTerms(); len(terms) > 0 && len(f.SearchFields) > 0 {
		for _, field := range f.SearchFields {
			if _, ok := searchableColumns[field]; !ok {
				return "", nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
			}
		}
		for _, term := range terms {
			args = append(args, "%"+likeEscaper.Replace(term)+"%")
			ors := make([]string, 0, len(f.SearchFields))
			for _, field := range f.SearchFields {
				ors = append(ors, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, searchableColumns[field], len(args)))
			}
			query += " AND (" + strings.Join(ors, " OR ") + ")"
		}
	}
	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		query += fmt.Sprintf(" AND data_criacao >= $%d", len(args))
	}
	if f.CreatedTo != nil {
		args = append(args, *f.CreatedTo)
		query += fmt.Sprintf(" AND data_criacao < $%d", len(args))
	}

	return query, args, nil
}

func collectProdutos(rows *sql.Rows) ([]models.Produto, error) {
	produtos := []models.Produto{}
	for rows.Next() {
		p, err := scanProduto(rows)
		if err != nil {
			return nil, err
		}
		produtos = append(produtos, p)
	}
	return produtos, rows.Err()
}
