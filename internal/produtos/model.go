// Package produtos registers the produto catalog with the admin site.
package produtos

import (
	"errors"
	"math"

	"github.com/rogerio-castellano/loja/internal/admin"
	"github.com/rogerio-castellano/loja/internal/repo"
)

const (
	AppLabel  = "produtos"
	ModelName = "produto"
)

var errNegative = errors.New("Certifique-se de que este valor seja maior ou igual a 0.")

func nonNegative(v any) error {
	switch n := v.(type) {
	case float64:
		if n < 0 || math.IsNaN(n) {
			return errNegative
		}
	case int:
		if n < 0 {
			return errNegative
		}
	}
	return nil
}

// Model describes Produto to the admin, backed by r.
func Model(r repo.ProdutoRepository) admin.Model {
	return admin.Model{
		AppLabel:          AppLabel,
		Name:              ModelName,
		VerboseName:       "Produto",
		VerboseNamePlural: "Produtos",
		Fields: []admin.Field{
			{Name: "nome", Label: "Nome", Kind: admin.CharField, Editable: true, Required: true, MaxLength: 200},
			{Name: "descricao", Label: "Descrição", Kind: admin.TextField, Editable: true},
			{Name: "preco", Label: "Preço", Kind: admin.DecimalField, Editable: true, Required: true, MaxDigits: 10, DecimalPlaces: 2, Validate: nonNegative},
			{Name: "estoque", Label: "Estoque", Kind: admin.IntegerField, Editable: true, Validate: nonNegative},
			{Name: "imagem", Label: "Imagem", Kind: admin.ImageField, Editable: true},
			{Name: "data_criacao", Label: "Data de Criação", Kind: admin.DateTimeField},
		},
		Store: NewStore(r),
	}
}
