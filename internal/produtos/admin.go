package produtos

import (
	"github.com/rogerio-castellano/loja/internal/admin"
	"github.com/rogerio-castellano/loja/internal/repo"
)

// ProdutoAdmin is the admin presentation of Produto.
var ProdutoAdmin = admin.ModelAdmin{
	ListDisplay:  []string{"nome", "preco", "estoque", "data_criacao"},
	SearchFields: []string{"nome"},
	ListFilter:   []string{"data_criacao"},
	Fieldsets: []admin.Fieldset{
		{Label: "Informações Básicas", Fields: []string{"nome", "descricao", "preco"}},
		{Label: "Estoque e Imagem", Fields: []string{"estoque", "imagem"}},
	},
	Media: admin.Media{
		CSS: map[string][]string{"all": {"css/custom_admin.css"}},
	},
}

// Register adds Produto to site.
func Register(site *admin.Site, r repo.ProdutoRepository) error {
	return site.Register(Model(r), ProdutoAdmin)
}
