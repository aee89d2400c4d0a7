package repo

import (
	"strings"
	"time"
)

// ProdutoFilter narrows a produto listing. Search is split into words and every
// word must match, case-insensitively and as a literal substring, at least one
// of SearchFields. CreatedFrom is inclusive, CreatedTo
// exclusive.
type ProdutoFilter struct {
	Search       string
	SearchFields []string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Offset       *int
	Limit        *int
}

// searchableColumns maps admin field names to produto columns.
var searchableColumns = map[string]string{
	"nome":      "nome",
	"descricao": "descricao",
}

func (f ProdutoFilter) searchTerms() []string {
	return strings.Fields(f.Search)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
