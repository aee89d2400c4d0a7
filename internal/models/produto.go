package models

import "time"

// Produto is a catalog item managed through the admin.
type Produto struct {
	ID          int       `json:"id"`
	Nome        string    `json:"nome"`
	Descricao   string    `json:"descricao"`
	Preco       float64   `json:"preco"`
	Estoque     int       `json:"estoque"`
	Imagem      string    `json:"imagem,omitempty"`
	DataCriacao time.Time `json:"data_criacao"`
}

// String is the representation shown in admin listings and history.
func (p Produto) String() string {
	return p.Nome
}
