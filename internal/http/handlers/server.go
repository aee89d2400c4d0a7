package handlers

import (
	"log/slog"

	"github.com/rogerio-castellano/loja/internal/render"
)

var (
	renderer render.Renderer
	logger   = slog.Default()
)

func SetRenderer(r render.Renderer) {
	renderer = r
}

func SetLogger(l *slog.Logger) {
	logger = l
}
