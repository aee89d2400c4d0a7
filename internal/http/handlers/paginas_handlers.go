package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/loja/internal/render"
)

// Template identifiers of the informational pages.
const (
	HomeTemplate                = "paginas/home.html"
	SobreTemplate               = "paginas/sobre.html"
	PoliticaPrivacidadeTemplate = "paginas/politica_privacidade.html"
)

// HomeHandler renders the home page.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, HomeTemplate, render.Context{"titulo": "Página Inicial"})
}

// SobreHandler renders the about page.
func SobreHandler(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, SobreTemplate, render.Context{"titulo": "Sobre Nós"})
}

// PoliticaPrivacidadeHandler renders the privacy policy.
func PoliticaPrivacidadeHandler(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, PoliticaPrivacidadeTemplate, render.Context{"titulo": "Política de Privacidade"})
}

func renderPage(w http.ResponseWriter, r *http.Request, name string, ctx render.Context) {
	if err := renderer.Render(w, r, name, ctx); err != nil {
		logger.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
	}
}
