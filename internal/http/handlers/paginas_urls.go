package handlers

import "github.com/rogerio-castellano/loja/internal/urls"

// PaginasURLs is the "paginas" namespace, meant to be included at the site root.
func PaginasURLs() urls.Module {
	return urls.Module{
		Namespace: "paginas",
		Routes: []urls.Route{
			urls.Path("", HomeHandler, "home"),
			urls.Path("sobre/", SobreHandler, "sobre"),
			urls.Path("politica-privacidade/", PoliticaPrivacidadeHandler, "politica_privacidade"),
		},
	}
}
