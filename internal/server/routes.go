package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"threestar/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/", handler(s.getRoot))

	r.Route("/api", func(r chi.Router) {
		r.Get("/predict", handler(s.getAPIPredict))
		r.Get("/pick_all", handler(s.getAPIPickAll))
		r.Post("/update", handler(s.postAPIUpdate))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
