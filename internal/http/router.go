package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/npereira/centavo/internal/http/balance"
	"github.com/npereira/centavo/internal/http/category"
	"github.com/npereira/centavo/internal/http/entry"
	"github.com/npereira/centavo/internal/http/importcsv"
	"github.com/npereira/centavo/internal/http/middleware"
	"github.com/npereira/centavo/internal/http/report"
	"github.com/npereira/centavo/internal/http/user"
)

func New(
	verifier middleware.Verifier,
	uploadDir string,
	usersV1 *user.Handler,
	entriesV1 *entry.Handler,
	balanceV1 *balance.Handler,
	categoriesV1 *category.Handler,
	reportsV1 *report.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			usersV1.AuthRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(verifier))

			r.Route("/profile", usersV1.Routes)

			r.Route("/entries", func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))
				entriesV1.Routes(r)
			})

			r.Route("/balance", func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))
				balanceV1.Routes(r)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))
				categoriesV1.Routes(r)
			})

			r.Route("/reports", reportsV1.Routes)

			r.Route("/import", importV1.Routes)
		})
	})

	// Uploaded profile photos are served straight off disk.
	router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return router
}
