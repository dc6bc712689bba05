package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	catalogHandler "github.com/akademika/feeledger/internal/http/catalog"
	ledgerHandler "github.com/akademika/feeledger/internal/http/ledger"
	reportHandler "github.com/akademika/feeledger/internal/http/report"
	studentHandler "github.com/akademika/feeledger/internal/http/student"
)

func New(
	authSecret string,
	catalogV1 *catalogHandler.Handler,
	studentsV1 *studentHandler.Handler,
	ledgerV1 *ledgerHandler.Handler,
	reportsV1 *reportHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	admin := RequireAdmin(authSecret)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/fees", func(r chi.Router) {
			r.Get("/", catalogV1.List)

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Use(middleware.AllowContentType("application/json"))
				r.Post("/", catalogV1.Create)
				r.Patch("/{id}", catalogV1.Update)
				r.Delete("/{id}", catalogV1.Delete)
			})
		})

		r.Route("/students/{studentID}", func(r chi.Router) {
			r.Get("/obligations", studentsV1.ListObligations)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				r.Post("/obligations", studentsV1.EnsureObligation)
			})

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/reconciliation", studentsV1.LoadSnapshot)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					r.Post("/reconciliation", studentsV1.ApplyChanges)
				})
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", ledgerV1.List)
			r.Get("/{id}/receipt", ledgerV1.Receipt)
		})

		r.Get("/methods", ledgerV1.Methods)

		r.Route("/reports", func(r chi.Router) {
			r.Use(admin)
			r.Get("/overview", reportsV1.Overview)
			r.Get("/fee-types", reportsV1.FeeTypes)
			r.Get("/methods", reportsV1.Methods)
			r.Get("/recent", reportsV1.Recent)
			r.Get("/students", reportsV1.Students)
		})
	})

	return router
}
