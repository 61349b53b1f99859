package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/dramaxav/curia-management/internal/alert"
	"github.com/dramaxav/curia-management/internal/approval"
	"github.com/dramaxav/curia-management/internal/auth"
	"github.com/dramaxav/curia-management/internal/member"
	"github.com/dramaxav/curia-management/internal/praesidium"
	"github.com/dramaxav/curia-management/internal/transport/middleware"
	"github.com/dramaxav/curia-management/internal/transport/swagger"
)

type Handlers struct {
	Auth       *auth.Handler
	Approval   *approval.Handler
	Member     *member.Handler
	Praesidium *praesidium.Handler
	Alert      *alert.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	guard := auth.NewGuard(logger)

	router.Use(middleware.CORSWithOrigins(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				// an already-authenticated caller gets bounced off login
				sr.With(h.Auth.OptionalAuthMiddleware, guard.PublicOnly("/api/v1/users/me")).
					Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Auth == nil {
			return
		}

		// Everything below requires an authenticated caller.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(guard.RequireAuth)

			pr.Get("/users/me", h.Auth.Me)

			if h.Approval != nil {
				pr.Route("/approvals", func(ar chi.Router) {
					ar.Post("/", h.Approval.Submit)
					ar.Get("/{id}", h.Approval.Get)

					// coarse pre-filter: the kind-matched permission is
					// checked in the handler once the request is loaded
					ar.Group(func(dr chi.Router) {
						dr.Use(guard.RequireAnyPermission(
							auth.PermissionApproveAccounts,
							auth.PermissionApprovePresences,
							auth.PermissionApproveFinances,
						))
						dr.Get("/pending", h.Approval.ListPending)
						dr.Patch("/{id}/approve", h.Approval.Approve)
						dr.Patch("/{id}/reject", h.Approval.Reject)
					})
				})
			}

			if h.Member != nil {
				pr.Route("/members", func(mr chi.Router) {
					mr.Get("/", h.Member.List)
					mr.Get("/{id}", h.Member.Get)

					mr.Group(func(wr chi.Router) {
						wr.Use(guard.RequirePermission(auth.PermissionManageMembers, auth.ScopeFromQuery("praesidium_id")))
						wr.Post("/", h.Member.Create)
					})
					mr.Group(func(wr chi.Router) {
						wr.Use(guard.RequirePermission(auth.PermissionManageMembers, nil))
						wr.Patch("/{id}/promote", h.Member.Promote)
						wr.Delete("/{id}", h.Member.Deactivate)
					})
				})

				pr.Route("/officers", func(or chi.Router) {
					or.Get("/", h.Member.ListOfficers)

					or.Group(func(wr chi.Router) {
						wr.Use(guard.RequirePermission(auth.PermissionManageOfficers, nil))
						wr.Post("/", h.Member.CreateOfficer)
						wr.Patch("/{id}/mandate", h.Member.RenewMandate)
					})
				})
			}

			if h.Praesidium != nil {
				pr.Route("/zones", func(zr chi.Router) {
					zr.Get("/", h.Praesidium.ListZones)

					zr.Group(func(wr chi.Router) {
						wr.Use(guard.RequirePermission(auth.PermissionViewAllPraesidia, nil))
						wr.Post("/", h.Praesidium.CreateZone)
					})
				})

				pr.Route("/praesidia", func(prr chi.Router) {
					prr.Get("/", h.Praesidium.List)
					prr.Get("/{id}", h.Praesidium.Get)

					prr.Group(func(wr chi.Router) {
						wr.Use(guard.RequirePermission(auth.PermissionViewAllPraesidia, nil))
						wr.Post("/", h.Praesidium.Create)
						wr.Patch("/{id}", h.Praesidium.Update)
						wr.Delete("/{id}", h.Praesidium.Deactivate)
					})
				})
			}

			if h.Alert != nil {
				pr.Route("/alerts", func(ar chi.Router) {
					ar.Get("/probation", h.Alert.ListProbation)
					ar.Get("/mandates", h.Alert.ListMandates)

					ar.Group(func(wr chi.Router) {
						wr.Use(guard.RequirePermission(auth.PermissionManageMembers, nil))
						wr.Post("/probation/derive", h.Alert.Derive)
						wr.Patch("/probation/{id}/resolve", h.Alert.Resolve)
						wr.Patch("/probation/{id}/ignore", h.Alert.Ignore)
					})
				})
			}
		})
	})
}
