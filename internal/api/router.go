package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hackgods/vortex-care/internal/app"
	"github.com/hackgods/vortex-care/internal/metrics"
)

type RouterConfig struct {
	App     *app.App
	Limiter *LoginLimiter // nil disables login throttling
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	a := cfg.App
	d := deps{
		identity:    a.Identity,
		recruitment: a.Recruitment,
		clinic:      a.Clinic,
		validator:   a.Validator,
		sanitizer:   a.Sanitizer,
		metrics:     a.Metrics,
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(RecoveryMiddleware(a.Log))
	r.Use(LoggingMiddleware(a.Log, a.Metrics))
	r.Use(CORSMiddleware(a.Config.CORSAllowedOrigin))
	r.Use(chimw.CleanPath)

	health := NewHealthHandler(a.Ping, a.Config.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(a.Registry))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(a.Identity))

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.Limiter != nil {
					r.Use(cfg.Limiter.Middleware)
				}
				r.Post("/login", loginHandler(d))
				r.Post("/register", registerHandler(d))
			})
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Post("/logout", logoutHandler(d))
				r.Get("/me", meHandler(d))
				r.Patch("/me", updateProfileHandler(d))
				r.Post("/me/password", changePasswordHandler(d))
			})
		})

		r.Get("/jobs", searchJobsHandler(d))
		r.Get("/jobs/facets", jobFacetsHandler(d))
		r.Get("/jobs/{id}", getJobHandler(d))
		r.Post("/jobs/{id}/applications", applyHandler(d))
		r.Get("/settings", settingsHandler(d))
		r.Post("/contact", contactHandler(d))

		r.Get("/services", searchServicesHandler(d))
		r.Get("/services/categories", serviceCategoriesHandler(d))
		r.Get("/services/{id}", getServiceHandler(d))
		r.Get("/appointments/dates", bookableDatesHandler(d))
		r.Get("/appointments/slots", availableSlotsHandler(d))
		r.Post("/appointments", bookAppointmentHandler(d))
		r.Get("/testimonials", approvedTestimonialsHandler(d))
		r.Post("/testimonials", submitTestimonialHandler(d))
		r.Get("/team", activeTeamHandler(d))

		r.Route("/me", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/applications", myApplicationsHandler(d))
			r.Get("/appointments", myAppointmentsHandler(d))
			r.Post("/appointments/{id}/cancel", cancelMyAppointmentHandler(d))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAuth)
			mountAdmin(r, d)
		})
	})

	return r
}
