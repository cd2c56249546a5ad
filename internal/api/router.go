package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/ace-TI85/dev-connector/internal/api/handlers"
	mw "github.com/ace-TI85/dev-connector/internal/api/middleware"
	"github.com/ace-TI85/dev-connector/internal/token"
)

type Dependencies struct {
	Tokens          *token.Service
	AuthHandler     *handlers.AuthHandler
	ProfilesHandler *handlers.ProfilesHandler
	PostsHandler    *handlers.PostsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	auth := mw.Auth(dep.Tokens)

	r.Route("/api", func(api chi.Router) {
		// Registration (public)
		api.Post("/users", dep.AuthHandler.Register)

		// Session-less sign-in
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/", dep.AuthHandler.Login)
			ar.With(auth).Get("/", dep.AuthHandler.Me)
		})

		api.Route("/profile", func(pr chi.Router) {
			// Public reads
			pr.Get("/", dep.ProfilesHandler.List)
			pr.Get("/user/{user_id}", dep.ProfilesHandler.GetByUser)
			pr.Get("/github/{username}", dep.ProfilesHandler.GithubRepos)

			// Owner-scoped mutations
			pr.Group(func(protected chi.Router) {
				protected.Use(auth)
				protected.Get("/me", dep.ProfilesHandler.Me)
				protected.Post("/", dep.ProfilesHandler.Upsert)
				protected.Delete("/", dep.AuthHandler.DeleteAccount)
				protected.Put("/experience", dep.ProfilesHandler.AddExperience)
				protected.Delete("/experience/{exp_id}", dep.ProfilesHandler.RemoveExperience)
				protected.Put("/education", dep.ProfilesHandler.AddEducation)
				protected.Delete("/education/{edu_id}", dep.ProfilesHandler.RemoveEducation)
			})
		})

		api.Route("/posts", func(po chi.Router) {
			po.Use(auth)
			po.Post("/", dep.PostsHandler.Create)
			po.Get("/", dep.PostsHandler.List)
			po.Get("/{id}", dep.PostsHandler.Get)
			po.Delete("/{id}", dep.PostsHandler.Delete)
			po.Put("/like/{id}", dep.PostsHandler.Like)
			po.Put("/unlike/{id}", dep.PostsHandler.Unlike)
			po.Post("/comment/{id}", dep.PostsHandler.AddComment)
			po.Delete("/comment/{id}/{comment_id}", dep.PostsHandler.RemoveComment)
		})
	})

	return r
}
