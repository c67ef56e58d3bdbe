package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/adrgraph/internal/adrservice"
	"github.com/starford/adrgraph/internal/report"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// AuthEnabled controls whether Bearer token auth is enforced with Token.
	AuthEnabled bool
	Token       string
	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events http.Handler
	// OnReport is called with every report produced by POST /validate.
	OnReport func(*report.Report)
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *adrservice.Service, opts RouterOptions) chi.Router {
	h := NewHandler(svc, opts.OnReport)

	token := ""
	if opts.AuthEnabled {
		token = opts.Token
	}

	r := chi.NewRouter()
	r.Use(TokenAuth(token))

	r.Get("/report", h.Report)
	r.Post("/validate", h.Validate)

	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/{id}", h.GetDocument)

	r.Get("/graph", h.Graph)
	r.Get("/map", h.Map)

	if opts.Events != nil {
		r.Get("/events", opts.Events.ServeHTTP)
	}

	return r
}
