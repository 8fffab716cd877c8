package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/rosterfill/internal/handler"
	mw "github.com/parisxmas/rosterfill/internal/middleware"
)

// New wires the HTTP surface. docH may be nil, in which case /download is
// not mounted.
func New(subH *handler.SubmissionHandler, docH *handler.DocumentHandler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Get("/", subH.Index)
	r.Get("/healthz", subH.Healthz)
	r.Post("/submit", subH.Submit)

	if docH != nil {
		r.Post("/download", docH.Download)
	}

	return r
}
