package handler

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/parisxmas/rosterfill/internal/models"
	"github.com/parisxmas/rosterfill/internal/service"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type SubmissionHandler struct {
	subSvc  *service.SubmissionService
	catalog *service.Catalog
	variant string
	maxBody int64
}

func NewSubmissionHandler(subSvc *service.SubmissionService, catalog *service.Catalog, variant string, maxBody int64) *SubmissionHandler {
	return &SubmissionHandler{subSvc: subSvc, catalog: catalog, variant: variant, maxBody: maxBody}
}

type indexPage struct {
	Variant   string
	Templates []models.Template
}

// Index renders the form page with every PDF found under the PDF directory.
func (h *SubmissionHandler) Index(w http.ResponseWriter, r *http.Request) {
	templates, err := h.catalog.List()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, indexPage{Variant: h.variant, Templates: templates}); err != nil {
		log.Printf("Warning: render index: %v", err)
	}
}

func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var sub models.Submission
	if err := readJSON(r, &sub); err != nil {
		writeServiceError(w, r, err)
		return
	}

	doc, err := h.subSvc.Create(r.Context(), &sub)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SubmitResponse{Status: "success", FilePath: sub.OutputFileName, Document: doc})
}

func (h *SubmissionHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
