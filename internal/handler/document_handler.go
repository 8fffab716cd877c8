package handler

import (
	"fmt"
	"net/http"

	"github.com/parisxmas/rosterfill/internal/service"
)

type DocumentHandler struct {
	svc     *service.DocumentService
	maxBody int64
}

func NewDocumentHandler(svc *service.DocumentService, maxBody int64) *DocumentHandler {
	return &DocumentHandler{svc: svc, maxBody: maxBody}
}

type downloadRequest struct {
	FileName string `json:"filename"`
}

// Download sends <dir>/<filename>.pdf as an attachment.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var req downloadRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	f, doc, err := h.svc.Open(req.FileName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, doc.FileName))
	http.ServeContent(w, r, doc.FileName, info.ModTime(), f)
}
