package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/parisxmas/rosterfill/internal/formmap"
	"github.com/parisxmas/rosterfill/internal/service"
)

var errEmptyBody = errors.New("request body is empty")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

// statusFor classifies errors returned by the service layer.
func statusFor(err error) int {
	var (
		maxBytes   *http.MaxBytesError
		syntax     *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		unknown    *formmap.UnknownFieldError
		notFound   *service.TemplateNotFoundError
		invalidOpt *service.InvalidOptionError
	)
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errEmptyBody),
		errors.As(err, &syntax),
		errors.As(err, &typeErr),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &unknown),
		errors.Is(err, service.ErrInvalidFileName),
		errors.Is(err, service.ErrNothingToMerge):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, service.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalidOpt):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("Error: %s %s: %v", r.Method, r.URL.Path, err)
	} else {
		log.Printf("Warning: %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeError(w, status, err.Error())
}
