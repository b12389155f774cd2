package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/recipebox/recipebox/internal/ui"
)

// maxFormMemory bounds multipart parsing; larger parts spill to disk.
const maxFormMemory = 10 << 20

const msgTryAgain = "An error occurred. Please try again."

// parseForm handles both urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err := r.ParseMultipartForm(maxFormMemory)
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		return nil
	}
	return r.ParseForm()
}

func formBool(r *http.Request, key string) bool {
	switch r.FormValue(key) {
	case "on", "true", "1":
		return true
	}
	return false
}

func notFound(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFound())
}

func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "path", r.URL.Path)
	ui.RenderStatus(w, r, http.StatusInternalServerError, ui.Error(msg))
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.Debug("bad request", "error", err, "path", r.URL.Path)
	ui.RenderStatus(w, r, http.StatusBadRequest, ui.Error("The request could not be processed."))
}
