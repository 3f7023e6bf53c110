package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/studymap/internal/roadmap"
)

// handleStudyMap builds a roadmap for the "prompt" query parameter.
func (s *Server) handleStudyMap(w http.ResponseWriter, r *http.Request) {
	prompt := r.URL.Query().Get("prompt")
	if strings.TrimSpace(prompt) == "" {
		jsonError(w, "prompt query parameter is required", http.StatusBadRequest)
		return
	}
	format, err := roadmap.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tree, err := s.builder.Build(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			s.log.Info("roadmap request cancelled", "error", ctx.Err())
			jsonError(w, "request cancelled", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": err.Error(),
			"kind":  roadmap.KindOf(err),
		})
		return
	}

	body, err := tree.Encode(format)
	if err != nil {
		jsonError(w, "encode roadmap: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Roadmap-ID", tree.ID)
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
