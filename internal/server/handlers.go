package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"circuitsight/apimodels"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100

	// multipart memory ceiling; larger uploads spill to temp files
	maxMultipartMemory = 16 << 20
)

// handleAnalyze accepts either a JSON AnalysisRequest or a multipart form
// with an "image" file plus optional "context"/"depth" fields, and responds
// with an AnalysisResponse. A failed analysis is still HTTP 200; only a
// malformed request is a client error.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAnalysisRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}

	slog.Debug("received analysis request", "depth", req.AnalysisDepth, "imageBytes", len(req.ImageData))

	result := s.analyzer.Analyze(r.Context(), req)

	if s.history != nil {
		if err := s.history.Save(r.Context(), result); err != nil {
			slog.Warn("failed to record analysis history", "id", result.ID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func decodeAnalysisRequest(r *http.Request) (apimodels.AnalysisRequest, error) {
	var req apimodels.AnalysisRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return req, fmt.Errorf("parse multipart form: %w", err)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return req, fmt.Errorf("missing image file: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return req, fmt.Errorf("read image file: %w", err)
		}
		req.ImageData = data
		req.AdditionalContext = r.FormValue("context")
		req.AnalysisDepth = r.FormValue("depth")
		return req, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("decode json body: %w", err)
	}
	defer r.Body.Close()
	return req, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history is not enabled", http.StatusNotFound)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("history query failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
