package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/user/pluma/internal/discovery"
	"github.com/user/pluma/internal/generate"
	"github.com/user/pluma/internal/prompts"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", "error", err.Error())
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"formats": prompts.Formats})
}

// ---- topic bank ----

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	bank, err := s.bank.List()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, bank)
}

func (s *Server) handleAddTopic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Idea   string `json:"idea"`
		Source string `json:"source"`
		Notes  string `json:"notes"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	topic, err := s.bank.Add(req.Idea, req.Source, req.Notes)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, topic)
}

func (s *Server) handleExpandTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := s.bank.Expand(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if topic == nil {
		s.respondError(w, http.StatusNotFound, "Topic not found")
		return
	}
	s.respondJSON(w, http.StatusOK, topic)
}

func (s *Server) handleTopicAngles(w http.ResponseWriter, r *http.Request) {
	topic, err := s.bank.Angles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if topic == nil {
		s.respondError(w, http.StatusNotFound, "Topic not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"angles": topic.Angles})
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := s.bank.Delete(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---- generation ----

func (s *Server) handleGenerateAutonomous(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TopicID            string `json:"topicId"`
		Topic              string `json:"topic"`
		Format             string `json:"format"`
		CustomInstructions string `json:"customInstructions"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Format == "" {
		req.Format = "guia_practica"
	}
	result, err := s.svc.FromTopic(r.Context(), req.TopicID, req.Topic, req.Format, req.CustomInstructions)
	if err != nil {
		if errors.Is(err, generate.ErrNotFound) {
			s.respondError(w, http.StatusBadRequest, "Topic required")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerateFromDiscovery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DiscoveryID        string `json:"discoveryId"`
		CustomInstructions string `json:"customInstructions"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.DiscoveryID == "" {
		s.respondError(w, http.StatusBadRequest, "discoveryId required")
		return
	}
	result, err := s.svc.FromDiscovery(r.Context(), req.DiscoveryID, req.CustomInstructions)
	if err != nil {
		if errors.Is(err, generate.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Discovery not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePolishDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Draft        string `json:"draft"`
		Instructions string `json:"instructions"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Draft == "" {
		s.respondError(w, http.StatusBadRequest, "Draft required")
		return
	}
	result, err := s.svc.PolishDraft(r.Context(), req.Draft, req.Instructions)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// ---- output management ----

func (s *Server) handleListOutput(w http.ResponseWriter, r *http.Request) {
	listing, err := s.svc.ListOutputs()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, listing)
}

func (s *Server) handleGetOutput(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")
	filename := chi.URLParam(r, "filename")
	content, err := s.svc.ReadOutput(folder, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.respondError(w, http.StatusNotFound, "File not found")
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"content":  content,
		"filename": filename,
		"folder":   folder,
	})
}

func (s *Server) handleApproveOutput(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Approve(chi.URLParam(r, "filename")); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---- discovery ----

func (s *Server) handleDiscoverStatus(w http.ResponseWriter, r *http.Request) {
	birdOK := s.searcher.Probe(r.Context())
	searchCfg, err := s.eng.Store().SearchConfig()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result, err := s.eng.List(discovery.Filter{})
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"birdAuthenticated": birdOK,
		"config":            searchCfg,
		"discoveryCount":    result.Total,
		"lastSearch":        result.LastSearch,
	})
}

func (s *Server) handleDiscoverSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.eng.Run(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDiscoverFeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []map[string]any `json:"items"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		s.respondError(w, http.StatusBadRequest,
			"Provide items array with {title, content/text, url?, author?, likes?, retweets?}")
		return
	}
	result, err := s.eng.Feed(r.Context(), req.Items)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDiscoverResults(w http.ResponseWriter, r *http.Request) {
	filter := discovery.Filter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
	}
	if raw := r.URL.Query().Get("minScore"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "minScore must be an integer")
			return
		}
		filter.MinScore = score
	}
	result, err := s.eng.List(filter)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportDiscovery(w http.ResponseWriter, r *http.Request) {
	result, err := s.eng.Import(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		s.respondError(w, http.StatusNotFound, "Discovery not found")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDismissDiscovery(w http.ResponseWriter, r *http.Request) {
	ok, err := s.eng.Dismiss(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		s.respondError(w, http.StatusNotFound, "Discovery not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
