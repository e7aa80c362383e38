package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sw33tLie/a11yscope/internal/utils"
	"github.com/sw33tLie/a11yscope/pkg/catalog"
	"github.com/sw33tLie/a11yscope/pkg/checklist"
	"github.com/sw33tLie/a11yscope/pkg/storage"
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case checklist.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrInvalid), errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		utils.Log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func pathID(r *http.Request, kind string) (int64, error) {
	id, err := utils.ParseID(kind, r.PathValue("id"))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return id, nil
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DB.GetStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	summaries, err := checklist.ProjectSummaries(r.Context(), s.DB)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

type CreateProjectRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.DB.CreateProject(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := checklist.Report(r.Context(), s.DB, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type AddPageRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (s *Server) handleAddPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req AddPageRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	page, created, err := s.DB.CreatePage(r.Context(), id, req.URL, req.Title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, page)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := s.Checklist.Catalog(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Entries)
}

type DocumentResponse struct {
	catalog.Entry
	Body string `json:"body"`
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	e, body, err := s.Checklist.Document(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{Entry: e, Body: body})
}

func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "page")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.Checklist.View(r.Context(), id, r.PathValue("slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type SubmitResultRequest struct {
	TestID int64  `json:"test_id"`
	Value  string `json:"value"`
}

func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "page")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req SubmitResultRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.TestID <= 0 || strings.TrimSpace(req.Value) == "" {
		s.writeError(w, r, fmt.Errorf("%w: test_id and value are required", errBadRequest))
		return
	}
	res, err := s.Checklist.Submit(r.Context(), id, req.TestID, req.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleLatestResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "page")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.DB.GetPage(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	latest, err := s.DB.LatestResults(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if latest == nil {
		latest = []storage.Result{}
	}
	writeJSON(w, http.StatusOK, latest)
}
