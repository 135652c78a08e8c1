package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/swaggo/swag"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
	"github.com/bioenergy-org/catalog-core/internal/core/ports/driving"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 8 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// MessageResponse is the not-found body for dataset lookups
// @Description Dataset lookup failure
type MessageResponse struct {
	Message string `json:"message" example:"Cannot find Dataset with identifier: JBEI_x1"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Checks the dataset store and, when configured, Redis
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", "component", "store", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.cache != nil {
		if err := s.cache.Ping(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", "component", "redis", "error", err)
			writeError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

func (s *Server) handleAPIDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "api documentation not registered")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// Search endpoints

// handleSearch godoc
// @Summary      Search datasets
// @Description  Full-text search with structured filters, pagination and facets
// @Tags         Datasets
// @Produce      json
// @Param        q           query     string  false  "Free text; supports OR, NOT and parentheses"
// @Param        filters     query     string  false  "JSON object of filters, e.g. {\"brc\":[\"JBEI\"]}"
// @Param        title       query     string  false  "Case-insensitive title substring"
// @Param        sequence    query     string  false  "Nucleotide sequence; runs a federated BLAST search instead"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        rows        query     int     false  "Page size (default 50, max 500)"
// @Param        skipFacets  query     bool    false  "Omit facets"
// @Success      200  {object}  domain.SearchResult
// @Failure      400  {object}  ErrorResponse  "Malformed query or filters"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /datasets [get]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := searchRequestFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.search(w, r, req)
}

// handleSearchPost godoc
// @Summary      Search datasets (JSON body)
// @Description  Same as GET /datasets with the request in the body
// @Tags         Datasets
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SearchRequest  true  "Search request"
// @Success      200      {object}  domain.SearchResult
// @Failure      400      {object}  ErrorResponse  "Malformed query or filters"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /datasets/search [post]
func (s *Server) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.search(w, r, req)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, req domain.SearchRequest) {
	result, err := s.searchService.Search(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Dataset endpoints

// handleListPublished godoc
// @Summary      List published datasets
// @Description  Datasets that carry a bibliographic citation, newest first
// @Tags         Datasets
// @Produce      json
// @Success      200  {array}   object
// @Failure      500  {object}  ErrorResponse
// @Router       /datasets/published [get]
func (s *Server) handleListPublished(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.datasetService.ListPublished(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	items := make([]map[string]any, 0, len(datasets))
	for _, ds := range datasets {
		items = append(items, ds.ClientJSON())
	}
	writeJSON(w, http.StatusOK, items)
}

// handleGetDataset godoc
// @Summary      Get dataset
// @Description  Retrieve one dataset by UID (brc_identifier)
// @Tags         Datasets
// @Produce      json
// @Param        id   path      string  true  "Dataset UID"
// @Success      200  {object}  object
// @Failure      404  {object}  MessageResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /datasets/{id} [get]
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ds, err := s.datasetService.Get(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, MessageResponse{
			Message: "Cannot find Dataset with identifier: " + id,
		})
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.ClientJSON())
}

// handleContribute godoc
// @Summary      Contribute dataset
// @Description  Create or replace a dataset; keyed by brc and identifier
// @Tags         Datasets
// @Accept       json
// @Produce      json
// @Param        request  body      driving.ContributeRequest  true  "Dataset document"
// @Success      201      {object}  object
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /datasets [post]
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req driving.ContributeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ds, err := s.datasetService.Contribute(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ds.ClientJSON())
}

// searchRequestFromQuery reads a search from URL parameters
func searchRequestFromQuery(r *http.Request) (domain.SearchRequest, error) {
	q := r.URL.Query()
	req := domain.SearchRequest{
		Query:      q.Get("q"),
		Title:      q.Get("title"),
		Sequence:   q.Get("sequence"),
		SkipFacets: parseBool(q.Get("skipFacets")),
	}
	if raw := strings.TrimSpace(q.Get("filters")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Filters); err != nil {
			return req, fmt.Errorf("invalid filters: %w", err)
		}
	}
	var err error
	if req.Page, err = parseInt(q.Get("page")); err != nil {
		return req, fmt.Errorf("invalid page: %w", err)
	}
	if req.Rows, err = parseInt(q.Get("rows")); err != nil {
		return req, fmt.Errorf("invalid rows: %w", err)
	}
	return req, nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parseBool accepts 1, true and yes in any case
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps domain errors to status codes. Unexpected errors
// are logged and reported without detail.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedSchema):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrImportInProgress):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
