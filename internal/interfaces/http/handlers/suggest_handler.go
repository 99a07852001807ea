package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/application/suggest"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/types/taxon"
)

// HeaderSessionID names the suggestion session of a request.
const HeaderSessionID = "X-Session-ID"

const maxPerPage = 100

// SuggestService is the application surface used by SuggestHandler.
type SuggestService interface {
	Suggest(ctx context.Context, in suggest.SuggestInput) (*suggest.SuggestResult, error)
	Select(ctx context.Context, in suggest.SelectInput) (*taxon.SelectionResult, error)
	Normalize(name string) string
}

// SuggestHandler serves the taxon suggestion endpoints.
type SuggestHandler struct {
	svc    SuggestService
	logger logging.Logger
}

// NewSuggestHandler creates a new SuggestHandler.
func NewSuggestHandler(svc SuggestService, logger logging.Logger) *SuggestHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SuggestHandler{svc: svc, logger: logger}
}

// SelectRequest is the body of POST /taxa/selections.  Either CandidateID
// (with a session) or Candidate must be set.
type SelectRequest struct {
	SessionID   string           `json:"session_id"`
	CandidateID string           `json:"candidate_id"`
	Candidate   *taxon.Candidate `json:"candidate"`
}

// PaginationBody mirrors the pagination block of the taxonomy service.
type PaginationBody struct {
	CurrentPage int  `json:"current_page"`
	HasMore     bool `json:"has_more"`
}

// SuggestResponse is the body of GET /taxa/suggestions.  Data holds the
// annotated outline in candidate wire form.
type SuggestResponse struct {
	Success    bool           `json:"success"`
	SessionID  string         `json:"session_id"`
	Query      string         `json:"query"`
	Data       []taxon.Entry  `json:"data"`
	Pagination PaginationBody `json:"pagination"`
	Stale      bool           `json:"stale,omitempty"`
	Degraded   bool           `json:"degraded,omitempty"`
}

// SelectResponse is the body of POST /taxa/selections.
type SelectResponse struct {
	Success bool                  `json:"success"`
	Data    taxon.SelectionResult `json:"data"`
}

// NormalizeResponse is the body of GET /taxa/normalize.
type NormalizeResponse struct {
	Success    bool   `json:"success"`
	Name       string `json:"name"`
	Normalized string `json:"normalized"`
}

// RegisterRoutes mounts the taxa endpoints under r.
func (h *SuggestHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/taxa")
	g.GET("/suggestions", h.Suggest)
	g.POST("/selections", h.Select)
	g.GET("/normalize", h.Normalize)
}

// Suggest handles GET /taxa/suggestions?q=&page=&per_page=&data_source=.
// The session comes from X-Session-ID and is created when absent; the
// effective id is echoed in the same header.
func (h *SuggestHandler) Suggest(c *gin.Context) {
	page, ok := queryInt(c, "page", 1, 0)
	if !ok {
		badRequest(c, h.logger, "page must be a positive integer")
		return
	}
	perPage, ok := queryInt(c, "per_page", 0, maxPerPage)
	if !ok {
		badRequest(c, h.logger, "per_page must be a positive integer")
		return
	}
	sources := append(c.QueryArray("data_source"), c.QueryArray("data_source[]")...)

	res, err := h.svc.Suggest(c.Request.Context(), suggest.SuggestInput{
		SessionID:   c.GetHeader(HeaderSessionID),
		Query:       c.Query("q"),
		Page:        page,
		PerPage:     perPage,
		DataSources: sources,
	})
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}

	entries := res.Entries
	if entries == nil {
		entries = []taxon.Entry{}
	}
	c.Header(HeaderSessionID, res.SessionID)
	c.JSON(http.StatusOK, SuggestResponse{
		Success:    true,
		SessionID:  res.SessionID,
		Query:      res.Query,
		Data:       entries,
		Pagination: PaginationBody{CurrentPage: res.Page, HasMore: res.HasMore},
		Stale:      res.Stale,
		Degraded:   res.Degraded,
	})
}

// Select handles POST /taxa/selections.
func (h *SuggestHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid request body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader(HeaderSessionID)
	}

	res, err := h.svc.Select(c.Request.Context(), suggest.SelectInput{
		SessionID:   req.SessionID,
		CandidateID: strings.TrimSpace(req.CandidateID),
		Candidate:   req.Candidate,
	})
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SelectResponse{Success: true, Data: *res})
}

// Normalize handles GET /taxa/normalize?name=.
func (h *SuggestHandler) Normalize(c *gin.Context) {
	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		badRequest(c, h.logger, "name is required")
		return
	}
	c.JSON(http.StatusOK, NormalizeResponse{
		Success:    true,
		Name:       name,
		Normalized: h.svc.Normalize(name),
	})
}

//Personal.AI order the ending
