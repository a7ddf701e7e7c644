package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"boardbrief/internal/brief"
	"boardbrief/internal/core"
	"boardbrief/internal/curate"
	"boardbrief/internal/departments"
	"boardbrief/internal/query"
	"boardbrief/internal/strategy"
	"boardbrief/internal/tailor"
)

// maxUploadBytes bounds PDF uploads for strategy documents and
// proposals.
const maxUploadBytes = 15 << 20

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// CurateResponse is the /api/curate success payload.
type CurateResponse struct {
	Articles []core.RawArticle `json:"articles"`
	Total    int               `json:"total"`
	Sources  []string          `json:"sources"`
	Queries  []string          `json:"queries"`
	Error    string            `json:"error,omitempty"`
	Message  string            `json:"message,omitempty"`
}

func (s *Server) handleCurate(w http.ResponseWriter, r *http.Request) {
	var filters core.FilterState
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now()
	queries := query.Build(filters)

	var since *time.Time
	if cutoff, bounded := curate.CutoffFor(filters.DateRange, now); bounded {
		since = &cutoff
	}

	result := s.fetcher.FetchAll(r.Context(), queries, since)
	curated := curate.Curate(result.Articles, filters, now)

	if len(curated) == 0 {
		// An empty board is a presentable outcome, not a failure.
		s.respondJSON(w, http.StatusOK, CurateResponse{
			Articles: []core.RawArticle{},
			Sources:  []string{},
			Queries:  queries,
			Error:    "No news found. Configure API keys to reach live sources.",
			Message:  "Set NEWS_API_KEY, GUARDIAN_API_KEY and NEWSDATA_API_KEY to fetch real news.",
		})
		return
	}

	s.respondJSON(w, http.StatusOK, CurateResponse{
		Articles: curated,
		Total:    len(curated),
		Sources:  result.Sources,
		Queries:  queries,
	})
}

// AnalyzeRequest is the /api/analyze input payload.
type AnalyzeRequest struct {
	Articles        []core.RawArticle  `json:"articles"`
	Filters         core.FilterState   `json:"filters"`
	SummaryLength   core.SummaryLength `json:"summaryLength"`
	StrategyContext string             `json:"strategyContext"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SummaryLength == "" {
		req.SummaryLength = core.SummaryMedium
	}

	result, err := s.analyzer.Analyze(r.Context(), req.Articles, req.Filters, req.SummaryLength, req.StrategyContext)
	if err != nil {
		var yieldErr *brief.InsufficientYieldError
		switch {
		case errors.Is(err, brief.ErrNoArticles):
			s.respondError(w, http.StatusBadRequest, "no articles to analyze")
		case errors.As(err, &yieldErr):
			s.log.Error("analysis fell below acceptance threshold", "error", err)
			s.respondJSON(w, http.StatusInternalServerError, map[string]any{
				"error": err.Error(),
				"items": yieldErr.Items,
			})
		default:
			s.log.Error("analysis failed", "error", err)
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// TailorRequest is the /api/tailor input payload.
type TailorRequest struct {
	Article         core.BriefItem `json:"article"`
	DeptID          string         `json:"deptId"`
	Actions         []string       `json:"actions"`
	StrategyContext string         `json:"strategyContext"`
}

// TailorResponse is the /api/tailor success payload.
type TailorResponse struct {
	TailoredSummary string `json:"tailored_summary"`
}

func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req TailorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	deptID := departments.ID(req.DeptID)
	if !departments.Valid(deptID) {
		s.respondError(w, http.StatusBadRequest, "invalid department")
		return
	}

	summary, err := s.tailorer.Tailor(r.Context(), req.Article, deptID, req.Actions, req.StrategyContext)
	if err != nil {
		s.log.Error("tailoring failed", "error", err, "department", req.DeptID)
		s.respondError(w, http.StatusInternalServerError, "tailoring failed")
		return
	}

	s.respondJSON(w, http.StatusOK, TailorResponse{TailoredSummary: summary})
}

// StrategyResponse is the /api/strategy success payload.
type StrategyResponse struct {
	StrategyText string `json:"strategyText"`
}

func (s *Server) handleStrategyUpload(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	text, err := strategy.ExtractContext(data)
	if err != nil {
		if errors.Is(err, strategy.ErrNoText) {
			s.respondError(w, http.StatusUnprocessableEntity, "unable to extract text from PDF")
			return
		}
		s.log.Error("strategy extraction failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to read PDF")
		return
	}

	s.respondJSON(w, http.StatusOK, StrategyResponse{StrategyText: text})
}

// ApproveRequest is the /api/approve input payload.
type ApproveRequest struct {
	Item            core.BriefItem `json:"item"`
	StrategyContext string         `json:"strategyContext"`
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Item.RelevantDepartments) == 0 {
		s.respondError(w, http.StatusBadRequest, "item has no relevant departments")
		return
	}

	dispatches := s.tailorer.Distribute(r.Context(), req.Item, req.StrategyContext)
	stored, err := s.store.AppendDispatches(dispatches)
	if err != nil {
		s.log.Error("failed to persist dispatches", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to store dispatches")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"dispatches":  stored,
		"departments": len(stored),
	})
}

func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"departments": departments.All,
	})
}

func (s *Server) handleDepartmentInbox(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !departments.Valid(departments.ID(id)) {
		s.respondError(w, http.StatusNotFound, "unknown department")
		return
	}

	dispatches, err := s.store.ListByDepartment(id)
	if err != nil {
		s.log.Error("failed to list department inbox", "error", err, "department", id)
		s.respondError(w, http.StatusInternalServerError, "failed to read inbox")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"department": id,
		"dispatches": dispatches,
	})
}

func (s *Server) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !departments.Valid(departments.ID(id)) {
		s.respondError(w, http.StatusNotFound, "unknown department")
		return
	}

	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	proposalText, err := strategy.Extract(data)
	if err != nil {
		if errors.Is(err, strategy.ErrNoText) {
			s.respondError(w, http.StatusUnprocessableEntity, "PDF has no readable text")
			return
		}
		s.log.Error("proposal extraction failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to read PDF")
		return
	}

	in := tailor.ProposalInput{
		DepartmentID:    id,
		ArticleTitle:    r.FormValue("articleTitle"),
		ArticleLink:     r.FormValue("articleLink"),
		ArticleWhy:      r.FormValue("articleWhy"),
		ArticleSummary:  r.FormValue("articleSummary"),
		ActionText:      r.FormValue("actionText"),
		StrategyContext: r.FormValue("strategyContext"),
		ProposalText:    proposalText,
	}

	review, err := s.tailorer.ReviewProposal(r.Context(), in)
	if err != nil {
		s.log.Error("proposal screening failed", "error", err, "department", id)
		s.respondError(w, http.StatusInternalServerError, "proposal screening failed")
		return
	}

	stored, err := s.store.AppendProposal(id, in.ArticleTitle, in.ActionText, review)
	if err != nil {
		s.log.Error("failed to persist proposal", "error", err, "department", id)
		s.respondError(w, http.StatusInternalServerError, "failed to store proposal")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"analysis": review,
		"proposal": stored,
	})
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	departmentID := r.URL.Query().Get("department")
	if departmentID != "" && !departments.Valid(departments.ID(departmentID)) {
		s.respondError(w, http.StatusNotFound, "unknown department")
		return
	}

	proposals, err := s.store.ListProposals(departmentID)
	if err != nil {
		s.log.Error("failed to list proposals", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to read proposals")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"proposals": proposals,
	})
}

// readUpload pulls the "file" part out of a multipart request. It
// writes its own error response and returns ok=false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "expected multipart/form-data with a file")
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "no file uploaded")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read uploaded file")
		return nil, false
	}
	return data, true
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError writes a JSON error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
