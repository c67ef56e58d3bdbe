package api

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/adrgraph/internal/adrservice"
	"github.com/starford/adrgraph/internal/report"
)

// Handler holds API route handlers.
type Handler struct {
	svc      *adrservice.Service
	onReport func(*report.Report)
}

// NewHandler creates a new Handler. onReport, if non-nil, is called with
// every report produced by POST /validate.
func NewHandler(svc *adrservice.Service, onReport func(*report.Report)) *Handler {
	return &Handler{svc: svc, onReport: onReport}
}

// Report handles GET /api/report.
//
//	@Summary		Get the latest validation report
//	@Tags			report
//	@Produce		json,plain
//	@Param			format	query		string	false	"Response format"	Enums(json, text)
//	@Success		200		{object}	report.Report
//	@Security		BearerAuth
//	@Router			/report [get]
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Report(r.Context())
	if err != nil {
		writeError(w, "report failed", err)
		return
	}
	h.writeReport(w, r, rep)
}

// Validate handles POST /api/validate.
//
//	@Summary		Re-validate the corpus now
//	@Tags			report
//	@Produce		json,plain
//	@Param			format	query		string	false	"Response format"	Enums(json, text)
//	@Success		200		{object}	report.Report
//	@Security		BearerAuth
//	@Router			/validate [post]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Refresh(r.Context())
	if err != nil {
		writeError(w, "validate failed", err)
		return
	}
	if h.onReport != nil {
		h.onReport(rep)
	}
	h.writeReport(w, r, rep)
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List documents of the latest snapshot
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Documents(r.Context())
	if err != nil {
		writeError(w, "list documents failed", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Total: len(docs)})
}

// GetDocument handles GET /api/documents/{id}.
//
//	@Summary		Get one document with relations, referrers and findings
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Identifier, e.g. ADR-0001 or 0001"
//	@Success		200	{object}	DocumentDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.svc.Document(r.Context(), id)
	if err != nil {
		writeError(w, "get document "+id, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Graph handles GET /api/graph.
//
//	@Summary		Get the relationship graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Graph(r.Context())
	if err != nil {
		writeError(w, "graph failed", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Map handles GET /api/map.
//
//	@Summary		Get the Markdown relationship map
//	@Tags			graph
//	@Produce		plain
//	@Success		200	{string}	string
//	@Security		BearerAuth
//	@Router			/map [get]
func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.RelationshipMap(r.Context())
	if err != nil {
		writeError(w, "map failed", err)
		return
	}
	writeBody(w, "text/markdown; charset=utf-8", []byte(out))
}

// writeReport honours ?format=text; JSON is the default.
func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request, rep *report.Report) {
	if r.URL.Query().Get("format") != "text" {
		writeJSON(w, http.StatusOK, rep)
		return
	}
	var buf bytes.Buffer
	if err := report.WriteText(&buf, rep, report.TextOptions{}); err != nil {
		writeError(w, "render report failed", err)
		return
	}
	writeBody(w, "text/plain; charset=utf-8", buf.Bytes())
}
