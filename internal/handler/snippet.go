package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/datanest/internal/repository"
	"github.com/sakif/datanest/internal/service"
)

// SnippetHandler serves /api/snippets.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// snippetRequest is the body of POST and PUT. The browser UI sends the tag
// ids under "tags"; "tagIds" is read when "tags" is absent.
type snippetRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Language    string   `json:"language"`
	CategoryID  *string  `json:"categoryId"`
	Tags        []string `json:"tags"`
	TagIDs      []string `json:"tagIds"`
}

func (req snippetRequest) input() service.SnippetInput {
	tagIDs := req.Tags
	if tagIDs == nil {
		tagIDs = req.TagIDs
	}
	return service.SnippetInput{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Language:    req.Language,
		CategoryID:  req.CategoryID,
		TagIDs:      tagIDs,
	}
}

// HandleList returns the snippets matching the query string.
//
// HTTP: GET /api/snippets?language=go&category=Utilities&tag=web&search=sort
//
// Every parameter is optional; language=all means no language filter.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snippets, err := h.snippets.List(r.Context(), repository.SnippetFilter{
		Language: q.Get("language"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippets)
}

// HandleGet: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

// HandleCreate: POST /api/snippets
//
//	{"title": "...", "code": "...", "language": "go", "categoryId": "...", "tags": ["<tag id>"]}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req snippetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}

	snippet, err := h.snippets.Create(r.Context(), req.input())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snippet)
}

// HandleUpdate: PUT /api/snippets/{id}
//
// Full replacement: a body without tags leaves the snippet with no tags.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req snippetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	snippet, err := h.snippets.Update(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete: DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.snippets.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteError(w, err)
		return
	}
	writeDeleted(w)
}
