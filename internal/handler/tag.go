package handler

import (
	"net/http"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/repository"
	"github.com/sakif/datanest/internal/service"
)

// TagHandler serves /api/tags.
type TagHandler struct {
	tags *service.TagService
}

func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

type tagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tag, err := h.tags.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// HandleCreate: POST /api/tags {"name": "Web Dev", "color": "bg-red-500"}
// The stored name is canonical ("web-dev").
func (h *TagHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	tag, err := h.tags.Create(r.Context(), deref(req.Name), deref(req.Color))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (h *TagHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	tag, err := h.tags.Update(r.Context(), r.PathValue("id"), repository.TagPatch{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (h *TagHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.tags.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteError(w, err)
		return
	}
	writeDeleted(w)
}

// HandleBulkDelete: DELETE /api/tags {"ids": ["a", "b"]}
//
// Ids that do not exist are ignored. The response reports how many tags were
// actually removed.
func (h *TagHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.IDs == nil {
		WriteError(w, apperror.ValidationFailed("ids", "tag IDs are required"))
		return
	}

	n, err := h.tags.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Deleted: &n})
}
