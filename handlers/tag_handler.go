package handlers

import (
	"net/http"

	"github.com/Dosada05/gameet/services"
)

type TagHandler struct {
	tagService services.TagService
}

func NewTagHandler(ts services.TagService) *TagHandler {
	return &TagHandler{tagService: ts}
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, tags, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TagHandler) ListByGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tags, err := h.tagService.ListByGame(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, tags, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TagHandler) AddToGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.AddTagInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tag, err := h.tagService.AddToGame(r.Context(), actor, gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, tag, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TagHandler) RemoveFromGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tagID, err := getIDFromURL(r, "tagID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	if err := h.tagService.RemoveFromGame(r.Context(), actor, gameID, tagID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
