package handlers

import (
	"net/http"

	"github.com/Dosada05/gameet/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(rs services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: rs}
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reviews, err := h.reviewService.ListByEvent(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, reviews, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.CreateReviewInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	review, err := h.reviewService.Create(r.Context(), actor, eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, review, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	reviewID, err := getIDFromURL(r, "reviewID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.UpdateReviewInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	review, err := h.reviewService.Update(r.Context(), actor, eventID, reviewID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, review, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	reviewID, err := getIDFromURL(r, "reviewID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	if err := h.reviewService.Delete(r.Context(), actor, eventID, reviewID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
