package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/services"
	"github.com/go-chi/chi/v5"
)

const gameFormLimit = 3*services.MaxUploadSize + 1<<20

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gs services.GameService) *GameHandler {
	return &GameHandler{gameService: gs}
}

// List supports ?approved=true|false and ?tag=<name>.
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.GameFilter{Tag: strings.TrimSpace(q.Get("tag"))}
	if approved, err := strconv.ParseBool(q.Get("approved")); err == nil {
		filter.Approved = &approved
	}

	games, err := h.gameService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, games, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetByID(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, game, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.CreateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.Create(r.Context(), actor, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, game, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateWithUploads reads a multipart form carrying the game fields and the banner, logo and grid files.
func (h *GameHandler) CreateWithUploads(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	if err := parseMultipart(w, r, gameFormLimit); err != nil {
		mapOrBadRequest(w, r, err)
		return
	}

	input := services.CreateGameInput{
		Name:        r.FormValue("name"),
		Studio:      formValue(r, "studio"),
		Publisher:   formValue(r, "publisher"),
		Platforms:   formPlatforms(r),
		Description: formValue(r, "description"),
	}
	if raw := strings.TrimSpace(r.FormValue("release_date")); raw != "" {
		releaseDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			failedValidationResponse(w, r, map[string]string{"release_date": "must be formatted YYYY-MM-DD"})
			return
		}
		input.ReleaseDate = &releaseDate
	}

	uploads := services.GameUploads{}
	for _, slot := range models.PhotoSlots {
		upload, closeFile, err := formFile(r, string(slot))
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		defer closeFile()
		if upload != nil {
			uploads[slot] = upload
		}
	}

	game, err := h.gameService.CreateWithUploads(r.Context(), actor, input, uploads)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, game, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// formPlatforms accepts repeated "platforms" fields as well as a comma separated list.
func formPlatforms(r *http.Request) []string {
	platforms := make([]string, 0)
	for _, value := range r.MultipartForm.Value["platforms"] {
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				platforms = append(platforms, p)
			}
		}
	}
	return platforms
}

func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.UpdateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.Update(r.Context(), actor, gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, game, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	if err := h.gameService.Delete(r.Context(), actor, gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdatePhoto replaces one slot: PATCH /game/{id}/photo/{type} with a multipart "file".
func (h *GameHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	slot, err := models.ParsePhotoSlot(chi.URLParam(r, "type"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrInvalidPhotoSlot)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	if err := parseMultipart(w, r, avatarFormLimit); err != nil {
		mapOrBadRequest(w, r, err)
		return
	}
	upload, closeFile, err := formFile(r, "file")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closeFile()
	if upload == nil {
		mapServiceErrorToHTTP(w, r, services.ErrFileRequired)
		return
	}

	game, err := h.gameService.UpdatePhoto(r.Context(), actor, gameID, slot, upload)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, game, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
