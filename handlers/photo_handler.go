package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/gameet/services"
)

type PhotoHandler struct {
	photoService services.PhotoService
}

func NewPhotoHandler(ps services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: ps}
}

// readFileField parses a single-image multipart form and returns its "file" part.
func readFileField(w http.ResponseWriter, r *http.Request) (*services.Upload, func(), bool) {
	if err := parseMultipart(w, r, avatarFormLimit); err != nil {
		mapOrBadRequest(w, r, err)
		return nil, nil, false
	}
	upload, closeFile, err := formFile(r, "file")
	if err != nil {
		badRequestResponse(w, r, err)
		return nil, nil, false
	}
	if upload == nil {
		closeFile()
		mapServiceErrorToHTTP(w, r, services.ErrFileRequired)
		return nil, nil, false
	}
	return upload, closeFile, true
}

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	upload, closeFile, ok := readFileField(w, r)
	if !ok {
		return
	}
	defer closeFile()

	photo, err := h.photoService.Upload(r.Context(), actor, upload)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, photo, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get streams the raw image with its content type.
func (h *PhotoHandler) Get(w http.ResponseWriter, r *http.Request) {
	photoID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	_, obj, err := h.photoService.Open(r.Context(), photoID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		slog.Default().Warn("photo stream interrupted", slog.Int("photo_id", photoID), slog.Any("error", err))
	}
}

func (h *PhotoHandler) Replace(w http.ResponseWriter, r *http.Request) {
	photoID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	upload, closeFile, ok := readFileField(w, r)
	if !ok {
		return
	}
	defer closeFile()

	photo, err := h.photoService.Replace(r.Context(), actor, photoID, upload)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, photo, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	if err := h.photoService.Delete(r.Context(), actor, photoID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
