package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/gameet/middleware"
	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

const (
	msgValidation        = "Données invalides"
	msgWrongPassword     = "Mot de passe incorrect"
	msgNotFound          = "Ressource introuvable"
	msgEmailTaken        = "Email déjà utilisé"
	msgEventFull         = "Événement complet"
	msgAlreadyJoined     = "Déjà inscrit à cet événement"
	msgEventStarted      = "L'événement a déjà commencé"
	msgEventNotFinished  = "L'événement n'est pas encore terminé"
	msgReviewOwnEvent    = "Impossible de noter son propre événement"
	msgNotParticipant    = "Vous n'avez pas participé à cet événement"
	msgPhotoInUse        = "Photo encore utilisée"
	msgDefaultPhoto      = "La photo par défaut ne peut pas être modifiée"
	msgFileRequired      = "Fichier manquant"
	msgFileTooLarge      = "Fichier trop volumineux"
	msgUnsupportedFile   = "Type de fichier non supporté"
	msgInvalidPhotoSlot  = "Type de photo invalide (banner, logo ou grid)"
	maxJSONBytes         = 1_048_576
	multipartMemoryLimit = 4 << 20
)

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxJSONBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	if err := writeJSON(w, status, jsonResponse{"message": message}, nil); err != nil {
		slog.Default().Error("failed to write error response", slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Default().Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	errorResponse(w, r, http.StatusInternalServerError, middleware.MsgServerError)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	env := jsonResponse{"message": msgValidation, "errors": fields}
	if err := writeJSON(w, http.StatusBadRequest, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, msgNotFound)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		failedValidationResponse(w, r, validationErr.Fields)

	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrTagNotFound),
		errors.Is(err, services.ErrPhotoNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrParticipantNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrUserEmailConflict):
		conflictResponse(w, r, msgEmailTaken)
	case errors.Is(err, services.ErrEventFull):
		conflictResponse(w, r, msgEventFull)
	case errors.Is(err, services.ErrAlreadyParticipant):
		conflictResponse(w, r, msgAlreadyJoined)
	case errors.Is(err, services.ErrPhotoInUse):
		conflictResponse(w, r, msgPhotoInUse)

	case errors.Is(err, services.ErrEventStarted):
		errorResponse(w, r, http.StatusBadRequest, msgEventStarted)
	case errors.Is(err, services.ErrEventNotFinished):
		errorResponse(w, r, http.StatusBadRequest, msgEventNotFinished)
	case errors.Is(err, services.ErrFileRequired):
		errorResponse(w, r, http.StatusBadRequest, msgFileRequired)
	case errors.Is(err, services.ErrUnsupportedFileType):
		errorResponse(w, r, http.StatusBadRequest, msgUnsupportedFile)
	case errors.Is(err, services.ErrInvalidPhotoSlot):
		errorResponse(w, r, http.StatusBadRequest, msgInvalidPhotoSlot)
	case errors.Is(err, services.ErrFileTooLarge):
		errorResponse(w, r, http.StatusRequestEntityTooLarge, msgFileTooLarge)

	case errors.Is(err, services.ErrInvalidCredentials):
		unauthorizedResponse(w, r, msgWrongPassword)

	case errors.Is(err, services.ErrForbidden):
		forbiddenResponse(w, r, middleware.MsgForbidden)
	case errors.Is(err, services.ErrReviewOwnEvent):
		forbiddenResponse(w, r, msgReviewOwnEvent)
	case errors.Is(err, services.ErrNotParticipant):
		forbiddenResponse(w, r, msgNotParticipant)
	case errors.Is(err, services.ErrDefaultPhotoLocked):
		forbiddenResponse(w, r, msgDefaultPhoto)

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

func toInt(s string, def int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return def
}

// currentActor writes a 401 and returns false when the request carries no authenticated user.
func currentActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, middleware.MsgTokenMissing)
	}
	return actor, ok
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseMultipart bounds the body to maxBytes and parses the form.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return services.ErrFileTooLarge
		}
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

// formFile returns the uploaded file under field, or nil when the field is absent.
// The returned closer must be called once the upload has been consumed.
func formFile(r *http.Request, field string) (*services.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, fmt.Errorf("invalid %s file: %w", field, err)
	}
	return newUpload(file, header), func() { file.Close() }, nil
}

func newUpload(file multipart.File, header *multipart.FileHeader) *services.Upload {
	return &services.Upload{Filename: header.Filename, Size: header.Size, Body: file}
}

// formValue returns nil when field is not part of the submitted form.
func formValue(r *http.Request, field string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// mapOrBadRequest routes service sentinels through mapServiceErrorToHTTP and anything else to a 400.
func mapOrBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrFileTooLarge) {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	badRequestResponse(w, r, err)
}
