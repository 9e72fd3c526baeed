package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/gameet/models"
	"github.com/Dosada05/gameet/services"
	"github.com/Dosada05/gameet/utils"
)

// avatarFormLimit bounds a register or profile form: one image plus its text fields.
const avatarFormLimit = services.MaxUploadSize + 1<<20

type UserHandler struct {
	userService services.UserService
	tokens      *utils.TokenManager
}

func NewUserHandler(us services.UserService, tokens *utils.TokenManager) *UserHandler {
	return &UserHandler{
		userService: us,
		tokens:      tokens,
	}
}

// Register accepts either a JSON body or a multipart form with an optional "avatar" file.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	var avatar *services.Upload

	if isMultipart(r) {
		if err := parseMultipart(w, r, avatarFormLimit); err != nil {
			mapOrBadRequest(w, r, err)
			return
		}
		input = services.RegisterInput{
			Pseudo:    r.FormValue("pseudo"),
			Email:     r.FormValue("email"),
			Password:  r.FormValue("password"),
			BirthDate: r.FormValue("birth_date"),
			Bio:       formValue(r, "bio"),
		}
		upload, closeFile, err := formFile(r, "avatar")
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		defer closeFile()
		avatar = upload
	} else if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.Register(r.Context(), input, avatar)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, user, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"token": token,
		"user":  user,
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), actor.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, user, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.UserFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Page:   toInt(q.Get("page"), 1),
		Limit:  toInt(q.Get("limit"), 20),
	}

	result, err := h.userService.List(r.Context(), actor, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, result, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, user, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update accepts a JSON body of optional fields, or a multipart form that may also carry "avatar".
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var input services.UpdateUserInput
	var avatar *services.Upload

	if isMultipart(r) {
		if err := parseMultipart(w, r, avatarFormLimit); err != nil {
			mapOrBadRequest(w, r, err)
			return
		}
		input = services.UpdateUserInput{
			Pseudo:    formValue(r, "pseudo"),
			Email:     formValue(r, "email"),
			Password:  formValue(r, "password"),
			BirthDate: formValue(r, "birth_date"),
			Bio:       formValue(r, "bio"),
		}
		upload, closeFile, err := formFile(r, "avatar")
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		defer closeFile()
		avatar = upload
	} else if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.Update(r.Context(), actor, userID, input, avatar)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, user, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), actor, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
