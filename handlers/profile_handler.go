package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/chess-portal/middleware"
	"github.com/Dosada05/chess-portal/notifications"
	"github.com/Dosada05/chess-portal/services"
)

const photoFormField = "file"

type ProfileHandler struct {
	responder
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService, notifier notifications.Notifier, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{responder: newResponder(notifier, logger), profileService: profileService}
}

// Update godoc
// @Summary Update the profile of the logged-in user
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body services.ProfileUpdate true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Router /api/profile [put]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.ProfileUpdate
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	store, err := middleware.GetStore(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	identity, err := h.profileService.Update(r.Context(), store, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusOK, jsonResponse{"user": identity}, "Profile updated")
}

// Address godoc
// @Summary Address of the logged-in user
// @Tags profile
// @Produce json
// @Success 200 {object} models.Address
// @Router /api/profile/address [get]
func (h *ProfileHandler) Address(w http.ResponseWriter, r *http.Request) {
	addr, err := h.profileService.Address(r.Context(), middleware.GetSession(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, jsonResponse{"address": addr})
}

// UploadPhoto godoc
// @Summary Upload a profile picture
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image, at most 5MB"
// @Success 200 {object} map[string]interface{}
// @Failure 413 {object} map[string]interface{}
// @Failure 415 {object} map[string]interface{}
// @Router /api/profile/photo [post]
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	// запас на заголовки multipart
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(services.MaxPhotoSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, services.ErrPhotoTooLarge)
			return
		}
		h.badRequest(w, r, errors.New("the request must be a multipart form with a file"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(photoFormField)
	if err != nil {
		h.badRequest(w, r, errors.New("select an image to upload"))
		return
	}
	defer file.Close()

	store, err := middleware.GetStore(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	identity, err := h.profileService.UploadPhoto(r.Context(), store, services.Photo{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusOK, jsonResponse{"user": identity}, "Profile picture updated")
}

// DeletePhoto godoc
// @Summary Remove the profile picture
// @Tags profile
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/profile/photo [delete]
func (h *ProfileHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	store, err := middleware.GetStore(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	identity, err := h.profileService.DeletePhoto(r.Context(), store)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.success(w, r, http.StatusOK, jsonResponse{"user": identity}, "Profile picture removed")
}
