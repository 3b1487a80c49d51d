package http

import (
	"net/http"

	"github.com/MKhiriev/go-todo-keeper/internal/app"
	"github.com/MKhiriev/go-todo-keeper/models"
)

// avatarUploadURL answers with a presigned PUT the client uses to upload the
// image straight to object storage.
func (h *Handler) avatarUploadURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req models.AvatarUploadRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	upload, err := h.services.AvatarService.CreateUploadURL(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, upload, app.MsgAvatarUploadURL)
}

func (h *Handler) confirmAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := principalID(w, r)
	if !ok {
		return
	}

	var req models.AvatarConfirmRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.services.AvatarService.ConfirmUpload(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, user, app.MsgAvatarUpdated)
}
