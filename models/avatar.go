package models

import "time"

// AvatarUploadRequest asks for a presigned URL to upload a new avatar.
type AvatarUploadRequest struct {
	ContentType   string `json:"contentType" validate:"required"`
	ContentLength int64  `json:"contentLength" validate:"required,gt=0"`
}

// AvatarUpload describes where and how the client must PUT the image.
type AvatarUpload struct {
	UploadURL      string            `json:"uploadUrl"`
	Key            string            `json:"key"`
	RequiredHeader map[string]string `json:"requiredHeaders"`
	ExpiresAt      time.Time         `json:"expiresAt"`
}

// AvatarConfirmRequest confirms a completed upload so the object can be
// attached to the user's profile.
type AvatarConfirmRequest struct {
	Key string `json:"key" validate:"required"`
}
