package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/MKhiriev/go-taskpro/internal/service"
	"github.com/MKhiriev/go-taskpro/internal/utils"
	"github.com/MKhiriev/go-taskpro/models"
)

const (
	avatarFormField = "avatar"

	// multipartMemory is how much of a multipart body is kept in memory
	// before parts spill to temporary files.
	multipartMemory = 1 << 20
)

var errAvatarMissing = errors.New("avatar file is empty")

// updateProfile accepts either a JSON body or a multipart form whose text
// fields mirror the JSON ones and whose optional "avatar" part carries the
// new profile picture.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, ErrEmptyAuthorizationHeader)
		return
	}

	var (
		req    models.ProfileUpdateRequest
		avatar *models.Avatar
		err    error
	)

	if isMultipart(r) {
		req, avatar, err = readProfileForm(r)
	} else {
		err = decodeJSON(r, &req)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.UserService.UpdateProfile(r.Context(), userID, req, avatar)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.UserResponse{User: user}, http.StatusOK)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func readProfileForm(r *http.Request) (models.ProfileUpdateRequest, *models.Avatar, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return models.ProfileUpdateRequest{}, nil, ErrBodyTooLarge
		}
		return models.ProfileUpdateRequest{}, nil, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}

	var req models.ProfileUpdateRequest
	req.Name = formValue(r, "name")
	req.Email = formValue(r, "email")
	req.Password = formValue(r, "password")

	file, header, err := r.FormFile(avatarFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return req, nil, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return req, nil, fmt.Errorf("error reading avatar: %w", err)
	}
	if len(content) == 0 {
		return req, nil, &service.ValidationError{Err: errAvatarMissing}
	}

	return req, &models.Avatar{Filename: header.Filename, Content: content}, nil
}

// formValue returns nil for a field that was not sent at all, so a
// multipart update stays partial like its JSON counterpart.
func formValue(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
