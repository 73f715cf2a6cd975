package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-taskpro/internal/service"
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileCall struct {
	userID string
	req    models.ProfileUpdateRequest
	avatar *models.Avatar
}

func profileRouter(t *testing.T, call *profileCall) http.Handler {
	t.Helper()
	return routerWithUsers(t, &fakeUserService{
		updateProfileFn: func(_ context.Context, userID string, req models.ProfileUpdateRequest, avatar *models.Avatar) (models.User, error) {
			*call = profileCall{userID: userID, req: req, avatar: avatar}
			if req.Name == nil && req.Email == nil && req.Password == nil && avatar == nil {
				return models.User{}, service.ErrValidation
			}
			return ann, nil
		},
	})
}

func TestUpdateProfile_JSON(t *testing.T) {
	var call profileCall
	router := profileRouter(t, &call)

	rec := doRequest(router, http.MethodPut, "/api/users/profile", `{"name":"Annie"}`, "Authorization", "Bearer good-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", call.userID)
	require.NotNil(t, call.req.Name)
	assert.Equal(t, "Annie", *call.req.Name)
	assert.Nil(t, call.req.Email)
	assert.Nil(t, call.avatar)
}

func TestUpdateProfile_MultipartWithAvatar(t *testing.T) {
	var call profileCall
	router := profileRouter(t, &call)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("email", "annie@x.com"))
	part, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/users/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, call.req.Email)
	assert.Equal(t, "annie@x.com", *call.req.Email)
	assert.Nil(t, call.req.Name)
	require.NotNil(t, call.avatar)
	assert.Equal(t, "me.png", call.avatar.Filename)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), call.avatar.Content)
}

func TestUpdateProfile_MultipartWithoutAvatar(t *testing.T) {
	var call profileCall
	router := profileRouter(t, &call)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Annie"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/users/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, call.avatar)
}

func TestUpdateProfile_EmptyAvatarRejected(t *testing.T) {
	var call profileCall
	router := profileRouter(t, &call)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/users/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "avatar file is empty", messageOf(t, rec))
}

func TestUpdateProfile_RequiresToken(t *testing.T) {
	var call profileCall
	router := profileRouter(t, &call)

	rec := doRequest(router, http.MethodPut, "/api/users/profile", `{"name":"Annie"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, call.userID)
}
