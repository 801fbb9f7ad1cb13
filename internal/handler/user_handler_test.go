package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskboard/internal/apperr"
	"taskboard/internal/handler"
	"taskboard/internal/service"
)

func newUserRouter(users *MockUserService, uploads *MockUploadService, userID *uuid.UUID) http.Handler {
	h := handler.NewUserHandler(users, uploads, quiet)
	r := newRouter(userID)
	r.GET("/users", h.List)
	r.GET("/users/:id", h.Get)
	r.PATCH("/users", h.UpdateMe)
	r.POST("/users/uploads", h.UploadImage)
	return r
}

func TestUserHandler_ListAndGet(t *testing.T) {
	users := new(MockUserService)
	id := uuid.New()
	users.On("List", mock.Anything).Return([]service.UserView{{ID: id, Username: "alice"}}, nil)
	users.On("Get", mock.Anything, id).Return(&service.UserView{ID: id, Username: "alice"}, nil)
	r := newUserRouter(users, new(MockUploadService), nil)

	w := doJSON(r, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(r, http.MethodGet, "/users/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode(t, w)["user"].(map[string]any)["username"])
}

func TestUserHandler_UpdateMeConflict(t *testing.T) {
	users := new(MockUserService)
	caller := uuid.New()
	users.On("UpdateSelf", mock.Anything, caller, mock.MatchedBy(func(in service.UpdateUserInput) bool {
		return in.Email != nil && *in.Email == "bob@example.com" && in.Username == nil
	})).Return(nil, apperr.Conflict("Email bob@example.com already taken"))

	w := doJSON(newUserRouter(users, new(MockUploadService), &caller), http.MethodPatch, "/users",
		map[string]string{"email": "bob@example.com"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email bob@example.com already taken", decode(t, w)["message"])
	users.AssertExpectations(t)
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, "avatar.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUserHandler_UploadImage(t *testing.T) {
	uploads := new(MockUploadService)
	caller := uuid.New()
	uploads.On("UploadUserImage", mock.Anything, caller, mock.Anything).Return("/uploads/"+caller.String()+".png", nil)

	w := httptest.NewRecorder()
	newUserRouter(new(MockUserService), uploads, &caller).ServeHTTP(w, multipartRequest(t, "image", []byte("\x89PNG\r\n\x1a\n")))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"image":{"src":"/uploads/`+caller.String()+`.png"}}`, w.Body.String())
	uploads.AssertExpectations(t)
}

func TestUserHandler_UploadNoFile(t *testing.T) {
	uploads := new(MockUploadService)
	caller := uuid.New()

	w := httptest.NewRecorder()
	newUserRouter(new(MockUserService), uploads, &caller).ServeHTTP(w, multipartRequest(t, "", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", decode(t, w)["message"])
	uploads.AssertNotCalled(t, "UploadUserImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_UploadRejected(t *testing.T) {
	uploads := new(MockUploadService)
	caller := uuid.New()
	uploads.On("UploadUserImage", mock.Anything, caller, mock.Anything).Return("", apperr.BadRequest("Please upload an image"))

	w := httptest.NewRecorder()
	newUserRouter(new(MockUserService), uploads, &caller).ServeHTTP(w, multipartRequest(t, "image", []byte("plain text")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please upload an image", decode(t, w)["message"])
}
