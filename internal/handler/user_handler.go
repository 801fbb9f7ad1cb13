package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

type UserHandler struct {
	users   UserService
	uploads UploadService
	logger  logrus.FieldLogger
}

func NewUserHandler(users UserService, uploads UploadService, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{users: users, uploads: uploads, logger: logger}
}

type UserResponse struct {
	Message string            `json:"message,omitempty"`
	User    *service.UserView `json:"user"`
}

type ImageSource struct {
	Src string `json:"src"`
}

type ImageResponse struct {
	Image ImageSource `json:"image"`
}

// List godoc
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  service.UserView
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary      Get a user
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      404  {object}  MessageResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{User: user})
}

// UpdateMe godoc
// @Summary      Update the caller's username, e-mail or password
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      service.UpdateUserInput  true  "Changes"
// @Success      200    {object}  UserResponse
// @Failure      400    {object}  MessageResponse
// @Failure      409    {object}  MessageResponse
// @Router       /users [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req service.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateSelf(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, UserResponse{Message: user.Username + " updated", User: user})
}

// UploadImage godoc
// @Summary      Upload the caller's profile picture
// @Tags         Users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "Image file"
// @Success      200    {object}  ImageResponse
// @Failure      400    {object}  MessageResponse
// @Router       /users/uploads [post]
func (h *UserHandler) UploadImage(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "No file uploaded")
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	src, err := h.uploads.UploadUserImage(c.Request.Context(), userID, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ImageResponse{Image: ImageSource{Src: src}})
}
