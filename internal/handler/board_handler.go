package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

type BoardHandler struct {
	boards BoardService
	logger logrus.FieldLogger
}

func NewBoardHandler(boards BoardService, logger logrus.FieldLogger) *BoardHandler {
	return &BoardHandler{boards: boards, logger: logger}
}

type BoardResponse struct {
	Message string             `json:"message"`
	Board   *service.BoardView `json:"board"`
}

type boardAdminsRequest struct {
	Admins []uuid.UUID `json:"admins"`
}

type boardUsersRequest struct {
	Users []uuid.UUID `json:"users"`
}

type boardAccessRequest struct {
	Password string `json:"password"`
}

// List godoc
// @Summary      List all boards
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   service.BoardView
// @Router       /boards [get]
func (h *BoardHandler) List(c *gin.Context) {
	boards, err := h.boards.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// Get godoc
// @Summary      Get a board
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Board ID"
// @Success      200  {object}  BoardResponse
// @Failure      404  {object}  MessageResponse
// @Router       /boards/{id} [get]
func (h *BoardHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	board, err := h.boards.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, BoardResponse{Message: "Board found", Board: board})
}

// Create godoc
// @Summary      Create a board owned by the caller
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      service.CreateBoardInput  true  "Board"
// @Success      201    {object}  BoardResponse
// @Failure      400    {object}  MessageResponse
// @Failure      409    {object}  MessageResponse
// @Router       /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req service.CreateBoardInput
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.boards.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, BoardResponse{Message: "New board created", Board: board})
}

// Update godoc
// @Summary      Update board fields
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string                    true  "Board ID"
// @Param        input  body      service.UpdateBoardInput  true  "Changes"
// @Success      200    {object}  BoardResponse
// @Failure      401    {object}  MessageResponse
// @Failure      404    {object}  MessageResponse
// @Router       /boards/{id} [patch]
func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateBoardInput
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.boards.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, BoardResponse{Message: board.Title + " updated", Board: board})
}

// UpdateAdmins godoc
// @Summary      Replace the board admin list
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string              true  "Board ID"
// @Param        input  body      boardAdminsRequest  true  "Admin IDs"
// @Success      200    {object}  BoardResponse
// @Failure      400    {object}  MessageResponse
// @Router       /boards/{id}/updateBoardAdmins [patch]
func (h *BoardHandler) UpdateAdmins(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req boardAdminsRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.boards.UpdateAdmins(c.Request.Context(), id, userID, req.Admins)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, BoardResponse{Message: board.Title + " admins updated", Board: board})
}

// UpdateUsers godoc
// @Summary      Replace the board user list
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string             true  "Board ID"
// @Param        input  body      boardUsersRequest  true  "User IDs"
// @Success      200    {object}  BoardResponse
// @Failure      404    {object}  MessageResponse
// @Router       /boards/{id}/updateBoardUsers [patch]
func (h *BoardHandler) UpdateUsers(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req boardUsersRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.boards.UpdateUsers(c.Request.Context(), id, userID, req.Users)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, BoardResponse{Message: board.Title + " users updated", Board: board})
}

// Leave godoc
// @Summary      Remove the caller from a board
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Board ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  MessageResponse
// @Router       /boards/{id}/leaveBoard [post]
func (h *BoardHandler) Leave(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	title, err := h.boards.Leave(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Successfully left " + title})
}

// Delete godoc
// @Summary      Delete a board and its notes
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Board ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  MessageResponse
// @Router       /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	title, err := h.boards.Delete(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Board '%s' with ID %s deleted", title, id)})
}

// Access godoc
// @Summary      Join a board with its password
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string              true  "Board ID"
// @Param        input  body      boardAccessRequest  false "Board password"
// @Success      200    {object}  MessageResponse
// @Failure      400    {object}  MessageResponse
// @Failure      401    {object}  MessageResponse
// @Router       /boards/{id}/accessBoard [post]
func (h *BoardHandler) Access(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req boardAccessRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	joined, err := h.boards.Access(c.Request.Context(), id, userID, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !joined {
		c.JSON(http.StatusOK, MessageResponse{Message: "User credentials valid"})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("User %s added to board", userID)})
}
