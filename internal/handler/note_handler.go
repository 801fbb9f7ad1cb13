package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

type NoteHandler struct {
	notes  NoteService
	logger logrus.FieldLogger
}

func NewNoteHandler(notes NoteService, logger logrus.FieldLogger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

type NoteResponse struct {
	Message string            `json:"message,omitempty"`
	Note    *service.NoteView `json:"note"`
}

type noteUsersRequest struct {
	Users []uuid.UUID `json:"users"`
}

// List godoc
// @Summary      List notes, optionally for one board
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        boardId  query     string  false  "Board ID"
// @Success      200      {array}   service.NoteView
// @Failure      400      {object}  MessageResponse
// @Router       /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	var boardID *uuid.UUID
	if raw := c.Query("boardId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "Invalid boardId format")
			return
		}
		boardID = &id
	}

	notes, err := h.notes.List(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// Get godoc
// @Summary      Get a note
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  NoteResponse
// @Failure      404  {object}  MessageResponse
// @Router       /notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	note, err := h.notes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, NoteResponse{Note: note})
}

// Create godoc
// @Summary      Create a note on a board
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      service.CreateNoteInput  true  "Note"
// @Success      201    {object}  NoteResponse
// @Failure      400    {object}  MessageResponse
// @Failure      404    {object}  MessageResponse
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req service.CreateNoteInput
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.notes.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, NoteResponse{Message: "New note created", Note: note})
}

// Update godoc
// @Summary      Update note fields
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string                   true  "Note ID"
// @Param        input  body      service.UpdateNoteInput  true  "Changes"
// @Success      200    {object}  NoteResponse
// @Failure      400    {object}  MessageResponse
// @Failure      404    {object}  MessageResponse
// @Router       /notes/{id} [patch]
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateNoteInput
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.notes.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, NoteResponse{Message: note.Title + " updated", Note: note})
}

// UpdateUsers godoc
// @Summary      Replace the note assignees
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string            true  "Note ID"
// @Param        input  body      noteUsersRequest  true  "User IDs"
// @Success      200    {object}  NoteResponse
// @Failure      404    {object}  MessageResponse
// @Router       /notes/{id}/updateNoteUsers [patch]
func (h *NoteHandler) UpdateUsers(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req noteUsersRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.notes.UpdateUsers(c.Request.Context(), id, req.Users)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, NoteResponse{Message: note.Title + " users updated", Note: note})
}

// Delete godoc
// @Summary      Delete a note
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	title, err := h.notes.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Note '%s' with ID %s deleted", title, id)})
}
