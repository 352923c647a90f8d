package handler

import (
	"net/http"
	"strconv"

	"faithlink/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// ListConversations returns the caller's conversation summaries, newest
// activity first.
func (h *Handler) ListConversations(c *gin.Context) {
	summaries, err := h.Store.ListConversations(identity(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list conversations", err)
		return
	}
	respondOK(c, http.StatusOK, "Conversations retrieved", summaries)
}

// GetMessages returns one page of the conversation with :userId, oldest
// first within the page. Fetching history counts as reading it: returned
// unread messages addressed to the viewer are marked read.
func (h *Handler) GetMessages(c *gin.Context) {
	viewer := identity(c)
	counterpart, ok := h.counterpartFromPath(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	userID, adminID := conversationColumns(viewer, counterpart.ID)
	msgs, total, err := h.Store.GetConversationPage(userID, adminID, page, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch messages", err)
		return
	}

	// Store order is newest-first for pagination; the page itself reads
	// oldest-first.
	reverse(msgs)

	var unreadIDs []uint
	for i := range msgs {
		if msgs[i].AddressedTo(viewer.ID) && !msgs[i].IsRead {
			unreadIDs = append(unreadIDs, msgs[i].ID)
			msgs[i].IsRead = true
		}
	}
	if len(unreadIDs) > 0 {
		if _, err := h.Store.MarkMessagesRead(unreadIDs); err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to update read state", err)
			return
		}
	}

	participants := map[string]*models.User{
		viewer.ID:      viewer,
		counterpart.ID: counterpart,
	}
	payloads := make([]models.MessagePayload, 0, len(msgs))
	for i := range msgs {
		sender := participants[msgs[i].SenderID]
		if sender == nil {
			sender = &models.User{ID: msgs[i].SenderID}
		}
		payloads = append(payloads, models.NewMessagePayload(&msgs[i], sender, sender.Avatar))
	}

	respondOK(c, http.StatusOK, "Messages retrieved", gin.H{
		"messages": payloads,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// MarkConversationRead marks everything addressed to the caller in the
// conversation with :userId as read.
func (h *Handler) MarkConversationRead(c *gin.Context) {
	viewer := identity(c)
	counterpart, ok := h.counterpartFromPath(c)
	if !ok {
		return
	}

	userID, adminID := conversationColumns(viewer, counterpart.ID)
	updated, err := h.Store.MarkConversationRead(userID, adminID, viewer.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update read state", err)
		return
	}
	respondOK(c, http.StatusOK, "Conversation marked as read", gin.H{"updated": updated})
}

// GetStats serves the admin dashboard aggregates. Routed behind
// RequireAdmin.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.Store.GetAdminStats(identity(c).ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	respondOK(c, http.StatusOK, "Stats retrieved", stats)
}

// DeleteMessage soft-deletes one message. Only its sender may delete it.
func (h *Handler) DeleteMessage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid message id", err)
		return
	}

	msg, err := h.Store.FindMessageByID(uint(id))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch message", err)
		return
	}
	if msg == nil {
		respondError(c, http.StatusNotFound, "Message not found", nil)
		return
	}
	if msg.SenderID != identity(c).ID {
		respondError(c, http.StatusForbidden, "Only the sender can delete a message", nil)
		return
	}

	if err := h.Store.DeleteMessage(msg.ID); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete message", err)
		return
	}
	respondOK(c, http.StatusOK, "Message deleted", nil)
}

// counterpartFromPath validates the :userId path segment, resolves the
// record and enforces the user<->admin pairing rule. On failure it writes
// the error response itself.
func (h *Handler) counterpartFromPath(c *gin.Context) (*models.User, bool) {
	id := c.Param("userId")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user ID", err)
		return nil, false
	}

	counterpart, err := h.Store.FindUserByID(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to resolve user", err)
		return nil, false
	}
	if counterpart == nil {
		respondError(c, http.StatusNotFound, "User not found", nil)
		return nil, false
	}
	if identity(c).IsAdmin() == counterpart.IsAdmin() {
		respondError(c, http.StatusBadRequest, "Chat is only available between a user and an admin", nil)
		return nil, false
	}
	return counterpart, true
}

func conversationColumns(viewer *models.User, counterpartID string) (userID, adminID string) {
	if viewer.IsAdmin() {
		return counterpartID, viewer.ID
	}
	return viewer.ID, counterpartID
}

func reverse(msgs []models.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
