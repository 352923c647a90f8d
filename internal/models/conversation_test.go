package models_test

import (
	"testing"
	"time"

	"faithlink/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func msgAt(id uint, ts time.Time, userID, adminID, senderID, senderRole string, read bool) models.ChatMessage {
	return models.ChatMessage{
		Model:      gorm.Model{ID: id, CreatedAt: ts},
		UserID:     userID,
		AdminID:    adminID,
		SenderID:   senderID,
		SenderRole: senderRole,
		Text:       "m",
		IsRead:     read,
	}
}

func TestBuildConversationSummaries_UnreadNeverCountsOwnMessages(t *testing.T) {
	admin := &models.User{ID: "a1", Name: "Pastor", Role: models.RoleAdmin}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Newest-first: two unread from the user, one read from the user,
	// two from the admin (unread from the user's perspective).
	msgs := []models.ChatMessage{
		msgAt(5, base.Add(4*time.Minute), "u1", "a1", "u1", models.RoleUser, false),
		msgAt(4, base.Add(3*time.Minute), "u1", "a1", "a1", models.RoleAdmin, false),
		msgAt(3, base.Add(2*time.Minute), "u1", "a1", "u1", models.RoleUser, false),
		msgAt(2, base.Add(time.Minute), "u1", "a1", "a1", models.RoleAdmin, false),
		msgAt(1, base, "u1", "a1", "u1", models.RoleUser, true),
	}

	users := map[string]*models.User{
		"a1": admin,
		"u1": {ID: "u1", Name: "Grace", Role: models.RoleUser},
	}

	summaries := models.BuildConversationSummaries(admin, msgs, users)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "u1", s.Counterpart.ID)
	assert.Equal(t, "Grace", s.Counterpart.Name)
	assert.Equal(t, uint(5), s.LastMessage.ID)
	assert.Equal(t, 2, s.UnreadCount, "only the user's unread messages count for the admin")
}

func TestBuildConversationSummaries_SortedByRecency(t *testing.T) {
	viewer := &models.User{ID: "u1", Name: "Grace", Role: models.RoleUser}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	msgs := []models.ChatMessage{
		msgAt(30, base.Add(2*time.Hour), "u1", "a2", "a2", models.RoleAdmin, false),
		msgAt(20, base.Add(time.Hour), "u1", "a1", "u1", models.RoleUser, false),
		msgAt(10, base, "u1", "a1", "a1", models.RoleAdmin, true),
	}

	summaries := models.BuildConversationSummaries(viewer, msgs, map[string]*models.User{
		"u1": viewer,
		"a1": {ID: "a1", Name: "Pastor A", Role: models.RoleAdmin},
		"a2": {ID: "a2", Name: "Pastor B", Role: models.RoleAdmin},
	})
	require.Len(t, summaries, 2)

	assert.Equal(t, "a2", summaries[0].Counterpart.ID)
	assert.Equal(t, 1, summaries[0].UnreadCount)

	assert.Equal(t, "a1", summaries[1].Counterpart.ID)
	assert.Equal(t, uint(20), summaries[1].LastMessage.ID, "viewer's own message can still be the latest")
	assert.Equal(t, 0, summaries[1].UnreadCount, "read messages and own messages don't count")
}

func TestBuildConversationSummaries_MissingProfileKeepsConversation(t *testing.T) {
	viewer := &models.User{ID: "u1", Role: models.RoleUser}
	msgs := []models.ChatMessage{
		msgAt(1, time.Now(), "u1", "gone", "gone", models.RoleAdmin, false),
	}

	summaries := models.BuildConversationSummaries(viewer, msgs, map[string]*models.User{"u1": viewer})
	require.Len(t, summaries, 1)
	assert.Equal(t, "gone", summaries[0].Counterpart.ID)
	assert.Empty(t, summaries[0].Counterpart.Name)
	assert.Equal(t, 1, summaries[0].UnreadCount)
}

func TestBuildConversationSummaries_Empty(t *testing.T) {
	viewer := &models.User{ID: "u1", Role: models.RoleUser}
	summaries := models.BuildConversationSummaries(viewer, nil, nil)
	assert.Empty(t, summaries)
}
