package storage

import (
	"faithlink/backend/internal/models"
)

// GetConversationPage fetches one page of the (userID, adminID)
// conversation newest-first along with the total count. Soft-deleted rows
// are excluded by gorm. Callers wanting oldest-first (the history view)
// reverse the page themselves.
func (s *Service) GetConversationPage(userID, adminID string, page, limit int) ([]models.ChatMessage, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	var total int64
	if err := s.DB.Model(&models.ChatMessage{}).
		Where("user_id = ? AND admin_id = ?", userID, adminID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []models.ChatMessage
	err := s.DB.
		Where("user_id = ? AND admin_id = ?", userID, adminID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

// ListConversations builds the viewer's conversation summaries: every
// non-deleted message where the viewer participates, grouped by the other
// party, newest conversation first.
func (s *Service) ListConversations(viewer *models.User) ([]models.ConversationSummary, error) {
	column := "user_id"
	counterpartCol := "admin_id"
	if viewer.IsAdmin() {
		column = "admin_id"
		counterpartCol = "user_id"
	}

	var msgs []models.ChatMessage
	err := s.DB.
		Where(column+" = ?", viewer.ID).
		Order("created_at DESC, id DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	var counterpartIDs []string
	if err := s.DB.Model(&models.ChatMessage{}).
		Where(column+" = ?", viewer.ID).
		Distinct(counterpartCol).
		Pluck(counterpartCol, &counterpartIDs).Error; err != nil {
		return nil, err
	}

	users, err := s.FindUsersByIDs(counterpartIDs)
	if err != nil {
		return nil, err
	}
	users[viewer.ID] = viewer

	return models.BuildConversationSummaries(viewer, msgs, users), nil
}

// GetAdminStats aggregates the admin dashboard numbers: how many distinct
// users have a conversation with this admin, how many of their messages
// the admin has not read, and in how many of those conversations the
// admin has replied at least once.
func (s *Service) GetAdminStats(adminID string) (*models.ChatStats, error) {
	stats := &models.ChatStats{}

	err := s.DB.Model(&models.ChatMessage{}).
		Where("admin_id = ?", adminID).
		Distinct("user_id").
		Count(&stats.TotalConversations).Error
	if err != nil {
		return nil, err
	}

	err = s.DB.Model(&models.ChatMessage{}).
		Where("admin_id = ? AND sender_role = ? AND is_read = ?", adminID, models.RoleUser, false).
		Count(&stats.UnreadMessages).Error
	if err != nil {
		return nil, err
	}

	err = s.DB.Model(&models.ChatMessage{}).
		Where("admin_id = ? AND sender_role = ?", adminID, models.RoleAdmin).
		Distinct("user_id").
		Count(&stats.RespondedConversations).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
