package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"faithlink/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// eventsChannel is the single redis pub/sub channel all broadcast
// envelopes ride on. Every process subscribes and delivers the envelopes
// it receives to its own local connections.
const eventsChannel = "chat:events"

// Storage is everything the chat protocol and REST surface need from the
// durable layer. Lookup methods return (nil, nil) when the row does not
// exist; a non-nil error always means the store itself failed.
type Storage interface {
	FindUserByID(id string) (*models.User, error)
	FindUsersByIDs(ids []string) (map[string]*models.User, error)

	SaveMessage(msg *models.ChatMessage) error
	FindMessageByID(id uint) (*models.ChatMessage, error)
	DeleteMessage(id uint) error

	// MarkConversationRead flips every unread message in the
	// (userID, adminID) conversation not sent by readerID to read.
	// Idempotent; returns the number of rows updated.
	MarkConversationRead(userID, adminID, readerID string) (int64, error)
	// MarkMessagesRead flips the given message ids to read (used by the
	// history fetch, which only marks the page it returned).
	MarkMessagesRead(ids []uint) (int64, error)

	// GetConversationPage returns one page of a conversation, newest
	// first, plus the total non-deleted message count.
	GetConversationPage(userID, adminID string, page, limit int) ([]models.ChatMessage, int64, error)
	ListConversations(viewer *models.User) ([]models.ConversationSummary, error)
	GetAdminStats(adminID string) (*models.ChatStats, error)

	// PublishEvent pushes a broadcast envelope onto the event bus.
	PublishEvent(f models.Fanout) error
}

// Service implements Storage on PostgreSQL (gorm) plus redis pub/sub.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

func (s *Service) FindUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) FindUsersByIDs(ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []models.User
	if err := s.DB.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		users[rows[i].ID] = &rows[i]
	}
	return users, nil
}

func (s *Service) SaveMessage(msg *models.ChatMessage) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: failed to save message for %s/%s: %v", msg.UserID, msg.AdminID, err)
		return err
	}
	return nil
}

func (s *Service) FindMessageByID(id uint) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.DB.First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteMessage soft-deletes the row; gorm's DeletedAt keeps it in storage
// while excluding it from every query here.
func (s *Service) DeleteMessage(id uint) error {
	return s.DB.Delete(&models.ChatMessage{}, id).Error
}

func (s *Service) MarkConversationRead(userID, adminID, readerID string) (int64, error) {
	result := s.DB.Model(&models.ChatMessage{}).
		Where("user_id = ? AND admin_id = ?", userID, adminID).
		Where("sender_id <> ? AND is_read = ?", readerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (s *Service) MarkMessagesRead(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.DB.Model(&models.ChatMessage{}).
		Where("id IN ? AND is_read = ?", ids, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// PublishEvent serializes the envelope onto the shared event bus channel.
func (s *Service) PublishEvent(f models.Fanout) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, eventsChannel, payload).Err()
}

// StartEventListener subscribes to the event bus and forwards every
// envelope into ch until ctx is cancelled. Malformed payloads are logged
// and skipped.
func (s *Service) StartEventListener(ctx context.Context, ch chan<- models.Fanout) {
	go func() {
		pubsub := s.Redis.Subscribe(ctx, eventsChannel)
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var f models.Fanout
			if err := json.Unmarshal([]byte(msg.Payload), &f); err != nil {
				log.Printf("ERROR: bad event bus payload: %v", err)
				continue
			}
			select {
			case ch <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
}
