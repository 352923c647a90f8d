package models

import (
	"time"

	"gorm.io/gorm"
)

// Attachment kinds a message may carry. Empty means no attachment.
const (
	AttachmentImage    = "image"
	AttachmentVideo    = "video"
	AttachmentAudio    = "audio"
	AttachmentDocument = "document"
)

// MaxMessageLen is the upper bound on message text, counted in runes
// after trimming.
const MaxMessageLen = 5000

// ChatMessage is one persisted message between a user and an admin.
// The embedded gorm.Model provides ID (insertion-ordered, used as the
// tie-break within a conversation), CreatedAt, UpdatedAt and DeletedAt
// (soft delete: deleted rows stay in storage but are excluded from reads).
//
// A conversation is not a stored entity; it is the (UserID, AdminID) pair.
// Rows are immutable after creation except for the one-way unread->read
// transition and the one-way soft delete.
type ChatMessage struct {
	gorm.Model

	// UserID is the non-admin party, AdminID the admin party. Both are
	// required and never change after creation.
	UserID  string `gorm:"type:uuid;not null;index:idx_conversation"`
	AdminID string `gorm:"type:uuid;not null;index:idx_conversation"`

	// SenderID equals either UserID or AdminID; SenderRole agrees with
	// whichever one it is.
	SenderID   string `gorm:"type:uuid;not null;index"`
	SenderRole string `gorm:"type:text;not null"`

	Text           string `gorm:"type:text;not null"`
	AttachmentRef  string `gorm:"type:text"`
	AttachmentKind string `gorm:"type:text"`

	IsRead bool       `gorm:"not null;default:false"`
	ReadAt *time.Time `gorm:""`
}

// ValidAttachmentKind reports whether kind names a supported attachment
// type. The empty string is valid and means "no attachment".
func ValidAttachmentKind(kind string) bool {
	switch kind {
	case "", AttachmentImage, AttachmentVideo, AttachmentAudio, AttachmentDocument:
		return true
	}
	return false
}

// AddressedTo reports whether the message was sent to the given identity,
// i.e. the identity participates and is not the sender.
func (m *ChatMessage) AddressedTo(id string) bool {
	return m.SenderID != id && (m.UserID == id || m.AdminID == id)
}

// Counterpart returns the other participant's id from the viewer's side.
func (m *ChatMessage) Counterpart(viewerID string) string {
	if m.UserID == viewerID {
		return m.AdminID
	}
	return m.UserID
}
