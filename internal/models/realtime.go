package models

import (
	"encoding/json"
	"time"
)

// Event names carried over the realtime connection. Inbound names are
// what clients send, outbound names what the server emits.
const (
	EventJoin     = "chat:join"
	EventSend     = "chat:send_message"
	EventTyping   = "chat:typing"
	EventMarkRead = "chat:mark_read"
	EventOnline   = "chat:online"

	EventJoined        = "chat:joined"
	EventNewMessage    = "chat:new_message"
	EventMessageSent   = "chat:message_sent"
	EventUserTyping    = "chat:user_typing"
	EventMessagesRead  = "chat:messages_read"
	EventReadConfirmed = "chat:read_confirmed"
	EventUserStatus    = "chat:user_status"
	EventNotification  = "chat:notification"
	EventError         = "chat:error"
)

// Event is one named frame on the wire, in either direction.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// InboundFrame is the raw client frame before dispatch; Data stays
// undecoded until the matching handler picks a payload type for it.
type InboundFrame struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Fanout delivery scopes.
const (
	ScopeRoom     = "room"     // every connection in Target room
	ScopeIdentity = "identity" // the connection bound to Target identity
	ScopeAdmins   = "admins"   // every connected admin
	ScopeGlobal   = "global"   // every connection
)

// Fanout is the broadcast envelope published to redis and delivered by
// each process to its local connections. Direct-to-caller emits
// (confirmations, errors) never ride a Fanout.
type Fanout struct {
	Scope     string `json:"scope"`
	Target    string `json:"target,omitempty"`
	ExcludeID string `json:"exclude_id,omitempty"`
	Event     Event  `json:"payload"`
}

// --- inbound payloads ---

// CounterpartRequest covers chat:join and chat:mark_read: the generic
// userId field names the other party, whatever its role.
type CounterpartRequest struct {
	UserID string `json:"userId"`
}

type SendRequest struct {
	UserID         string `json:"userId"`
	Message        string `json:"message"`
	Attachment     string `json:"attachment"`
	AttachmentType string `json:"attachment_type"`
}

type TypingRequest struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// --- outbound payloads (fixed contract, never the stored row) ---

type SenderInfo struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

type MessagePayload struct {
	ID             uint       `json:"_id"`
	UserID         string     `json:"user_id"`
	AdminID        string     `json:"admin_id"`
	Message        string     `json:"message"`
	Attachment     string     `json:"attachment,omitempty"`
	AttachmentType string     `json:"attachment_type,omitempty"`
	SenderID       string     `json:"sender_id"`
	SenderRole     string     `json:"sender_role"`
	IsRead         bool       `json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	Sender         SenderInfo `json:"sender"`
}

// NewMessagePayload builds the broadcast form of a stored message.
// avatarURL is the resolved avatar location (or the raw reference when
// resolution failed upstream).
func NewMessagePayload(m *ChatMessage, sender *User, avatarURL string) MessagePayload {
	return MessagePayload{
		ID:             m.ID,
		UserID:         m.UserID,
		AdminID:        m.AdminID,
		Message:        m.Text,
		Attachment:     m.AttachmentRef,
		AttachmentType: m.AttachmentKind,
		SenderID:       m.SenderID,
		SenderRole:     m.SenderRole,
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
		Sender: SenderInfo{
			ID:     sender.ID,
			Name:   sender.Name,
			Email:  sender.Email,
			Avatar: avatarURL,
		},
	}
}

type JoinedPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

type SentPayload struct {
	ID      uint   `json:"_id"`
	Message string `json:"message"`
}

type TypingPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

type ReadPayload struct {
	UserID string `json:"userId"`
}

// Presence values for StatusPayload.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

type StatusPayload struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

type NotificationFrom struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type NotificationPayload struct {
	Type    string           `json:"type"`
	From    NotificationFrom `json:"from"`
	UserID  string           `json:"userId,omitempty"`
	Message string           `json:"message"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// PreviewLen caps the notification preview text.
const PreviewLen = 100

// Preview truncates message text for the out-of-room notification,
// counting runes so multibyte text is not cut mid-character.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLen {
		return text
	}
	return string(runes[:PreviewLen])
}
