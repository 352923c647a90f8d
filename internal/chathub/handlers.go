package chathub

import (
	"encoding/json"
	"log"
	"strings"
	"unicode/utf8"

	"faithlink/backend/internal/metrics"
	"faithlink/backend/internal/models"

	"github.com/google/uuid"
)

// Validation/error messages sent back in chat:error payloads. These are
// scoped to the offending connection and never broadcast.
const (
	errCounterpartRequired = "User ID is required"
	errCounterpartInvalid  = "Invalid user ID"
	errCounterpartUnknown  = "User not found"
	errRolePairing         = "Chat is only available between a user and an admin"
	errTextRequired        = "Message text is required"
	errTextTooLong         = "Message text exceeds the 5000 character limit"
	errAttachmentKind      = "Unsupported attachment type"
	errOperationFailed     = "Operation failed, please try again"
	errUnknownEvent        = "Unknown event"
)

// eventHandlers maps inbound event names to their handlers; dispatch is
// the only caller.
var eventHandlers = map[string]func(*ManagerService, Client, json.RawMessage){
	models.EventJoin:     (*ManagerService).handleJoin,
	models.EventSend:     (*ManagerService).handleSend,
	models.EventTyping:   (*ManagerService).handleTyping,
	models.EventMarkRead: (*ManagerService).handleMarkRead,
	models.EventOnline:   (*ManagerService).handleOnline,
}

func (m *ManagerService) dispatch(ev InboundEvent) {
	handler, ok := eventHandlers[ev.Name]
	if !ok {
		m.emitError(ev.Client, errUnknownEvent)
		return
	}
	handler(m, ev.Client, ev.Data)
}

// validCounterpartID checks the syntactic half of counterpart validation.
func validCounterpartID(id string) string {
	if id == "" {
		return errCounterpartRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return errCounterpartInvalid
	}
	return ""
}

// resolveCounterpart loads the counterpart record and enforces the
// role-pairing rule: an admin chats with users, a user chats with admins,
// never peer to peer. Returns the record or an error message for the
// caller.
func (m *ManagerService) resolveCounterpart(client Client, id string) (*models.User, string) {
	counterpart, err := m.Storage.FindUserByID(id)
	if err != nil {
		log.Printf("ERROR: counterpart lookup failed: %v", err)
		return nil, errOperationFailed
	}
	if counterpart == nil {
		return nil, errCounterpartUnknown
	}
	if (client.GetRole() == models.RoleAdmin) == counterpart.IsAdmin() {
		return nil, errRolePairing
	}
	return counterpart, ""
}

// conversationPair orients (self, other) into the conversation's
// (userID, adminID) columns based on the caller's bound role.
func conversationPair(selfID, selfRole, otherID string) (userID, adminID string) {
	if selfRole == models.RoleAdmin {
		return otherID, selfID
	}
	return selfID, otherID
}

// handleJoin puts the connection into the canonical room for the pair and,
// as a side effect, marks everything previously sent to the joiner as
// read. Confirmation carries the room id and the resolved counterpart.
func (m *ManagerService) handleJoin(client Client, raw json.RawMessage) {
	var req models.CounterpartRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		m.emitError(client, errCounterpartRequired)
		return
	}
	if msg := validCounterpartID(req.UserID); msg != "" {
		m.emitError(client, msg)
		return
	}

	counterpart, errMsg := m.resolveCounterpart(client, req.UserID)
	if errMsg != "" {
		m.emitError(client, errMsg)
		return
	}

	roomID := RoomID(client.GetUserID(), counterpart.ID)
	m.Registry.JoinRoom(roomID, client)

	userID, adminID := conversationPair(client.GetUserID(), client.GetRole(), counterpart.ID)
	if _, err := m.Storage.MarkConversationRead(userID, adminID, client.GetUserID()); err != nil {
		// The join itself succeeded; losing the read-mark is recoverable
		// on the next mark_read.
		log.Printf("ERROR: mark-read on join failed for %s: %v", roomID, err)
	}

	m.emit(client, models.Event{
		Name: models.EventJoined,
		Data: models.JoinedPayload{RoomID: roomID, UserID: counterpart.ID},
	})
}

// handleSend validates, persists, then broadcasts. The sender receives the
// broadcast copy as its authoritative message and a separate
// chat:message_sent confirmation. Nothing is persisted when any validation
// step fails.
func (m *ManagerService) handleSend(client Client, raw json.RawMessage) {
	var req models.SendRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		m.emitError(client, errCounterpartRequired)
		return
	}
	if msg := validCounterpartID(req.UserID); msg != "" {
		m.emitError(client, msg)
		return
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		m.emitError(client, errTextRequired)
		return
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLen {
		m.emitError(client, errTextTooLong)
		return
	}
	if !models.ValidAttachmentKind(req.AttachmentType) {
		m.emitError(client, errAttachmentKind)
		return
	}

	counterpart, errMsg := m.resolveCounterpart(client, req.UserID)
	if errMsg != "" {
		m.emitError(client, errMsg)
		return
	}

	userID, adminID := conversationPair(client.GetUserID(), client.GetRole(), counterpart.ID)
	msg := &models.ChatMessage{
		UserID:         userID,
		AdminID:        adminID,
		SenderID:       client.GetUserID(),
		SenderRole:     client.GetRole(),
		Text:           text,
		AttachmentRef:  req.Attachment,
		AttachmentKind: req.AttachmentType,
	}
	if err := m.Storage.SaveMessage(msg); err != nil {
		m.emitError(client, errOperationFailed)
		return
	}
	metrics.MessagesSaved.Inc()

	sender := m.senderInfo(client)
	avatarURL, err := m.Media.ResolveURL(sender.Avatar)
	if err != nil {
		// Best-effort: degraded avatar beats a failed send.
		avatarURL = sender.Avatar
	}

	roomID := RoomID(client.GetUserID(), counterpart.ID)
	m.publish(models.Fanout{
		Scope:  models.ScopeRoom,
		Target: roomID,
		Event: models.Event{
			Name: models.EventNewMessage,
			Data: models.NewMessagePayload(msg, sender, avatarURL),
		},
	})

	if !m.Registry.InRoom(roomID, counterpart.ID) {
		m.notifyCounterpart(client, sender, userID, text)
	}

	m.emit(client, models.Event{
		Name: models.EventMessageSent,
		Data: models.SentPayload{ID: msg.ID, Message: msg.Text},
	})
}

// senderInfo resolves the sender's display record, falling back to the
// connection's bound attributes if the store cannot serve it right now.
func (m *ManagerService) senderInfo(client Client) *models.User {
	sender, err := m.Storage.FindUserByID(client.GetUserID())
	if err != nil || sender == nil {
		return &models.User{
			ID:   client.GetUserID(),
			Name: client.GetName(),
			Role: client.GetRole(),
		}
	}
	return sender
}

// notifyCounterpart pings the absent party's out-of-room channel: the
// user's personal channel when an admin sent, the shared admins channel
// when a user sent.
func (m *ManagerService) notifyCounterpart(client Client, sender *models.User, userID, text string) {
	notification := models.Event{
		Name: models.EventNotification,
		Data: models.NotificationPayload{
			Type:    "new_message",
			From:    models.NotificationFrom{ID: sender.ID, Name: sender.Name},
			UserID:  userID,
			Message: models.Preview(text),
		},
	}

	if client.GetRole() == models.RoleAdmin {
		m.publish(models.Fanout{Scope: models.ScopeIdentity, Target: userID, Event: notification})
	} else {
		m.publish(models.Fanout{Scope: models.ScopeAdmins, Event: notification})
	}
}

// handleTyping relays the indicator to everyone else in the room. Typing
// is best-effort: malformed input is dropped without an error event, and
// no store lookup happens on this path.
func (m *ManagerService) handleTyping(client Client, raw json.RawMessage) {
	var req models.TypingRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	if validCounterpartID(req.UserID) != "" {
		return
	}

	m.publish(models.Fanout{
		Scope:     models.ScopeRoom,
		Target:    RoomID(client.GetUserID(), req.UserID),
		ExcludeID: client.GetUserID(),
		Event: models.Event{
			Name: models.EventUserTyping,
			Data: models.TypingPayload{
				UserID:   client.GetUserID(),
				UserName: client.GetName(),
				IsTyping: req.IsTyping,
			},
		},
	})
}

// handleMarkRead flips every unread message addressed to the caller in
// this conversation, tells the room who read, and confirms to the caller.
// Re-running it is a no-op on already-read rows.
func (m *ManagerService) handleMarkRead(client Client, raw json.RawMessage) {
	var req models.CounterpartRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		m.emitError(client, errCounterpartRequired)
		return
	}
	if msg := validCounterpartID(req.UserID); msg != "" {
		m.emitError(client, msg)
		return
	}

	userID, adminID := conversationPair(client.GetUserID(), client.GetRole(), req.UserID)
	if _, err := m.Storage.MarkConversationRead(userID, adminID, client.GetUserID()); err != nil {
		m.emitError(client, errOperationFailed)
		return
	}

	m.publish(models.Fanout{
		Scope:  models.ScopeRoom,
		Target: RoomID(client.GetUserID(), req.UserID),
		Event: models.Event{
			Name: models.EventMessagesRead,
			Data: models.ReadPayload{UserID: client.GetUserID()},
		},
	})

	m.emit(client, models.Event{Name: models.EventReadConfirmed})
}

// handleOnline announces presence: admins globally, users to admins only.
func (m *ManagerService) handleOnline(client Client, _ json.RawMessage) {
	m.broadcastStatus(client, models.StatusOnline)
}
