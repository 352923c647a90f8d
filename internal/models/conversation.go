package models

import "sort"

// ConversationSummary is the dashboard/list view of one conversation:
// who the other party is, the latest message, and how many of their
// messages the viewer has not read yet.
type ConversationSummary struct {
	Counterpart SenderInfo     `json:"counterpart"`
	LastMessage MessagePayload `json:"last_message"`
	UnreadCount int            `json:"unread_count"`
}

// ChatStats is the admin-only aggregate view.
type ChatStats struct {
	TotalConversations     int64 `json:"total_conversations"`
	UnreadMessages         int64 `json:"unread_messages"`
	RespondedConversations int64 `json:"responded_conversations"`
}

// BuildConversationSummaries groups the viewer's messages by counterpart.
// msgs must be ordered newest-first (created_at desc, id desc) and already
// filtered to non-deleted rows where the viewer is a participant. users
// maps counterpart ids to their profile records; counterparts missing from
// the map get an id-only snippet rather than being dropped.
//
// UnreadCount counts messages addressed to the viewer (sender role differs
// from the viewer's) that are still unread — never the viewer's own.
// Result ordering follows the most recent message, newest conversation
// first, which falls out of the input ordering.
func BuildConversationSummaries(viewer *User, msgs []ChatMessage, users map[string]*User) []ConversationSummary {
	index := make(map[string]int)
	summaries := make([]ConversationSummary, 0)

	for i := range msgs {
		m := &msgs[i]
		other := m.Counterpart(viewer.ID)

		pos, seen := index[other]
		if !seen {
			snippet := SenderInfo{ID: other}
			if u, ok := users[other]; ok {
				snippet.Name = u.Name
				snippet.Email = u.Email
				snippet.Avatar = u.Avatar
			}

			sender := users[m.SenderID]
			if sender == nil {
				sender = &User{ID: m.SenderID}
			}

			summaries = append(summaries, ConversationSummary{
				Counterpart: snippet,
				LastMessage: NewMessagePayload(m, sender, sender.Avatar),
			})
			pos = len(summaries) - 1
			index[other] = pos
		}

		if m.SenderRole != viewer.Role && !m.IsRead {
			summaries[pos].UnreadCount++
		}
	}

	// Input is newest-first, so first-seen order is already most-recent
	// descending; the sort keeps that guarantee explicit.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.CreatedAt.After(summaries[j].LastMessage.CreatedAt)
	})

	return summaries
}
