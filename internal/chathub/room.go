package chathub

import (
	"sort"
	"strings"
)

// AdminsRoom is the shared broadcast group every connected admin joins at
// registration, so user-initiated events reach all admins at once.
const AdminsRoom = "admins"

// RoomID derives the canonical room name for a (user, admin) pair. The
// ids are sorted first, so both parties compute the same room no matter
// who initiates.
func RoomID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return "chat_" + strings.Join(ids, "_")
}
