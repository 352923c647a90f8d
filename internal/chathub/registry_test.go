package chathub_test

import (
	"testing"

	"faithlink/backend/internal/chathub"
	"faithlink/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_RegisterLastWriteWins(t *testing.T) {
	r := chathub.NewRegistry()

	first := newMockClient("u1", models.RoleUser, "First")
	second := newMockClient("u1", models.RoleUser, "Second")

	assert.Nil(t, r.Register(first))
	r.JoinRoom("chat_a_u1", first)

	prev := r.Register(second)
	assert.Equal(t, chathub.Client(first), prev)

	// The replaced connection lost its room memberships.
	assert.False(t, r.InRoom("chat_a_u1", "u1"))

	current, ok := r.Lookup("u1")
	assert.True(t, ok)
	assert.Equal(t, chathub.Client(second), current)
}

func TestRegistry_StaleUnregisterKeepsNewBinding(t *testing.T) {
	r := chathub.NewRegistry()

	old := newMockClient("u1", models.RoleUser, "Old")
	fresh := newMockClient("u1", models.RoleUser, "Fresh")

	r.Register(old)
	r.Register(fresh)

	// The old connection disconnects after being replaced.
	assert.False(t, r.Unregister(old))

	_, ok := r.Lookup("u1")
	assert.True(t, ok)

	assert.True(t, r.Unregister(fresh))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RoomMembership(t *testing.T) {
	r := chathub.NewRegistry()

	user := newMockClient("u1", models.RoleUser, "User")
	admin := newMockClient("a1", models.RoleAdmin, "Admin")
	r.Register(user)
	r.Register(admin)

	room := chathub.RoomID("u1", "a1")
	r.JoinRoom(room, user)
	r.JoinRoom(room, admin)

	assert.True(t, r.InRoom(room, "u1"))
	assert.True(t, r.InRoom(room, "a1"))
	assert.Len(t, r.RoomMembers(room, ""), 2)
	assert.Len(t, r.RoomMembers(room, "u1"), 1)

	r.Unregister(user)
	assert.False(t, r.InRoom(room, "u1"))
	assert.Len(t, r.RoomMembers(room, ""), 1)
}

func TestRegistry_ResolveScopes(t *testing.T) {
	r := chathub.NewRegistry()

	user := newMockClient("u1", models.RoleUser, "User")
	admin := newMockClient("a1", models.RoleAdmin, "Admin")
	other := newMockClient("u2", models.RoleUser, "Other")
	r.Register(user)
	r.Register(admin)
	r.Register(other)
	r.JoinRoom(chathub.AdminsRoom, admin)

	room := chathub.RoomID("u1", "a1")
	r.JoinRoom(room, user)
	r.JoinRoom(room, admin)

	assert.Len(t, r.Resolve(models.Fanout{Scope: models.ScopeRoom, Target: room}), 2)
	assert.Len(t, r.Resolve(models.Fanout{Scope: models.ScopeRoom, Target: room, ExcludeID: "u1"}), 1)
	assert.Len(t, r.Resolve(models.Fanout{Scope: models.ScopeIdentity, Target: "u2"}), 1)
	assert.Empty(t, r.Resolve(models.Fanout{Scope: models.ScopeIdentity, Target: "missing"}))
	assert.Len(t, r.Resolve(models.Fanout{Scope: models.ScopeAdmins}), 1)
	assert.Len(t, r.Resolve(models.Fanout{Scope: models.ScopeGlobal}), 3)
	assert.Len(t, r.Resolve(models.Fanout{Scope: models.ScopeGlobal, ExcludeID: "a1"}), 2)
}
