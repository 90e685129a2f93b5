package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mailroom/backend/internal/models"
)

func TestUserName_FallsBackToAnonymousLabel(t *testing.T) {
	user := &models.User{ID: "0123456789abcdef"}
	assert.Equal(t, "Anonymous-01234567", user.Name())
}

func TestUserName_PrefersDisplayName(t *testing.T) {
	user := &models.User{ID: "0123456789abcdef", DisplayName: "Alice"}
	assert.Equal(t, "Alice", user.Name())
}

func TestUserName_ShortID(t *testing.T) {
	user := &models.User{ID: "abc"}
	assert.Equal(t, "Anonymous-abc", user.Name())
}

func TestRoomPartner(t *testing.T) {
	alice := &models.User{ID: "alice"}
	bob := &models.User{ID: "bob"}
	room := &models.Room{RoomID: "r1", User1: alice, User2: bob, Active: true}

	assert.Equal(t, bob, room.Partner("alice"))
	assert.Equal(t, alice, room.Partner("bob"))
	assert.Nil(t, room.Partner("mallory"))
}

func TestRoomPartner_HalfOpenRoom(t *testing.T) {
	alice := &models.User{ID: "alice"}
	room := &models.Room{RoomID: "r1", User1: alice, Active: true}

	assert.Nil(t, room.Partner("alice"))
	assert.True(t, room.HasUser("alice"))
	assert.False(t, room.HasUser("bob"))
}

func TestRoomOccupants_Distinct(t *testing.T) {
	alice := &models.User{ID: "alice"}
	room := &models.Room{RoomID: "r1", User1: alice, User2: alice}

	assert.Len(t, room.Occupants(), 1)

	room.User2 = &models.User{ID: "bob"}
	assert.Len(t, room.Occupants(), 2)
}
