package socketio

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	socket "github.com/zishang520/socket.io/socket"
)

func TestUserRoom(t *testing.T) {
	id := uuid.MustParse("6f1c2a9e-3b7d-4c1e-9a55-0d2b8e4f7a10")
	assert.EqualValues(t, "user_6f1c2a9e-3b7d-4c1e-9a55-0d2b8e4f7a10", userRoom(id))
}

func TestNilSocket(t *testing.T) {
	s := &Server{}
	assert.Empty(t, s.extractToken(nil))

	_, ok := userFromSocket(nil)
	assert.False(t, ok)
}

func TestEmitAfterClose(t *testing.T) {
	s := &Server{closed: true, connections: map[string]*socket.Socket{}}
	assert.ErrorIs(t, s.EmitToUser(uuid.New(), "badgeEarned", nil), ErrClosed)
	assert.Zero(t, s.ConnectionCount())
}
