package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPairKey(t *testing.T) {
	req := require.New(t)

	req.Equal(PairKey("alice", "bob"), PairKey("bob", "alice"))
	req.Equal("alice|bob", PairKey("bob", "alice"))
	req.NotEqual(PairKey("alice", "bob"), PairKey("alice", "carol"))
}

func TestChatMembership(t *testing.T) {
	req := require.New(t)

	chat := &Chat{
		Participants: []string{"alice", "bob"},
		Admins:       []string{"alice"},
	}

	req.True(chat.HasParticipant("alice"))
	req.False(chat.HasParticipant("mallory"))
	req.True(chat.IsAdmin("alice"))
	req.False(chat.IsAdmin("bob"))
}
