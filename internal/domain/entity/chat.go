package entity

import (
	"sort"
	"strings"
	"time"
)

type Chat struct {
	ID           string   `json:"id" firestore:"id"`
	Name         string   `json:"name,omitempty" firestore:"name,omitempty"` // group chats only
	IsGroup      bool     `json:"is_group" firestore:"isGroup"`
	Participants []string `json:"participants" firestore:"participants"`
	Admins       []string `json:"admins" firestore:"admins"`

	// PairKey is the normalized unordered participant pair for private
	// chats ("lowID|highID"), empty for groups. It makes the
	// one-private-chat-per-pair lookup a single indexed query.
	PairKey string `json:"-" firestore:"pairKey,omitempty"`

	// LastMessageID is a weak reference: the message it names may outlive
	// or predate resolution, so it is always dereferenced with a lookup.
	LastMessageID string `json:"last_message_id,omitempty" firestore:"lastMessageId,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PairKey normalizes an unordered user pair into the canonical form stored
// on private chats.
func PairKey(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "|")
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is in the chat's admin set. Tracked but
// not yet enforced by membership operations; kept as the authorization hook
// for when group moderation lands.
func (c *Chat) IsAdmin(userID string) bool {
	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}
	return false
}
