package store

import (
	"strings"

	"github.com/huddle-work/huddle/internal/models"
)

// Data is the whole workspace state, serialized as one JSON document after
// every mutation. The Next* counters are monotonic so ids are never reused.
type Data struct {
	GlobalOwnerIDs []int             `json:"global_owner_ids"`
	Users          []*models.User    `json:"users"`
	Channels       []*models.Channel `json:"channels"`
	Dms            []*models.Dm      `json:"dms"`
	Messages       []*models.Message `json:"messages"`

	NextUserID    int `json:"next_user_id"`
	NextChannelID int `json:"next_channel_id"`
	NextDmID      int `json:"next_dm_id"`
	NextMessageID int `json:"next_message_id"`
}

func emptyData() Data {
	return Data{
		GlobalOwnerIDs: []int{},
		Users:          []*models.User{},
		Channels:       []*models.Channel{},
		Dms:            []*models.Dm{},
		Messages:       []*models.Message{},
		NextUserID:     1,
		NextChannelID:  1,
		NextDmID:       1,
		NextMessageID:  1,
	}
}

// UserByID returns the user with the given id, or nil.
func (d *Data) UserByID(id int) *models.User {
	for _, u := range d.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UserBySession returns the user holding the given session id, or nil.
func (d *Data) UserBySession(sessionID string) *models.User {
	for _, u := range d.Users {
		for _, s := range u.Sessions {
			if s == sessionID {
				return u
			}
		}
	}
	return nil
}

// UserByEmail returns the user with the given email, or nil. Removed users
// have empty emails and never match a non-empty query.
func (d *Data) UserByEmail(email string) *models.User {
	if email == "" {
		return nil
	}
	for _, u := range d.Users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// UserByHandle resolves a handle case-insensitively, or returns nil.
func (d *Data) UserByHandle(handle string) *models.User {
	if handle == "" {
		return nil
	}
	for _, u := range d.Users {
		if u.Handle != "" && strings.EqualFold(u.Handle, handle) {
			return u
		}
	}
	return nil
}

// IsGlobalOwner reports whether the user holds the workspace-wide owner role.
func (d *Data) IsGlobalOwner(userID int) bool {
	for _, id := range d.GlobalOwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ChannelByID returns the channel with the given id, or nil.
func (d *Data) ChannelByID(id int) *models.Channel {
	for _, c := range d.Channels {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// DmByID returns the DM with the given id, or nil.
func (d *Data) DmByID(id int) *models.Dm {
	for _, dm := range d.Dms {
		if dm.ID == id {
			return dm
		}
	}
	return nil
}

// MessageByID returns the message with the given id, or nil. Scheduled
// messages do not exist here until they are delivered.
func (d *Data) MessageByID(id int) *models.Message {
	for _, m := range d.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// AllocUserID returns the next user id and advances the counter.
func (d *Data) AllocUserID() int {
	id := d.NextUserID
	d.NextUserID++
	return id
}

// AllocChannelID returns the next channel id and advances the counter.
func (d *Data) AllocChannelID() int {
	id := d.NextChannelID
	d.NextChannelID++
	return id
}

// AllocDmID returns the next DM id and advances the counter.
func (d *Data) AllocDmID() int {
	id := d.NextDmID
	d.NextDmID++
	return id
}

// AllocMessageID returns the next message id and advances the counter.
// Ids handed out for deferred sends stay burned even if delivery is dropped.
func (d *Data) AllocMessageID() int {
	id := d.NextMessageID
	d.NextMessageID++
	return id
}

// Contains reports whether ids contains id.
func Contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Remove returns ids with every occurrence of id removed.
func Remove(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
