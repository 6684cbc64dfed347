package workspace

import (
	"sort"
	"strings"

	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

const (
	maxMessageLen = 1000
	pageSize      = 50
)

// The only reaction kind the frontend knows about.
const reactThumbsUp = 1

func validReactID(id int) bool { return id == reactThumbsUp }

// MessagePage is one page of a conversation, newest first. End is the next
// start index, or -1 once the oldest message has been reached.
type MessagePage struct {
	Messages []models.MessageView `json:"messages"`
	Start    int                  `json:"start"`
	End      int                  `json:"end"`
}

// SendMessage posts a message to a channel and fans out tag notifications
// to tagged members.
func (s *Service) SendMessage(token string, channelID int, body string) (int, error) {
	var id int
	err := s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		c := d.ChannelByID(channelID)
		if c == nil {
			return validationf("channel id does not refer to a valid channel")
		}
		if !store.Contains(c.MemberIDs, u.ID) {
			return authorizationf("caller is not a member of the channel")
		}
		if err := validateBody(body); err != nil {
			return err
		}
		id = d.AllocMessageID()
		d.Messages = append(d.Messages, &models.Message{
			ID:        id,
			AuthorID:  u.ID,
			ChannelID: channelID,
			DmID:      models.None,
			Body:      body,
			SentAt:    s.now().Unix(),
			Reacts:    []models.React{},
		})
		notifyTags(d, u, c, nil, body)
		return nil
	})
	return id, err
}

// SendDmMessage posts a message to a DM.
func (s *Service) SendDmMessage(token string, dmID int, body string) (int, error) {
	var id int
	err := s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		dm := d.DmByID(dmID)
		if dm == nil {
			return validationf("dm id does not refer to a valid dm")
		}
		if !store.Contains(dm.MemberIDs, u.ID) {
			return authorizationf("caller is not a member of the dm")
		}
		if err := validateBody(body); err != nil {
			return err
		}
		id = d.AllocMessageID()
		d.Messages = append(d.Messages, &models.Message{
			ID:        id,
			AuthorID:  u.ID,
			ChannelID: models.None,
			DmID:      dmID,
			Body:      body,
			SentAt:    s.now().Unix(),
			Reacts:    []models.React{},
		})
		notifyTags(d, u, nil, dm, body)
		return nil
	})
	return id, err
}

// EditMessage replaces a message's body. An empty body deletes the message
// instead. On a real edit the tag scan runs against the new body only;
// handles that were tagged in the old body are not re-notified.
func (s *Service) EditMessage(token string, messageID int, body string) error {
	return s.store.Update(func(d *store.Data) error {
		if len(body) > maxMessageLen {
			return validationf("message is longer than %d characters", maxMessageLen)
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		m := d.MessageByID(messageID)
		if m == nil {
			return validationf("message id does not refer to a valid message")
		}
		if err := requireModify(d, u, m); err != nil {
			return err
		}
		if body == "" {
			deleteMessage(d, messageID)
			return nil
		}
		m.Body = body
		ch, dm := conversationOf(d, m)
		notifyTags(d, u, ch, dm, body)
		return nil
	})
}

// RemoveMessage deletes a message along with its reactions and pin state.
func (s *Service) RemoveMessage(token string, messageID int) error {
	return s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		m := d.MessageByID(messageID)
		if m == nil {
			return validationf("message id does not refer to a valid message")
		}
		if err := requireModify(d, u, m); err != nil {
			return err
		}
		deleteMessage(d, messageID)
		return nil
	})
}

// ReactMessage adds the caller to a reaction's user set. Reacting twice
// with the same kind without unreacting is rejected. The author is notified
// unless they reacted themselves.
func (s *Service) ReactMessage(token string, messageID, reactID int) error {
	return s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		m := d.MessageByID(messageID)
		if m == nil {
			return validationf("message id does not refer to a valid message")
		}
		if err := requireAccess(d, u, m); err != nil {
			return err
		}
		if !validReactID(reactID) {
			return validationf("invalid react id")
		}

		react := findReact(m, reactID)
		if react == nil {
			m.Reacts = append(m.Reacts, models.React{ID: reactID, UserIDs: []int{u.ID}})
		} else {
			if store.Contains(react.UserIDs, u.ID) {
				return validationf("caller already reacted with this react")
			}
			react.UserIDs = append(react.UserIDs, u.ID)
		}

		if author := d.UserByID(m.AuthorID); author != nil && author.ID != u.ID {
			n := models.Notification{ChannelID: m.ChannelID, DmID: m.DmID}
			if m.ChannelID != models.None {
				n.Message = u.Handle + " reacted to your message in channel " + d.ChannelByID(m.ChannelID).Name
			} else {
				n.Message = u.Handle + " reacted to your message in " + d.DmByID(m.DmID).Name
			}
			notify(author, n)
		}
		return nil
	})
}

// UnreactMessage removes the caller from a reaction's user set. Unreacting
// without a prior react is rejected.
func (s *Service) UnreactMessage(token string, messageID, reactID int) error {
	return s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		m := d.MessageByID(messageID)
		if m == nil {
			return validationf("message id does not refer to a valid message")
		}
		if err := requireAccess(d, u, m); err != nil {
			return err
		}
		if !validReactID(reactID) {
			return validationf("invalid react id")
		}
		react := findReact(m, reactID)
		if react == nil || !store.Contains(react.UserIDs, u.ID) {
			return validationf("caller has not reacted with this react")
		}
		react.UserIDs = store.Remove(react.UserIDs, u.ID)
		return nil
	})
}

// PinMessage marks a message as pinned. Pinning an already-pinned message
// is rejected.
func (s *Service) PinMessage(token string, messageID int) error {
	return s.togglePin(token, messageID, true)
}

// UnpinMessage clears the pinned mark. Unpinning an unpinned message is
// rejected.
func (s *Service) UnpinMessage(token string, messageID int) error {
	return s.togglePin(token, messageID, false)
}

func (s *Service) togglePin(token string, messageID int, pinned bool) error {
	return s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		m := d.MessageByID(messageID)
		if m == nil {
			return validationf("message id does not refer to a valid message")
		}
		if err := requirePin(d, u, m); err != nil {
			return err
		}
		if m.Pinned == pinned {
			if pinned {
				return validationf("message is already pinned")
			}
			return validationf("message is not pinned")
		}
		m.Pinned = pinned
		return nil
	})
}

// ShareMessage copies a readable message into one target conversation the
// caller belongs to, with optional extra text. The copy embeds the source
// body verbatim and keeps no link back: later edits or deletion of the
// source never affect it.
func (s *Service) ShareMessage(token string, sourceID int, extra string, channelID, dmID int) (int, error) {
	var id int
	err := s.store.Update(func(d *store.Data) error {
		if channelID == models.None && dmID == models.None {
			return validationf("no target conversation given")
		}
		if channelID != models.None && dmID != models.None {
			return validationf("cannot share to a channel and a dm at once")
		}
		if len(extra) > maxMessageLen {
			return validationf("message is longer than %d characters", maxMessageLen)
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		src := d.MessageByID(sourceID)
		if src == nil {
			return validationf("message id does not refer to a valid message")
		}
		if err := requireAccess(d, u, src); err != nil {
			return err
		}

		var targetCh *models.Channel
		var targetDm *models.Dm
		if channelID != models.None {
			targetCh = d.ChannelByID(channelID)
			if targetCh == nil {
				return validationf("channel id does not refer to a valid channel")
			}
			if !store.Contains(targetCh.MemberIDs, u.ID) {
				return authorizationf("caller is not a member of the target channel")
			}
		} else {
			targetDm = d.DmByID(dmID)
			if targetDm == nil {
				return validationf("dm id does not refer to a valid dm")
			}
			if !store.Contains(targetDm.MemberIDs, u.ID) {
				return authorizationf("caller is not a member of the target dm")
			}
		}

		body := shareBody(extra, src.Body)
		id = d.AllocMessageID()
		d.Messages = append(d.Messages, &models.Message{
			ID:        id,
			AuthorID:  u.ID,
			ChannelID: channelID,
			DmID:      dmID,
			Body:      body,
			SentAt:    s.now().Unix(),
			Reacts:    []models.React{},
		})
		notifyTags(d, u, targetCh, targetDm, body)
		return nil
	})
	return id, err
}

func shareBody(extra, source string) string {
	rule := strings.Repeat("=", 51)
	if extra != "" {
		return extra + "\n" + rule + "\n" + source + "\n" + rule
	}
	return rule + "\n" + source + "\n" + rule
}

func validateBody(body string) error {
	if len(body) < 1 || len(body) > maxMessageLen {
		return validationf("message length must be between 1 and %d", maxMessageLen)
	}
	return nil
}

func deleteMessage(d *store.Data, messageID int) {
	msgs := d.Messages[:0]
	for _, m := range d.Messages {
		if m.ID != messageID {
			msgs = append(msgs, m)
		}
	}
	d.Messages = msgs
}

func findReact(m *models.Message, reactID int) *models.React {
	for i := range m.Reacts {
		if m.Reacts[i].ID == reactID {
			return &m.Reacts[i]
		}
	}
	return nil
}

// conversationOf locates the channel or DM a message belongs to. Exactly
// one return value is non-nil for any stored message.
func conversationOf(d *store.Data, m *models.Message) (*models.Channel, *models.Dm) {
	if m.ChannelID != models.None {
		return d.ChannelByID(m.ChannelID), nil
	}
	return nil, d.DmByID(m.DmID)
}

// requireAccess checks the caller can read the message: they must be a
// member of its conversation.
func requireAccess(d *store.Data, u *models.User, m *models.Message) error {
	ch, dm := conversationOf(d, m)
	if ch != nil {
		if !store.Contains(ch.MemberIDs, u.ID) {
			return authorizationf("caller is not a member of the channel")
		}
		return nil
	}
	if !store.Contains(dm.MemberIDs, u.ID) {
		return authorizationf("caller is not a member of the dm")
	}
	return nil
}

// requireModify checks edit/remove rights: the author, a channel owner, or
// a global owner for channel messages; the author or the DM creator for DM
// messages. Global owners get no override in DMs, and unlike the
// owner-management rule, a channel-message override does not require the
// global owner to hold channel-owner status.
func requireModify(d *store.Data, u *models.User, m *models.Message) error {
	if err := requireAccess(d, u, m); err != nil {
		return err
	}
	if m.AuthorID == u.ID {
		return nil
	}
	return requireConversationOwner(d, u, m)
}

// requirePin checks pin/unpin rights: like requireModify but authorship
// alone is not enough.
func requirePin(d *store.Data, u *models.User, m *models.Message) error {
	if err := requireAccess(d, u, m); err != nil {
		return err
	}
	return requireConversationOwner(d, u, m)
}

func requireConversationOwner(d *store.Data, u *models.User, m *models.Message) error {
	ch, dm := conversationOf(d, m)
	if ch != nil {
		if store.Contains(ch.OwnerIDs, u.ID) || d.IsGlobalOwner(u.ID) {
			return nil
		}
		return authorizationf("caller does not have owner permissions in the channel")
	}
	if dm.CreatorID == u.ID {
		return nil
	}
	return authorizationf("caller does not have owner permissions in the dm")
}

// paginate slices msgs (any order) into one page, newest first. start
// outside [0, len] is a validation failure. Reaction sets are annotated
// with whether the caller is among the reactors.
func paginate(msgs []*models.Message, start, callerID int) (MessagePage, error) {
	if start < 0 || start > len(msgs) {
		return MessagePage{}, validationf("start is greater than the number of messages")
	}

	sorted := make([]*models.Message, len(msgs))
	copy(sorted, msgs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SentAt != sorted[j].SentAt {
			return sorted[i].SentAt > sorted[j].SentAt
		}
		return sorted[i].ID > sorted[j].ID
	})

	end := start + pageSize
	if end > len(sorted) {
		end = len(sorted)
	}

	page := MessagePage{
		Messages: make([]models.MessageView, 0, end-start),
		Start:    start,
		End:      end,
	}
	if end == len(sorted) {
		page.End = -1
	}
	for _, m := range sorted[start:end] {
		page.Messages = append(page.Messages, viewMessage(m, callerID))
	}
	return page, nil
}

func viewMessage(m *models.Message, callerID int) models.MessageView {
	v := models.MessageView{
		ID:     m.ID,
		Author: m.AuthorID,
		Body:   m.Body,
		SentAt: m.SentAt,
		Reacts: make([]models.ReactView, 0, len(m.Reacts)),
		Pinned: m.Pinned,
	}
	for _, r := range m.Reacts {
		v.Reacts = append(v.Reacts, models.ReactView{
			ID:        r.ID,
			UserIDs:   append([]int(nil), r.UserIDs...),
			IsReacted: store.Contains(r.UserIDs, callerID),
		})
	}
	return v
}
