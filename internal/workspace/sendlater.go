package workspace

import (
	"time"

	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

// SendMessageLater schedules a channel message for a future unix time. The
// message id is allocated now and returned, but the message stays invisible
// to reads until delivery. Preconditions are re-checked at delivery: if the
// channel is gone, or the sender left or was removed in the meantime, the
// message is silently dropped and its id never appears.
func (s *Service) SendMessageLater(token string, channelID int, body string, at int64) (int, error) {
	var id int
	err := s.store.Update(func(d *store.Data) error {
		if len(body) < 1 || len(body) > maxMessageLen {
			return validationf("message length must be between 1 and %d", maxMessageLen)
		}
		if at < s.now().Unix() {
			return validationf("scheduled time is in the past")
		}
		c := d.ChannelByID(channelID)
		if c == nil {
			return validationf("channel id does not refer to a valid channel")
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		if !store.Contains(c.MemberIDs, u.ID) {
			return authorizationf("caller is not a member of the channel")
		}
		id = d.AllocMessageID()
		authorID, gen := u.ID, s.gen()
		s.sched.Schedule(time.Unix(at, 0), func() {
			s.deliverLater(gen, id, authorID, channelID, models.None, body, at)
		})
		return nil
	})
	return id, err
}

// SendDmMessageLater is SendMessageLater for DMs. The task is tracked per
// DM so RemoveDm can cancel deliveries still in flight.
func (s *Service) SendDmMessageLater(token string, dmID int, body string, at int64) (int, error) {
	var id int
	err := s.store.Update(func(d *store.Data) error {
		if len(body) < 1 || len(body) > maxMessageLen {
			return validationf("message length must be between 1 and %d", maxMessageLen)
		}
		if at < s.now().Unix() {
			return validationf("scheduled time is in the past")
		}
		dm := d.DmByID(dmID)
		if dm == nil {
			return validationf("dm id does not refer to a valid dm")
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		if !store.Contains(dm.MemberIDs, u.ID) {
			return authorizationf("caller is not a member of the dm")
		}
		id = d.AllocMessageID()
		authorID, gen := u.ID, s.gen()
		t := s.sched.Schedule(time.Unix(at, 0), func() {
			s.deliverLater(gen, id, authorID, models.None, dmID, body, at)
		})
		s.trackPending(dmID, t)
		return nil
	})
	return id, err
}

// deliverLater appends a previously scheduled message, provided the store
// has not been cleared since scheduling, the conversation still exists and
// the author is still an eligible member. Recycled ids after a clear would
// otherwise satisfy those checks. SentAt is the scheduled time, not the
// wall clock at delivery.
func (s *Service) deliverLater(gen, messageID, authorID, channelID, dmID int, body string, at int64) {
	if s.gen() != gen {
		return
	}
	err := s.store.Update(func(d *store.Data) error {
		u := d.UserByID(authorID)
		if u == nil || u.Removed() {
			return nil
		}
		ch, dm := (*models.Channel)(nil), (*models.Dm)(nil)
		if channelID != models.None {
			if ch = d.ChannelByID(channelID); ch == nil || !store.Contains(ch.MemberIDs, authorID) {
				return nil
			}
		} else {
			if dm = d.DmByID(dmID); dm == nil || !store.Contains(dm.MemberIDs, authorID) {
				return nil
			}
		}
		d.Messages = append(d.Messages, &models.Message{
			ID:        messageID,
			AuthorID:  authorID,
			ChannelID: channelID,
			DmID:      dmID,
			Body:      body,
			SentAt:    at,
			Reacts:    []models.React{},
		})
		notifyTags(d, u, ch, dm, body)
		return nil
	})
	if err != nil {
		s.logger.Error("scheduled message delivery failed", zap.Int("message_id", messageID), zap.Error(err))
	}
}
