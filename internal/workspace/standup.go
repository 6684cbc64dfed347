package workspace

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

// StandupStatus reports whether a standup is running in a channel and, if
// so, when it finishes.
type StandupStatus struct {
	Active   bool   `json:"is_active"`
	FinishAt *int64 `json:"time_finish"`
}

// StartStandup opens a standup window in a channel for length seconds and
// returns the finish time. Lines buffered during the window are packaged
// into a single summary message from the initiator when it closes.
func (s *Service) StartStandup(token string, channelID int, length int64) (int64, error) {
	var finishAt int64
	err := s.store.Update(func(d *store.Data) error {
		if length < 0 {
			return validationf("standup length cannot be negative")
		}
		c := d.ChannelByID(channelID)
		if c == nil {
			return validationf("channel id does not refer to a valid channel")
		}
		if c.Standup.Active {
			return validationf("a standup is already running in the channel")
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		if !store.Contains(c.MemberIDs, u.ID) {
			return authorizationf("caller is not a member of the channel")
		}
		finishAt = s.now().Unix() + length
		c.Standup = models.Standup{
			InitiatorID: u.ID,
			Active:      true,
			FinishAt:    finishAt,
			Buffer:      nil,
		}
		gen := s.gen()
		s.sched.Schedule(time.Unix(finishAt, 0), func() {
			s.closeStandup(gen, channelID, finishAt)
		})
		return nil
	})
	return finishAt, err
}

// StandupActive reports the standup state of a channel. FinishAt is nil
// while no standup is running.
func (s *Service) StandupActive(token string, channelID int) (StandupStatus, error) {
	var st StandupStatus
	err := s.store.View(func(d *store.Data) error {
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
		st.Active = c.Standup.Active
		if c.Standup.Active {
			finish := c.Standup.FinishAt
			st.FinishAt = &finish
		}
		return nil
	})
	return st, err
}

// StandupSend buffers one line into the running standup. Buffered lines are
// not visible as messages and never trigger tag notifications. An empty
// line is allowed and buffers as a bare "handle: " entry.
func (s *Service) StandupSend(token string, channelID int, message string) error {
	return s.store.Update(func(d *store.Data) error {
		if len(message) > maxMessageLen {
			return validationf("message length cannot exceed %d", maxMessageLen)
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
		if !c.Standup.Active {
			return validationf("no standup is running in the channel")
		}
		c.Standup.Buffer = append(c.Standup.Buffer, u.Handle+": "+message)
		return nil
	})
}

// closeStandup fires at the window's finish time. A non-empty buffer is
// joined with newlines and posted as one message from the initiator, sent
// at the finish time; no tag scan runs on it. The standup state resets
// whether or not anything was buffered. Fires from a cleared generation
// are dropped.
func (s *Service) closeStandup(gen, channelID int, finishAt int64) {
	if s.gen() != gen {
		return
	}
	err := s.store.Update(func(d *store.Data) error {
		c := d.ChannelByID(channelID)
		if c == nil || !c.Standup.Active || c.Standup.FinishAt != finishAt {
			return nil
		}
		if len(c.Standup.Buffer) > 0 {
			d.Messages = append(d.Messages, &models.Message{
				ID:        d.AllocMessageID(),
				AuthorID:  c.Standup.InitiatorID,
				ChannelID: channelID,
				DmID:      models.None,
				Body:      strings.Join(c.Standup.Buffer, "\n"),
				SentAt:    finishAt,
				Reacts:    []models.React{},
			})
		}
		c.Standup = models.Standup{InitiatorID: models.None}
		return nil
	})
	if err != nil {
		s.logger.Error("standup close failed", zap.Int("channel_id", channelID), zap.Error(err))
	}
}
