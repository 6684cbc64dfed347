package workspace

import (
	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

const maxChannelNameLen = 20

// ChannelSummary is the listing projection of a channel.
type ChannelSummary struct {
	ID   int    `json:"channel_id"`
	Name string `json:"name"`
}

// ChannelDetails is the member-visible view of a channel.
type ChannelDetails struct {
	Name     string          `json:"name"`
	IsPublic bool            `json:"is_public"`
	Owners   []models.Member `json:"owner_members"`
	Members  []models.Member `json:"all_members"`
}

// CreateChannel makes a new channel with the caller as sole owner and member.
func (s *Service) CreateChannel(token, name string, isPublic bool) (int, error) {
	var id int
	err := s.store.Update(func(d *store.Data) error {
		if len(name) < 1 || len(name) > maxChannelNameLen {
			return validationf("channel name length must be between 1 and %d", maxChannelNameLen)
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		id = d.AllocChannelID()
		d.Channels = append(d.Channels, &models.Channel{
			ID:        id,
			Name:      name,
			IsPublic:  isPublic,
			OwnerIDs:  []int{u.ID},
			MemberIDs: []int{u.ID},
			Standup:   models.Standup{InitiatorID: models.None},
		})
		return nil
	})
	return id, err
}

// MyChannels lists the channels the caller belongs to.
func (s *Service) MyChannels(token string) ([]ChannelSummary, error) {
	out := make([]ChannelSummary, 0)
	err := s.store.View(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		for _, c := range d.Channels {
			if store.Contains(c.MemberIDs, u.ID) {
				out = append(out, ChannelSummary{ID: c.ID, Name: c.Name})
			}
		}
		return nil
	})
	return out, err
}

// AllChannels lists every channel, private ones included.
func (s *Service) AllChannels(token string) ([]ChannelSummary, error) {
	out := make([]ChannelSummary, 0)
	err := s.store.View(func(d *store.Data) error {
		if s.sessionUser(d, token) == nil {
			return authorizationf("invalid token")
		}
		for _, c := range d.Channels {
			out = append(out, ChannelSummary{ID: c.ID, Name: c.Name})
		}
		return nil
	})
	return out, err
}

// ChannelDetails returns name, visibility, owners and members. Member
// details are derived from the current user records at read time.
func (s *Service) ChannelDetails(token string, channelID int) (ChannelDetails, error) {
	var details ChannelDetails
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
		details = ChannelDetails{
			Name:     c.Name,
			IsPublic: c.IsPublic,
			Owners:   membersOf(d, c.OwnerIDs),
			Members:  membersOf(d, c.MemberIDs),
		}
		return nil
	})
	return details, err
}

// JoinChannel adds the caller to a channel. Private channels admit only
// global owners this way; everyone else needs an invite.
func (s *Service) JoinChannel(token string, channelID int) error {
	return s.store.Update(func(d *store.Data) error {
		c := d.ChannelByID(channelID)
		if c == nil {
			return validationf("channel id does not refer to a valid channel")
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		if store.Contains(c.MemberIDs, u.ID) {
			return validationf("caller is already a member of the channel")
		}
		if !c.IsPublic && !d.IsGlobalOwner(u.ID) {
			return authorizationf("channel is private")
		}
		c.MemberIDs = append(c.MemberIDs, u.ID)
		return nil
	})
}

// InviteToChannel adds another user immediately; any member may invite.
// The invited user gets a notification.
func (s *Service) InviteToChannel(token string, channelID, userID int) error {
	return s.store.Update(func(d *store.Data) error {
		c := d.ChannelByID(channelID)
		if c == nil {
			return validationf("channel id does not refer to a valid channel")
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		invited := d.UserByID(userID)
		if invited == nil || invited.Removed() {
			return validationf("user id does not refer to a valid user")
		}
		if !store.Contains(c.MemberIDs, u.ID) {
			return authorizationf("caller is not a member of the channel")
		}
		if store.Contains(c.MemberIDs, invited.ID) {
			return validationf("user is already a member of the channel")
		}
		c.MemberIDs = append(c.MemberIDs, invited.ID)
		notify(invited, models.Notification{
			ChannelID: c.ID,
			DmID:      models.None,
			Message:   u.Handle + " added you to " + c.Name,
		})
		return nil
	})
}

// LeaveChannel removes the caller from members and owners. The initiator of
// an active standup cannot leave until the window closes; that is a
// validation failure, not an authorization one. Messages stay behind, and
// the channel survives even with no owners left.
func (s *Service) LeaveChannel(token string, channelID int) error {
	return s.store.Update(func(d *store.Data) error {
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
		if c.Standup.Active && c.Standup.InitiatorID == u.ID {
			return validationf("caller started the active standup in this channel")
		}
		c.MemberIDs = store.Remove(c.MemberIDs, u.ID)
		c.OwnerIDs = store.Remove(c.OwnerIDs, u.ID)
		return nil
	})
}

// AddChannelOwner promotes a member to owner. The caller must be a channel
// owner, or a global owner who is also a channel member.
func (s *Service) AddChannelOwner(token string, channelID, userID int) error {
	return s.store.Update(func(d *store.Data) error {
		c := d.ChannelByID(channelID)
		if c == nil {
			return validationf("channel id does not refer to a valid channel")
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		target := d.UserByID(userID)
		if target == nil || target.Removed() {
			return validationf("user id does not refer to a valid user")
		}
		if err := requireChannelOwner(d, c, u.ID); err != nil {
			return err
		}
		if !store.Contains(c.MemberIDs, target.ID) {
			return validationf("user is not a member of the channel")
		}
		if store.Contains(c.OwnerIDs, target.ID) {
			return validationf("user is already an owner of the channel")
		}
		c.OwnerIDs = append(c.OwnerIDs, target.ID)
		return nil
	})
}

// RemoveChannelOwner demotes an owner. Removing the last owner of a
// populated channel is rejected.
func (s *Service) RemoveChannelOwner(token string, channelID, userID int) error {
	return s.store.Update(func(d *store.Data) error {
		c := d.ChannelByID(channelID)
		if c == nil {
			return validationf("channel id does not refer to a valid channel")
		}
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		target := d.UserByID(userID)
		if target == nil || target.Removed() {
			return validationf("user id does not refer to a valid user")
		}
		if err := requireChannelOwner(d, c, u.ID); err != nil {
			return err
		}
		if !store.Contains(c.OwnerIDs, target.ID) {
			return validationf("user is not an owner of the channel")
		}
		if len(c.OwnerIDs) == 1 {
			return validationf("cannot remove the only owner of the channel")
		}
		c.OwnerIDs = store.Remove(c.OwnerIDs, target.ID)
		return nil
	})
}

// ChannelMessages pages through a channel's messages, newest first.
func (s *Service) ChannelMessages(token string, channelID, start int) (MessagePage, error) {
	var page MessagePage
	err := s.store.View(func(d *store.Data) error {
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
		var msgs []*models.Message
		for _, m := range d.Messages {
			if m.ChannelID == channelID {
				msgs = append(msgs, m)
			}
		}
		var err error
		page, err = paginate(msgs, start, u.ID)
		return err
	})
	return page, err
}

// requireChannelOwner enforces the owner-management rule: channel owner, or
// global owner who is also a channel member. Message moderation uses a
// looser rule; see requireConversationOwner.
func requireChannelOwner(d *store.Data, c *models.Channel, userID int) error {
	if store.Contains(c.OwnerIDs, userID) {
		return nil
	}
	if d.IsGlobalOwner(userID) && store.Contains(c.MemberIDs, userID) {
		return nil
	}
	return authorizationf("caller does not have owner permissions in the channel")
}

func membersOf(d *store.Data, ids []int) []models.Member {
	out := make([]models.Member, 0, len(ids))
	for _, id := range ids {
		if u := d.UserByID(id); u != nil {
			out = append(out, models.MemberOf(u))
		}
	}
	return out
}
