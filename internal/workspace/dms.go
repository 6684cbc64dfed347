package workspace

import (
	"sort"
	"strings"

	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

// DmSummary is the listing projection of a DM.
type DmSummary struct {
	ID   int    `json:"dm_id"`
	Name string `json:"name"`
}

// DmDetails is the member-visible view of a DM.
type DmDetails struct {
	Name    string          `json:"name"`
	Members []models.Member `json:"members"`
}

// CreateDm starts a DM between the caller and userIDs. The caller is the
// creator and must not appear in userIDs. The display name is fixed at
// creation: the members' handles sorted alphabetically, comma-and-space
// joined; it is never recomputed, even after members leave.
func (s *Service) CreateDm(token string, userIDs []int) (int, error) {
	var id int
	err := s.store.Update(func(d *store.Data) error {
		creator := s.sessionUser(d, token)
		if creator == nil {
			return authorizationf("invalid token")
		}
		seen := map[int]bool{creator.ID: true}
		for _, uid := range userIDs {
			u := d.UserByID(uid)
			if u == nil || u.Removed() {
				return validationf("user id does not refer to a valid user")
			}
			if seen[uid] {
				return validationf("duplicate user ids")
			}
			seen[uid] = true
		}

		memberIDs := append([]int{creator.ID}, userIDs...)
		handles := make([]string, 0, len(memberIDs))
		for _, uid := range memberIDs {
			handles = append(handles, d.UserByID(uid).Handle)
		}
		sort.Strings(handles)
		name := strings.Join(handles, ", ")

		id = d.AllocDmID()
		d.Dms = append(d.Dms, &models.Dm{
			ID:        id,
			CreatorID: creator.ID,
			Name:      name,
			MemberIDs: memberIDs,
		})

		for _, uid := range userIDs {
			notify(d.UserByID(uid), models.Notification{
				ChannelID: models.None,
				DmID:      id,
				Message:   creator.Handle + " added you to " + name,
			})
		}
		return nil
	})
	return id, err
}

// MyDms lists the DMs the caller belongs to.
func (s *Service) MyDms(token string) ([]DmSummary, error) {
	out := make([]DmSummary, 0)
	err := s.store.View(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		for _, dm := range d.Dms {
			if store.Contains(dm.MemberIDs, u.ID) {
				out = append(out, DmSummary{ID: dm.ID, Name: dm.Name})
			}
		}
		return nil
	})
	return out, err
}

// DmDetails returns the DM's name and current members.
func (s *Service) DmDetails(token string, dmID int) (DmDetails, error) {
	var details DmDetails
	err := s.store.View(func(d *store.Data) error {
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
		details = DmDetails{Name: dm.Name, Members: membersOf(d, dm.MemberIDs)}
		return nil
	})
	return details, err
}

// RemoveDm deletes a DM and all of its messages. Only the original creator
// may do this, and only while still a member. Pending send-later deliveries
// into the DM are cancelled; their already-returned message ids simply never
// come into existence.
func (s *Service) RemoveDm(token string, dmID int) error {
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
		if dm.CreatorID != u.ID {
			return authorizationf("caller is not the original dm creator")
		}

		dms := d.Dms[:0]
		for _, cand := range d.Dms {
			if cand.ID != dmID {
				dms = append(dms, cand)
			}
		}
		d.Dms = dms

		msgs := d.Messages[:0]
		for _, m := range d.Messages {
			if m.DmID != dmID {
				msgs = append(msgs, m)
			}
		}
		d.Messages = msgs
		return nil
	})
	if err != nil {
		return err
	}
	s.cancelPending(dmID)
	return nil
}

// LeaveDm removes the caller from the DM. Membership only ever shrinks; the
// display name stays as it was at creation.
func (s *Service) LeaveDm(token string, dmID int) error {
	return s.store.Update(func(d *store.Data) error {
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
		dm.MemberIDs = store.Remove(dm.MemberIDs, u.ID)
		return nil
	})
}

// DmMessages pages through a DM's messages, newest first.
func (s *Service) DmMessages(token string, dmID, start int) (MessagePage, error) {
	var page MessagePage
	err := s.store.View(func(d *store.Data) error {
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
		var msgs []*models.Message
		for _, m := range d.Messages {
			if m.DmID == dmID {
				msgs = append(msgs, m)
			}
		}
		var err error
		page, err = paginate(msgs, start, u.ID)
		return err
	})
	return page, err
}
