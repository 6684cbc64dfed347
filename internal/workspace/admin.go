package workspace

import (
	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

const removedUserBody = "Removed user"

// RemoveUser expels a user from the workspace. Only global owners may call
// it and the last global owner cannot be removed. The target loses every
// membership and session; their messages stay in place with the body
// replaced, and their profile reads as "Removed user" with the other
// fields cleared. Their id is never reused.
func (s *Service) RemoveUser(token string, userID int) error {
	return s.store.Update(func(d *store.Data) error {
		caller := s.sessionUser(d, token)
		if caller == nil {
			return authorizationf("invalid token")
		}
		if !d.IsGlobalOwner(caller.ID) {
			return authorizationf("caller is not a global owner")
		}
		target := d.UserByID(userID)
		if target == nil || target.Removed() {
			return validationf("user id does not refer to a valid user")
		}
		if d.IsGlobalOwner(userID) && len(d.GlobalOwnerIDs) == 1 {
			return validationf("cannot remove the only global owner")
		}

		for _, c := range d.Channels {
			c.MemberIDs = store.Remove(c.MemberIDs, userID)
			c.OwnerIDs = store.Remove(c.OwnerIDs, userID)
		}
		for _, dm := range d.Dms {
			dm.MemberIDs = store.Remove(dm.MemberIDs, userID)
		}
		for _, m := range d.Messages {
			if m.AuthorID == userID {
				m.Body = removedUserBody
			}
		}
		d.GlobalOwnerIDs = store.Remove(d.GlobalOwnerIDs, userID)

		target.FirstName = "Removed"
		target.LastName = "user"
		target.Email = ""
		target.Handle = ""
		target.PasswordHash = ""
		target.ResetCode = ""
		target.Permission = models.PermRemoved
		target.Sessions = nil
		target.AvatarURL = s.defaultAvatarURL()
		return nil
	})
}

// ChangePermission sets a user's workspace permission level. Only global
// owners may call it; the last global owner cannot demote themselves and
// setting a level the target already holds is rejected.
func (s *Service) ChangePermission(token string, userID, level int) error {
	return s.store.Update(func(d *store.Data) error {
		if level != models.PermOwner && level != models.PermMember {
			return validationf("invalid permission level")
		}
		caller := s.sessionUser(d, token)
		if caller == nil {
			return authorizationf("invalid token")
		}
		if !d.IsGlobalOwner(caller.ID) {
			return authorizationf("caller is not a global owner")
		}
		target := d.UserByID(userID)
		if target == nil || target.Removed() {
			return validationf("user id does not refer to a valid user")
		}
		if target.Permission == level {
			return validationf("user already has this permission level")
		}
		if level == models.PermMember && d.IsGlobalOwner(userID) && len(d.GlobalOwnerIDs) == 1 {
			return validationf("cannot demote the only global owner")
		}
		target.Permission = level
		if level == models.PermOwner {
			d.GlobalOwnerIDs = append(d.GlobalOwnerIDs, userID)
		} else {
			d.GlobalOwnerIDs = store.Remove(d.GlobalOwnerIDs, userID)
		}
		return nil
	})
}
