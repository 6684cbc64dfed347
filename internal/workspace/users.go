package workspace

import (
	"github.com/badoux/checkmail"

	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

// UserProfile returns the profile for any known user id, including removed
// accounts, which read as "Removed user" with blank email and handle.
func (s *Service) UserProfile(token string, userID int) (models.Member, error) {
	var profile models.Member
	err := s.store.View(func(d *store.Data) error {
		if s.sessionUser(d, token) == nil {
			return authorizationf("invalid token")
		}
		u := d.UserByID(userID)
		if u == nil {
			return validationf("user id does not refer to a valid user")
		}
		profile = models.MemberOf(u)
		return nil
	})
	return profile, err
}

// AllUsers lists every non-removed user.
func (s *Service) AllUsers(token string) ([]models.Member, error) {
	users := make([]models.Member, 0)
	err := s.store.View(func(d *store.Data) error {
		if s.sessionUser(d, token) == nil {
			return authorizationf("invalid token")
		}
		for _, u := range d.Users {
			if !u.Removed() {
				users = append(users, models.MemberOf(u))
			}
		}
		return nil
	})
	return users, err
}

// SetName updates the caller's first and last name.
func (s *Service) SetName(token, nameFirst, nameLast string) error {
	return s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		if err := validateName(nameFirst); err != nil {
			return err
		}
		if err := validateName(nameLast); err != nil {
			return err
		}
		u.FirstName = nameFirst
		u.LastName = nameLast
		return nil
	})
}

// SetEmail updates the caller's email. The address must be well formed and
// not claimed by anyone else; addresses freed by admin removal are reusable.
func (s *Service) SetEmail(token, email string) error {
	return s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		if checkmail.ValidateFormat(email) != nil {
			return validationf("invalid email address")
		}
		if other := d.UserByEmail(email); other != nil && other.ID != u.ID {
			return validationf("email address is already in use")
		}
		u.Email = email
		return nil
	})
}

// SetHandle updates the caller's handle: 3-20 alphanumeric characters,
// unique among current users (case-insensitively, matching tag resolution).
func (s *Service) SetHandle(token, handle string) error {
	return s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		if len(handle) < 3 || len(handle) > 20 {
			return validationf("handle length must be between 3 and 20")
		}
		for _, r := range handle {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
				return validationf("handle must be alphanumeric")
			}
		}
		if other := d.UserByHandle(handle); other != nil && other.ID != u.ID {
			return validationf("handle is already in use")
		}
		u.Handle = handle
		return nil
	})
}
