package workspace

import (
	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

const notificationsPageSize = 20

// Notifications returns the caller's most recent notifications, newest
// first, capped at twenty.
func (s *Service) Notifications(token string) ([]models.Notification, error) {
	var out []models.Notification
	err := s.store.View(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		n := len(u.Notifications)
		if n > notificationsPageSize {
			n = notificationsPageSize
		}
		out = append([]models.Notification{}, u.Notifications[:n]...)
		return nil
	})
	return out, err
}
