package workspace

import (
	"strings"

	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

// Search returns every message the caller can read whose body contains the
// query, case-insensitively. Channel matches come before DM matches, in
// store order within each; standup buffers and undelivered scheduled
// messages are never searched.
func (s *Service) Search(token, query string) ([]models.MessageView, error) {
	var out []models.MessageView
	err := s.store.View(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		if len(query) < 1 || len(query) > maxMessageLen {
			return validationf("query length must be between 1 and %d", maxMessageLen)
		}
		needle := strings.ToLower(query)
		out = []models.MessageView{}
		for _, c := range d.Channels {
			if !store.Contains(c.MemberIDs, u.ID) {
				continue
			}
			for _, m := range d.Messages {
				if m.ChannelID == c.ID && strings.Contains(strings.ToLower(m.Body), needle) {
					out = append(out, viewMessage(m, u.ID))
				}
			}
		}
		for _, dm := range d.Dms {
			if !store.Contains(dm.MemberIDs, u.ID) {
				continue
			}
			for _, m := range d.Messages {
				if m.DmID == dm.ID && strings.Contains(strings.ToLower(m.Body), needle) {
					out = append(out, viewMessage(m, u.ID))
				}
			}
		}
		return nil
	})
	return out, err
}
