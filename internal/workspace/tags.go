package workspace

import (
	"regexp"
	"strings"

	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

var tagPattern = regexp.MustCompile(`@([a-zA-Z0-9]+)`)

// tagHandles extracts the distinct handles tagged in a body: for each
// whitespace-separated word, the first alphanumeric run following an '@'.
// Distinctness is case-insensitive, keeping the first spelling seen.
func tagHandles(body string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(body) {
		match := tagPattern.FindStringSubmatch(word)
		if match == nil {
			continue
		}
		key := strings.ToLower(match[1])
		if !seen[key] {
			seen[key] = true
			tags = append(tags, match[1])
		}
	}
	return tags
}

// notifyTags fans a tag notification out to every tagged handle that
// resolves to a current member of the conversation. The actor is never
// notified, even when self-tagged. Exactly one of ch/dm is non-nil.
func notifyTags(d *store.Data, actor *models.User, ch *models.Channel, dm *models.Dm, body string) {
	for _, tag := range tagHandles(body) {
		u := d.UserByHandle(tag)
		if u == nil || u.ID == actor.ID {
			continue
		}
		n := models.Notification{ChannelID: models.None, DmID: models.None}
		switch {
		case ch != nil && store.Contains(ch.MemberIDs, u.ID):
			n.ChannelID = ch.ID
			n.Message = actor.Handle + " tagged you in " + ch.Name + ": " + firstRunes(body, 20)
		case dm != nil && store.Contains(dm.MemberIDs, u.ID):
			n.DmID = dm.ID
			n.Message = actor.Handle + " tagged you in " + dm.Name + ": " + firstRunes(body, 20)
		default:
			continue
		}
		notify(u, n)
	}
}

// notify prepends an entry to a user's feed. Feeds grow without bound;
// readers cap what they return, not what is stored.
func notify(u *models.User, n models.Notification) {
	u.Notifications = append([]models.Notification{n}, u.Notifications...)
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
