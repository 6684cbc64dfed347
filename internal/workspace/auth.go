package workspace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/huddle-work/huddle/internal/auth"
	"github.com/huddle-work/huddle/internal/models"
	"github.com/huddle-work/huddle/internal/store"
)

const (
	minPasswordLen = 6
	maxNameLen     = 50
)

// sessionUser resolves a token to its user, or nil. The signature must
// verify, the session id must still be live and belong to the claimed
// user, and the user must not be removed.
func (s *Service) sessionUser(d *store.Data, token string) *models.User {
	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil
	}
	u := d.UserBySession(claims.ID)
	if u == nil || u.ID != claims.UserID || u.Removed() {
		return nil
	}
	return u
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token  string `json:"token"`
	UserID int    `json:"auth_user_id"`
}

// Register creates a new account and logs it in. The very first registrant
// becomes a global owner. A unique handle is generated from the names.
func (s *Service) Register(email, password, nameFirst, nameLast string) (AuthResult, error) {
	var res AuthResult
	err := s.store.Update(func(d *store.Data) error {
		if err := validateName(nameFirst); err != nil {
			return err
		}
		if err := validateName(nameLast); err != nil {
			return err
		}
		if len(password) < minPasswordLen {
			return validationf("password must be at least %d characters", minPasswordLen)
		}
		if checkmail.ValidateFormat(email) != nil {
			return validationf("invalid email address")
		}
		if d.UserByEmail(email) != nil {
			return validationf("email address is already in use")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		// Sign first, mutate after: a signing failure must leave the id
		// counter and owner list untouched.
		sessionID := uuid.NewString()
		token, err := auth.GenerateToken(d.NextUserID, sessionID, s.secret)
		if err != nil {
			return err
		}

		id := d.AllocUserID()
		perm := models.PermMember
		if len(d.GlobalOwnerIDs) == 0 {
			d.GlobalOwnerIDs = append(d.GlobalOwnerIDs, id)
			perm = models.PermOwner
		}

		d.Users = append(d.Users, &models.User{
			ID:            id,
			Email:         email,
			PasswordHash:  string(hash),
			FirstName:     nameFirst,
			LastName:      nameLast,
			Handle:        generateHandle(d, nameFirst, nameLast),
			Permission:    perm,
			Sessions:      []string{sessionID},
			AvatarURL:     s.defaultAvatarURL(),
			Notifications: []models.Notification{},
		})

		res = AuthResult{Token: token, UserID: id}
		return nil
	})
	return res, err
}

// Login issues a fresh session for a registered email/password pair.
func (s *Service) Login(email, password string) (AuthResult, error) {
	var res AuthResult
	err := s.store.Update(func(d *store.Data) error {
		u := d.UserByEmail(email)
		if u == nil {
			return validationf("email does not belong to a user")
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return validationf("incorrect password")
		}

		sessionID := uuid.NewString()
		token, err := auth.GenerateToken(u.ID, sessionID, s.secret)
		if err != nil {
			return err
		}
		u.Sessions = append(u.Sessions, sessionID)

		res = AuthResult{Token: token, UserID: u.ID}
		return nil
	})
	return res, err
}

// Logout invalidates the presented session only; other sessions survive.
func (s *Service) Logout(token string) error {
	return s.store.Update(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		claims, _ := auth.ParseToken(token, s.secret)
		u.Sessions = removeString(u.Sessions, claims.ID)
		return nil
	})
}

// RequestPasswordReset stores a single-use code on the account, revokes
// every live session and emails the code. It replaces any previously
// issued one.
func (s *Service) RequestPasswordReset(email string) error {
	var firstName, code string
	err := s.store.Update(func(d *store.Data) error {
		u := d.UserByEmail(email)
		if u == nil {
			return validationf("email does not belong to a user")
		}
		code = uuid.NewString()
		u.ResetCode = code
		u.Sessions = nil
		firstName = u.FirstName
		return nil
	})
	if err != nil {
		return err
	}
	s.mail.SendResetCode(email, firstName, code)
	return nil
}

// ResetPassword consumes a reset code and sets a new password.
func (s *Service) ResetPassword(code, newPassword string) error {
	return s.store.Update(func(d *store.Data) error {
		if len(newPassword) < minPasswordLen {
			return validationf("password must be at least %d characters", minPasswordLen)
		}
		var u *models.User
		for _, cand := range d.Users {
			if cand.ResetCode != "" && cand.ResetCode == code {
				u = cand
				break
			}
		}
		if u == nil {
			return validationf("invalid reset code")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
		u.ResetCode = ""
		return nil
	})
}

func validateName(name string) error {
	if len(name) < 1 || len(name) > maxNameLen {
		return validationf("name length must be between 1 and %d", maxNameLen)
	}
	return nil
}

// generateHandle lowercases and strips the names to alphanumerics, truncates
// to 20, then appends the smallest integer (from 0) that makes it unique.
// The suffix may push the handle past 20 characters.
func generateHandle(d *store.Data, nameFirst, nameLast string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(nameFirst + nameLast) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) > 20 {
		base = base[:20]
	}

	if d.UserByHandle(base) == nil {
		return base
	}
	for i := 0; ; i++ {
		handle := base + strconv.Itoa(i)
		if d.UserByHandle(handle) == nil {
			return handle
		}
	}
}

func (s *Service) defaultAvatarURL() string {
	return s.baseURL + "/static/default.jpg"
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
