package workspace

import (
	"testing"

	"github.com/huddle-work/huddle/internal/store"
)

func TestRegisterValidation(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Register("a@b.com", "password", "", "Last"); !IsValidation(err) {
		t.Fatalf("empty first name: want validation error, got %v", err)
	}
	if _, err := s.Register("a@b.com", "pass", "First", "Last"); !IsValidation(err) {
		t.Fatalf("short password: want validation error, got %v", err)
	}
	if _, err := s.Register("not-an-email", "password", "First", "Last"); !IsValidation(err) {
		t.Fatalf("bad email: want validation error, got %v", err)
	}

	register(t, s, "a@b.com", "First", "Last")
	if _, err := s.Register("a@b.com", "password", "Other", "Person"); !IsValidation(err) {
		t.Fatalf("duplicate email: want validation error, got %v", err)
	}
}

func TestFailedRegisterLeavesNoState(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Register("a@b.com", "pass", "First", "Last"); !IsValidation(err) {
		t.Fatalf("short password: want validation error, got %v", err)
	}
	if _, err := s.Register("not-an-email", "password", "First", "Last"); !IsValidation(err) {
		t.Fatalf("bad email: want validation error, got %v", err)
	}

	// Failed attempts must not have burned an id or claimed ownership.
	res := register(t, s, "a@b.com", "First", "Last")
	if res.UserID != 1 {
		t.Fatalf("UserID = %d, want 1", res.UserID)
	}
	other := register(t, s, "b@b.com", "Other", "Person")
	if err := s.ChangePermission(res.Token, other.UserID, 1); err != nil {
		t.Fatalf("first successful registrant is not global owner: %v", err)
	}
}

func TestFirstRegistrantIsGlobalOwner(t *testing.T) {
	s := newTestService(t)
	first := register(t, s, "first@b.com", "Ada", "Lovelace")
	second := register(t, s, "second@b.com", "Bob", "Builder")

	// Only a global owner may change permissions at all.
	if err := s.ChangePermission(first.Token, second.UserID, 1); err != nil {
		t.Fatalf("first registrant should be a global owner: %v", err)
	}
}

func TestHandleGeneration(t *testing.T) {
	s := newTestService(t)
	res := register(t, s, "ada@b.com", "Ada", "Lovelace")
	profile, err := s.UserProfile(res.Token, res.UserID)
	if err != nil {
		t.Fatalf("UserProfile: %v", err)
	}
	if profile.Handle != "adalovelace" {
		t.Fatalf("handle = %q, want adalovelace", profile.Handle)
	}

	// Same names again: numeric suffix from 0.
	res2 := register(t, s, "ada2@b.com", "Ada", "Lovelace")
	profile2, err := s.UserProfile(res2.Token, res2.UserID)
	if err != nil {
		t.Fatalf("UserProfile: %v", err)
	}
	if profile2.Handle != "adalovelace0" {
		t.Fatalf("handle = %q, want adalovelace0", profile2.Handle)
	}
}

func TestHandleStripsAndTruncates(t *testing.T) {
	s := newTestService(t)
	res := register(t, s, "x@b.com", "A-Very!Long", "NameIndeedTruly2000")
	profile, err := s.UserProfile(res.Token, res.UserID)
	if err != nil {
		t.Fatalf("UserProfile: %v", err)
	}
	if len(profile.Handle) > 20 {
		t.Fatalf("handle %q longer than 20", profile.Handle)
	}
	for _, r := range profile.Handle {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			t.Fatalf("handle %q contains %q", profile.Handle, r)
		}
	}
}

func TestLoginAndLogout(t *testing.T) {
	s := newTestService(t)
	register(t, s, "a@b.com", "First", "Last")

	if _, err := s.Login("missing@b.com", "password"); !IsValidation(err) {
		t.Fatalf("unknown email: want validation error, got %v", err)
	}
	if _, err := s.Login("a@b.com", "wrongpass"); !IsValidation(err) {
		t.Fatalf("wrong password: want validation error, got %v", err)
	}

	res, err := s.Login("a@b.com", "password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.Logout(res.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	// The session is gone: the token no longer resolves.
	if err := s.Logout(res.Token); !IsAuthorization(err) {
		t.Fatalf("reused token: want authorization error, got %v", err)
	}
}

func TestLogoutLeavesOtherSessions(t *testing.T) {
	s := newTestService(t)
	first := register(t, s, "a@b.com", "First", "Last")
	second, err := s.Login("a@b.com", "password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := s.Logout(first.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := s.MyChannels(second.Token); err != nil {
		t.Fatalf("second session should survive: %v", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	s := newTestService(t)
	if _, err := s.MyChannels("not-a-jwt"); !IsAuthorization(err) {
		t.Fatalf("want authorization error, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestService(t)
	res := register(t, s, "a@b.com", "First", "Last")

	if err := s.RequestPasswordReset("missing@b.com"); !IsValidation(err) {
		t.Fatalf("unknown email: want validation error, got %v", err)
	}
	if err := s.RequestPasswordReset("a@b.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}

	// Requesting a reset revokes every session.
	if _, err := s.MyChannels(res.Token); !IsAuthorization(err) {
		t.Fatalf("sessions should be revoked, got %v", err)
	}

	var code string
	s.store.View(func(d *store.Data) error {
		code = d.UserByEmail("a@b.com").ResetCode
		return nil
	})
	if code == "" {
		t.Fatal("no reset code stored")
	}

	if err := s.ResetPassword(code, "short"); !IsValidation(err) {
		t.Fatalf("short password: want validation error, got %v", err)
	}
	if err := s.ResetPassword("wrong-code", "newpassword"); !IsValidation(err) {
		t.Fatalf("bad code: want validation error, got %v", err)
	}
	if err := s.ResetPassword(code, "newpassword"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	// The code is single use.
	if err := s.ResetPassword(code, "anotherpassword"); !IsValidation(err) {
		t.Fatalf("reused code: want validation error, got %v", err)
	}

	if _, err := s.Login("a@b.com", "password"); !IsValidation(err) {
		t.Fatalf("old password should fail, got %v", err)
	}
	if _, err := s.Login("a@b.com", "newpassword"); err != nil {
		t.Fatalf("new password: %v", err)
	}
}
