package workspace

import "testing"

func TestCreateDmNameIsSortedHandles(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "Zed", "Zulu")
	b := register(t, s, "b@b.com", "Ada", "Lovelace")
	c := register(t, s, "c@b.com", "Mid", "Dle")

	dm := mustCreateDm(t, s, a.Token, b.UserID, c.UserID)
	details, err := s.DmDetails(a.Token, dm)
	if err != nil {
		t.Fatalf("DmDetails: %v", err)
	}
	if details.Name != "adalovelace, middle, zedzulu" {
		t.Fatalf("name = %q", details.Name)
	}
	if len(details.Members) != 3 {
		t.Fatalf("members = %v", details.Members)
	}
}

func TestCreateDmValidation(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "First", "Last")
	b := register(t, s, "b@b.com", "Other", "Person")

	if _, err := s.CreateDm(a.Token, []int{9999}); !IsValidation(err) {
		t.Fatalf("bad uid: want validation error, got %v", err)
	}
	if _, err := s.CreateDm(a.Token, []int{b.UserID, b.UserID}); !IsValidation(err) {
		t.Fatalf("duplicate uid: want validation error, got %v", err)
	}
	// The creator is implicit; listing them again counts as a duplicate.
	if _, err := s.CreateDm(a.Token, []int{a.UserID}); !IsValidation(err) {
		t.Fatalf("creator in uids: want validation error, got %v", err)
	}
}

func TestCreateDmNotifiesInvited(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "First", "Last")
	b := register(t, s, "b@b.com", "Other", "Person")
	mustCreateDm(t, s, a.Token, b.UserID)

	notes, err := s.Notifications(b.Token)
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if len(notes) != 1 || notes[0].Message != "firstlast added you to firstlast, otherperson" {
		t.Fatalf("notifications = %+v", notes)
	}
	// The creator gets nothing.
	mine, err := s.Notifications(a.Token)
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("creator notifications = %+v", mine)
	}
}

func TestDmNameImmutableAfterLeave(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "First", "Last")
	b := register(t, s, "b@b.com", "Other", "Person")
	dm := mustCreateDm(t, s, a.Token, b.UserID)

	if err := s.LeaveDm(b.Token, dm); err != nil {
		t.Fatalf("LeaveDm: %v", err)
	}
	details, err := s.DmDetails(a.Token, dm)
	if err != nil {
		t.Fatalf("DmDetails: %v", err)
	}
	if details.Name != "firstlast, otherperson" {
		t.Fatalf("name changed after leave: %q", details.Name)
	}
	if len(details.Members) != 1 {
		t.Fatalf("members = %v", details.Members)
	}
}

func TestLeaveDmCreatorKeepsDmAlive(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "First", "Last")
	b := register(t, s, "b@b.com", "Other", "Person")
	dm := mustCreateDm(t, s, a.Token, b.UserID)

	if err := s.LeaveDm(a.Token, dm); err != nil {
		t.Fatalf("creator LeaveDm: %v", err)
	}
	// The DM still exists for the remaining member.
	if _, err := s.DmDetails(b.Token, dm); err != nil {
		t.Fatalf("DmDetails after creator left: %v", err)
	}
	// But the creator can no longer see it.
	if _, err := s.DmDetails(a.Token, dm); !IsAuthorization(err) {
		t.Fatalf("want authorization error, got %v", err)
	}
}

func TestRemoveDm(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "First", "Last")
	b := register(t, s, "b@b.com", "Other", "Person")
	dm := mustCreateDm(t, s, a.Token, b.UserID)
	if _, err := s.SendDmMessage(a.Token, dm, "hello"); err != nil {
		t.Fatalf("SendDmMessage: %v", err)
	}

	// Only the creator may remove.
	if err := s.RemoveDm(b.Token, dm); !IsAuthorization(err) {
		t.Fatalf("non-creator remove: want authorization error, got %v", err)
	}
	if err := s.RemoveDm(a.Token, dm); err != nil {
		t.Fatalf("RemoveDm: %v", err)
	}
	if _, err := s.DmDetails(a.Token, dm); !IsValidation(err) {
		t.Fatalf("removed dm should be invalid, got %v", err)
	}

	// Its messages are gone from search too.
	found, err := s.Search(a.Token, "hello")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("search found %v", found)
	}
}

func TestMyDms(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "First", "Last")
	b := register(t, s, "b@b.com", "Other", "Person")
	c := register(t, s, "c@b.com", "Third", "Person")
	mustCreateDm(t, s, a.Token, b.UserID)
	mustCreateDm(t, s, b.Token, c.UserID)

	dms, err := s.MyDms(a.Token)
	if err != nil {
		t.Fatalf("MyDms: %v", err)
	}
	if len(dms) != 1 {
		t.Fatalf("dms = %v", dms)
	}
	dms, err = s.MyDms(b.Token)
	if err != nil {
		t.Fatalf("MyDms: %v", err)
	}
	if len(dms) != 2 {
		t.Fatalf("dms = %v", dms)
	}
}
