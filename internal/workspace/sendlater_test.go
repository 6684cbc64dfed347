package workspace

import (
	"testing"
	"time"
)

func TestSendLaterValidation(t *testing.T) {
	s := newTestService(t)
	res := register(t, s, "a@b.com", "First", "Last")
	other := register(t, s, "b@b.com", "Other", "Person")
	ch := mustCreateChannel(t, s, res.Token, "general", true)
	future := time.Now().Add(time.Hour).Unix()

	if _, err := s.SendMessageLater(res.Token, ch, "", future); !IsValidation(err) {
		t.Fatalf("empty body: want validation error, got %v", err)
	}
	if _, err := s.SendMessageLater(res.Token, ch, "hi", time.Now().Add(-time.Hour).Unix()); !IsValidation(err) {
		t.Fatalf("past time: want validation error, got %v", err)
	}
	if _, err := s.SendMessageLater(res.Token, 9999, "hi", future); !IsValidation(err) {
		t.Fatalf("bad channel: want validation error, got %v", err)
	}
	if _, err := s.SendMessageLater(other.Token, ch, "hi", future); !IsAuthorization(err) {
		t.Fatalf("non-member: want authorization error, got %v", err)
	}
}

func TestSendLaterDelivery(t *testing.T) {
	s := newTestService(t)
	res := register(t, s, "a@b.com", "First", "Last")
	ch := mustCreateChannel(t, s, res.Token, "general", true)

	at := time.Now().Add(time.Second).Unix()
	id, err := s.SendMessageLater(res.Token, ch, "from the future", at)
	if err != nil {
		t.Fatalf("SendMessageLater: %v", err)
	}

	// Invisible until the scheduled time.
	page, err := s.ChannelMessages(res.Token, ch, 0)
	if err != nil {
		t.Fatalf("ChannelMessages: %v", err)
	}
	if len(page.Messages) != 0 {
		t.Fatalf("scheduled message visible early: %+v", page.Messages)
	}
	if err := s.RemoveMessage(res.Token, id); !IsValidation(err) {
		t.Fatalf("remove before delivery: want validation error, got %v", err)
	}

	waitFor(t, 4*time.Second, func() bool {
		p, err := s.ChannelMessages(res.Token, ch, 0)
		return err == nil && len(p.Messages) == 1
	})
	page, err = s.ChannelMessages(res.Token, ch, 0)
	if err != nil {
		t.Fatalf("ChannelMessages: %v", err)
	}
	if page.Messages[0].ID != id {
		t.Fatalf("delivered id = %d, want %d", page.Messages[0].ID, id)
	}
	if page.Messages[0].SentAt != at {
		t.Fatalf("sent at %d, want scheduled %d", page.Messages[0].SentAt, at)
	}
}

func TestSendLaterDroppedWhenSenderLeaves(t *testing.T) {
	s := newTestService(t)
	owner := register(t, s, "a@b.com", "First", "Last")
	member := register(t, s, "b@b.com", "Other", "Person")
	ch := mustCreateChannel(t, s, owner.Token, "general", true)
	if err := s.JoinChannel(member.Token, ch); err != nil {
		t.Fatalf("JoinChannel: %v", err)
	}

	at := time.Now().Add(time.Second).Unix()
	if _, err := s.SendMessageLater(member.Token, ch, "never lands", at); err != nil {
		t.Fatalf("SendMessageLater: %v", err)
	}
	if err := s.LeaveChannel(member.Token, ch); err != nil {
		t.Fatalf("LeaveChannel: %v", err)
	}

	time.Sleep(2 * time.Second)
	page, err := s.ChannelMessages(owner.Token, ch, 0)
	if err != nil {
		t.Fatalf("ChannelMessages: %v", err)
	}
	if len(page.Messages) != 0 {
		t.Fatalf("message delivered after sender left: %+v", page.Messages)
	}
}

func TestSendLaterDmCancelledOnRemove(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "First", "Last")
	b := register(t, s, "b@b.com", "Other", "Person")
	dm := mustCreateDm(t, s, a.Token, b.UserID)

	at := time.Now().Add(time.Second).Unix()
	if _, err := s.SendDmMessageLater(a.Token, dm, "never lands", at); err != nil {
		t.Fatalf("SendDmMessageLater: %v", err)
	}
	if err := s.RemoveDm(a.Token, dm); err != nil {
		t.Fatalf("RemoveDm: %v", err)
	}

	time.Sleep(2 * time.Second)
	found, err := s.Search(a.Token, "never lands")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("cancelled delivery landed: %+v", found)
	}
}

func TestClearDropsScheduledDeliveries(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "First", "Last")
	b := register(t, s, "b@b.com", "Other", "Person")
	dm := mustCreateDm(t, s, a.Token, b.UserID)

	at := time.Now().Add(time.Second).Unix()
	if _, err := s.SendDmMessageLater(a.Token, dm, "from before the wipe", at); err != nil {
		t.Fatalf("SendDmMessageLater: %v", err)
	}

	s.Clear()

	// Re-register and recreate the dm; ids restart, so the new dm and
	// users take the same ids the scheduled delivery was bound to.
	a = register(t, s, "a@b.com", "First", "Last")
	b = register(t, s, "b@b.com", "Other", "Person")
	if got := mustCreateDm(t, s, a.Token, b.UserID); got != dm {
		t.Fatalf("recreated dm id = %d, want %d", got, dm)
	}

	time.Sleep(2 * time.Second)
	found, err := s.Search(a.Token, "from before the wipe")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("pre-wipe delivery landed: %+v", found)
	}
	page, err := s.DmMessages(a.Token, dm, 0)
	if err != nil {
		t.Fatalf("DmMessages: %v", err)
	}
	if len(page.Messages) != 0 {
		t.Fatalf("messages after wipe = %+v", page.Messages)
	}
}

func TestSendLaterTagNotifiesAtDelivery(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "a@b.com", "First", "Last")
	b := register(t, s, "b@b.com", "Other", "Person")
	ch := mustCreateChannel(t, s, a.Token, "general", true)
	if err := s.JoinChannel(b.Token, ch); err != nil {
		t.Fatalf("JoinChannel: %v", err)
	}

	at := time.Now().Add(time.Second).Unix()
	if _, err := s.SendMessageLater(a.Token, ch, "@otherperson hello", at); err != nil {
		t.Fatalf("SendMessageLater: %v", err)
	}

	notes, err := s.Notifications(b.Token)
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("notified before delivery: %+v", notes)
	}

	waitFor(t, 4*time.Second, func() bool {
		n, err := s.Notifications(b.Token)
		return err == nil && len(n) == 1
	})
}
