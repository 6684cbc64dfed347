package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/huddle-work/huddle/internal/models"
)

func newStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := New(path, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	s := newStore(t, path)

	err := s.Update(func(d *Data) error {
		id := d.AllocUserID()
		d.Users = append(d.Users, &models.User{ID: id, Email: "a@b.com", Handle: "ab"})
		d.GlobalOwnerIDs = append(d.GlobalOwnerIDs, id)
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	// A fresh store over the same file sees the state, counters included.
	s2 := newStore(t, path)
	err = s2.View(func(d *Data) error {
		if len(d.Users) != 1 || d.Users[0].Email != "a@b.com" {
			t.Fatalf("users = %+v", d.Users)
		}
		if !d.IsGlobalOwner(d.Users[0].ID) {
			t.Fatal("global owner lost")
		}
		if d.NextUserID != 2 {
			t.Fatalf("NextUserID = %d", d.NextUserID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestUpdateErrorPersistsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	s := newStore(t, path)

	fail := errors.New("boom")
	err := s.Update(func(d *Data) error { return fail })
	if !errors.Is(err, fail) {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("snapshot written despite failure: %v", err)
	}
}

func TestMissingSnapshotStartsEmpty(t *testing.T) {
	s := newStore(t, filepath.Join(t.TempDir(), "absent.json"))
	s.View(func(d *Data) error {
		if len(d.Users) != 0 || d.NextUserID != 1 {
			t.Fatalf("not empty: %+v", d)
		}
		return nil
	})
}

func TestCorruptSnapshotRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := New(path, zap.NewNop()); err == nil {
		t.Fatal("want error for corrupt snapshot")
	}
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	s := newStore(t, path)
	s.Update(func(d *Data) error {
		d.Users = append(d.Users, &models.User{ID: d.AllocUserID()})
		return nil
	})
	s.Reset()

	s2 := newStore(t, path)
	s2.View(func(d *Data) error {
		if len(d.Users) != 0 || d.NextUserID != 1 {
			t.Fatalf("reset not persisted: %+v", d)
		}
		return nil
	})
}

func TestAllocatorsNeverReuse(t *testing.T) {
	s := newStore(t, filepath.Join(t.TempDir(), "snap.json"))
	s.Update(func(d *Data) error {
		a := d.AllocMessageID()
		b := d.AllocMessageID()
		if a == b || b != a+1 {
			t.Fatalf("ids %d, %d", a, b)
		}
		return nil
	})
}

func TestContainsAndRemove(t *testing.T) {
	ids := []int{1, 2, 3}
	if !Contains(ids, 2) || Contains(ids, 4) {
		t.Fatalf("Contains misbehaves on %v", ids)
	}
	ids = Remove(ids, 2)
	if len(ids) != 2 || Contains(ids, 2) {
		t.Fatalf("Remove left %v", ids)
	}
	// Removing an absent id is a no-op.
	ids = Remove(ids, 99)
	if len(ids) != 2 {
		t.Fatalf("Remove of absent id left %v", ids)
	}
}

func TestUserLookups(t *testing.T) {
	s := newStore(t, filepath.Join(t.TempDir(), "snap.json"))
	s.Update(func(d *Data) error {
		d.Users = append(d.Users, &models.User{ID: 1, Email: "a@b.com", Handle: "AdaL", Sessions: []string{"s1"}})
		d.Users = append(d.Users, &models.User{ID: 2, Email: "", Handle: ""})
		return nil
	})

	s.View(func(d *Data) error {
		if u := d.UserByHandle("adal"); u == nil || u.ID != 1 {
			t.Fatalf("UserByHandle case-insensitive lookup failed: %+v", u)
		}
		// An empty query never matches the scrubbed user.
		if d.UserByEmail("") != nil {
			t.Fatal("empty email matched")
		}
		if d.UserByHandle("") != nil {
			t.Fatal("empty handle matched")
		}
		if u := d.UserBySession("s1"); u == nil || u.ID != 1 {
			t.Fatalf("UserBySession failed: %+v", u)
		}
		return nil
	})
}
