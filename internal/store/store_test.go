package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "mudra.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestEventRepository_InsertAndRecent(t *testing.T) {
	s := newTestStore(t)
	events := s.Events()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, fingers := range []int{0, 2, 5} {
		e := &Event{
			ID:         uuid.NewString(),
			Side:       "Right",
			Fingers:    fingers,
			Score:      0.9,
			ObservedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := events.Insert(e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := events.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("Recent() returned %d events, want 3", len(got))
	}

	// Newest first
	if got[0].Fingers != 5 || got[2].Fingers != 0 {
		t.Errorf("events not ordered newest first: %d, %d, %d",
			got[0].Fingers, got[1].Fingers, got[2].Fingers)
	}

	if got[0].Side != "Right" || got[0].Score != 0.9 {
		t.Errorf("event fields not preserved: %+v", got[0])
	}
}

func TestEventRepository_RecentLimit(t *testing.T) {
	s := newTestStore(t)
	events := s.Events()

	for i := 0; i < 5; i++ {
		e := &Event{ID: uuid.NewString(), Side: "Left", Fingers: i}
		if err := events.Insert(e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := events.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Recent(2) returned %d events, want 2", len(got))
	}
}

func TestEventRepository_InsertStampsObservedAt(t *testing.T) {
	s := newTestStore(t)

	e := &Event{ID: uuid.NewString(), Side: "Left", Fingers: 3}
	if err := s.Events().Insert(e); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if e.ObservedAt.IsZero() {
		t.Error("Insert() should stamp a zero ObservedAt")
	}
}

func TestEventRepository_Prune(t *testing.T) {
	s := newTestStore(t)
	events := s.Events()

	old := &Event{
		ID:         uuid.NewString(),
		Side:       "Left",
		Fingers:    1,
		ObservedAt: time.Now().Add(-48 * time.Hour),
	}
	fresh := &Event{
		ID:         uuid.NewString(),
		Side:       "Left",
		Fingers:    2,
		ObservedAt: time.Now(),
	}
	for _, e := range []*Event{old, fresh} {
		if err := events.Insert(e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	pruned, err := events.Prune(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if pruned != 1 {
		t.Errorf("Prune() removed %d events, want 1", pruned)
	}

	remaining, err := events.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].Fingers != 2 {
		t.Errorf("wrong events remaining after prune: %+v", remaining)
	}
}

func TestSettingRepository(t *testing.T) {
	s := newTestStore(t)
	settings := s.Settings()

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		_, err := settings.Get("nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := settings.Set("greeting", "namaste"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, err := settings.Get("greeting")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "namaste" {
			t.Errorf("Get() = %q, want %q", got, "namaste")
		}
	})

	t.Run("set replaces existing value", func(t *testing.T) {
		settings.Set("greeting", "first")
		settings.Set("greeting", "second")

		got, err := settings.Get("greeting")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "second" {
			t.Errorf("Get() = %q, want %q", got, "second")
		}
	})

	t.Run("float round trip", func(t *testing.T) {
		if err := settings.SetFloat(SettingThumbIndexThreshold, 0.25); err != nil {
			t.Fatalf("SetFloat() error = %v", err)
		}

		got, err := settings.GetFloat(SettingThumbIndexThreshold)
		if err != nil {
			t.Fatalf("GetFloat() error = %v", err)
		}
		if got != 0.25 {
			t.Errorf("GetFloat() = %f, want 0.25", got)
		}
	})

	t.Run("bool round trip", func(t *testing.T) {
		if err := settings.SetBool(SettingLittleAlwaysUp, false); err != nil {
			t.Fatalf("SetBool() error = %v", err)
		}

		got, err := settings.GetBool(SettingLittleAlwaysUp)
		if err != nil {
			t.Fatalf("GetBool() error = %v", err)
		}
		if got {
			t.Error("GetBool() = true, want false")
		}
	})
}
