package highscore

import (
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("APPDATA", dir)

	s, err := Open("jumper_test", nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s
}

func TestStoreEmpty(t *testing.T) {
	s := openTemp(t)
	if got := s.Load(); got != 0 {
		t.Errorf("Load() on empty store = %d, want 0", got)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTemp(t)
	s.Save(1234)
	if got := s.Load(); got != 1234 {
		t.Errorf("Load() = %d, want 1234", got)
	}

	// A second manager over the same directory sees the saved value.
	again, err := Open("jumper_test", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := again.Load(); got != 1234 {
		t.Errorf("reopened Load() = %d, want 1234", got)
	}
}

func TestStoreIgnoresCorruptItem(t *testing.T) {
	s := openTemp(t)
	if err := s.m.SaveItem(Key, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if got := s.Load(); got != 0 {
		t.Errorf("Load() = %d on corrupt item, want 0", got)
	}
}

func TestMemory(t *testing.T) {
	var m Memory
	if m.Load() != 0 {
		t.Fatal("new Memory is not empty")
	}
	m.Save(50)
	m.Save(70)
	if got := m.Load(); got != 70 {
		t.Errorf("Load() = %d, want 70", got)
	}
}
