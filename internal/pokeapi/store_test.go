package pokeapi

import "testing"

func TestMapStore_GetEmpty(t *testing.T) {
	s := NewMapStore[string, *Entity]()
	got, ok := s.Get("nonexistent")
	if ok {
		t.Fatal("expected miss on empty store")
	}
	if got != nil {
		t.Fatal("expected nil on miss")
	}
}

func TestMapStore_SetAndGet(t *testing.T) {
	s := NewMapStore[string, *Entity]()
	e := &Entity{ID: 25, Name: "pikachu"}

	s.Set("pikachu", e)

	got, ok := s.Get("pikachu")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got != e {
		t.Errorf("got %p, want the stored pointer %p", got, e)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestMapStore_Clear(t *testing.T) {
	s := NewMapStore[string, *Entity]()
	s.Set("1", &Entity{ID: 1})
	s.Set("2", &Entity{ID: 2})

	s.Clear()

	if _, ok := s.Get("1"); ok {
		t.Fatal("expected miss after Clear")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestLRUStore_RejectsNonPositiveSize(t *testing.T) {
	if _, err := NewLRUStore[string, *ListPage](0); err == nil {
		t.Fatal("expected error for size 0")
	}
}

func TestLRUStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s, err := NewLRUStore[string, *ListPage](2)
	if err != nil {
		t.Fatal(err)
	}
	s.Set("a", &ListPage{Count: 1})
	s.Set("b", &ListPage{Count: 2})
	s.Get("a")
	s.Set("c", &ListPage{Count: 3})

	if _, ok := s.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := s.Get("a"); !ok {
		t.Error("a was used recently and should survive")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
}

func TestSummaryID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://pokeapi.co/api/v2/pokemon/25/", "25"},
		{"https://pokeapi.co/api/v2/pokemon/25", "25"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := (Summary{URL: tt.url}).ID(); got != tt.want {
			t.Errorf("Summary{URL: %q}.ID() = %q, want %q", tt.url, got, tt.want)
		}
	}
}
