package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Errorf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("new screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetColor(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColor(5, 5, '@', ColorMatcha)
	if c := s.GetCell(5, 5); c.Rune != '@' || c.Color != ColorMatcha {
		t.Errorf("GetCell(5, 5) = %+v, expected '@' in matcha", c)
	}

	// Out of bounds writes are ignored
	s.SetColor(-1, 0, 'A', ColorRed)
	s.SetColor(0, 100, 'A', ColorRed)
	if s.Get(-1, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColor(2, 1, "Hop", ColorYellow)

	for i, ch := range "Hop" {
		c := s.GetCell(2+i, 1)
		if c.Rune != ch || c.Color != ColorYellow {
			t.Errorf("expected %q at x=%d, got %+v", ch, 2+i, c)
		}
	}

	// Clipped at the right edge
	s.DrawText(18, 0, "Hello")
	if s.Row(0)[18:] != "He" {
		t.Errorf("text should be clipped, row = %q", s.Row(0))
	}
}

func TestScreenDrawTextCenteredMultibyte(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawTextCentered(1, "★★")

	x := (20 - 2) / 2
	if s.Get(x, 1) != '★' || s.Get(x+1, 1) != '★' {
		t.Errorf("centered text misplaced, row = %q", s.Row(1))
	}
}

func TestScreenFillRectAndBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.FillRect(NewRect(2, 2, 3, 3), '#', ColorGreen)

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if s.Get(x, y) != '#' {
				t.Errorf("FillRect: expected '#' at (%d, %d)", x, y)
			}
		}
	}
	if s.Get(5, 5) != ' ' {
		t.Error("FillRect should not affect outside area")
	}

	s.Clear()
	s.DrawBox(NewRect(1, 1, 5, 4), ColorGray)
	if s.Get(1, 1) != '┌' || s.Get(5, 4) != '┘' {
		t.Errorf("box corners wrong:\n%s", s.String())
	}
}

func TestScreenResizeAndString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "abc")
	s.Resize(4, 3)

	if s.Width() != 4 || s.Height() != 3 {
		t.Fatalf("size after resize = %dx%d", s.Width(), s.Height())
	}
	lines := strings.Split(s.String(), "\n")
	if len(lines) != 3 {
		t.Errorf("String() should have 3 rows, got %d", len(lines))
	}
}
