package dashboard

import "testing"

func TestPaneWidths_Normal(t *testing.T) {
	// Given: a normal terminal width of 90
	// When: PaneWidths is computed
	left, right := PaneWidths(90)

	// Then: left is 1/3 and right is 2/3
	if left != 30 {
		t.Errorf("left = %d, want 30 (1/3 of 90)", left)
	}
	if right != 60 {
		t.Errorf("right = %d, want 60 (2/3 of 90)", right)
	}
}

func TestPaneWidths_Narrow(t *testing.T) {
	// Given: a narrow terminal where 1/3 is below the minimum
	left, right := PaneWidths(60)

	// Then: left is clamped to MinLeftWidth
	if left != MinLeftWidth {
		t.Errorf("left = %d, want %d", left, MinLeftWidth)
	}
	if right != 60-MinLeftWidth {
		t.Errorf("right = %d, want %d", right, 60-MinLeftWidth)
	}
}

func TestPaneWidths_TooNarrow(t *testing.T) {
	// Given: a width smaller than the minimum left pane
	_, right := PaneWidths(10)

	// Then: right never goes negative
	if right != 0 {
		t.Errorf("right = %d, want 0", right)
	}
}

func TestPaneWidths_Zero(t *testing.T) {
	left, right := PaneWidths(0)
	if left != 0 || right != 0 {
		t.Errorf("PaneWidths(0) = (%d, %d), want (0, 0)", left, right)
	}
}

func TestBorders_Render(t *testing.T) {
	// Given: both border styles
	// When: rendering a short string
	// Then: each output keeps the content and adds rounded corners
	for name, got := range map[string]string{
		"focused":   FocusedBorder().Render("x"),
		"unfocused": UnfocusedBorder().Render("x"),
	} {
		if !containsPlainText(got, "x") || !containsPlainText(got, "╭") {
			t.Errorf("%s border = %q, want rounded border around x", name, stripANSI(got))
		}
	}
}
