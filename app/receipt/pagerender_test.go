package receipt

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeComposer records every capability call so placements and styles can be
// asserted without a print-control plugin.
type fakeComposer struct {
	calls      []string
	submitOK   bool
	submitErr  error
	selectErr  error
	placements []placement
}

type placement struct {
	top, left, width, height float64
	text                     string
}

func newFakeComposer() *fakeComposer {
	return &fakeComposer{submitOK: true}
}

func (f *fakeComposer) EnumeratePrinters() ([]string, error) {
	f.calls = append(f.calls, "enumerate")
	return []string{"Front Counter"}, nil
}

func (f *fakeComposer) BeginPage(widthMM, heightMM float64, title string) error {
	f.calls = append(f.calls, fmt.Sprintf("begin %.0fx%.1f %s", widthMM, heightMM, title))
	return nil
}

func (f *fakeComposer) SelectPrinter(name string) error {
	f.calls = append(f.calls, "select "+name)
	return f.selectErr
}

func (f *fakeComposer) PlaceText(topMM, leftMM, widthMM, heightMM float64, text string) error {
	f.calls = append(f.calls, "place")
	f.placements = append(f.placements, placement{topMM, leftMM, widthMM, heightMM, text})
	return nil
}

func (f *fakeComposer) SetStyle(index int, property, value string) error {
	f.calls = append(f.calls, fmt.Sprintf("style %d %s=%s", index, property, value))
	return nil
}

func (f *fakeComposer) Submit() (bool, error) {
	f.calls = append(f.calls, "submit")
	return f.submitOK, f.submitErr
}

func TestRenderPageCallOrder(t *testing.T) {
	fc := newFakeComposer()
	p := ResolveParameters(80)
	lines := []Line{
		{Role: RoleHeader, Text: "#1"},
		{Role: RoleBlank},
		{Role: RoleField, Text: "PICKUP"},
	}

	if err := RenderPage(fc, "Front Counter", "#1", lines, p); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(fc.calls[0], "begin ") {
		t.Errorf("first call = %s, want BeginPage", fc.calls[0])
	}
	if fc.calls[1] != "select Front Counter" {
		t.Errorf("second call = %s, want SelectPrinter", fc.calls[1])
	}
	if last := fc.calls[len(fc.calls)-1]; last != "submit" {
		t.Errorf("last call = %s, want Submit", last)
	}
	// Blank lines advance the cursor but never place text.
	if len(fc.placements) != 2 {
		t.Fatalf("placements = %d, want 2", len(fc.placements))
	}
}

func TestRenderPageVerticalAdvance(t *testing.T) {
	fc := newFakeComposer()
	p := ResolveParameters(80)
	lines := []Line{
		{Role: RoleField, Text: "one"},
		{Role: RoleBlank},
		{Role: RoleField, Text: "two"},
	}

	if err := RenderPage(fc, "P", "t", lines, p); err != nil {
		t.Fatal(err)
	}

	first, second := fc.placements[0], fc.placements[1]
	if first.top != p.MarginTop {
		t.Errorf("first line top = %v, want margin %v", first.top, p.MarginTop)
	}
	want := p.MarginTop + 4.2 + 2.1
	if d := second.top - want; d > 1e-9 || d < -1e-9 {
		t.Errorf("second line top = %v, want %v", second.top, want)
	}
	if first.left != p.MarginLeft || first.width != p.TextAreaWidth {
		t.Errorf("placement geometry = %v/%v, want %v/%v",
			first.left, first.width, p.MarginLeft, p.TextAreaWidth)
	}
}

func TestRenderPageStyles(t *testing.T) {
	fc := newFakeComposer()
	p := ResolveParameters(80)
	lines := []Line{
		{Role: RoleHeader, Text: "#1"},
		{Role: RoleField, Text: "PICKUP"},
	}

	if err := RenderPage(fc, "P", "t", lines, p); err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(fc.calls, "\n")
	if !strings.Contains(joined, fmt.Sprintf("style 0 fontSize=%d", p.TitleFont)) {
		t.Error("header missing title font size")
	}
	if !strings.Contains(joined, "style 0 fontWeight=bold") {
		t.Error("header missing bold weight")
	}
	if !strings.Contains(joined, fmt.Sprintf("style 1 fontSize=%d", p.NormalFont)) {
		t.Error("field missing normal font size")
	}
	if strings.Contains(joined, "style 1 fontWeight=bold") {
		t.Error("plain field styled bold")
	}
}

func TestRenderPageSubmitRejected(t *testing.T) {
	fc := newFakeComposer()
	fc.submitOK = false
	p := ResolveParameters(80)

	err := RenderPage(fc, "P", "t", []Line{{Role: RoleField, Text: "x"}}, p)
	if err == nil {
		t.Fatal("rejected submit should surface an error")
	}
}

func TestRenderPageSelectError(t *testing.T) {
	fc := newFakeComposer()
	fc.selectErr = errors.New("no such printer")
	p := ResolveParameters(80)

	err := RenderPage(fc, "Gone", "t", []Line{{Role: RoleField, Text: "x"}}, p)
	if err == nil || !strings.Contains(err.Error(), "Gone") {
		t.Errorf("err = %v, want select error naming the printer", err)
	}
}

func TestRenderPageHeight(t *testing.T) {
	fc := newFakeComposer()
	p := ResolveParameters(80)
	lines := []Line{
		{Role: RoleField, Text: "one"},
		{Role: RoleBlank},
	}

	if err := RenderPage(fc, "P", "title", lines, p); err != nil {
		t.Fatal(err)
	}
	// Height = margins + one line + one blank spacer.
	want := fmt.Sprintf("begin 80x%.1f title", p.MarginTop+p.MarginBottom+4.2+2.1)
	if fc.calls[0] != want {
		t.Errorf("begin call = %q, want %q", fc.calls[0], want)
	}
}
