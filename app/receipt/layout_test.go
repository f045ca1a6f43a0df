package receipt

import (
	"reflect"
	"testing"
)

func TestResolveParameters(t *testing.T) {
	tests := []struct {
		name       string
		paperWidth int
		wantCols   int
		wantName   int
		wantQty    int
		wantPrice  int
		wantBase   int
	}{
		{"58mm thermal", 58, 24, 15, 3, 6, 11},
		{"80mm thermal", 80, 34, 23, 5, 6, 12},
		{"a4 sheet", 210, 88, 58, 13, 17, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ResolveParameters(tt.paperWidth)
			if p.TotalColumns != tt.wantCols {
				t.Errorf("TotalColumns = %d, want %d", p.TotalColumns, tt.wantCols)
			}
			if p.NameWidth != tt.wantName || p.QtyWidth != tt.wantQty || p.PriceWidth != tt.wantPrice {
				t.Errorf("item columns = %d/%d/%d, want %d/%d/%d",
					p.NameWidth, p.QtyWidth, p.PriceWidth, tt.wantName, tt.wantQty, tt.wantPrice)
			}
			if p.BaseFont != tt.wantBase {
				t.Errorf("BaseFont = %d, want %d", p.BaseFont, tt.wantBase)
			}
			if p.TitleFont != tt.wantBase+2 || p.ItemFont != tt.wantBase+1 || p.NormalFont != tt.wantBase {
				t.Errorf("fonts = %d/%d/%d, want %d/%d/%d",
					p.TitleFont, p.ItemFont, p.NormalFont, tt.wantBase+2, tt.wantBase+1, tt.wantBase)
			}
		})
	}
}

// Item and fee columns always sum to the full line so rows never jag.
func TestResolveParametersColumnSums(t *testing.T) {
	for _, width := range []int{40, 58, 72, 80, 110, 210} {
		p := ResolveParameters(width)
		if sum := p.NameWidth + p.QtyWidth + p.PriceWidth; sum != p.TotalColumns {
			t.Errorf("width %d: item columns sum %d != %d", width, sum, p.TotalColumns)
		}
		if sum := p.FeeLabelWidth + p.FeeAmountWidth; sum != p.TotalColumns {
			t.Errorf("width %d: fee columns sum %d != %d", width, sum, p.TotalColumns)
		}
	}
}

func TestResolveParametersMargins(t *testing.T) {
	p := ResolveParameters(80)
	if d := p.MarginLeft - 0.8; d > 1e-9 || d < -1e-9 || p.MarginRight != p.MarginLeft {
		t.Errorf("side margins = %v/%v, want 0.8/0.8", p.MarginLeft, p.MarginRight)
	}
	if p.MarginTop != 3.0 || p.MarginBottom != 3.0 {
		t.Errorf("top/bottom margins = %v/%v, want 3/3", p.MarginTop, p.MarginBottom)
	}
	if diff := p.TextAreaWidth - 78.4; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("TextAreaWidth = %v, want 78.4", p.TextAreaWidth)
	}
}

func TestWithFontTier(t *testing.T) {
	base := ResolveParameters(80)

	small := base.WithFontTier(0)
	if small.NormalFont != base.NormalFont-1 || small.TitleFont != base.TitleFont-1 {
		t.Errorf("small tier = %d/%d", small.NormalFont, small.TitleFont)
	}
	medium := base.WithFontTier(1)
	if medium != base {
		t.Error("medium tier must not change the layout")
	}
	large := base.WithFontTier(2)
	if large.ItemFont != base.ItemFont+1 {
		t.Errorf("large tier item font = %d", large.ItemFont)
	}
	if large.TotalColumns != base.TotalColumns || large.NameWidth != base.NameWidth {
		t.Error("font tier must not touch column arithmetic")
	}
}

// Resolution is pure: the same width always yields the same parameters.
func TestResolveParametersPure(t *testing.T) {
	for _, width := range []int{58, 80, 210} {
		a := ResolveParameters(width)
		b := ResolveParameters(width)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("width %d: repeated resolution differs: %+v vs %+v", width, a, b)
		}
	}
}
