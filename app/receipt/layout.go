package receipt

// Parameters holds every layout value derived from a printer's paper width.
// Resolution is pure: the same paper width always produces the same
// Parameters, so results can be cached or compared by table in tests.
type Parameters struct {
	PaperWidth int // mm

	// Margins in mm.
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64

	// Character columns available per line.
	TotalColumns int

	// Item table column widths, summing to TotalColumns.
	NameWidth  int
	QtyWidth   int
	PriceWidth int

	// Fee table column widths, summing to TotalColumns.
	FeeLabelWidth  int
	FeeAmountWidth int

	// Font sizes in points.
	BaseFont   int
	TitleFont  int
	ItemFont   int
	NormalFont int

	// Printable width in mm after side margins.
	TextAreaWidth float64
}

const (
	sideMarginRatio = 0.01
	topBottomMargin = 3.0
)

// Character columns per mm, tuned so the known paper sizes come out at the
// widths thermal printers actually render: 58mm -> 24 columns, 80mm -> 34.
var columnRatios = map[int]float64{
	58: 0.414,
	80: 0.425,
}

const defaultColumnRatio = 0.42

// ResolveParameters derives the full layout for a given paper width in mm.
// Unknown widths fall through to the default ratio and font size.
func ResolveParameters(paperWidth int) Parameters {
	p := Parameters{PaperWidth: paperWidth}

	p.MarginLeft = float64(paperWidth) * sideMarginRatio
	p.MarginRight = p.MarginLeft
	p.MarginTop = topBottomMargin
	p.MarginBottom = topBottomMargin
	p.TextAreaWidth = float64(paperWidth) - p.MarginLeft - p.MarginRight

	ratio, ok := columnRatios[paperWidth]
	if !ok {
		ratio = defaultColumnRatio
	}
	p.TotalColumns = int(float64(paperWidth) * ratio)

	// Item table split by paper class. The numeric columns floor their
	// percentage shares and name takes whatever they leave behind: flooring
	// all three would leave the row short of the line on most widths.
	var qtyPct, pricePct int
	switch {
	case paperWidth >= 80:
		qtyPct, pricePct = 15, 20
	case paperWidth >= 58:
		qtyPct, pricePct = 15, 25
	default:
		qtyPct, pricePct = 20, 25
	}
	p.QtyWidth = p.TotalColumns * qtyPct / 100
	p.PriceWidth = p.TotalColumns * pricePct / 100
	p.NameWidth = p.TotalColumns - p.QtyWidth - p.PriceWidth

	p.FeeLabelWidth = p.TotalColumns * 70 / 100
	p.FeeAmountWidth = p.TotalColumns - p.FeeLabelWidth

	switch paperWidth {
	case 58:
		p.BaseFont = 11
	case 80:
		p.BaseFont = 12
	default:
		p.BaseFont = 10
	}
	p.TitleFont = p.BaseFont + 2
	p.ItemFont = p.BaseFont + 1
	p.NormalFont = p.BaseFont

	return p
}

// WithFontTier shifts every font size by the operator's per-printer tier:
// 0 small, 1 medium (no shift), 2 large. Column arithmetic is untouched.
func (p Parameters) WithFontTier(tier int) Parameters {
	shift := tier - 1
	if shift == 0 {
		return p
	}
	p.BaseFont += shift
	p.TitleFont += shift
	p.ItemFont += shift
	p.NormalFont += shift
	return p
}
