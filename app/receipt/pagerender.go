package receipt

import (
	"fmt"
	"strconv"
)

// PageComposer is the page-composition capability boundary. The vendor
// print-control plugin satisfies it when present; the core never sniffs for
// it and receives the handle (or nil) at construction time.
type PageComposer interface {
	EnumeratePrinters() ([]string, error)
	BeginPage(widthMM, heightMM float64, title string) error
	SelectPrinter(name string) error
	PlaceText(topMM, leftMM, widthMM, heightMM float64, text string) error
	SetStyle(index int, property, value string) error
	Submit() (bool, error)
}

// Vertical advance per printed line and per blank spacer, in mm.
const (
	lineHeightMM  = 4.2
	blankHeightMM = lineHeightMM / 2
)

// RenderPage walks the composed lines and issues one positioned placement
// plus its style directives per non-blank line against the capability, then
// submits the page. It uses the same role -> font/emphasis mapping as the
// ESC/POS path so both engines print visually equivalent receipts.
func RenderPage(pc PageComposer, printerName, title string, lines []Line, p Parameters) error {
	height := p.MarginTop + p.MarginBottom
	for _, line := range lines {
		if line.Role == RoleBlank {
			height += blankHeightMM
		} else {
			height += lineHeightMM
		}
	}

	if err := pc.BeginPage(float64(p.PaperWidth), height, title); err != nil {
		return fmt.Errorf("begin page: %w", err)
	}
	if err := pc.SelectPrinter(printerName); err != nil {
		return fmt.Errorf("select printer %s: %w", printerName, err)
	}

	y := p.MarginTop
	index := 0
	for _, line := range lines {
		if line.Role == RoleBlank {
			y += blankHeightMM
			continue
		}
		if err := pc.PlaceText(y, p.MarginLeft, p.TextAreaWidth, lineHeightMM, line.Text); err != nil {
			return fmt.Errorf("place text: %w", err)
		}
		style := StyleFor(line.Role, p)
		if err := pc.SetStyle(index, "fontSize", strconv.Itoa(style.FontSize)); err != nil {
			return fmt.Errorf("set style: %w", err)
		}
		if style.Bold {
			if err := pc.SetStyle(index, "fontWeight", "bold"); err != nil {
				return fmt.Errorf("set style: %w", err)
			}
		}
		if err := pc.SetStyle(index, "textAlign", "left"); err != nil {
			return fmt.Errorf("set style: %w", err)
		}
		index++
		y += lineHeightMM
	}

	ok, err := pc.Submit()
	if err != nil {
		return fmt.Errorf("submit page: %w", err)
	}
	if !ok {
		return fmt.Errorf("print control rejected the page for %s", printerName)
	}
	return nil
}
