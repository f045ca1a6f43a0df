package models

import (
	"strings"
	"time"
)

// Printer font size tiers selectable per printer.
const (
	FontSmall  = 0
	FontMedium = 1
	FontLarge  = 2
)

// Printer is one enumerated target as shown to the operator. It is rebuilt
// on every enumeration; only the selection flags survive via PrinterSelection.
type Printer struct {
	Name      string `json:"name"`
	Engine    string `json:"engine"`
	Width     int    `json:"width"` // paper width in mm
	IsThermal bool   `json:"isThermal"`
	Status    string `json:"status"`
	IsEnabled bool   `json:"isEnabled"`
	FontSize  int    `json:"fontSize"`
	IsDefault bool   `json:"isDefault"`
}

var thermalKeywords = []string{"thermal", "receipt", "pos", "tm-", "rp-", "58", "80"}

// ClassifyPrinter fills width and thermal flags from a printer's name. The
// name is the only signal most spoolers expose, so classification is a
// keyword heuristic: "58" in the name means 58mm paper, "80" or any thermal
// keyword means 80mm, anything else is treated as plain A4-class 210mm.
func ClassifyPrinter(name, engine string) Printer {
	lower := strings.ToLower(name)

	thermal := false
	for _, kw := range thermalKeywords {
		if strings.Contains(lower, kw) {
			thermal = true
			break
		}
	}

	width := 210
	switch {
	case strings.Contains(lower, "58"):
		width = 58
	case strings.Contains(lower, "80"):
		width = 80
	case thermal:
		width = 80
	}

	return Printer{
		Name:      name,
		Engine:    engine,
		Width:     width,
		IsThermal: thermal,
		Status:    "unknown",
		FontSize:  FontMedium,
	}
}

// PrinterSelection persists the operator's per-printer choices across
// enumerations, keyed by printer name. Stale rows (printer gone) are pruned
// when the directory validates against a fresh enumeration.
type PrinterSelection struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"uniqueIndex;not null" json:"name"`
	Engine     string    `json:"engine"`
	IsEnabled  bool      `json:"is_enabled"`
	FontSize   int       `gorm:"default:1" json:"font_size"`
	IsDefault  bool      `json:"is_default"`
	AutoCut    bool      `gorm:"default:true" json:"auto_cut"`
	CashDrawer bool      `json:"cash_drawer"`
	PrintQR    bool      `json:"print_qr"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PrintJob is the journal row written after every dispatch, one per order.
type PrintJob struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   string    `gorm:"index" json:"order_id"`
	Engine    string    `json:"engine"`
	Fallback  bool      `json:"fallback"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Results   string    `gorm:"type:text" json:"results"` // per-printer outcomes, JSON
	CreatedAt time.Time `json:"created_at"`
}
