package printing

import (
	"context"

	"PrintApp/app/models"
)

// Engine names as they appear in configuration and job records.
const (
	EngineHelper = "helper"
	EngineNative = "native"
	EnginePage   = "page"
)

// Job is one printer's share of a dispatched order. Each job owns its own
// layout: paper width differs per printer, so the rendered text does too.
type Job struct {
	Order   *models.Order
	Printer models.Printer

	// Per-printer toggles carried over from the operator's selection.
	AutoCut    bool
	CashDrawer bool
	PrintQR    bool
}

// Engine is one interchangeable print backend. Available must be cheap after
// the first call: implementations probe once and cache the result for the
// life of the process.
type Engine interface {
	Name() string
	Available() bool
	Printers() ([]models.Printer, error)
	Print(ctx context.Context, job Job) error
}
