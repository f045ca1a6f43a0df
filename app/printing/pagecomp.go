package printing

import (
	"context"
	"fmt"

	"PrintApp/app/models"
	"PrintApp/app/receipt"
)

// VirtualPrinterName is the placeholder entry shown when the print control
// is not connected, so the operator never faces an empty printer list.
const VirtualPrinterName = "Virtual Printer (print control not connected)"

// PageEngine prints through the vendor page-composition capability. The
// capability handle is injected fully resolved; nil means the plugin is not
// reachable and the engine degrades to a placeholder directory.
type PageEngine struct {
	pc receipt.PageComposer
}

func NewPageEngine(pc receipt.PageComposer) *PageEngine {
	return &PageEngine{pc: pc}
}

func (e *PageEngine) Name() string { return EnginePage }

func (e *PageEngine) Available() bool { return e.pc != nil }

// Printers enumerates through the capability, or synthesizes the virtual
// placeholder when the capability is absent.
func (e *PageEngine) Printers() ([]models.Printer, error) {
	if e.pc == nil {
		virtual := models.ClassifyPrinter(VirtualPrinterName, EnginePage)
		virtual.Width = 80
		virtual.IsThermal = true
		virtual.Status = "offline"
		return []models.Printer{virtual}, nil
	}

	names, err := e.pc.EnumeratePrinters()
	if err != nil {
		return nil, fmt.Errorf("print control enumeration failed: %w", err)
	}
	var printers []models.Printer
	for _, name := range names {
		if name == "" {
			continue
		}
		printers = append(printers, models.ClassifyPrinter(name, EnginePage))
	}
	return printers, nil
}

func (e *PageEngine) Print(ctx context.Context, job Job) error {
	if e.pc == nil {
		return fmt.Errorf("print control not connected")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := receipt.ResolveParameters(job.Printer.Width).WithFontTier(job.Printer.FontSize)
	lines := receipt.Compose(job.Order, params)
	title := "#" + job.Order.OrderID

	return receipt.RenderPage(e.pc, job.Printer.Name, title, lines, params)
}
