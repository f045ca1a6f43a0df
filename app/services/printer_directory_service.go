package services

import (
	"fmt"

	"PrintApp/app/database"
	"PrintApp/app/models"
	"PrintApp/app/printing"

	"gorm.io/gorm"
)

// PrinterDirectoryService enumerates printers through the active engine and
// overlays the operator's persisted selections. Selections are keyed by
// printer name so they survive re-enumeration; rows whose printer is gone
// are pruned.
type PrinterDirectoryService struct {
	db *gorm.DB
}

// NewPrinterDirectoryService creates a new printer directory service.
func NewPrinterDirectoryService() *PrinterDirectoryService {
	return &PrinterDirectoryService{db: database.GetDB()}
}

// ListPrinters returns the engine's current printers with selection state
// applied, pruning selections whose printer no longer exists.
func (s *PrinterDirectoryService) ListPrinters(engine printing.Engine) ([]models.Printer, error) {
	printers, err := engine.Printers()
	if err != nil {
		return nil, fmt.Errorf("printer enumeration failed: %w", err)
	}

	selections, err := s.selectionsForEngine(engine.Name())
	if err != nil {
		return nil, err
	}

	byName := make(map[string]models.PrinterSelection, len(selections))
	for _, sel := range selections {
		byName[sel.Name] = sel
	}

	present := make(map[string]bool, len(printers))
	for i := range printers {
		present[printers[i].Name] = true
		if sel, ok := byName[printers[i].Name]; ok {
			printers[i].IsEnabled = sel.IsEnabled
			printers[i].FontSize = sel.FontSize
			if sel.IsDefault {
				printers[i].IsDefault = true
			}
		}
	}

	// Drop stale selections.
	for _, sel := range selections {
		if !present[sel.Name] {
			if err := s.db.Delete(&models.PrinterSelection{}, sel.ID).Error; err != nil {
				return nil, fmt.Errorf("failed to prune stale selection %s: %w", sel.Name, err)
			}
		}
	}

	return printers, nil
}

// SelectedPrinters returns only the printers the operator has enabled.
func (s *PrinterDirectoryService) SelectedPrinters(engine printing.Engine) ([]models.Printer, error) {
	printers, err := s.ListPrinters(engine)
	if err != nil {
		return nil, err
	}
	var selected []models.Printer
	for _, p := range printers {
		if p.IsEnabled {
			selected = append(selected, p)
		}
	}
	return selected, nil
}

// UpdateSelection upserts the operator's choices for one printer.
func (s *PrinterDirectoryService) UpdateSelection(sel models.PrinterSelection) error {
	if sel.Name == "" {
		return fmt.Errorf("printer name required")
	}

	var existing models.PrinterSelection
	err := s.db.Where("name = ?", sel.Name).First(&existing).Error
	switch {
	case err == nil:
		sel.ID = existing.ID
		sel.CreatedAt = existing.CreatedAt
		return s.db.Save(&sel).Error
	case err == gorm.ErrRecordNotFound:
		return s.db.Create(&sel).Error
	default:
		return fmt.Errorf("failed to load selection %s: %w", sel.Name, err)
	}
}

// Selection returns the persisted choices for one printer, or defaults when
// none were saved.
func (s *PrinterDirectoryService) Selection(name string) (models.PrinterSelection, error) {
	var sel models.PrinterSelection
	err := s.db.Where("name = ?", name).First(&sel).Error
	if err == gorm.ErrRecordNotFound {
		return models.PrinterSelection{Name: name, FontSize: models.FontMedium, AutoCut: true}, nil
	}
	if err != nil {
		return sel, fmt.Errorf("failed to load selection %s: %w", name, err)
	}
	return sel, nil
}

func (s *PrinterDirectoryService) selectionsForEngine(engine string) ([]models.PrinterSelection, error) {
	var selections []models.PrinterSelection
	if err := s.db.Where("engine = ? OR engine = ''", engine).Find(&selections).Error; err != nil {
		return nil, fmt.Errorf("failed to load printer selections: %w", err)
	}
	return selections, nil
}
