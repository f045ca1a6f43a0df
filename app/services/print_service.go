package services

import (
	"context"
	"encoding/json"
	"fmt"

	"PrintApp/app/database"
	"PrintApp/app/models"
	"PrintApp/app/printing"

	"gorm.io/gorm"
)

// PrintService turns incoming orders into dispatched print jobs and journals
// every outcome.
type PrintService struct {
	db         *gorm.DB
	dispatcher *printing.Dispatcher
	directory  *PrinterDirectoryService
	logger     *LoggerService
}

// NewPrintService creates a new print service.
func NewPrintService(dispatcher *printing.Dispatcher, directory *PrinterDirectoryService, logger *LoggerService) *PrintService {
	return &PrintService{
		db:         database.GetDB(),
		dispatcher: dispatcher,
		directory:  directory,
		logger:     logger,
	}
}

// PrintOrder resolves the active engine and the operator's selected
// printers, fans the order out, journals the aggregate, and returns the
// report. The returned error is nil whenever at least one printer succeeded.
func (s *PrintService) PrintOrder(ctx context.Context, order *models.Order) (printing.Report, error) {
	engine, _, err := s.dispatcher.SelectEngine()
	if err != nil {
		return printing.Report{OrderID: order.OrderID}, err
	}

	printers, err := s.directory.SelectedPrinters(engine)
	if err != nil {
		return printing.Report{OrderID: order.OrderID}, err
	}

	jobs, err := s.buildJobs(order, printers)
	if err != nil {
		return printing.Report{OrderID: order.OrderID}, err
	}

	report, dispatchErr := s.dispatcher.Dispatch(ctx, order, jobs)
	s.journal(report)

	switch {
	case dispatchErr != nil:
		s.logger.LogError("Print job failed", dispatchErr, "Order: "+order.OrderID)
	case report.Failed > 0:
		s.logger.LogWarning("Print job partially succeeded",
			fmt.Sprintf("Order: %s | %s | %s", order.OrderID, report.Summary(), report.Errors()))
	default:
		s.logger.LogInfo("Print job succeeded", "Order: "+order.OrderID+" | "+report.Summary())
	}

	return report, dispatchErr
}

// HandleOrder adapts PrintOrder to the order feed's handler contract.
func (s *PrintService) HandleOrder(order *models.Order) error {
	_, err := s.PrintOrder(context.Background(), order)
	return err
}

// TestPrint runs a synthetic single-dish order through the full compose and
// dispatch path against one named printer.
func (s *PrintService) TestPrint(ctx context.Context, printerName string) (printing.Report, error) {
	engine, _, err := s.dispatcher.SelectEngine()
	if err != nil {
		return printing.Report{}, err
	}

	printers, err := s.directory.ListPrinters(engine)
	if err != nil {
		return printing.Report{}, err
	}

	var target *models.Printer
	for i := range printers {
		if printers[i].Name == printerName {
			target = &printers[i]
			break
		}
	}
	if target == nil {
		return printing.Report{}, fmt.Errorf("printer not found: %s", printerName)
	}

	order := models.TestOrder()
	jobs, err := s.buildJobs(order, []models.Printer{*target})
	if err != nil {
		return printing.Report{}, err
	}

	report, dispatchErr := s.dispatcher.Dispatch(ctx, order, jobs)
	s.journal(report)
	return report, dispatchErr
}

// buildJobs pairs each printer with its persisted per-printer options.
func (s *PrintService) buildJobs(order *models.Order, printers []models.Printer) ([]printing.Job, error) {
	jobs := make([]printing.Job, 0, len(printers))
	for _, p := range printers {
		sel, err := s.directory.Selection(p.Name)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, printing.Job{
			Order:      order,
			Printer:    p,
			AutoCut:    sel.AutoCut,
			CashDrawer: sel.CashDrawer,
			PrintQR:    sel.PrintQR,
		})
	}
	return jobs, nil
}

// journal records one PrintJob row per dispatch. Journal failures are logged
// and swallowed: bookkeeping never blocks printing.
func (s *PrintService) journal(report printing.Report) {
	if s.db == nil {
		return
	}
	results, err := json.Marshal(report.Results)
	if err != nil {
		results = []byte("[]")
	}
	job := models.PrintJob{
		OrderID:   report.OrderID,
		Engine:    report.Engine,
		Fallback:  report.Fallback,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		Results:   string(results),
	}
	if err := s.db.Create(&job).Error; err != nil {
		s.logger.LogError("Failed to journal print job", err, "Order: "+report.OrderID)
	}
}

// RecentJobs returns the most recent journal rows, newest first.
func (s *PrintService) RecentJobs(limit int) ([]models.PrintJob, error) {
	if limit <= 0 {
		limit = 50
	}
	var jobs []models.PrintJob
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to load print jobs: %w", err)
	}
	return jobs, nil
}
