package printing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"PrintApp/app/models"
)

// fakeEngine lets dispatcher tests control availability and per-printer
// outcomes without touching any spooler.
type fakeEngine struct {
	name      string
	available bool
	failFor   map[string]error

	mu      sync.Mutex
	printed []string
}

func (e *fakeEngine) Name() string    { return e.name }
func (e *fakeEngine) Available() bool { return e.available }

func (e *fakeEngine) Printers() ([]models.Printer, error) {
	return nil, nil
}

func (e *fakeEngine) Print(ctx context.Context, job Job) error {
	e.mu.Lock()
	e.printed = append(e.printed, job.Printer.Name)
	e.mu.Unlock()
	if err, ok := e.failFor[job.Printer.Name]; ok {
		return err
	}
	return nil
}

func jobsFor(names ...string) []Job {
	order := models.TestOrder()
	jobs := make([]Job, len(names))
	for i, name := range names {
		jobs[i] = Job{Order: order, Printer: models.Printer{Name: name, Width: 80}}
	}
	return jobs
}

func TestSelectEnginePreferenceOrder(t *testing.T) {
	tests := []struct {
		name         string
		available    []bool
		wantEngine   string
		wantFallback bool
		wantErr      bool
	}{
		{"preferred available", []bool{true, true}, "first", false, false},
		{"fall back to second", []bool{false, true}, "second", true, false},
		{"fall back to third", []bool{false, false, true}, "third", true, false},
		{"none available", []bool{false, false}, "", false, true},
	}
	names := []string{"first", "second", "third"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engines := make([]Engine, len(tt.available))
			for i, avail := range tt.available {
				engines[i] = &fakeEngine{name: names[i], available: avail}
			}
			d := NewDispatcher(engines...)

			engine, fallback, err := d.SelectEngine()
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if engine.Name() != tt.wantEngine || fallback != tt.wantFallback {
				t.Errorf("selected %s fallback=%v, want %s fallback=%v",
					engine.Name(), fallback, tt.wantEngine, tt.wantFallback)
			}
		})
	}
}

func TestDispatchPartialFailure(t *testing.T) {
	engine := &fakeEngine{
		name:      EngineNative,
		available: true,
		failFor:   map[string]error{"Kitchen": errors.New("paper jam")},
	}
	d := NewDispatcher(engine)

	report, err := d.Dispatch(context.Background(), models.TestOrder(),
		jobsFor("Front", "Kitchen", "Bar"))
	if err != nil {
		t.Fatalf("partial failure must not fail the dispatch: %v", err)
	}
	if report.Succeeded != 2 || report.Failed != 1 {
		t.Errorf("succeeded/failed = %d/%d, want 2/1", report.Succeeded, report.Failed)
	}
	if !report.Success() {
		t.Error("report with one success must report Success")
	}
	if report.Summary() != "2/3 succeeded" {
		t.Errorf("Summary() = %q, want 2/3 succeeded", report.Summary())
	}
	if !strings.Contains(report.Errors(), "Kitchen: paper jam") {
		t.Errorf("Errors() = %q, missing Kitchen failure", report.Errors())
	}
	if len(report.Results) != 3 {
		t.Errorf("results = %d, want one per printer", len(report.Results))
	}
}

func TestDispatchAllFailed(t *testing.T) {
	engine := &fakeEngine{
		name:      EngineNative,
		available: true,
		failFor:   map[string]error{"Only": errors.New("offline")},
	}
	d := NewDispatcher(engine)

	report, err := d.Dispatch(context.Background(), models.TestOrder(), jobsFor("Only"))
	if err == nil {
		t.Fatal("all-failed dispatch must return an error")
	}
	if !strings.Contains(err.Error(), "Only: offline") {
		t.Errorf("err = %v, want per-printer detail", err)
	}
	if report.Success() {
		t.Error("all-failed report must not report Success")
	}
	if len(report.Results) != 1 {
		t.Errorf("results = %d, want 1", len(report.Results))
	}
}

func TestDispatchNoPrinters(t *testing.T) {
	d := NewDispatcher(&fakeEngine{name: EngineNative, available: true})

	_, err := d.Dispatch(context.Background(), models.TestOrder(), nil)
	if err == nil || !strings.Contains(err.Error(), "no printers selected") {
		t.Errorf("err = %v, want no-printers error", err)
	}
}

func TestDispatchNoEngine(t *testing.T) {
	d := NewDispatcher(&fakeEngine{name: EngineHelper, available: false})

	_, err := d.Dispatch(context.Background(), models.TestOrder(), jobsFor("Front"))
	if err == nil {
		t.Fatal("dispatch without an available engine must fail")
	}
}

func TestDispatchReportMetadata(t *testing.T) {
	preferred := &fakeEngine{name: EngineHelper, available: false}
	backup := &fakeEngine{name: EngineNative, available: true}
	d := NewDispatcher(preferred, backup)

	order := models.TestOrder()
	report, err := d.Dispatch(context.Background(), order, jobsFor("Front"))
	if err != nil {
		t.Fatal(err)
	}
	if report.Engine != EngineNative || !report.Fallback {
		t.Errorf("engine/fallback = %s/%v, want %s/true", report.Engine, report.Fallback, EngineNative)
	}
	if report.OrderID != order.OrderID {
		t.Errorf("OrderID = %q, want %q", report.OrderID, order.OrderID)
	}
	if len(preferred.printed) != 0 {
		t.Error("unavailable engine must not receive jobs")
	}
	if len(backup.printed) != 1 {
		t.Errorf("backup printed %d jobs, want 1", len(backup.printed))
	}
}
