package printing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"PrintApp/app/models"
)

// PrinterResult is one printer's outcome within a dispatched job.
type PrinterResult struct {
	Printer string `json:"printer"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Report aggregates a whole dispatch. A job succeeds when at least one
// printer succeeded.
type Report struct {
	OrderID   string          `json:"order_id"`
	Engine    string          `json:"engine"`
	Fallback  bool            `json:"fallback"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Results   []PrinterResult `json:"results"`
}

// Success reports whether at least one printer took the job.
func (r Report) Success() bool {
	return r.Succeeded > 0
}

// Summary renders the operator-facing outcome, e.g. "2/3 succeeded".
func (r Report) Summary() string {
	return fmt.Sprintf("%d/%d succeeded", r.Succeeded, r.Succeeded+r.Failed)
}

// Errors joins the per-printer failure messages.
func (r Report) Errors() string {
	var msgs []string
	for _, res := range r.Results {
		if !res.Success {
			msgs = append(msgs, fmt.Sprintf("%s: %s", res.Printer, res.Error))
		}
	}
	return strings.Join(msgs, "; ")
}

// Dispatcher routes orders to printers through the first available engine in
// its configured preference order, fanning each job out concurrently.
type Dispatcher struct {
	engines []Engine
}

// NewDispatcher takes the candidate engines in preference order.
func NewDispatcher(engines ...Engine) *Dispatcher {
	return &Dispatcher{engines: engines}
}

// SelectEngine returns the first available engine and whether selection fell
// back past the preferred tier.
func (d *Dispatcher) SelectEngine() (Engine, bool, error) {
	for i, engine := range d.engines {
		if engine.Available() {
			return engine, i > 0, nil
		}
	}
	return nil, false, fmt.Errorf("no print engine available")
}

// Engines exposes the configured engines, preferred first.
func (d *Dispatcher) Engines() []Engine {
	return d.engines
}

// Dispatch fans the order out to every job's printer concurrently and waits
// for all of them. Per-printer failures land in the report; the returned
// error is non-nil only when nothing printed at all (zero printers selected,
// no engine, or every printer failed).
func (d *Dispatcher) Dispatch(ctx context.Context, order *models.Order, jobs []Job) (Report, error) {
	report := Report{OrderID: order.OrderID}

	if len(jobs) == 0 {
		return report, fmt.Errorf("no printers selected")
	}

	engine, fallback, err := d.SelectEngine()
	if err != nil {
		return report, err
	}
	report.Engine = engine.Name()
	report.Fallback = fallback

	results := make([]PrinterResult, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			results[i] = PrinterResult{Printer: job.Printer.Name, Success: true}
			if err := engine.Print(ctx, job); err != nil {
				results[i].Success = false
				results[i].Error = err.Error()
			}
		}(i, job)
	}
	wg.Wait()

	report.Results = results
	for _, res := range results {
		if res.Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if !report.Success() {
		return report, fmt.Errorf("all printers failed: %s", report.Errors())
	}
	return report, nil
}
