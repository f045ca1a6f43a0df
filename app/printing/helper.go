package printing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"PrintApp/app/models"
	"PrintApp/app/receipt"
)

// Helper invocations that spool a job get the long budget; enumeration and
// status probes get the short one.
const (
	helperPrintTimeout = 10 * time.Second
	helperProbeTimeout = 5 * time.Second
)

// CommandRunner executes an external helper command and returns its stdout.
// It exists so tests can run the engine without a compiled helper binary.
type CommandRunner interface {
	Run(ctx context.Context, path string, stdin []byte, args ...string) ([]byte, error)
}

// HelperEngine drives the compiled print helper process. The helper speaks a
// small CLI: `list` prints one printer name per line, `print --printer NAME`
// reads the raw ESC/POS job from stdin.
type HelperEngine struct {
	path   string
	runner CommandRunner

	probeOnce sync.Once
	available bool
}

// NewHelperEngine builds the engine for the helper binary at path. An empty
// path means the helper is not installed.
func NewHelperEngine(path string, runner CommandRunner) *HelperEngine {
	if runner == nil {
		runner = execRunner{}
	}
	return &HelperEngine{path: path, runner: runner}
}

func (e *HelperEngine) Name() string { return EngineHelper }

// Available checks once whether the helper binary exists and answers `list`.
func (e *HelperEngine) Available() bool {
	e.probeOnce.Do(func() {
		if e.path == "" {
			return
		}
		if _, err := os.Stat(e.path); err != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), helperProbeTimeout)
		defer cancel()
		_, err := e.runner.Run(ctx, e.path, nil, "list")
		e.available = err == nil
	})
	return e.available
}

func (e *HelperEngine) Printers() ([]models.Printer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), helperProbeTimeout)
	defer cancel()

	output, err := e.runner.Run(ctx, e.path, nil, "list")
	if err != nil {
		return nil, fmt.Errorf("helper enumeration failed: %w", err)
	}

	var printers []models.Printer
	for _, name := range strings.Split(string(output), "\n") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		printers = append(printers, models.ClassifyPrinter(name, EngineHelper))
	}
	return printers, nil
}

func (e *HelperEngine) Print(ctx context.Context, job Job) error {
	params := receipt.ResolveParameters(job.Printer.Width).WithFontTier(job.Printer.FontSize)
	lines := receipt.Compose(job.Order, params)

	opts := receipt.EscposOptions{AutoCut: job.AutoCut, CashDrawer: job.CashDrawer}
	if job.PrintQR {
		opts.QRContent = job.Order.OrderID
	}
	raw := receipt.RenderEscpos(lines, params, opts)

	ctx, cancel := context.WithTimeout(ctx, helperPrintTimeout)
	defer cancel()

	if _, err := e.runner.Run(ctx, e.path, raw, "print", "--printer", job.Printer.Name); err != nil {
		return fmt.Errorf("helper print to %s: %w", job.Printer.Name, err)
	}
	return nil
}

// execRunner runs the helper as a real subprocess.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, path string, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("helper timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("helper failed: %v - %s", err, string(output))
	}
	return output, nil
}
