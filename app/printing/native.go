package printing

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"PrintApp/app/models"
	"PrintApp/app/receipt"
)

// A spooler invocation spawns an external process; bound it so a hung
// spooler surfaces as a per-printer failure instead of wedging the dispatch.
const nativePrintTimeout = 10 * time.Second

// RawPrinter is the OS-native print capability: hand a named printer a raw
// byte stream and report the outcome.
type RawPrinter interface {
	Print(ctx context.Context, printerName string, raw []byte) error
}

// NativeEngine prints ESC/POS byte streams through the OS spooler.
type NativeEngine struct {
	raw RawPrinter

	probeOnce sync.Once
	available bool
}

// NewNativeEngine builds the engine around a raw print capability. Pass
// NewSystemRawPrinter for the real spooler.
func NewNativeEngine(raw RawPrinter) *NativeEngine {
	return &NativeEngine{raw: raw}
}

func (e *NativeEngine) Name() string { return EngineNative }

// Available probes the spooler tooling once and caches the answer.
func (e *NativeEngine) Available() bool {
	e.probeOnce.Do(func() {
		if e.raw == nil {
			return
		}
		tool := "lp"
		if runtime.GOOS == "windows" {
			tool = "powershell"
		}
		_, err := exec.LookPath(tool)
		e.available = err == nil
	})
	return e.available
}

func (e *NativeEngine) Printers() ([]models.Printer, error) {
	return DetectSystemPrinters()
}

func (e *NativeEngine) Print(ctx context.Context, job Job) error {
	params := receipt.ResolveParameters(job.Printer.Width).WithFontTier(job.Printer.FontSize)
	lines := receipt.Compose(job.Order, params)

	opts := receipt.EscposOptions{AutoCut: job.AutoCut, CashDrawer: job.CashDrawer}
	if job.PrintQR {
		opts.QRContent = job.Order.OrderID
	}
	raw := receipt.RenderEscpos(lines, params, opts)

	ctx, cancel := context.WithTimeout(ctx, nativePrintTimeout)
	defer cancel()

	if err := e.raw.Print(ctx, job.Printer.Name, raw); err != nil {
		return fmt.Errorf("native print to %s: %w", job.Printer.Name, err)
	}
	return nil
}

// SystemRawPrinter spools raw bytes with the platform's own tooling: lp on
// Linux/macOS, a raw copy to the shared printer on Windows. Each call owns a
// transient spool file and removes it on every exit path.
type SystemRawPrinter struct{}

func NewSystemRawPrinter() *SystemRawPrinter {
	return &SystemRawPrinter{}
}

func (s *SystemRawPrinter) Print(ctx context.Context, printerName string, raw []byte) error {
	tmp, err := os.CreateTemp("", "printjob_*.prn")
	if err != nil {
		return fmt.Errorf("failed to create spool file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write spool file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close spool file: %w", err)
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		// A binary copy to the printer share bypasses the driver and keeps
		// the ESC/POS bytes intact.
		cmd = exec.CommandContext(ctx, "cmd", "/C",
			fmt.Sprintf(`copy /B "%s" "\\localhost\%s"`, tmpPath, printerName))
	} else {
		cmd = exec.CommandContext(ctx, "lp", "-d", printerName, "-o", "raw", tmpPath)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("spooler rejected job for %s: %v - %s", printerName, err, string(output))
	}
	return nil
}
