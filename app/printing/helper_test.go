package printing

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"PrintApp/app/models"
)

// fakeRunner plays the helper binary for engine tests.
type fakeRunner struct {
	listOutput string
	listErr    error
	printErr   error

	lastArgs  []string
	lastStdin []byte
}

func (f *fakeRunner) Run(ctx context.Context, path string, stdin []byte, args ...string) ([]byte, error) {
	f.lastArgs = args
	f.lastStdin = stdin
	if len(args) > 0 && args[0] == "list" {
		return []byte(f.listOutput), f.listErr
	}
	return nil, f.printErr
}

// helperStub drops a file on disk so the engine's stat probe passes.
func helperStub(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "print-helper")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHelperEngineAvailable(t *testing.T) {
	t.Run("probe succeeds", func(t *testing.T) {
		e := NewHelperEngine(helperStub(t), &fakeRunner{listOutput: "Front\n"})
		if !e.Available() {
			t.Error("engine with working helper should be available")
		}
	})

	t.Run("empty path", func(t *testing.T) {
		e := NewHelperEngine("", &fakeRunner{})
		if e.Available() {
			t.Error("engine without a configured helper should be unavailable")
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		e := NewHelperEngine(filepath.Join(t.TempDir(), "nope"), &fakeRunner{})
		if e.Available() {
			t.Error("engine with missing binary should be unavailable")
		}
	})

	t.Run("probe fails", func(t *testing.T) {
		e := NewHelperEngine(helperStub(t), &fakeRunner{listErr: errors.New("boom")})
		if e.Available() {
			t.Error("engine whose list probe fails should be unavailable")
		}
	})
}

func TestHelperEnginePrinters(t *testing.T) {
	runner := &fakeRunner{listOutput: "Thermal 80 Front\n\nOffice Laser\n  \n"}
	e := NewHelperEngine(helperStub(t), runner)

	printers, err := e.Printers()
	if err != nil {
		t.Fatal(err)
	}
	if len(printers) != 2 {
		t.Fatalf("printers = %d, want 2 (blank lines skipped)", len(printers))
	}
	if printers[0].Name != "Thermal 80 Front" || printers[0].Width != 80 {
		t.Errorf("first printer = %+v", printers[0])
	}
	if printers[1].Engine != EngineHelper {
		t.Errorf("engine tag = %q, want %q", printers[1].Engine, EngineHelper)
	}
}

func TestHelperEnginePrint(t *testing.T) {
	runner := &fakeRunner{}
	e := NewHelperEngine(helperStub(t), runner)

	job := Job{
		Order:   models.TestOrder(),
		Printer: models.Printer{Name: "Front Counter", Width: 80},
		AutoCut: true,
	}
	if err := e.Print(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	wantArgs := []string{"print", "--printer", "Front Counter"}
	if len(runner.lastArgs) != 3 {
		t.Fatalf("args = %v, want %v", runner.lastArgs, wantArgs)
	}
	for i, a := range wantArgs {
		if runner.lastArgs[i] != a {
			t.Fatalf("args = %v, want %v", runner.lastArgs, wantArgs)
		}
	}
	if !bytes.HasPrefix(runner.lastStdin, []byte{0x1B, '@'}) {
		t.Error("stdin does not carry an ESC/POS stream")
	}
	if !bytes.Contains(runner.lastStdin, []byte{0x1D, 'V', 66, 0}) {
		t.Error("AutoCut job missing cut sequence")
	}
}

func TestHelperEnginePrintFailure(t *testing.T) {
	runner := &fakeRunner{printErr: errors.New("spooler rejected")}
	e := NewHelperEngine(helperStub(t), runner)

	err := e.Print(context.Background(), Job{
		Order:   models.TestOrder(),
		Printer: models.Printer{Name: "Front", Width: 80},
	})
	if err == nil {
		t.Fatal("helper failure must surface")
	}
}
