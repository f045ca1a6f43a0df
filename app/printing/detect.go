package printing

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"PrintApp/app/models"
)

// DetectSystemPrinters enumerates the printers the OS spooler knows about
// and classifies each by name. This backs the native engine's directory.
func DetectSystemPrinters() ([]models.Printer, error) {
	switch runtime.GOOS {
	case "windows":
		return detectWindowsPrinters()
	case "linux", "darwin":
		return detectCUPSPrinters()
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// windowsPrinterRecord mirrors the fields Get-Printer emits as JSON.
type windowsPrinterRecord struct {
	Name          string `json:"Name"`
	PrinterStatus int    `json:"PrinterStatus"`
}

// detectWindowsPrinters queries the spooler through PowerShell.
func detectWindowsPrinters() ([]models.Printer, error) {
	cmd := exec.Command("powershell", "-Command",
		`Get-Printer | Select-Object Name, PrinterStatus | ConvertTo-Json`)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to detect printers: %w", err)
	}
	return parseWindowsPrinterJSON(output)
}

func parseWindowsPrinterJSON(output []byte) ([]models.Printer, error) {
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return nil, nil
	}
	// ConvertTo-Json emits a bare object for a single printer and an array
	// otherwise.
	var records []windowsPrinterRecord
	if strings.HasPrefix(trimmed, "{") {
		var one windowsPrinterRecord
		if err := json.Unmarshal([]byte(trimmed), &one); err != nil {
			return nil, fmt.Errorf("failed to parse printer list: %w", err)
		}
		records = []windowsPrinterRecord{one}
	} else {
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, fmt.Errorf("failed to parse printer list: %w", err)
		}
	}

	var printers []models.Printer
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		p := models.ClassifyPrinter(rec.Name, EngineNative)
		// PrinterStatus 3 is "idle" in the spooler's enumeration.
		if rec.PrinterStatus == 3 {
			p.Status = "online"
		}
		printers = append(printers, p)
	}
	return printers, nil
}

// detectCUPSPrinters enumerates via lpstat on Linux and macOS.
func detectCUPSPrinters() ([]models.Printer, error) {
	cmd := exec.Command("lpstat", "-p", "-d")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to detect printers (is CUPS installed?): %w", err)
	}
	return parseCUPSOutput(string(output)), nil
}

// parseCUPSOutput parses lpstat lines of the form
// "printer NAME is idle. enabled since ..." plus the default destination.
func parseCUPSOutput(output string) []models.Printer {
	var printers []models.Printer
	var defaultName string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "system default destination:") {
			defaultName = strings.TrimSpace(strings.TrimPrefix(line, "system default destination:"))
			continue
		}
		if !strings.HasPrefix(line, "printer ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		p := models.ClassifyPrinter(fields[1], EngineNative)
		switch {
		case strings.Contains(line, "idle"):
			p.Status = "online"
		case strings.Contains(line, "disabled"):
			p.Status = "offline"
		}
		printers = append(printers, p)
	}

	for i := range printers {
		if printers[i].Name == defaultName {
			printers[i].IsDefault = true
		}
	}
	return printers
}
