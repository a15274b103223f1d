package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/token-dashboard/internal/domain"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ErrNothingToExport is returned for an empty positions snapshot
var ErrNothingToExport = errors.New("no positions to export")

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format    ExportFormat
	OutputDir string
	Address   string // Wallet the snapshot belongs to
	MinValue  float64
}

// PositionExporter writes positions snapshots to disk
type PositionExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewPositionExporter creates a new positions exporter
func NewPositionExporter(logger *zap.Logger) *PositionExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PositionExporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// ExportPositions writes the snapshot, largest holdings first, and returns the file path
func (pe *PositionExporter) ExportPositions(positions []domain.Position, options ExportOptions) (string, error) {
	filtered := make([]domain.Position, 0, len(positions))
	for _, p := range positions {
		if p.ValueUSD >= options.MinValue {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) == 0 {
		return "", ErrNothingToExport
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ValueUSD > filtered[j].ValueUSD
	})

	if options.OutputDir == "" {
		options.OutputDir = "."
	}
	exportedAt := pe.now()
	outputPath := filepath.Join(options.OutputDir, pe.generateFilename(options, exportedAt))

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = pe.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = pe.exportToJSON(filtered, options, exportedAt, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}

	if err != nil {
		return "", err
	}

	pe.logger.Info("Positions exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

func (pe *PositionExporter) generateFilename(options ExportOptions, at time.Time) string {
	prefix := "positions"
	if options.Address != "" {
		prefix += "_" + sanitize(domain.ShortenAddress(options.Address))
	}
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), options.Format)
}

// CSVHeaders returns the column names of the CSV export
func CSVHeaders() []string {
	return []string{"id", "symbol", "balance", "price_usd", "value_usd", "change_24h"}
}

func csvRow(p domain.Position) []string {
	price := ""
	if v, ok := p.Price(); ok {
		price = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return []string{
		p.ID,
		p.Symbol,
		strconv.FormatFloat(p.Balance, 'f', -1, 64),
		price,
		strconv.FormatFloat(p.ValueUSD, 'f', 2, 64),
		strconv.FormatFloat(p.Change24h, 'f', 2, 64),
	}
}

func (pe *PositionExporter) exportToCSV(positions []domain.Position, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, p := range positions {
		if err := writer.Write(csvRow(p)); err != nil {
			return fmt.Errorf("failed to write position %s: %w", p.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportSummary contains portfolio totals for the exported snapshot
type ExportSummary struct {
	PositionCount int    `json:"position_count"`
	TotalValueUSD string `json:"total_value_usd"`
	Change24h     string `json:"change_24h"`
	Gainers       int    `json:"gainers"`
	Losers        int    `json:"losers"`
}

func calculateSummary(positions []domain.Position) ExportSummary {
	summary := ExportSummary{
		PositionCount: len(positions),
		TotalValueUSD: domain.TotalValueUSD(positions).StringFixed(2),
		Change24h:     domain.WeightedChange24h(positions).StringFixed(2),
	}

	for _, p := range positions {
		switch p.Direction() {
		case domain.DirectionUp:
			summary.Gainers++
		case domain.DirectionDown:
			summary.Losers++
		}
	}

	return summary
}

func (pe *PositionExporter) exportToJSON(positions []domain.Position, options ExportOptions, at time.Time, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time         `json:"export_time"`
		Address    string            `json:"address,omitempty"`
		Summary    ExportSummary     `json:"summary"`
		Positions  []domain.Position `json:"positions"`
	}{
		ExportTime: at,
		Address:    options.Address,
		Summary:    calculateSummary(positions),
		Positions:  positions,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func sanitize(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			out = append(out, c)
		}
	}
	return string(out)
}
