package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	pipeerrors "github.com/tradeforge/etf-direction/internal/errors"
	"github.com/tradeforge/etf-direction/pkg/types"
)

// Column-name conventions of the input table
const (
	dateColumn   = "DATE"
	volumeColumn = "VOLUME"
	closePrefix  = "CLOSE_"
	openColumn   = "OPEN"
	highColumn   = "HIGH"
	lowColumn    = "LOW"
)

// DefaultDateFormat parses the date column
const DefaultDateFormat = "2006-01-02"

// CSVProvider implements Provider for CSV files carrying one target asset's
// daily bars plus arbitrary additional numeric columns treated as exogenous
// features. Required columns: DATE, VOLUME and CLOSE_<target>. Every other
// CLOSE_<asset> column becomes an auxiliary close keyed by asset name; any
// remaining numeric column is kept under its own header.
type CSVProvider struct {
	targetAsset string
	dateFormat  string
}

// NewCSVProvider creates a CSV provider for the given target asset
func NewCSVProvider(targetAsset string) *CSVProvider {
	return &CSVProvider{
		targetAsset: targetAsset,
		dateFormat:  DefaultDateFormat,
	}
}

// WithDateFormat overrides the date layout used for the DATE column
func (p *CSVProvider) WithDateFormat(layout string) *CSVProvider {
	p.dateFormat = layout
	return p
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads the daily bar history from a CSV file. Rows with
// unparseable values are skipped with a logged warning; non-monotonic or
// duplicate dates fail the whole load.
func (p *CSVProvider) LoadData(source string) ([]types.Bar, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, pipeerrors.NewDataError("data", "open", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, pipeerrors.NewDataError("data", "read_header", err)
	}

	layout, err := p.mapColumns(header)
	if err != nil {
		return nil, err
	}

	var bars []types.Bar
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, pipeerrors.NewDataError("data", "read_row",
				fmt.Errorf("line %d: %w", lineNum, err))
		}
		lineNum++

		bar, ok := p.parseRow(record, layout, lineNum)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}

	if err := p.ValidateData(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// columnLayout maps header names to record indices
type columnLayout struct {
	date   int
	volume int
	close  int
	open   int // -1 when absent
	high   int
	low    int
	aux    map[string]int // auxiliary feature name -> column index
}

func (p *CSVProvider) mapColumns(header []string) (*columnLayout, error) {
	layout := &columnLayout{date: -1, volume: -1, close: -1, open: -1, high: -1, low: -1, aux: map[string]int{}}
	targetClose := closePrefix + strings.ToUpper(p.targetAsset)

	for i, raw := range header {
		name := strings.ToUpper(strings.TrimSpace(raw))
		switch {
		case name == dateColumn:
			layout.date = i
		case name == volumeColumn:
			layout.volume = i
		case name == targetClose:
			layout.close = i
		case name == openColumn:
			layout.open = i
		case name == highColumn:
			layout.high = i
		case name == lowColumn:
			layout.low = i
		case strings.HasPrefix(name, closePrefix):
			layout.aux[strings.TrimPrefix(name, closePrefix)] = i
		default:
			layout.aux[name] = i
		}
	}

	if layout.date < 0 {
		return nil, pipeerrors.NewValidationError("data", "map_columns", "missing required column DATE")
	}
	if layout.volume < 0 {
		return nil, pipeerrors.NewValidationError("data", "map_columns", "missing required column VOLUME")
	}
	if layout.close < 0 {
		return nil, pipeerrors.NewValidationError("data", "map_columns",
			fmt.Sprintf("missing required column %s", targetClose))
	}
	return layout, nil
}

func (p *CSVProvider) parseRow(record []string, layout *columnLayout, lineNum int) (types.Bar, bool) {
	date, err := time.Parse(p.dateFormat, strings.TrimSpace(record[layout.date]))
	if err != nil {
		log.Printf("invalid date %q at line %d, skipping: %v", record[layout.date], lineNum, err)
		return types.Bar{}, false
	}

	closePrice, err := parseField(record, layout.close)
	if err != nil {
		log.Printf("invalid close %q at line %d, skipping", record[layout.close], lineNum)
		return types.Bar{}, false
	}
	volume, err := parseField(record, layout.volume)
	if err != nil {
		log.Printf("invalid volume %q at line %d, skipping", record[layout.volume], lineNum)
		return types.Bar{}, false
	}
	if closePrice <= 0 {
		log.Printf("non-positive close at line %d, skipping", lineNum)
		return types.Bar{}, false
	}

	bar := types.Bar{
		Date:     date,
		Close:    closePrice,
		Volume:   volume,
		AuxClose: make(map[string]float64, len(layout.aux)),
	}
	if layout.open >= 0 {
		bar.Open, _ = parseField(record, layout.open)
	}
	if layout.high >= 0 {
		bar.High, _ = parseField(record, layout.high)
	}
	if layout.low >= 0 {
		bar.Low, _ = parseField(record, layout.low)
	}

	for name, idx := range layout.aux {
		v, err := parseField(record, idx)
		if err != nil {
			log.Printf("invalid value for %s at line %d, skipping row", name, lineNum)
			return types.Bar{}, false
		}
		bar.AuxClose[name] = v
	}
	return bar, true
}

func parseField(record []string, idx int) (float64, error) {
	if idx >= len(record) {
		return 0, fmt.Errorf("missing column %d", idx)
	}
	return strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
}

// ValidateData validates the ordering invariant of the loaded history
func (p *CSVProvider) ValidateData(bars []types.Bar) error {
	if len(bars) == 0 {
		return pipeerrors.NewInsufficientDataError("data", "validate", "no usable rows in input")
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			return pipeerrors.NewValidationError("data", "validate",
				fmt.Sprintf("dates must be strictly increasing: %s at row %d does not follow %s",
					bars[i].Date.Format("2006-01-02"), i, bars[i-1].Date.Format("2006-01-02")))
		}
	}
	return nil
}
