package sheets

import (
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Config locates the split table and the totals table in a spreadsheet.
type Config struct {
	SpreadsheetID string
	SplitRange    string
	TotalsRange   string
}

// ConfigFromEnv reads SPREADSHEET_ID, SPLIT_RANGE and TOTALS_RANGE.
func ConfigFromEnv() Config {
	return Config{
		SpreadsheetID: os.Getenv("SPREADSHEET_ID"),
		SplitRange:    getEnvWithDefault("SPLIT_RANGE", "Split!A1:Z200"),
		TotalsRange:   getEnvWithDefault("TOTALS_RANGE", "Totals!A1"),
	}
}

// Enabled reports whether a spreadsheet is configured.
func (c Config) Enabled() bool {
	return c.SpreadsheetID != ""
}

// totalsRows bounds how many rows below the totals start cell are cleared.
const totalsRows = 1000

// totalsClearRange covers the two totals columns starting at the configured
// start cell so stale rows from a longer previous result disappear.
func (c Config) totalsClearRange() string {
	col, row := startCell(c.TotalsRange)
	from, _ := excelize.CoordinatesToCellName(col, row)
	to, _ := excelize.CoordinatesToCellName(col+1, row+totalsRows-1)
	return sheetName(c.TotalsRange) + "!" + from + ":" + to
}

func sheetName(range_ string) string {
	return strings.Split(range_, "!")[0]
}

// startCell returns the column and row of the first cell of an A1 range,
// falling back to A1 when the range names only a sheet.
func startCell(range_ string) (col, row int) {
	_, cells, ok := strings.Cut(range_, "!")
	if !ok {
		return 1, 1
	}
	first, _, _ := strings.Cut(cells, ":")
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(first, "$", ""))
	if err != nil {
		return 1, 1
	}
	return col, row
}

// getEnvWithDefault fetches an environment variable with a default fallback.
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
