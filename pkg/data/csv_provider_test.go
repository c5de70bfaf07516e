package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVProvider_LoadData(t *testing.T) {
	path := writeCSV(t, `DATE,CLOSE_SPY,VOLUME,CLOSE_GLD,CLOSE_TLT
2020-01-02,321.55,59151200,143.95,136.30
2020-01-03,319.12,77709700,145.86,137.95
2020-01-06,320.34,55653900,146.82,137.72
`)

	bars, err := NewCSVProvider("SPY").LoadData(path)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.InDelta(t, 321.55, bars[0].Close, 1e-9)
	assert.InDelta(t, 59151200, bars[0].Volume, 1e-9)
	assert.InDelta(t, 143.95, bars[0].AuxClose["GLD"], 1e-9)
	assert.InDelta(t, 136.30, bars[0].AuxClose["TLT"], 1e-9)

	// The target's own close never lands in the auxiliary set
	_, ok := bars[0].AuxClose["SPY"]
	assert.False(t, ok)
}

func TestCSVProvider_SkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, `DATE,CLOSE_SPY,VOLUME
2020-01-02,321.55,59151200
not-a-date,319.12,77709700
2020-01-03,oops,77709700
2020-01-06,320.34,55653900
`)

	bars, err := NewCSVProvider("SPY").LoadData(path)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
}

func TestCSVProvider_DuplicateDatesFail(t *testing.T) {
	path := writeCSV(t, `DATE,CLOSE_SPY,VOLUME
2020-01-02,321.55,59151200
2020-01-02,319.12,77709700
`)

	_, err := NewCSVProvider("SPY").LoadData(path)
	assert.Error(t, err)
}

func TestCSVProvider_NonMonotonicDatesFail(t *testing.T) {
	path := writeCSV(t, `DATE,CLOSE_SPY,VOLUME
2020-01-03,321.55,59151200
2020-01-02,319.12,77709700
`)

	_, err := NewCSVProvider("SPY").LoadData(path)
	assert.Error(t, err)
}

func TestCSVProvider_MissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, `DATE,CLOSE_GLD,VOLUME
2020-01-02,143.95,59151200
`)

	_, err := NewCSVProvider("SPY").LoadData(path)
	assert.Error(t, err)
}

func TestFilterByDateRange(t *testing.T) {
	path := writeCSV(t, `DATE,CLOSE_SPY,VOLUME
2020-01-02,321.55,59151200
2020-01-03,319.12,77709700
2020-01-06,320.34,55653900
2020-01-07,322.73,40496400
`)

	bars, err := NewCSVProvider("SPY").LoadData(path)
	require.NoError(t, err)

	from := time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)
	filtered := FilterByDateRange(bars, from, to)

	require.Len(t, filtered, 2)
	assert.Equal(t, from, filtered[0].Date)
	assert.Equal(t, to, filtered[1].Date)
}
