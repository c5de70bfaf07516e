package data

import (
	"github.com/parquet-go/parquet-go"

	"github.com/tradeforge/etf-direction/internal/dataset"
	pipeerrors "github.com/tradeforge/etf-direction/internal/errors"
)

// datasetRow is the parquet row shape for one assembled record
type datasetRow struct {
	Date     string             `parquet:"date"`
	Target   int32              `parquet:"target"`
	Features map[string]float64 `parquet:"features"`
}

// ParquetWriter exports an assembled dataset so external ML tooling can
// consume it without re-running the pipeline
type ParquetWriter struct{}

// Extension returns the file extension written by this saver
func (ParquetWriter) Extension() string { return "parquet" }

// Save writes the feature matrix, labels and dates to a parquet file
func (ParquetWriter) Save(ds *dataset.Dataset, path string) error {
	rows := make([]datasetRow, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		features := make(map[string]float64, len(ds.FeatureNames))
		for j, name := range ds.FeatureNames {
			features[name] = ds.X[i][j]
		}
		rows[i] = datasetRow{
			Date:     ds.Dates[i].Format("2006-01-02"),
			Target:   int32(ds.Y[i]),
			Features: features,
		}
	}

	if err := parquet.WriteFile(path, rows); err != nil {
		return pipeerrors.NewDataError("data", "write_parquet", err)
	}
	return nil
}
