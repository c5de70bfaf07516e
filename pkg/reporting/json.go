package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tradeforge/etf-direction/pkg/classifier"
	"github.com/tradeforge/etf-direction/pkg/evaluation"
	"github.com/tradeforge/etf-direction/pkg/validation"
)

// RunReport is the serializable record of one pipeline run
type RunReport struct {
	GeneratedAt time.Time               `json:"generated_at"`
	TargetAsset string                  `json:"target_asset"`
	DatasetRows int                     `json:"dataset_rows"`
	TrainRows   int                     `json:"train_rows"`
	TestRows    int                     `json:"test_rows"`
	BestParams  classifier.Params       `json:"best_params"`
	BestScore   float64                 `json:"best_cv_score"`
	GridScores  []validation.ComboScore `json:"grid_scores"`
	Evaluation  *evaluation.Report      `json:"evaluation"`
}

// JSONReporter writes the run report to a JSON file
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// Save writes the report, creating parent directories as needed
func (r *JSONReporter) Save(report *RunReport, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(path, raw, 0644)
}
