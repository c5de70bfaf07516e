package orchestrator

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tradeforge/etf-direction/internal/dataset"
	pipeerrors "github.com/tradeforge/etf-direction/internal/errors"
	"github.com/tradeforge/etf-direction/internal/indicators"
	"github.com/tradeforge/etf-direction/internal/monitoring"
	"github.com/tradeforge/etf-direction/pkg/classifier"
	"github.com/tradeforge/etf-direction/pkg/config"
	"github.com/tradeforge/etf-direction/pkg/data"
	"github.com/tradeforge/etf-direction/pkg/evaluation"
	"github.com/tradeforge/etf-direction/pkg/reporting"
	"github.com/tradeforge/etf-direction/pkg/validation"
)

// Pipeline composes the run stages by explicit argument passing: each stage
// reads only the previous stage's output, and every derived value is rebuilt
// from the raw bars on each run.
type Pipeline struct {
	cfg      *config.Config
	provider data.Provider
	console  *reporting.ConsoleReporter
	quiet    bool
}

// New creates a pipeline over the configured CSV input
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		provider: data.NewCSVProvider(cfg.TargetAsset),
		console:  reporting.NewConsoleReporter(),
	}
}

// WithProvider swaps the data source, mainly for tests
func (p *Pipeline) WithProvider(provider data.Provider) *Pipeline {
	p.provider = provider
	return p
}

// Quiet suppresses console reporting
func (p *Pipeline) Quiet() *Pipeline {
	p.quiet = true
	return p
}

// Run executes the full pipeline and returns the run report. An empty
// dataset after warm-up and label shifting surfaces as an explicit
// insufficient-data error, never as a silent success.
func (p *Pipeline) Run() (*reporting.RunReport, error) {
	report, err := p.run()
	if err != nil {
		monitoring.RecordRun("error")
		var pe *pipeerrors.PipelineError
		if errors.As(err, &pe) {
			monitoring.RecordError(string(pe.Category))
		}
		return nil, err
	}
	monitoring.RecordRun("success")
	return report, nil
}

func (p *Pipeline) run() (*reporting.RunReport, error) {
	bars, err := p.provider.LoadData(p.cfg.DataFile)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d bars from %s", len(bars), p.cfg.DataFile)

	bars = data.FilterByDateRange(bars, parseDate(p.cfg.StartDate), parseDate(p.cfg.EndDate))

	engine := indicators.NewEngine(indicators.Config{
		MAWindow:       p.cfg.MAWindow,
		VolumeMAWindow: p.cfg.VolumeMAWindow,
		RSIWindow:      p.cfg.RSIWindow,
	})

	ds, err := dataset.NewAssembler(engine).Assemble(bars)
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, pipeerrors.NewInsufficientDataError("orchestrator", "assemble",
			fmt.Sprintf("no usable records remain from %d bars after indicator warm-up and label shifting", len(bars)))
	}
	log.Printf("assembled %d records with features %v", ds.Len(), ds.FeatureNames)
	monitoring.RecordDatasetRows(p.cfg.TargetAsset, ds.Len())

	if p.cfg.ParquetFile != "" {
		if err := (data.ParquetWriter{}).Save(ds, p.cfg.ParquetFile); err != nil {
			return nil, err
		}
		log.Printf("exported dataset to %s", p.cfg.ParquetFile)
	}

	train, test, err := validation.SplitByFraction(ds, p.cfg.TestFraction)
	if err != nil {
		return nil, err
	}

	grid := validation.NewParamGrid().Add("k", p.cfg.KGrid...)
	search := validation.NewGridSearch(classifier.KNNFactory, p.scorer(), p.cfg.Folds, p.cfg.Workers)

	result, err := search.Run(train, grid)
	if err != nil {
		return nil, err
	}
	monitoring.RecordGridEvaluations(len(result.Scores))
	if !p.quiet {
		p.console.PrintSearchSummary(result)
	}

	preds, err := result.Model.Predict(test.X)
	if err != nil {
		return nil, pipeerrors.WrapError(err, pipeerrors.ErrorCategoryValidation, "orchestrator", "predict")
	}

	eval, err := evaluation.Evaluate(test.Y, preds)
	if err != nil {
		return nil, err
	}
	if !p.quiet {
		p.console.PrintReport(p.cfg.TargetAsset, eval)
	}

	runReport := &reporting.RunReport{
		GeneratedAt: time.Now().UTC(),
		TargetAsset: p.cfg.TargetAsset,
		DatasetRows: ds.Len(),
		TrainRows:   train.Len(),
		TestRows:    test.Len(),
		BestParams:  result.BestParams,
		BestScore:   result.BestScore,
		GridScores:  result.Scores,
		Evaluation:  eval,
	}

	if p.cfg.JSONFile != "" {
		if err := reporting.NewJSONReporter().Save(runReport, p.cfg.JSONFile); err != nil {
			return nil, pipeerrors.NewDataError("orchestrator", "save_json", err)
		}
		log.Printf("saved JSON report to %s", p.cfg.JSONFile)
	}
	if p.cfg.ExcelFile != "" {
		if err := reporting.NewExcelReporter().Save(runReport, p.cfg.ExcelFile); err != nil {
			return nil, pipeerrors.NewDataError("orchestrator", "save_excel", err)
		}
		log.Printf("saved Excel report to %s", p.cfg.ExcelFile)
	}

	return runReport, nil
}

func (p *Pipeline) scorer() validation.Scorer {
	if p.cfg.Scoring == "f1" {
		return validation.F1Scorer
	}
	return validation.AccuracyScorer
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
