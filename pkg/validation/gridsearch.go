package validation

import (
	"fmt"

	"github.com/tradeforge/etf-direction/internal/dataset"
	pipeerrors "github.com/tradeforge/etf-direction/internal/errors"
	"github.com/tradeforge/etf-direction/pkg/classifier"
	"github.com/tradeforge/etf-direction/pkg/evaluation"
)

// ParamGrid is an explicit hyperparameter grid. Combinations enumerate as
// the Cartesian product in row-major order of the declared parameters, so
// the enumeration order is part of the contract: ties in score resolve to
// the earliest combination.
type ParamGrid struct {
	names  []string
	values [][]float64
}

// NewParamGrid creates an empty grid
func NewParamGrid() *ParamGrid {
	return &ParamGrid{}
}

// Add declares a parameter and its candidate values, in search order
func (g *ParamGrid) Add(name string, values ...float64) *ParamGrid {
	g.names = append(g.names, name)
	g.values = append(g.values, values)
	return g
}

// Combinations expands the grid into the full Cartesian product
func (g *ParamGrid) Combinations() []classifier.Params {
	if len(g.names) == 0 {
		return nil
	}

	combos := []classifier.Params{{}}
	for p, name := range g.names {
		next := make([]classifier.Params, 0, len(combos)*len(g.values[p]))
		for _, combo := range combos {
			for _, v := range g.values[p] {
				expanded := make(classifier.Params, len(combo)+1)
				for k, cv := range combo {
					expanded[k] = cv
				}
				expanded[name] = v
				next = append(next, expanded)
			}
		}
		combos = next
	}
	return combos
}

// Scorer reduces an evaluation report to the scalar being maximized
type Scorer func(*evaluation.Report) float64

// AccuracyScorer scores a combination by validation accuracy
func AccuracyScorer(r *evaluation.Report) float64 { return r.Accuracy }

// F1Scorer scores a combination by validation F1
func F1Scorer(r *evaluation.Report) float64 { return r.F1 }

// ComboScore is the averaged walk-forward score of one combination, in
// enumeration order
type ComboScore struct {
	Index  int
	Params classifier.Params
	Score  float64
}

// SearchResult is the outcome of a walk-forward grid search: the winning
// combination, its averaged score, the model refit on the full train
// segment, and the per-combination leaderboard.
type SearchResult struct {
	BestParams classifier.Params
	BestScore  float64
	Model      classifier.Classifier
	Scores     []ComboScore
}

// GridSearch drives hyperparameter selection with walk-forward
// cross-validation
type GridSearch struct {
	factory classifier.Factory
	scorer  Scorer
	folds   int
	workers int
}

// NewGridSearch creates a grid search over the given classifier factory.
// folds is the number of time slices used for walk-forward validation;
// workers <= 0 means one worker per CPU.
func NewGridSearch(factory classifier.Factory, scorer Scorer, folds, workers int) *GridSearch {
	return &GridSearch{
		factory: factory,
		scorer:  scorer,
		folds:   folds,
		workers: workers,
	}
}

// Run scores every grid combination by its average validation score across
// the expanding walk-forward folds of the train segment, picks the first
// combination reaching the maximum, and refits it on the full segment.
// Scoring is parallel across combinations, but the reducer scans results in
// enumeration order, so the selection is deterministic regardless of worker
// scheduling.
func (gs *GridSearch) Run(train *dataset.Dataset, grid *ParamGrid) (*SearchResult, error) {
	combos := grid.Combinations()
	if len(combos) == 0 {
		return nil, pipeerrors.NewValidationError("validation", "grid_search", "empty hyperparameter grid")
	}

	folds, err := ExpandingFolds(train.Len(), gs.folds)
	if err != nil {
		return nil, err
	}

	jobs := make([]scoreJob, len(combos))
	for i, params := range combos {
		jobs[i] = scoreJob{index: i, params: params}
	}

	pool := newWorkerPool(gs.workers, len(jobs), func(job scoreJob) scoreResult {
		score, err := gs.scoreCombination(train, folds, job.params)
		return scoreResult{index: job.index, params: job.params, score: score, err: err}
	})

	results := pool.run(jobs)

	ordered := make([]ComboScore, len(combos))
	for _, r := range results {
		if r.err != nil {
			return nil, pipeerrors.WrapError(r.err, pipeerrors.ErrorCategoryValidation, "validation", "grid_search")
		}
		ordered[r.index] = ComboScore{Index: r.index, Params: r.params, Score: r.score}
	}

	// First combination reaching the maximum wins
	best := ordered[0]
	for _, cs := range ordered[1:] {
		if cs.Score > best.Score {
			best = cs
		}
	}

	model, err := gs.factory(best.Params)
	if err != nil {
		return nil, pipeerrors.WrapError(err, pipeerrors.ErrorCategoryValidation, "validation", "refit")
	}
	if err := model.Fit(train.X, train.Y); err != nil {
		return nil, pipeerrors.WrapError(err, pipeerrors.ErrorCategoryValidation, "validation", "refit")
	}

	return &SearchResult{
		BestParams: best.Params,
		BestScore:  best.Score,
		Model:      model,
		Scores:     ordered,
	}, nil
}

// scoreCombination averages the scoring metric across all folds for one
// hyperparameter combination
func (gs *GridSearch) scoreCombination(train *dataset.Dataset, folds []Fold, params classifier.Params) (float64, error) {
	sum := 0.0
	for _, fold := range folds {
		model, err := gs.factory(params)
		if err != nil {
			return 0, err
		}

		foldTrain := train.Slice(fold.Train.Start, fold.Train.End)
		foldVal := train.Slice(fold.Validation.Start, fold.Validation.End)

		if err := model.Fit(foldTrain.X, foldTrain.Y); err != nil {
			return 0, fmt.Errorf("fold %d fit: %w", fold.Number, err)
		}
		preds, err := model.Predict(foldVal.X)
		if err != nil {
			return 0, fmt.Errorf("fold %d predict: %w", fold.Number, err)
		}
		report, err := evaluation.Evaluate(foldVal.Y, preds)
		if err != nil {
			return 0, fmt.Errorf("fold %d evaluate: %w", fold.Number, err)
		}
		sum += gs.scorer(report)
	}
	return sum / float64(len(folds)), nil
}
