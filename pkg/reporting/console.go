package reporting

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tradeforge/etf-direction/pkg/classifier"
	"github.com/tradeforge/etf-direction/pkg/evaluation"
	"github.com/tradeforge/etf-direction/pkg/validation"
)

// ConsoleReporter prints the run outcome to stdout
type ConsoleReporter struct{}

// NewConsoleReporter creates a new console reporter
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// PrintReport prints the held-out evaluation metrics and confusion matrix
func (r *ConsoleReporter) PrintReport(asset string, report *evaluation.Report) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Printf("📊 NEXT-DAY DIRECTION RESULTS — %s\n", asset)
	fmt.Println(strings.Repeat("=", 50))

	fmt.Printf("🎯 Accuracy:   %.4f\n", report.Accuracy)
	fmt.Printf("🎯 Precision:  %.4f\n", report.Precision)
	fmt.Printf("🎯 Recall:     %.4f\n", report.Recall)
	fmt.Printf("🎯 F1:         %.4f\n", report.F1)
	fmt.Printf("📈 ROC-AUC:    %.4f\n", report.ROCAUC)
	fmt.Printf("🔢 Scored:     %d observations\n", report.Matrix.Total())

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("CONFUSION MATRIX")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"", "Pred Down", "Pred Up"})
	t.AppendRows([]table.Row{
		{"True Down", report.Matrix.TrueNegative, report.Matrix.FalsePositive},
		{"True Up", report.Matrix.FalseNegative, report.Matrix.TruePositive},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
	fmt.Println()
}

// PrintSearchSummary prints the grid leaderboard and the selected model
func (r *ConsoleReporter) PrintSearchSummary(result *validation.SearchResult) {
	fmt.Println("🔍 ================ GRID SEARCH ================")
	fmt.Printf("Scored %d combinations\n", len(result.Scores))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("WALK-FORWARD LEADERBOARD")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Params", "Avg Score"})

	for _, cs := range result.Scores {
		t.AppendRow(table.Row{cs.Index + 1, formatParams(cs.Params), fmt.Sprintf("%.4f", cs.Score)})
	}
	t.Render()

	fmt.Printf("✅ Selected: %s (avg score %.4f), refit on full train segment\n\n",
		formatParams(result.BestParams), result.BestScore)
}

func formatParams(params classifier.Params) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, params[name])
	}
	return strings.Join(parts, ", ")
}
