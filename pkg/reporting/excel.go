package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ExcelReporter writes the run report as an Excel workbook with a summary
// sheet and a grid-search sheet
type ExcelReporter struct{}

// NewExcelReporter creates a new Excel reporter
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// Save writes the workbook to path, creating parent directories as needed
func (r *ExcelReporter) Save(report *RunReport, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const gridSheet = "Grid Search"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	if _, err := fx.NewSheet(gridSheet); err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, report); err != nil {
		return err
	}
	if err := r.writeGridSheet(fx, gridSheet, report); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, report *RunReport) error {
	rows := [][]interface{}{
		{"Target Asset", report.TargetAsset},
		{"Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Dataset Rows", report.DatasetRows},
		{"Train Rows", report.TrainRows},
		{"Test Rows", report.TestRows},
		{"Best Params", formatParams(report.BestParams)},
		{"Best CV Score", report.BestScore},
		{},
		{"Accuracy", report.Evaluation.Accuracy},
		{"Precision", report.Evaluation.Precision},
		{"Recall", report.Evaluation.Recall},
		{"F1", report.Evaluation.F1},
		{"ROC-AUC", report.Evaluation.ROCAUC},
		{},
		{"", "Pred Down", "Pred Up"},
		{"True Down", report.Evaluation.Matrix.TrueNegative, report.Evaluation.Matrix.FalsePositive},
		{"True Up", report.Evaluation.Matrix.FalseNegative, report.Evaluation.Matrix.TruePositive},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExcelReporter) writeGridSheet(fx *excelize.File, sheet string, report *RunReport) error {
	header := []interface{}{"#", "Params", "Avg CV Score"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, cs := range report.GridScores {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{cs.Index + 1, formatParams(cs.Params), cs.Score}
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
