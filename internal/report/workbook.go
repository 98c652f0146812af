package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/guttosm/vitipulse/internal/domain/dto"
	"github.com/guttosm/vitipulse/internal/domain/models"
)

const summarySheet = "Resumo"

// WriteWorkbook writes an xlsx artifact with a summary sheet, one sheet
// per aggregation (in the given order), and a column chart of the top-N
// groups of the first aggregation.
//
// Sheet rows reuse the deterministic aggregator order, so the workbook is
// byte-stable across runs of identical input.
func WriteWorkbook(path string, summary dto.RunSummary, names []string, aggs map[string][]models.AggregateResult, topN int) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := writeSummarySheet(f, summary); err != nil {
		return err
	}

	for i, name := range names {
		results := aggs[name]
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		if err := writeAggregateSheet(f, name, results); err != nil {
			return err
		}
		if i == 0 && len(results) > 0 {
			if err := addTopChart(f, name, results, topN); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, summary dto.RunSummary) error {
	rows := [][]interface{}{
		{"Run", summary.RunID},
		{"Período", fmt.Sprintf("%d-%d", summary.Years[0], summary.Years[1])},
		{"Linhas lidas", summary.RowsRead},
		{"Linhas descartadas", summary.RowsDropped},
		{"Linhas processadas", summary.RowsProcessed},
		{"Grupos", summary.Groups},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeAggregateSheet(f *excelize.File, sheet string, results []models.AggregateResult) error {
	header := []interface{}{"Grupo", "Quantidade Total (L)", "Valor Total (R$)", "Participação", "Ranking"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range results {
		row := []interface{}{KeyLabel(r.Key), r.TotalQuantity, r.TotalValue, r.ShareOfTotal, r.Rank}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func addTopChart(f *excelize.File, sheet string, results []models.AggregateResult, topN int) error {
	if topN > len(results) {
		topN = len(results)
	}
	if topN < 1 {
		return nil
	}

	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$C$1", sheet),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, topN+1),
				Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", sheet, topN+1),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: fmt.Sprintf("Top %d por valor (R$)", topN)},
		},
	}
	return f.AddChart(sheet, "G2", chart)
}
