package report

import "strings"

const dateLayout = "2006-01-02"

type Renderer interface {
	RenderReport(report MonthlyReport) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// RenderReport writes the month's transactions as Date,Category,Amount,Note
// rows in the report's order. The header row is bare; every data cell is
// quoted, embedded quotes doubled.
func (t *CsvRendererImpl) RenderReport(report MonthlyReport) (string, error) {
	lines := make([]string, 0, len(report.Transactions)+1)
	lines = append(lines, "Date,Category,Amount,Note")
	for _, e := range report.Transactions {
		cells := []string{
			e.Date.Format(dateLayout),
			string(e.Category),
			e.Amount.String(),
			e.Note,
		}
		for i, cell := range cells {
			cells[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n"), nil
}
