package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/pkg/report"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const dateLayout = "2006-01-02"

// ExporterImpl pushes monthly reports into a Google spreadsheet, one sheet
// per month.
type ExporterImpl struct {
	svc           *gsheet.Service
	spreadsheetId string
}

var _ report.SheetsExporter = (*ExporterImpl)(nil)

// NewExporter builds a Sheets client from service account credentials on
// disk. The spreadsheet must already exist and be shared with the service
// account.
func NewExporter(ctx context.Context, cfg config.Sheets) (*ExporterImpl, error) {
	if cfg.SpreadsheetId == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.CredentialsFile == "" {
		return nil, errors.New("missing service account credentials file")
	}
	credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}

	svc, err := gsheet.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &ExporterImpl{svc: svc, spreadsheetId: cfg.SpreadsheetId}, nil
}

// Export writes the report into a sheet named after the month, replacing
// any previous export of the same month, and returns the spreadsheet URL.
func (e *ExporterImpl) Export(ctx context.Context, monthlyReport report.MonthlyReport) (string, error) {
	sheetId, err := e.ensureSheet(ctx, monthlyReport.Month)
	if err != nil {
		return "", err
	}

	clearRange := fmt.Sprintf("%s!A:Z", monthlyReport.Month)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetId, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("failed to clear sheet %s: %w", monthlyReport.Month, err)
	}

	values := [][]any{
		{"Date", "Category", "Amount", "Note"},
	}
	for _, t := range monthlyReport.Transactions {
		values = append(values, []any{
			t.Date.Format(dateLayout),
			string(t.Category),
			t.Amount.Float64(),
			t.Note,
		})
	}
	values = append(values,
		[]any{},
		[]any{"Total", "", monthlyReport.Total.Float64(), ""},
		[]any{"Transactions", "", monthlyReport.Count, ""},
		[]any{"Average", "", monthlyReport.Average.Float64(), ""},
	)

	dataRange := fmt.Sprintf("%s!A1", monthlyReport.Month)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetId, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("failed to write report to sheet %s: %w", monthlyReport.Month, err)
	}

	log.Debugf("wrote %d rows to sheet %s", len(values), monthlyReport.Month)
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s#gid=%d", e.spreadsheetId, sheetId), nil
}

// ensureSheet returns the id of the month's sheet, creating it when the
// spreadsheet does not have one yet.
func (e *ExporterImpl) ensureSheet(ctx context.Context, month string) (int64, error) {
	spreadsheet, err := e.svc.Spreadsheets.Get(e.spreadsheetId).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == month {
			return sheet.Properties.SheetId, nil
		}
	}

	response, err := e.svc.Spreadsheets.BatchUpdate(e.spreadsheetId, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{
			{
				AddSheet: &gsheet.AddSheetRequest{
					Properties: &gsheet.SheetProperties{Title: month},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to add sheet %s: %w", month, err)
	}
	return response.Replies[0].AddSheet.Properties.SheetId, nil
}
