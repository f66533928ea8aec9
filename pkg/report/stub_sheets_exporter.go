package report

import "context"

// StubSheetsExporter records exported reports for tests.
type StubSheetsExporter struct {
	Exported []MonthlyReport
	URL      string
	Err      error
}

func NewStubSheetsExporter() *StubSheetsExporter {
	return &StubSheetsExporter{URL: "https://docs.google.com/spreadsheets/d/stub"}
}

func (s *StubSheetsExporter) Export(ctx context.Context, report MonthlyReport) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.Exported = append(s.Exported, report)
	return s.URL, nil
}

func (s *StubSheetsExporter) Cleanup() {
	s.Exported = nil
}
