package budget

import "github.com/spendwise/spendwise/pkg/expense"

// StubListProvider serves a fixed expense snapshot for tests.
type StubListProvider struct {
	Records []expense.Expense
}

func NewStubListProvider() *StubListProvider {
	return &StubListProvider{}
}

func (s *StubListProvider) List() []expense.Expense {
	records := make([]expense.Expense, len(s.Records))
	copy(records, s.Records)
	return records
}
