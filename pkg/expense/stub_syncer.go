package expense

import "context"

// StubSyncer records enqueued mirror operations for tests.
type StubSyncer struct {
	Puts    []Expense
	Updates []Expense
	Deletes []string
}

func NewStubSyncer() *StubSyncer {
	return &StubSyncer{}
}

func (s *StubSyncer) EnqueuePut(ctx context.Context, e Expense) {
	s.Puts = append(s.Puts, e)
}

func (s *StubSyncer) EnqueueUpdate(ctx context.Context, e Expense) {
	s.Updates = append(s.Updates, e)
}

func (s *StubSyncer) EnqueueDelete(ctx context.Context, id string) {
	s.Deletes = append(s.Deletes, id)
}

func (s *StubSyncer) Cleanup() {
	s.Puts = nil
	s.Updates = nil
	s.Deletes = nil
}

// StubLoader serves canned mirrored records for tests.
type StubLoader struct {
	Records []Expense
	Err     error
}

func NewStubLoader() *StubLoader {
	return &StubLoader{}
}

func (l *StubLoader) QueryAll(ctx context.Context, userUid string) ([]Expense, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	records := make([]Expense, len(l.Records))
	copy(records, l.Records)
	return records, nil
}
