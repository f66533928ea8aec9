package mirror

import (
	"context"
	"sync"

	"github.com/spendwise/spendwise/pkg/expense"
)

// StubMirror records mirror operations for tests. It is safe for concurrent
// use because the dispatcher calls it from its worker goroutine.
type StubMirror struct {
	mu      sync.Mutex
	puts    []expense.Expense
	updates []expense.Expense
	deletes []string
	Records []expense.Expense
	Err     error
}

func NewStubMirror() *StubMirror {
	return &StubMirror{}
}

func (s *StubMirror) Put(ctx context.Context, userUid string, e expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.puts = append(s.puts, e)
	return nil
}

func (s *StubMirror) Update(ctx context.Context, userUid string, e expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.updates = append(s.updates, e)
	return nil
}

func (s *StubMirror) Delete(ctx context.Context, userUid string, expenseId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.deletes = append(s.deletes, expenseId)
	return nil
}

func (s *StubMirror) QueryAll(ctx context.Context, userUid string) ([]expense.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	records := make([]expense.Expense, len(s.Records))
	copy(records, s.Records)
	return records, nil
}

func (s *StubMirror) Puts() []expense.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	puts := make([]expense.Expense, len(s.puts))
	copy(puts, s.puts)
	return puts
}

func (s *StubMirror) Updates() []expense.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	updates := make([]expense.Expense, len(s.updates))
	copy(updates, s.updates)
	return updates
}

func (s *StubMirror) Deletes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	deletes := make([]string, len(s.deletes))
	copy(deletes, s.deletes)
	return deletes
}

func (s *StubMirror) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = nil
	s.updates = nil
	s.deletes = nil
	s.Records = nil
}
