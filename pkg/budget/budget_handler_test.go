package budget

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(limit money.Money) (*Handler, *ServiceImpl, *StubListProvider) {
	service, store, _, _ := setupService(limit)
	return NewHandler(service, store), service, store
}

func TestHandler_SetLimit_AcceptsAnyZeroSpelling(t *testing.T) {
	for _, raw := range []string{"0", "0.0", "0.000", "0,00", " 0 "} {
		t.Run(raw, func(t *testing.T) {
			handler, service, _ := setupHandler(5000_00)
			body := strings.NewReader(`{"limit": "` + raw + `"}`)
			request := httptest.NewRequest(http.MethodPut, "/api/budget/limit", body)
			recorder := httptest.NewRecorder()

			handler.SetLimit(recorder, request)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, money.Money(0), service.Limit())
		})
	}
}

func TestHandler_SetLimit_RejectsInvalid(t *testing.T) {
	for _, raw := range []string{"-5", "abc", ""} {
		t.Run(raw, func(t *testing.T) {
			handler, service, _ := setupHandler(5000_00)
			body := strings.NewReader(`{"limit": "` + raw + `"}`)
			request := httptest.NewRequest(http.MethodPut, "/api/budget/limit", body)
			recorder := httptest.NewRecorder()

			handler.SetLimit(recorder, request)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, money.Money(5000_00), service.Limit())
		})
	}
}

func TestHandler_GetInsights_TrendKeepsOverBudgetRatio(t *testing.T) {
	handler, _, store := setupHandler(5000_00)
	store.Records = []expense.Expense{
		{ID: "feb-1", Category: expense.CategoryFood, Date: time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), Amount: 6000_00},
		{ID: "mar-1", Category: expense.CategoryFood, Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Amount: 1000_00},
	}
	request := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	recorder := httptest.NewRecorder()

	handler.GetInsights(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var insights InsightsDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &insights))
	require.Len(t, insights.MonthlyTotals, 2)
	assert.Equal(t, "2024-02", insights.MonthlyTotals[0].Month)
	assert.Equal(t, 120, insights.MonthlyTotals[0].Percentage)
	assert.Equal(t, "2024-03", insights.MonthlyTotals[1].Month)
	assert.Equal(t, 20, insights.MonthlyTotals[1].Percentage)
}

func TestHandler_GetInsights_ZeroLimitTrend(t *testing.T) {
	handler, _, store := setupHandler(0)
	store.Records = []expense.Expense{
		{ID: "mar-1", Category: expense.CategoryFood, Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Amount: 1000_00},
	}
	request := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	recorder := httptest.NewRecorder()

	handler.GetInsights(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var insights InsightsDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &insights))
	require.Len(t, insights.MonthlyTotals, 1)
	assert.Equal(t, 0, insights.MonthlyTotals[0].Percentage)
}
