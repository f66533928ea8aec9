package budget

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/internal/rest"
	"github.com/spendwise/spendwise/pkg/analytics"
	"github.com/spendwise/spendwise/pkg/money"
)

type ViewDTO struct {
	Spent      string `json:"spent"`
	Remaining  string `json:"remaining"`
	Percentage int    `json:"percentage"`
	Status     string `json:"status"`
}

type OverviewDTO struct {
	Limit           string  `json:"limit"`
	CurrentMonthKey string  `json:"currentMonthKey"`
	AllTime         ViewDTO `json:"allTime"`
	CurrentMonth    ViewDTO `json:"currentMonth"`
}

type AlertDTO struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type SetLimitDTO struct {
	Limit string `json:"limit"`
}

type CategoryTotalDTO struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int    `json:"count"`
	Average  string `json:"average"`
}

type MonthlyTotalDTO struct {
	Month      string `json:"month"`
	Total      string `json:"total"`
	Percentage int    `json:"percentage"`
}

type InsightsDTO struct {
	TotalSpending        string             `json:"totalSpending"`
	CurrentMonthSpending string             `json:"currentMonthSpending"`
	AverageTransaction   string             `json:"averageTransaction"`
	TopCategories        []CategoryTotalDTO `json:"topCategories"`
	MonthlyTotals        []MonthlyTotalDTO  `json:"monthlyTotals"`
}

type Handler struct {
	budgetService Service
	store         ListProvider
}

func NewHandler(budgetService Service, store ListProvider) *Handler {
	return &Handler{budgetService: budgetService, store: store}
}

// GetOverview godoc
// @Summary Budget overview with all-time and current-month views
// @Tags Budget
// @Produce json
// @Success 200 {object} OverviewDTO
// @Router /api/budget [get]
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	overview := h.budgetService.Overview(r.Context())

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(overviewToDTO(overview)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SetLimit godoc
// @Summary Set the monthly budget limit
// @Tags Budget
// @Accept json
// @Produce json
// @Param limit body SetLimitDTO true "New limit"
// @Success 200 {object} SetLimitDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid limit"
// @Router /api/budget/limit [put]
func (h *Handler) SetLimit(w http.ResponseWriter, r *http.Request) {
	log.Debug("Setting budget limit")
	w.Header().Set("Content-Type", "application/json")

	var dto SetLimitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	// Zero is a valid limit (budget tracking off); negative is not.
	limit, err := money.ParseNonNegative(dto.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Limit must be a non-negative decimal number")
		return
	}
	if err := h.budgetService.SetLimit(limit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SetLimitDTO{Limit: limit.String()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetAlerts godoc
// @Summary Current budget and category alerts
// @Tags Budget
// @Produce json
// @Success 200 {array} AlertDTO
// @Router /api/budget/alerts [get]
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	alerts := h.budgetService.Alerts(r.Context())
	dtos := make([]AlertDTO, 0, len(alerts))
	for _, alert := range alerts {
		dtos = append(dtos, AlertDTO{Type: string(alert.Type), Message: alert.Message})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetInsights godoc
// @Summary Spending insights: totals, top categories, monthly trend
// @Tags Budget
// @Produce json
// @Param limit query int false "Max top categories (default 5)"
// @Success 200 {object} InsightsDTO
// @Router /api/analytics [get]
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	topLimit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		topLimit = parsed
	}

	records := h.store.List()
	overview := h.budgetService.Overview(r.Context())

	average := money.Money(0)
	if len(records) > 0 {
		average = overview.AllTime.Spent / money.Money(len(records))
	}

	top := analytics.TopCategories(records, topLimit)
	topDTOs := make([]CategoryTotalDTO, 0, len(top))
	for _, category := range top {
		topDTOs = append(topDTOs, CategoryTotalDTO{
			Category: string(category.Category),
			Total:    category.Total.String(),
			Count:    category.Count,
			Average:  category.Average.String(),
		})
	}

	totals := analytics.MonthlyTotals(records)
	totalDTOs := make([]MonthlyTotalDTO, 0, len(totals))
	for _, total := range totals {
		totalDTOs = append(totalDTOs, MonthlyTotalDTO{
			Month:      total.Month,
			Total:      total.Total.String(),
			Percentage: trendPercentage(total.Total, overview.Limit),
		})
	}

	insights := InsightsDTO{
		TotalSpending:        overview.AllTime.Spent.String(),
		CurrentMonthSpending: overview.CurrentMonth.Spent.String(),
		AverageTransaction:   average.String(),
		TopCategories:        topDTOs,
		MonthlyTotals:        totalDTOs,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(insights); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SendDemoNotification godoc
// @Summary Publish a notification for the newest expense
// @Description The only external call whose failure is surfaced to the caller.
// @Tags Budget
// @Produce json
// @Success 202
// @Failure 400 {object} rest.ErrorResponse "No expenses recorded"
// @Failure 502 {object} rest.ErrorResponse "Notification delivery failed"
// @Router /api/notifications/demo [post]
func (h *Handler) SendDemoNotification(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.budgetService.SendDemoNotification(r.Context()); err != nil {
		if errors.Is(err, ErrNoExpenses) {
			writeError(w, http.StatusBadRequest, "No expenses found. Add an expense first.")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func overviewToDTO(overview Overview) OverviewDTO {
	return OverviewDTO{
		Limit:           overview.Limit.String(),
		CurrentMonthKey: overview.CurrentMonthKey,
		AllTime:         viewToDTO(overview.AllTime),
		CurrentMonth:    viewToDTO(overview.CurrentMonth),
	}
}

func viewToDTO(view View) ViewDTO {
	return ViewDTO{
		Spent:      view.Spent.String(),
		Remaining:  view.Remaining.String(),
		Percentage: view.Percentage,
		Status:     string(view.Status),
	}
}

// trendPercentage is not capped at 100 so over-budget months keep their
// real ratio in the monthly trend.
func trendPercentage(total, limit money.Money) int {
	if limit == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(limit) * 100))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
