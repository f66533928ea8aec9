package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/internal/rest"
)

type TransactionDTO struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Note     string `json:"note,omitempty"`
}

type CategoryBreakdownDTO struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int    `json:"count"`
	Average  string `json:"average"`
}

type MonthlyReportDTO struct {
	Month        string                 `json:"month"`
	Total        string                 `json:"total"`
	Count        int                    `json:"count"`
	Average      string                 `json:"average"`
	ByCategory   []CategoryBreakdownDTO `json:"byCategory"`
	Transactions []TransactionDTO       `json:"transactions"`
}

type SheetsExportDTO struct {
	URL string `json:"url"`
}

type Handler struct {
	reportService Service
	csvRenderer   Renderer
}

func NewHandler(reportService Service, csvRenderer Renderer) *Handler {
	return &Handler{reportService: reportService, csvRenderer: csvRenderer}
}

// GetMonths godoc
// @Summary Months that have at least one expense, newest first
// @Tags Report
// @Produce json
// @Success 200 {array} string
// @Router /api/reports/months [get]
func (h *Handler) GetMonths(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	months := h.reportService.AvailableMonths()

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(months); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetReport godoc
// @Summary Monthly report as JSON, or CSV when requested via Accept
// @Tags Report
// @Produce json
// @Produce text/csv
// @Param month path string true "Month in YYYY-MM format"
// @Success 200 {object} MonthlyReportDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid month format"
// @Failure 404 {object} rest.ErrorResponse "No expenses for month"
// @Router /api/reports/{month} [get]
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	month := mux.Vars(r)["month"]

	monthlyReport, err := h.reportService.MonthlyReport(month)
	if err != nil {
		writeReportError(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := h.csvRenderer.RenderReport(monthlyReport)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(reportToDTO(monthlyReport)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Export godoc
// @Summary Download a monthly report as a CSV or JSON attachment
// @Tags Report
// @Produce text/csv
// @Produce json
// @Param month path string true "Month in YYYY-MM format"
// @Param format query string false "csv (default) or json"
// @Success 200
// @Failure 400 {object} rest.ErrorResponse "Invalid month or format"
// @Failure 404 {object} rest.ErrorResponse "No expenses for month"
// @Router /api/reports/{month}/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	month := mux.Vars(r)["month"]
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	monthlyReport, err := h.reportService.MonthlyReport(month)
	if err != nil {
		writeReportError(w, err)
		return
	}

	switch format {
	case "csv":
		csv, err := h.csvRenderer.RenderReport(monthlyReport)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=expenses-%s.csv", month))
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	case "json":
		body, err := json.MarshalIndent(reportToDTO(monthlyReport), "", "  ")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=expenses-%s.json", month))
		if _, err := w.Write(body); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	default:
		writeError(w, http.StatusBadRequest, "format must be csv or json")
	}
}

// ExportToSheets godoc
// @Summary Push a monthly report to the configured spreadsheet
// @Tags Report
// @Produce json
// @Param month path string true "Month in YYYY-MM format"
// @Success 200 {object} SheetsExportDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid month format"
// @Failure 404 {object} rest.ErrorResponse "No expenses for month"
// @Failure 502 {object} rest.ErrorResponse "Spreadsheet export failed"
// @Router /api/reports/{month}/sheets [post]
func (h *Handler) ExportToSheets(w http.ResponseWriter, r *http.Request) {
	month := mux.Vars(r)["month"]
	w.Header().Set("Content-Type", "application/json")

	url, err := h.reportService.ExportToSheets(r.Context(), month)
	if err != nil {
		if errors.Is(err, ErrInvalidMonth) || errors.Is(err, ErrNoData) {
			writeReportError(w, err)
			return
		}
		log.Errorf("sheets export failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SheetsExportDTO{URL: url}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func reportToDTO(monthlyReport MonthlyReport) MonthlyReportDTO {
	byCategory := make([]CategoryBreakdownDTO, 0, len(monthlyReport.ByCategory))
	for _, category := range monthlyReport.ByCategory {
		byCategory = append(byCategory, CategoryBreakdownDTO{
			Category: string(category.Category),
			Total:    category.Total.String(),
			Count:    category.Count,
			Average:  category.Average.String(),
		})
	}

	transactions := make([]TransactionDTO, 0, len(monthlyReport.Transactions))
	for _, e := range monthlyReport.Transactions {
		transactions = append(transactions, TransactionDTO{
			ID:       e.ID,
			Date:     e.Date.Format(dateLayout),
			Category: string(e.Category),
			Amount:   e.Amount.String(),
			Note:     e.Note,
		})
	}

	return MonthlyReportDTO{
		Month:        monthlyReport.Month,
		Total:        monthlyReport.Total.String(),
		Count:        monthlyReport.Count,
		Average:      monthlyReport.Average.String(),
		ByCategory:   byCategory,
		Transactions: transactions,
	}
}

func writeReportError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case errors.Is(err, ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNoData):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
