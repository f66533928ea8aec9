package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Expenses
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.List).Methods("GET")
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.Add).Methods("POST")
	r.HandleFunc("/api/expenses/hydrate", deps.ExpenseHandler.Hydrate).Methods("POST")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/categories", deps.ExpenseHandler.ListCategories).Methods("GET")

	// Budget
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetOverview).Methods("GET")
	r.HandleFunc("/api/budget/limit", deps.BudgetHandler.SetLimit).Methods("PUT")
	r.HandleFunc("/api/budget/alerts", deps.BudgetHandler.GetAlerts).Methods("GET")

	// Analytics
	r.HandleFunc("/api/analytics", deps.BudgetHandler.GetInsights).Methods("GET")

	// Notifications
	r.HandleFunc("/api/notifications/demo", deps.BudgetHandler.SendDemoNotification).Methods("POST")

	// Reports
	r.HandleFunc("/api/reports/months", deps.ReportHandler.GetMonths).Methods("GET")
	r.HandleFunc("/api/reports/{month}", deps.ReportHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/reports/{month}/export", deps.ReportHandler.Export).Methods("GET")
	r.HandleFunc("/api/reports/{month}/sheets", deps.ReportHandler.ExportToSheets).Methods("POST")
}
