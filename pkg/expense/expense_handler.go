package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/internal/rest"
	"github.com/spendwise/spendwise/pkg/user"
)

const dateLayout = "2006-01-02"

type ExpenseDTO struct {
	ID        string     `json:"id"`
	Category  string     `json:"category"`
	Date      string     `json:"date"`
	Amount    string     `json:"amount"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type AddExpenseDTO struct {
	Category string `json:"category"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Note     string `json:"note"`
}

type UpdateExpenseDTO struct {
	Category *string `json:"category"`
	Date     *string `json:"date"`
	Amount   *string `json:"amount"`
	Note     *string `json:"note"`
}

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Add godoc
// @Summary Record a new expense
// @Tags Expense
// @Accept json
// @Produce json
// @Param expense body AddExpenseDTO true "Expense"
// @Success 201 {object} ExpenseDTO
// @Failure 400 {object} rest.ErrorResponse "Validation failed"
// @Router /api/expenses [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	log.Debug("Recording new expense")
	w.Header().Set("Content-Type", "application/json")

	var dto AddExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	input, err := dtoToInput(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense", err.Error())
		return
	}

	created, err := h.store.Add(r.Context(), input)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			writeError(w, http.StatusBadRequest, "Invalid expense", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(expenseToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// List godoc
// @Summary List expenses in store order (newest first)
// @Tags Expense
// @Produce json
// @Success 200 {array} ExpenseDTO
// @Router /api/expenses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	expenses := h.store.List()
	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, expenseToDTO(e))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListCategories godoc
// @Summary List the fixed expense categories in display order
// @Tags Expense
// @Produce json
// @Success 200 {array} string
// @Router /api/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	categories := Categories()
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, string(category))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(names); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Update godoc
// @Summary Update fields of an existing expense
// @Tags Expense
// @Accept json
// @Produce json
// @Param id path string true "Expense id"
// @Param patch body UpdateExpenseDTO true "Fields to change"
// @Success 200 {object} ExpenseDTO
// @Failure 400 {object} rest.ErrorResponse "Validation failed"
// @Failure 404 {string} string "Expense not found"
// @Router /api/expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var dto UpdateExpenseDTO
	decoder := json.NewDecoder(r.Body)
	// Mutable fields are an explicit allow-list; unknown keys are rejected
	// instead of passed through.
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	patch, err := dtoToPatch(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense patch", err.Error())
		return
	}

	updated, found, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			writeError(w, http.StatusBadRequest, "Invalid expense patch", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(expenseToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Delete godoc
// @Summary Delete an expense
// @Tags Expense
// @Param id path string true "Expense id"
// @Success 204
// @Failure 404 {string} string "Expense not found"
// @Router /api/expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if !h.store.Delete(r.Context(), id) {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Hydrate godoc
// @Summary Replace the in-memory collection with the user's mirrored records
// @Tags Expense
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 403 {string} string "No authenticated user"
// @Router /api/expenses/hydrate [post]
func (h *Handler) Hydrate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	count, err := h.store.Hydrate(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "No authenticated user", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]int{"loaded": count}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func expenseToDTO(e Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:        e.ID,
		Category:  string(e.Category),
		Date:      e.Date.Format(dateLayout),
		Amount:    e.Amount.String(),
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func dtoToInput(dto AddExpenseDTO) (Input, error) {
	date, err := time.Parse(dateLayout, dto.Date)
	if err != nil {
		return Input{}, errors.New("date must be in YYYY-MM-DD format")
	}
	return Input{
		Category: Category(dto.Category),
		Date:     date,
		Amount:   dto.Amount,
		Note:     dto.Note,
	}, nil
}

func dtoToPatch(dto UpdateExpenseDTO) (Patch, error) {
	patch := Patch{
		Amount: dto.Amount,
		Note:   dto.Note,
	}
	if dto.Category != nil {
		category := Category(*dto.Category)
		patch.Category = &category
	}
	if dto.Date != nil {
		date, err := time.Parse(dateLayout, *dto.Date)
		if err != nil {
			return Patch{}, errors.New("date must be in YYYY-MM-DD format")
		}
		patch.Date = &date
	}
	return patch, nil
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.WriteHeader(status)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
