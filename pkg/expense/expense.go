package expense

import (
	"errors"
	"time"

	"github.com/spendwise/spendwise/pkg/money"
)

type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryUtilities      Category = "Utilities"
	CategoryShopping       Category = "Shopping"
	CategoryHealth         Category = "Health"
	CategoryEducation      Category = "Education"
	CategoryOther          Category = "Other"
)

// Categories returns the fixed set of expense categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransportation,
		CategoryEntertainment,
		CategoryUtilities,
		CategoryShopping,
		CategoryHealth,
		CategoryEducation,
		CategoryOther,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransportation, CategoryEntertainment, CategoryUtilities,
		CategoryShopping, CategoryHealth, CategoryEducation, CategoryOther:
		return true
	}
	return false
}

// ErrValidation marks a rejected mutation. The mutation never reaches the
// collection when this is returned.
var ErrValidation = errors.New("validation failed")

type Expense struct {
	ID       string
	Category Category
	Date     time.Time
	Amount   money.Money
	Note     string
	// CreatedAt is set once at creation and never changes.
	CreatedAt time.Time
	// UpdatedAt is nil until the first update and refreshed on every one.
	UpdatedAt *time.Time
}

// Input carries the user-supplied fields of a new expense. Amount stays a
// string until the store coerces it to a decimal.
type Input struct {
	Category Category
	Date     time.Time
	Amount   string
	Note     string
}

// Patch is the typed partial update for an expense. Only these four fields
// are mutable; nil means "keep the previous value".
type Patch struct {
	Category *Category
	Date     *time.Time
	Amount   *string
	Note     *string
}
