package mealplan

import "errors"

// Domain errors
var (
	ErrMissingUser   = errors.New("meal plan requires a user id")
	ErrZeroDate      = errors.New("meal plan requires a date")
	ErrDuplicateSlot = errors.New("slot already present in plan")
	ErrNoMeals       = errors.New("meal plan has no meals")
	ErrItemNotFound  = errors.New("plan item not found")
)
