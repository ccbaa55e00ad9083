package pantry

import "errors"

// Domain errors for pantry operations

var (
	// Entity validation errors
	ErrEmptyName        = errors.New("ingredient name must not be empty")
	ErrNameTooLong      = errors.New("ingredient name must not exceed 100 characters")
	ErrCategoryTooLong  = errors.New("ingredient category must not exceed 50 characters")
	ErrInvalidOwner     = errors.New("ingredient owner must be a valid user")
	ErrLimitBeforeAdded = errors.New("limit date must not precede the added date")

	// State errors
	ErrAlreadyFrozen      = errors.New("ingredient is already frozen")
	ErrNotFrozen          = errors.New("ingredient is not frozen")
	ErrIngredientNotFound = errors.New("ingredient not found")

	// Permission errors
	ErrNotIngredientOwner = errors.New("only the ingredient owner can perform this action")
)
