package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Generation contract violations
	ErrMissingTitle       = errors.New("generated recipe is missing a title")
	ErrMissingSubtitle    = errors.New("generated recipe is missing a subtitle")
	ErrMissingSteps       = errors.New("generated recipe has no steps")
	ErrBlankStep          = errors.New("generated recipe contains a blank step")
	ErrMissingIngredients = errors.New("generated recipe has no ingredients")

	// Entity validation errors
	ErrInvalidOwner    = errors.New("recipe owner must be a valid user")
	ErrInvalidRecipeID = errors.New("recipe id must not be nil")

	// State errors
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrAlreadySaved   = errors.New("recipe is already saved")
	ErrAlreadyStarred = errors.New("recipe is already starred by this user")

	// Permission errors
	ErrNotRecipeOwner = errors.New("only the recipe owner can perform this action")
)
