// Package pantry contains the core domain logic for perishable
// ingredient tracking. This follows Domain-Driven Design principles
// with rich domain models.
package pantry

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/domain/shared"
)

// Ingredient represents a perishable item registered by a user.
// Each ingredient carries its own consumption window: it becomes
// usable at addedAt and expires strictly after limitAt.
type Ingredient struct {
	id       uuid.UUID
	userID   int64
	name     string
	category string
	quantity string
	imageURL string
	addedAt  time.Time
	limitAt  time.Time
	frozen   bool

	// Limit before the frozen extension was applied. Restored on thaw;
	// nil while not frozen.
	preFreezeLimit *time.Time

	createdAt time.Time
	updatedAt time.Time

	events []shared.DomainEvent
}

// FrozenExtension is how much longer frozen storage keeps an
// ingredient usable.
const FrozenExtension = 5 // months

// NewIngredient registers an ingredient with an explicit consumption window.
func NewIngredient(userID int64, name string, addedAt, limitAt time.Time) (*Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > 100 {
		return nil, ErrNameTooLong
	}
	if userID <= 0 {
		return nil, ErrInvalidOwner
	}
	if limitAt.Before(addedAt) {
		return nil, ErrLimitBeforeAdded
	}

	now := time.Now()
	ing := &Ingredient{
		id:        uuid.New(),
		userID:    userID,
		name:      name,
		addedAt:   addedAt,
		limitAt:   limitAt,
		createdAt: now,
		updatedAt: now,
		events:    []shared.DomainEvent{},
	}

	ing.addEvent(IngredientRegisteredEvent{
		IngredientID: ing.id,
		UserID:       userID,
		Name:         name,
		LimitAt:      limitAt,
		RegisteredAt: now,
	})

	return ing, nil
}

// Reconstitute rebuilds an ingredient from persisted state. Intended
// for repository mappers only.
func Reconstitute(id uuid.UUID, userID int64, name, category, quantity, imageURL string, addedAt, limitAt time.Time, frozen bool, preFreezeLimit *time.Time, createdAt, updatedAt time.Time) *Ingredient {
	return &Ingredient{
		id:             id,
		userID:         userID,
		name:           name,
		category:       category,
		quantity:       quantity,
		imageURL:       imageURL,
		addedAt:        addedAt,
		limitAt:        limitAt,
		frozen:         frozen,
		preFreezeLimit: preFreezeLimit,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		events:         []shared.DomainEvent{},
	}
}

// ID returns the ingredient's unique identifier
func (i *Ingredient) ID() uuid.UUID {
	return i.id
}

// UserID returns the owning user's account identifier
func (i *Ingredient) UserID() int64 {
	return i.userID
}

// Name returns the ingredient name
func (i *Ingredient) Name() string {
	return i.name
}

// Category returns the ingredient category, such as "vegetable" or
// "dairy". May be empty for records predating categorisation.
func (i *Ingredient) Category() string {
	return i.category
}

// Quantity returns the free-form quantity description, such as "200g"
func (i *Ingredient) Quantity() string {
	return i.quantity
}

// ImageURL returns the optional image reference
func (i *Ingredient) ImageURL() string {
	return i.imageURL
}

// AddedAt returns the start of the consumption window
func (i *Ingredient) AddedAt() time.Time {
	return i.addedAt
}

// LimitAt returns the end of the consumption window
func (i *Ingredient) LimitAt() time.Time {
	return i.limitAt
}

// IsFrozen returns whether the ingredient is in frozen storage
func (i *Ingredient) IsFrozen() bool {
	return i.frozen
}

// PreFreezeLimitAt returns the limit the ingredient had before it was
// frozen, or nil while not frozen. Intended for repository mappers.
func (i *Ingredient) PreFreezeLimitAt() *time.Time {
	return i.preFreezeLimit
}

// CreatedAt returns when the record was created
func (i *Ingredient) CreatedAt() time.Time {
	return i.createdAt
}

// UpdatedAt returns when the record was last modified
func (i *Ingredient) UpdatedAt() time.Time {
	return i.updatedAt
}

// IsExpired reports whether the ingredient is past its limit at the
// given instant. An ingredient expiring exactly at limitAt is still
// usable at that instant.
func (i *Ingredient) IsExpired(now time.Time) bool {
	return now.After(i.limitAt)
}

// IsEligible reports whether the ingredient may feed recipe generation
/// at the given instant: inside the consumption window, inclusive on
// both ends.
func (i *Ingredient) IsEligible(now time.Time) bool {
	return !now.Before(i.addedAt) && !now.After(i.limitAt)
}

// DaysUntilExpiry returns whole days remaining before the limit,
// rounding down. Expired ingredients yield negative values.
func (i *Ingredient) DaysUntilExpiry(now time.Time) int {
	return int(math.Floor(i.limitAt.Sub(now).Hours() / 24))
}

// Rename changes the ingredient name.
func (i *Ingredient) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	i.name = name
	i.updatedAt = time.Now()
	return nil
}

// Describe sets the descriptive attributes: category, a free-form
// quantity, and an image reference. Each may be empty.
func (i *Ingredient) Describe(category, quantity, imageURL string) error {
	category = strings.TrimSpace(category)
	if len(category) > 50 {
		return ErrCategoryTooLong
	}
	i.category = category
	i.quantity = strings.TrimSpace(quantity)
	i.imageURL = strings.TrimSpace(imageURL)
	i.updatedAt = time.Now()
	return nil
}

// UpdateWindow replaces the consumption window.
func (i *Ingredient) UpdateWindow(addedAt, limitAt time.Time) error {
	if limitAt.Before(addedAt) {
		return ErrLimitBeforeAdded
	}
	i.addedAt = addedAt
	i.limitAt = limitAt
	i.updatedAt = time.Now()
	return nil
}

// Freeze moves the ingredient into frozen storage, pushing the limit
// out by FrozenExtension months.
func (i *Ingredient) Freeze() error {
	if i.frozen {
		return ErrAlreadyFrozen
	}
	original := i.limitAt
	i.frozen = true
	i.preFreezeLimit = &original
	i.limitAt = i.limitAt.AddDate(0, FrozenExtension, 0)
	i.updatedAt = time.Now()

	i.addEvent(IngredientFrozenEvent{
		IngredientID: i.id,
		UserID:       i.userID,
		NewLimitAt:   i.limitAt,
		FrozenAt:     i.updatedAt,
	})

	return nil
}

// Thaw takes the ingredient out of frozen storage and gives back the
// limit it had before freezing. The stored pre-freeze limit is used
// rather than reversing the extension, since month arithmetic does not
// round-trip across month ends.
func (i *Ingredient) Thaw() error {
	if !i.frozen {
		return ErrNotFrozen
	}
	i.frozen = false
	if i.preFreezeLimit != nil {
		i.limitAt = *i.preFreezeLimit
		i.preFreezeLimit = nil
	} else {
		i.limitAt = i.limitAt.AddDate(0, -FrozenExtension, 0)
	}
	i.updatedAt = time.Now()
	return nil
}

// IsOwnedBy reports whether the ingredient belongs to the given user.
func (i *Ingredient) IsOwnedBy(userID int64) bool {
	return i.userID == userID
}

// addEvent adds a domain event to be dispatched
func (i *Ingredient) addEvent(event shared.DomainEvent) {
	i.events = append(i.events, event)
}

// Events returns and clears pending domain events
func (i *Ingredient) Events() []shared.DomainEvent {
	events := i.events
	i.events = []shared.DomainEvent{}
	return events
}
