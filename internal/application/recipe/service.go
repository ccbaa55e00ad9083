// Package recipe provides the application layer for recipe generation
// and curation. This implements the use cases defined in the inbound
// ports.
package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/ports/inbound"
	"github.com/springdish/v1/internal/ports/outbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo     outbound.RecipeRepository
	starRepo       outbound.StarRepository
	ingredientRepo outbound.IngredientRepository
	generator      outbound.RecipeGenerator
	videos         outbound.VideoSearcher
	logger         *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	starRepo outbound.StarRepository,
	ingredientRepo outbound.IngredientRepository,
	generator outbound.RecipeGenerator,
	videos outbound.VideoSearcher,
	logger *zap.Logger,
) inbound.RecipeService {
	return &RecipeService{
		recipeRepo:     recipeRepo,
		starRepo:       starRepo,
		ingredientRepo: ingredientRepo,
		generator:      generator,
		videos:         videos,
		logger:         logger.Named("recipe-service"),
	}
}

// GenerateRecipe runs the full pipeline: collect the eligible pantry,
// generate a recipe from it, attach a companion video and persist the
// result. Expired ingredients never reach the generator.
func (s *RecipeService) GenerateRecipe(ctx context.Context, cmd inbound.GenerateRecipeCommand) (*inbound.RecipeDTO, error) {
	eligible, err := s.ingredientRepo.FindEligible(ctx, cmd.UserID, time.Now())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(eligible))
	for _, ingredient := range eligible {
		names = append(names, ingredient.Name())
	}
	names = narrowToRequested(names, cmd.Ingredients)

	if len(names) == 0 {
		return nil, apperrors.NewNoIngredientsError()
	}

	s.logger.Info("Generating recipe",
		zap.Int64("user_id", cmd.UserID),
		zap.Int("ingredient_count", len(names)),
	)

	content, err := s.generator.Generate(ctx, names)
	if err != nil {
		return nil, err
	}

	video := s.videos.Search(ctx, content.Title+" recipe")

	entity, err := recipe.NewRecipe(cmd.UserID, *content, video)
	if err != nil {
		return nil, apperrors.NewGenerationParseError(err.Error(), err)
	}

	if err := s.recipeRepo.Create(ctx, entity); err != nil {
		return nil, err
	}

	s.logger.Info("Recipe generated",
		zap.String("recipe_id", entity.ID().String()),
		zap.String("title", entity.Title()),
		zap.Bool("fallback_video", video.IsFallback()),
	)
	for _, event := range entity.Events() {
		s.logger.Debug("Domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}

	dto := s.entityToDTO(entity, false, 0)
	return &dto, nil
}

// narrowToRequested filters eligible names down to the requested
// subset. Requested names outside the eligible set are ignored; an
// empty request keeps the whole pantry.
func narrowToRequested(eligible, requested []string) []string {
	if len(requested) == 0 {
		return eligible
	}

	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	narrowed := make([]string, 0, len(eligible))
	for _, name := range eligible {
		if wanted[strings.ToLower(name)] {
			narrowed = append(narrowed, name)
		}
	}
	return narrowed
}

// ToggleStar flips the viewer's star on a recipe and reports the new
// state. A losing race on the unique pair surfaces as a conflict.
func (s *RecipeService) ToggleStar(ctx context.Context, recipeID uuid.UUID, userID int64) (*inbound.StarStateDTO, error) {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	starred, err := s.starRepo.Exists(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}

	if starred {
		if err := s.starRepo.Delete(ctx, recipeID, userID); err != nil {
			return nil, err
		}
	} else {
		star, err := recipe.NewStar(recipeID, userID)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		if err := s.starRepo.Create(ctx, star); err != nil {
			if errors.Is(err, recipe.ErrAlreadyStarred) {
				return nil, apperrors.NewConflictError("recipe already starred")
			}
			return nil, err
		}
	}

	count, err := s.starRepo.CountByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	return &inbound.StarStateDTO{
		RecipeID:  recipeID,
		IsStarred: !starred,
		StarCount: count,
	}, nil
}

// SaveRecipe keeps a generated recipe in the owner's collection.
func (s *RecipeService) SaveRecipe(ctx context.Context, recipeID uuid.UUID, userID int64) error {
	entity, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return err
	}

	if !entity.IsOwnedBy(userID) {
		return apperrors.NewNotFoundError("recipe")
	}

	if err := entity.Save(); err != nil {
		return apperrors.NewConflictError("recipe already saved")
	}

	return s.recipeRepo.Update(ctx, entity)
}

// DeleteRecipe removes a recipe the user owns.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID uuid.UUID, userID int64) error {
	err := s.recipeRepo.Delete(ctx, userID, recipeID)
	if errors.Is(err, recipe.ErrRecipeNotFound) {
		return apperrors.NewNotFoundError("recipe")
	}
	return err
}

// GetRecipe returns a recipe with the viewer's star state.
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID, viewerID int64) (*inbound.RecipeDTO, error) {
	entity, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	starred, err := s.starRepo.Exists(ctx, recipeID, viewerID)
	if err != nil {
		return nil, err
	}

	count, err := s.starRepo.CountByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	dto := s.entityToDTO(entity, starred, count)
	return &dto, nil
}

// ListRecipes returns the user's generated recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, userID int64, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	if params.PageSize <= 0 {
		params.PageSize = defaultPageSize
	}
	if params.Page < 0 {
		params.Page = 0
	}

	recipes, total, err := s.recipeRepo.FindByUser(ctx, userID, params.Page*params.PageSize, params.PageSize)
	if err != nil {
		return nil, err
	}

	starredIDs, err := s.starredSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]inbound.RecipeDTO, len(recipes))
	for i, entity := range recipes {
		count, err := s.starRepo.CountByRecipe(ctx, entity.ID())
		if err != nil {
			return nil, err
		}
		dtos[i] = s.entityToDTO(entity, starredIDs[entity.ID()], count)
	}

	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))

	return &inbound.RecipeList{
		Recipes:    dtos,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListStarredRecipes returns every recipe the user has starred,
// including recipes generated for other users.
func (s *RecipeService) ListStarredRecipes(ctx context.Context, userID int64) ([]inbound.RecipeDTO, error) {
	ids, err := s.starRepo.FindRecipeIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]inbound.RecipeDTO, 0, len(ids))
	for _, id := range ids {
		entity, err := s.recipeRepo.FindByID(ctx, id)
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			// The recipe was deleted after being starred.
			continue
		}
		if err != nil {
			return nil, err
		}

		count, err := s.starRepo.CountByRecipe(ctx, id)
		if err != nil {
			return nil, err
		}

		dtos = append(dtos, s.entityToDTO(entity, true, count))
	}

	return dtos, nil
}

func (s *RecipeService) findRecipe(ctx context.Context, recipeID uuid.UUID) (*recipe.Recipe, error) {
	entity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, apperrors.NewNotFoundError("recipe")
		}
		return nil, err
	}
	return entity, nil
}

func (s *RecipeService) starredSet(ctx context.Context, userID int64) (map[uuid.UUID]bool, error) {
	ids, err := s.starRepo.FindRecipeIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// entityToDTO converts a domain entity to a DTO
func (s *RecipeService) entityToDTO(entity *recipe.Recipe, starred bool, starCount int64) inbound.RecipeDTO {
	return inbound.RecipeDTO{
		ID:           entity.ID(),
		Title:        entity.Title(),
		Subtitle:     entity.Subtitle(),
		Steps:        entity.Steps(),
		Ingredients:  entity.Ingredients(),
		Seasonings:   entity.Seasonings(),
		YoutubeLink:  entity.Video().Link,
		VideoID:      entity.Video().VideoID,
		ThumbnailURL: entity.Video().ThumbnailURL,
		IsStarred:    starred,
		StarCount:    starCount,
		IsSaved:      entity.IsSaved(),
		CreatedAt:    entity.CreatedAt().Format(time.RFC3339),
	}
}
