package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tnqbao/gau-recipe-service/entity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// CreateAggregate writes the recipe row and all its ingredient/step rows in
// one transaction; a failed child insert rolls back the parent.
func (r *RecipeRepository) CreateAggregate(ctx context.Context, recipe *entity.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(recipe).Error
	})
}

// FindActiveByID loads the active recipe with its active ingredients and its
// active steps ordered by step_order. Returns (nil, nil) when the id is
// absent or soft-deleted.
func (r *RecipeRepository) FindActiveByID(ctx context.Context, id uint) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients", "deleted = ?", false).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Where("deleted = ?", false).Order("step_order ASC")
		}).
		Where("id = ? AND deleted = ?", id, false).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepository) ListActive(ctx context.Context, offset, limit int) ([]entity.Recipe, error) {
	if offset < 0 {
		return nil, fmt.Errorf("negative offset %d", offset)
	}
	var recipes []entity.Recipe
	err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Order("created DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *RecipeRepository) SearchByName(ctx context.Context, term string) ([]entity.Recipe, error) {
	var recipes []entity.Recipe
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? AND deleted = ?", "%"+term+"%", false).
		Order("created DESC, id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchByKeyword is an exact membership test on the keywords jsonb array,
// via containment.
func (r *RecipeRepository) SearchByKeyword(ctx context.Context, keyword string) ([]entity.Recipe, error) {
	member, err := json.Marshal([]string{keyword})
	if err != nil {
		return nil, err
	}
	var recipes []entity.Recipe
	err = r.db.WithContext(ctx).
		Where("keywords @> ? AND deleted = ?", datatypes.JSON(member), false).
		Order("created DESC, id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchByIngredient joins through active ingredients of active recipes,
// deduplicated by recipe id.
func (r *RecipeRepository) SearchByIngredient(ctx context.Context, term string) ([]entity.Recipe, error) {
	var recipes []entity.Recipe
	err := r.db.WithContext(ctx).
		Distinct("recipes.*").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
		Where("recipe_ingredients.name ILIKE ? AND recipe_ingredients.deleted = ? AND recipes.deleted = ?",
			"%"+term+"%", false, false).
		Order("recipes.created DESC, recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// UpdateScalars rewrites only the top-level scalar fields of an active recipe
// and stamps updated. Returns false when no active row matched.
func (r *RecipeRepository) UpdateScalars(ctx context.Context, id uint, name string, keywords []string, servings int) (bool, error) {
	if keywords == nil {
		keywords = []string{}
	}
	res := r.db.WithContext(ctx).
		Model(&entity.Recipe{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{
			"name":     name,
			"keywords": datatypes.NewJSONSlice(keywords),
			"servings": servings,
			"updated":  time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FlagDeleted soft-flags the recipe row only; child rows keep their own flags
// and become unreachable through the parent filter.
func (r *RecipeRepository) FlagDeleted(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Recipe{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{
			"deleted": true,
			"updated": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
