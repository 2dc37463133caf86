package provider

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tnqbao/gau-recipe-service/entity"
	"github.com/tnqbao/gau-recipe-service/utils"
)

// RecipeStore is the soft-delete store contract the provider reads and writes
// through. Every read is restricted to active rows (deleted = false), children
// included; lookups return (nil, nil) when no active row matches. The
// conditional writes return false when the id is absent or already deleted.
type RecipeStore interface {
	CreateAggregate(ctx context.Context, recipe *entity.Recipe) error
	FindActiveByID(ctx context.Context, id uint) (*entity.Recipe, error)
	ListActive(ctx context.Context, offset, limit int) ([]entity.Recipe, error)
	SearchByName(ctx context.Context, term string) ([]entity.Recipe, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]entity.Recipe, error)
	SearchByIngredient(ctx context.Context, term string) ([]entity.Recipe, error)
	UpdateScalars(ctx context.Context, id uint, name string, keywords []string, servings int) (bool, error)
	FlagDeleted(ctx context.Context, id uint) (bool, error)
}

// RecipeCache is the read-through cache for assembled aggregates. A nil cache
// disables caching. Implemented by infra.RedisClient.
type RecipeCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type IngredientInput struct {
	Name   string
	Amount string
}

type StepInput struct {
	Description string
	PhotoID     *uint
}

type RecipeInput struct {
	Name        string
	Servings    int
	Keywords    []string
	Ingredients []IngredientInput
	Steps       []StepInput
}

type IngredientView struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type StepView struct {
	StepOrder   int    `json:"step_order"`
	Description string `json:"description"`
	PhotoID     *uint  `json:"photo_id,omitempty"`
}

type RecipeAggregate struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Servings    int              `json:"servings"`
	Keywords    []string         `json:"keywords"`
	Created     string           `json:"created"`
	Updated     string           `json:"updated"`
	Ingredients []IngredientView `json:"ingredients"`
	Steps       []StepView       `json:"steps"`
}

type RecipeSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Servings int    `json:"servings,omitempty"`
	Created  string `json:"created"`
}

type RecipeProvider struct {
	store    RecipeStore
	cache    RecipeCache
	cacheTTL time.Duration
}

func NewRecipeProvider(store RecipeStore, cache RecipeCache, cacheTTL time.Duration) *RecipeProvider {
	if store == nil {
		panic("recipe store is required")
	}
	return &RecipeProvider{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Create validates the input, assigns step order from the input position and
// commits the recipe with all its children as one atomic unit. Nothing is
// written when validation fails.
func (p *RecipeProvider) Create(ctx context.Context, input RecipeInput) (uint, error) {
	if err := validateRecipeInput(input); err != nil {
		return 0, err
	}

	recipe := &entity.Recipe{
		Name:     input.Name,
		Servings: input.Servings,
		Keywords: input.Keywords,
	}
	for _, ing := range input.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, entity.Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
		})
	}
	for i, step := range input.Steps {
		recipe.Steps = append(recipe.Steps, entity.Step{
			StepOrder:   i + 1,
			Description: step.Description,
			PhotoID:     step.PhotoID,
		})
	}

	if err := p.store.CreateAggregate(ctx, recipe); err != nil {
		return 0, storeErr(err)
	}
	return recipe.ID, nil
}

// Get assembles the active recipe with its active ingredients (unordered) and
// active steps (ascending step order).
func (p *RecipeProvider) Get(ctx context.Context, id uint) (*RecipeAggregate, error) {
	key := recipeCacheKey(id)
	if p.cache != nil {
		var cached RecipeAggregate
		if err := p.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	recipe, err := p.store.FindActiveByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if recipe == nil {
		return nil, ErrNotFound
	}

	agg := assembleAggregate(recipe)
	if p.cache != nil {
		_ = p.cache.Set(ctx, key, agg, p.cacheTTL)
	}
	return agg, nil
}

// Update rewrites only the top-level scalar fields and stamps the updated
// timestamp. A deleted or absent id yields ErrNotFound and no write.
func (p *RecipeProvider) Update(ctx context.Context, id uint, name string, keywords []string, servings int) error {
	if err := validateScalars(name, keywords, servings); err != nil {
		return err
	}

	matched, err := p.store.UpdateScalars(ctx, id, name, keywords, servings)
	if err != nil {
		return storeErr(err)
	}
	if !matched {
		return ErrNotFound
	}
	p.invalidate(ctx, id)
	return nil
}

// Delete soft-flags the recipe row only. Children keep their own flags and
// become unreachable because every read joins through the active parent.
func (p *RecipeProvider) Delete(ctx context.Context, id uint) error {
	matched, err := p.store.FlagDeleted(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if !matched {
		return ErrNotFound
	}
	p.invalidate(ctx, id)
	return nil
}

// List returns one page of summaries, newest first. A page beyond the last
// yields an empty slice.
func (p *RecipeProvider) List(ctx context.Context, page, limit int) ([]RecipeSummary, error) {
	offset, lim := utils.Window(page, limit)
	recipes, err := p.store.ListActive(ctx, offset, lim)
	if err != nil {
		return nil, storeErr(err)
	}
	summaries := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, RecipeSummary{
			ID:       r.ID,
			Name:     r.Name,
			Servings: r.Servings,
			Created:  r.Created.Format(time.RFC3339),
		})
	}
	return summaries, nil
}

// SearchByName matches a case-insensitive substring of the recipe name.
func (p *RecipeProvider) SearchByName(ctx context.Context, term string) ([]RecipeSummary, error) {
	return p.search(ctx, term, p.store.SearchByName)
}

// SearchByKeyword matches by exact keyword membership, not substring.
func (p *RecipeProvider) SearchByKeyword(ctx context.Context, keyword string) ([]RecipeSummary, error) {
	return p.search(ctx, keyword, p.store.SearchByKeyword)
}

// SearchByIngredient matches a case-insensitive substring of any active
// ingredient name; a recipe appears once however many ingredients match.
func (p *RecipeProvider) SearchByIngredient(ctx context.Context, term string) ([]RecipeSummary, error) {
	return p.search(ctx, term, p.store.SearchByIngredient)
}

func (p *RecipeProvider) search(ctx context.Context, term string, query func(context.Context, string) ([]entity.Recipe, error)) ([]RecipeSummary, error) {
	if term == "" {
		// an empty substring would match everything
		return nil, validationErrorf("search term must not be empty")
	}
	recipes, err := query(ctx, term)
	if err != nil {
		return nil, storeErr(err)
	}
	summaries := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		summaries = append(summaries, RecipeSummary{
			ID:      r.ID,
			Name:    r.Name,
			Created: r.Created.Format(time.RFC3339),
		})
	}
	return summaries, nil
}

func (p *RecipeProvider) invalidate(ctx context.Context, id uint) {
	if p.cache != nil {
		_ = p.cache.Delete(ctx, recipeCacheKey(id))
	}
}

func recipeCacheKey(id uint) string {
	return fmt.Sprintf("recipe:%d", id)
}

func assembleAggregate(recipe *entity.Recipe) *RecipeAggregate {
	agg := &RecipeAggregate{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Servings:    recipe.Servings,
		Keywords:    recipe.Keywords,
		Created:     recipe.Created.Format(time.RFC3339),
		Updated:     recipe.Updated.Format(time.RFC3339),
		Ingredients: make([]IngredientView, 0, len(recipe.Ingredients)),
		Steps:       make([]StepView, 0, len(recipe.Steps)),
	}
	if agg.Keywords == nil {
		agg.Keywords = []string{}
	}
	for _, ing := range recipe.Ingredients {
		agg.Ingredients = append(agg.Ingredients, IngredientView{
			Name:   ing.Name,
			Amount: ing.Amount,
		})
	}
	for _, step := range recipe.Steps {
		agg.Steps = append(agg.Steps, StepView{
			StepOrder:   step.StepOrder,
			Description: step.Description,
			PhotoID:     step.PhotoID,
		})
	}
	return agg
}

func validateRecipeInput(input RecipeInput) error {
	if err := validateScalars(input.Name, input.Keywords, input.Servings); err != nil {
		return err
	}
	for _, ing := range input.Ingredients {
		if n := utf8.RuneCountInString(ing.Name); n == 0 || n > entity.MaxIngredientNameLen {
			return validationErrorf("ingredient name must be 1-%d characters", entity.MaxIngredientNameLen)
		}
		if n := utf8.RuneCountInString(ing.Amount); n == 0 || n > entity.MaxIngredientAmtLen {
			return validationErrorf("ingredient amount must be 1-%d characters", entity.MaxIngredientAmtLen)
		}
	}
	return nil
}

func validateScalars(name string, keywords []string, servings int) error {
	if n := utf8.RuneCountInString(name); n == 0 || n > entity.MaxRecipeNameLen {
		return validationErrorf("recipe name must be 1-%d characters", entity.MaxRecipeNameLen)
	}
	if servings < 1 || servings > entity.MaxServings {
		return validationErrorf("servings must be 1-%d", entity.MaxServings)
	}
	if len(keywords) > entity.MaxKeywords {
		return validationErrorf("at most %d keywords are allowed", entity.MaxKeywords)
	}
	for _, kw := range keywords {
		if n := utf8.RuneCountInString(kw); n == 0 || n > entity.MaxKeywordLen {
			return validationErrorf("keywords must be 1-%d characters", entity.MaxKeywordLen)
		}
	}
	return nil
}
