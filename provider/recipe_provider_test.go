package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-recipe-service/entity"
)

// fakeRecipeStore implements the RecipeStore contract in memory: reads see
// active rows only, lookups return (nil, nil) on miss and the conditional
// writes report whether an active row matched.
type fakeRecipeStore struct {
	recipes map[uint]*entity.Recipe
	nextID  uint
	now     time.Time
}

func newFakeRecipeStore() *fakeRecipeStore {
	return &fakeRecipeStore{
		recipes: make(map[uint]*entity.Recipe),
		nextID:  1,
		now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick advances the clock so successive creates get distinct timestamps.
func (s *fakeRecipeStore) tick() time.Time {
	s.now = s.now.Add(time.Minute)
	return s.now
}

func (s *fakeRecipeStore) CreateAggregate(_ context.Context, recipe *entity.Recipe) error {
	recipe.ID = s.nextID
	s.nextID++
	recipe.Created = s.tick()
	recipe.Updated = recipe.Created
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].RecipeID = recipe.ID
	}
	for i := range recipe.Steps {
		recipe.Steps[i].RecipeID = recipe.ID
	}
	stored := *recipe
	s.recipes[recipe.ID] = &stored
	return nil
}

func (s *fakeRecipeStore) FindActiveByID(_ context.Context, id uint) (*entity.Recipe, error) {
	r, ok := s.recipes[id]
	if !ok || r.Deleted {
		return nil, nil
	}
	out := *r
	out.Ingredients = nil
	for _, ing := range r.Ingredients {
		if !ing.Deleted {
			out.Ingredients = append(out.Ingredients, ing)
		}
	}
	out.Steps = nil
	for _, st := range r.Steps {
		if !st.Deleted {
			out.Steps = append(out.Steps, st)
		}
	}
	sort.Slice(out.Steps, func(i, j int) bool {
		return out.Steps[i].StepOrder < out.Steps[j].StepOrder
	})
	return &out, nil
}

func (s *fakeRecipeStore) active() []entity.Recipe {
	var out []entity.Recipe
	for _, r := range s.recipes {
		if !r.Deleted {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *fakeRecipeStore) ListActive(_ context.Context, offset, limit int) ([]entity.Recipe, error) {
	if offset < 0 {
		return nil, fmt.Errorf("negative offset %d", offset)
	}
	all := s.active()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *fakeRecipeStore) SearchByName(_ context.Context, term string) ([]entity.Recipe, error) {
	var out []entity.Recipe
	for _, r := range s.active() {
		if strings.Contains(strings.ToLower(r.Name), strings.ToLower(term)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeRecipeStore) SearchByKeyword(_ context.Context, keyword string) ([]entity.Recipe, error) {
	var out []entity.Recipe
	for _, r := range s.active() {
		for _, kw := range r.Keywords {
			if kw == keyword {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeRecipeStore) SearchByIngredient(_ context.Context, term string) ([]entity.Recipe, error) {
	var out []entity.Recipe
	for _, r := range s.active() {
		for _, ing := range r.Ingredients {
			if !ing.Deleted && strings.Contains(strings.ToLower(ing.Name), strings.ToLower(term)) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeRecipeStore) UpdateScalars(_ context.Context, id uint, name string, keywords []string, servings int) (bool, error) {
	r, ok := s.recipes[id]
	if !ok || r.Deleted {
		return false, nil
	}
	r.Name = name
	r.Keywords = keywords
	r.Servings = servings
	r.Updated = s.tick()
	return true, nil
}

func (s *fakeRecipeStore) FlagDeleted(_ context.Context, id uint) (bool, error) {
	r, ok := s.recipes[id]
	if !ok || r.Deleted {
		return false, nil
	}
	r.Deleted = true
	r.Updated = s.tick()
	return true, nil
}

func mustCreate(t *testing.T, p *RecipeProvider, input RecipeInput) uint {
	t.Helper()
	id, err := p.Create(context.Background(), input)
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func basicInput(name string) RecipeInput {
	return RecipeInput{
		Name:     name,
		Servings: 2,
		Keywords: []string{"dinner"},
		Ingredients: []IngredientInput{
			{Name: "Onion", Amount: "1"},
		},
		Steps: []StepInput{
			{Description: "Chop the onion"},
		},
	}
}

func TestCreateThenGetRoundtrip(t *testing.T) {
	store := newFakeRecipeStore()
	p := NewRecipeProvider(store, nil, 0)

	photoID := uint(7)
	id, err := p.Create(context.Background(), RecipeInput{
		Name:     "Pasta Carbonara",
		Servings: 4,
		Keywords: []string{"pasta", "quick"},
		Ingredients: []IngredientInput{
			{Name: "Spaghetti", Amount: "400g"},
			{Name: "Eggs", Amount: "3"},
		},
		Steps: []StepInput{
			{Description: "Boil the spaghetti"},
			{Description: "Whisk the eggs", PhotoID: &photoID},
		},
	})
	require.NoError(t, err)

	got, err := p.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Pasta Carbonara", got.Name)
	assert.Equal(t, 4, got.Servings)
	assert.Equal(t, []string{"pasta", "quick"}, got.Keywords)
	require.Len(t, got.Ingredients, 2)
	require.Len(t, got.Steps, 2)

	// step order comes from input position, 1-based
	assert.Equal(t, 1, got.Steps[0].StepOrder)
	assert.Equal(t, "Boil the spaghetti", got.Steps[0].Description)
	assert.Equal(t, 2, got.Steps[1].StepOrder)
	require.NotNil(t, got.Steps[1].PhotoID)
	assert.Equal(t, photoID, *got.Steps[1].PhotoID)
}

func TestGetUnknownID(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)

	_, err := p.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteHidesRecipeEverywhere(t *testing.T) {
	store := newFakeRecipeStore()
	p := NewRecipeProvider(store, nil, 0)

	id := mustCreate(t, p, RecipeInput{
		Name:        "Tomato Soup",
		Servings:    2,
		Keywords:    []string{"soup"},
		Ingredients: []IngredientInput{{Name: "Tomato", Amount: "500g"}},
	})

	require.NoError(t, p.Delete(context.Background(), id))

	_, err := p.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := p.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	byName, err := p.SearchByName(context.Background(), "tomato")
	require.NoError(t, err)
	assert.Empty(t, byName)

	byKeyword, err := p.SearchByKeyword(context.Background(), "soup")
	require.NoError(t, err)
	assert.Empty(t, byKeyword)

	byIngredient, err := p.SearchByIngredient(context.Background(), "tomato")
	require.NoError(t, err)
	assert.Empty(t, byIngredient)
}

func TestDeleteTwice(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)

	id := mustCreate(t, p, basicInput("Omelette"))
	require.NoError(t, p.Delete(context.Background(), id))
	assert.ErrorIs(t, p.Delete(context.Background(), id), ErrNotFound)
}

func TestUpdateRewritesScalarsOnly(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)

	id := mustCreate(t, p, basicInput("Fried Rice"))

	err := p.Update(context.Background(), id, "Veggie Fried Rice", []string{"rice", "veggie"}, 3)
	require.NoError(t, err)

	got, err := p.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Veggie Fried Rice", got.Name)
	assert.Equal(t, []string{"rice", "veggie"}, got.Keywords)
	assert.Equal(t, 3, got.Servings)
	// children are untouched by scalar updates
	require.Len(t, got.Ingredients, 1)
	require.Len(t, got.Steps, 1)
}

func TestUpdateDeletedRecipe(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)

	id := mustCreate(t, p, basicInput("Stew"))
	require.NoError(t, p.Delete(context.Background(), id))

	err := p.Update(context.Background(), id, "Beef Stew", nil, 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPagination(t *testing.T) {
	store := newFakeRecipeStore()
	p := NewRecipeProvider(store, nil, 0)

	var ids []uint
	for i := 1; i <= 5; i++ {
		ids = append(ids, mustCreate(t, p, basicInput(fmt.Sprintf("Recipe %d", i))))
	}

	// newest first
	page1, err := p.List(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, ids[4], page1[0].ID)
	assert.Equal(t, ids[3], page1[1].ID)

	page2, err := p.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, ids[2], page2[0].ID)
	assert.Equal(t, ids[1], page2[1].ID)

	page3, err := p.List(context.Background(), 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, ids[0], page3[0].ID)

	empty, err := p.List(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchByKeywordExactMembership(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)

	in := basicInput("Granola")
	in.Keywords = []string{"breakfast", "oats"}
	mustCreate(t, p, in)

	hits, err := p.SearchByKeyword(context.Background(), "breakfast")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	// substring of a keyword is not a match
	none, err := p.SearchByKeyword(context.Background(), "break")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchByIngredientDeduplicates(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)

	mustCreate(t, p, RecipeInput{
		Name:     "Double Onion Soup",
		Servings: 2,
		Ingredients: []IngredientInput{
			{Name: "Red onion", Amount: "2"},
			{Name: "White onion", Amount: "1"},
		},
	})

	hits, err := p.SearchByIngredient(context.Background(), "onion")
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchByNameCaseInsensitive(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)

	mustCreate(t, p, basicInput("Chicken Curry"))

	hits, err := p.SearchByName(context.Background(), "CURRY")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Chicken Curry", hits[0].Name)
}

func TestSearchEmptyTerm(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)

	var vErr *ValidationError
	_, err := p.SearchByName(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.As(err, &vErr))

	_, err = p.SearchByKeyword(context.Background(), "")
	assert.Error(t, err)

	_, err = p.SearchByIngredient(context.Background(), "")
	assert.Error(t, err)
}

func TestCreateValidation(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RecipeInput
	}{
		{"empty name", RecipeInput{Name: "", Servings: 1}},
		{"name too long", RecipeInput{Name: strings.Repeat("x", entity.MaxRecipeNameLen+1), Servings: 1}},
		{"servings zero", RecipeInput{Name: "Toast", Servings: 0}},
		{"servings too large", RecipeInput{Name: "Toast", Servings: entity.MaxServings + 1}},
		{"too many keywords", RecipeInput{Name: "Toast", Servings: 1, Keywords: make([]string, entity.MaxKeywords+1)}},
		{"keyword too long", RecipeInput{Name: "Toast", Servings: 1, Keywords: []string{strings.Repeat("k", entity.MaxKeywordLen+1)}}},
		{"ingredient name empty", RecipeInput{Name: "Toast", Servings: 1, Ingredients: []IngredientInput{{Name: "", Amount: "1"}}}},
		{"ingredient amount too long", RecipeInput{Name: "Toast", Servings: 1, Ingredients: []IngredientInput{{Name: "Bread", Amount: strings.Repeat("9", entity.MaxIngredientAmtLen+1)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Create(ctx, tt.input)
			var vErr *ValidationError
			require.Error(t, err)
			assert.True(t, errors.As(err, &vErr))
		})
	}
}

func TestValidationCountsCharactersNotBytes(t *testing.T) {
	p := NewRecipeProvider(newFakeRecipeStore(), nil, 0)

	// 100 multi-byte runes fit the 100-character limit
	in := basicInput(strings.Repeat("é", entity.MaxRecipeNameLen))
	_, err := p.Create(context.Background(), in)
	assert.NoError(t, err)
}

// cacheSpy records cache traffic so invalidation can be asserted.
type cacheSpy struct {
	entries map[string][]byte
	sets    int
	hits    int
	deletes []string
}

func newCacheSpy() *cacheSpy {
	return &cacheSpy{entries: make(map[string][]byte)}
}

func (c *cacheSpy) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return errors.New("key not found in cache")
	}
	c.hits++
	return json.Unmarshal(data, dest)
}

func (c *cacheSpy) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	c.sets++
	return nil
}

func (c *cacheSpy) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
		c.deletes = append(c.deletes, key)
	}
	return nil
}

func TestGetUsesCache(t *testing.T) {
	store := newFakeRecipeStore()
	cache := newCacheSpy()
	p := NewRecipeProvider(store, cache, time.Minute)

	id := mustCreate(t, p, basicInput("Pancakes"))

	first, err := p.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 0, cache.hits)

	second, err := p.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)
}

func TestWritesInvalidateCache(t *testing.T) {
	store := newFakeRecipeStore()
	cache := newCacheSpy()
	p := NewRecipeProvider(store, cache, time.Minute)

	id := mustCreate(t, p, basicInput("Waffles"))
	_, err := p.Get(context.Background(), id)
	require.NoError(t, err)

	require.NoError(t, p.Update(context.Background(), id, "Belgian Waffles", nil, 2))
	assert.Contains(t, cache.deletes, fmt.Sprintf("recipe:%d", id))

	got, err := p.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Belgian Waffles", got.Name)

	require.NoError(t, p.Delete(context.Background(), id))
	_, err = p.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}
