package controller

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-recipe-service/http/controller/dto"
	"github.com/tnqbao/gau-recipe-service/provider"
	"github.com/tnqbao/gau-recipe-service/utils"
)

func (ctrl *Controller) CreateRecipe(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RecipeRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Recipe] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	input := toRecipeInput(req)
	id, err := ctrl.Provider.Recipe.Create(ctx, input)
	if err != nil {
		ctrl.respondError(c, "Recipe", err)
		return
	}

	if err := ctrl.Infra.Produce.RecipeEvents.PublishRecipeCreated(ctx, id, input.Name); err != nil {
		// event loss is tolerable, the row is committed
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Recipe] Failed to publish created event: %v", err)
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Recipe] Created recipe %d (%s)", id, input.Name)
	utils.JSON200(c, gin.H{"id": id, "message": "Recipe created"})
}

func (ctrl *Controller) GetRecipe(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		return
	}

	recipe, err := ctrl.Provider.Recipe.Get(ctx, id)
	if err != nil {
		ctrl.respondError(c, "Recipe", err)
		return
	}
	utils.JSON200(c, recipe)
}

func (ctrl *Controller) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		utils.JSON400(c, "Invalid page")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(utils.DefaultPageLimit)))
	if err != nil || limit < 1 {
		utils.JSON400(c, "Invalid limit")
		return
	}

	summaries, err := ctrl.Provider.Recipe.List(ctx, page, limit)
	if err != nil {
		ctrl.respondError(c, "Recipe", err)
		return
	}
	utils.JSON200(c, summaries)
}

func (ctrl *Controller) UpdateRecipe(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.RecipeRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Recipe] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	input := toRecipeInput(req)
	if err := ctrl.Provider.Recipe.Update(ctx, id, input.Name, input.Keywords, input.Servings); err != nil {
		ctrl.respondError(c, "Recipe", err)
		return
	}

	if err := ctrl.Infra.Produce.RecipeEvents.PublishRecipeUpdated(ctx, id, input.Name); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Recipe] Failed to publish updated event: %v", err)
	}

	utils.JSON200(c, gin.H{"message": "Recipe updated"})
}

func (ctrl *Controller) DeleteRecipe(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.Provider.Recipe.Delete(ctx, id); err != nil {
		ctrl.respondError(c, "Recipe", err)
		return
	}

	if err := ctrl.Infra.Produce.RecipeEvents.PublishRecipeDeleted(ctx, id); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Recipe] Failed to publish deleted event: %v", err)
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Recipe] Deleted recipe %d", id)
	utils.JSON200(c, gin.H{"message": "Recipe deleted"})
}

func (ctrl *Controller) SearchRecipesByName(c *gin.Context) {
	ctrl.searchRecipes(c, ctrl.Provider.Recipe.SearchByName)
}

func (ctrl *Controller) SearchRecipesByKeyword(c *gin.Context) {
	ctrl.searchRecipes(c, ctrl.Provider.Recipe.SearchByKeyword)
}

func (ctrl *Controller) SearchRecipesByIngredient(c *gin.Context) {
	ctrl.searchRecipes(c, ctrl.Provider.Recipe.SearchByIngredient)
}

func (ctrl *Controller) searchRecipes(c *gin.Context, search func(ctx context.Context, term string) ([]provider.RecipeSummary, error)) {
	ctx := c.Request.Context()

	summaries, err := search(ctx, c.Param("keyword"))
	if err != nil {
		ctrl.respondError(c, "Search", err)
		return
	}
	utils.JSON200(c, summaries)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSON400(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

func toRecipeInput(req dto.RecipeRequestDTO) provider.RecipeInput {
	servings := req.Servings
	if servings == 0 {
		servings = 1
	}
	input := provider.RecipeInput{
		Name:     req.Name,
		Servings: servings,
		Keywords: req.Keywords,
	}
	for _, ing := range req.Ingredients {
		input.Ingredients = append(input.Ingredients, provider.IngredientInput{
			Name:   ing.Name,
			Amount: ing.Amount,
		})
	}
	for _, step := range req.Steps {
		input.Steps = append(input.Steps, provider.StepInput{
			Description: step.Description,
			PhotoID:     step.PhotoID,
		})
	}
	return input
}
