package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-recipe-service/http/controller"
	middlewares "github.com/tnqbao/gau-recipe-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)
	r.Use(middles.TelemetryMiddleware)

	r.GET("/health", ctrl.HealthCheck)

	apiRoutes := r.Group("/api/v1/recipe")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		recipeRoutes := apiRoutes.Group("/recipes")
		{
			recipeRoutes.POST("/", ctrl.CreateRecipe)
			recipeRoutes.GET("/", ctrl.ListRecipes)
			recipeRoutes.GET("/:id", ctrl.GetRecipe)
			recipeRoutes.PUT("/:id", ctrl.UpdateRecipe)
			recipeRoutes.DELETE("/:id", ctrl.DeleteRecipe)
		}

		searchRoutes := apiRoutes.Group("/search")
		{
			searchRoutes.GET("/name/:keyword", ctrl.SearchRecipesByName)
			searchRoutes.GET("/keyword/:keyword", ctrl.SearchRecipesByKeyword)
			searchRoutes.GET("/ingredient/:keyword", ctrl.SearchRecipesByIngredient)
		}

		photoRoutes := apiRoutes.Group("/photos")
		{
			photoRoutes.POST("/", ctrl.UploadPhoto)
			photoRoutes.GET("/:id", ctrl.GetPhoto)
			photoRoutes.DELETE("/:id", ctrl.DeletePhoto)
		}
	}
	return r
}
