package repository

import (
	"github.com/tnqbao/gau-recipe-service/infra"
)

type Repository struct {
	RecipeRepo *RecipeRepository
	PhotoRepo  *PhotoRepository
}

var repository *Repository

func InitRepository(infra *infra.Infra) *Repository {
	repository = &Repository{
		RecipeRepo: NewRecipeRepository(infra.Postgres.DB),
		PhotoRepo:  NewPhotoRepository(infra.Postgres.DB),
	}
	return repository
}

func GetRepository() *Repository {
	if repository == nil {
		panic("repository not initialized")
	}
	return repository
}
