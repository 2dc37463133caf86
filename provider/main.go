package provider

import "time"

type Provider struct {
	Recipe *RecipeProvider
	Photo  *PhotoProvider
}

var provider *Provider

func InitProvider(recipeStore RecipeStore, photoStore PhotoStore, blobs BlobStore, cache RecipeCache, cacheTTL time.Duration, photoOpts PhotoOptions) *Provider {
	provider = &Provider{
		Recipe: NewRecipeProvider(recipeStore, cache, cacheTTL),
		Photo:  NewPhotoProvider(photoStore, blobs, photoOpts),
	}
	return provider
}

func GetProvider() *Provider {
	if provider == nil {
		panic("Provider not initialized")
	}
	return provider
}
