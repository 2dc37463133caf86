package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-recipe-service/config"
	"github.com/tnqbao/gau-recipe-service/http/controller"
	routes "github.com/tnqbao/gau-recipe-service/http/route"
	"github.com/tnqbao/gau-recipe-service/infra"
	"github.com/tnqbao/gau-recipe-service/provider"
	"github.com/tnqbao/gau-recipe-service/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infraClients := infra.InitInfra(cfg)
	repo := repository.InitRepository(infraClients)

	env := cfg.EnvConfig
	prov := provider.InitProvider(
		repo.RecipeRepo,
		repo.PhotoRepo,
		infraClients.Minio,
		infraClients.Redis,
		time.Duration(env.Cache.RecipeTTLSeconds)*time.Second,
		provider.PhotoOptions{
			MaxUploadBytes:    env.Photo.MaxUploadBytes,
			CompressThreshold: env.Photo.CompressThreshold,
			JPEGQuality:       env.Photo.JPEGQuality,
			MaxDimension:      env.Photo.MaxDimension,
		},
	)

	ctrl := controller.NewController(cfg, infraClients, prov)

	router := routes.SetupRouter(ctrl)
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
