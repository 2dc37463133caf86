package dto

type IngredientDTO struct {
	Name   string `json:"name" binding:"required,max=50"`
	Amount string `json:"amount" binding:"required,max=20"`
}

type StepDTO struct {
	Description string `json:"description"`
	PhotoID     *uint  `json:"photo_id"`
}

type RecipeRequestDTO struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Ingredients []IngredientDTO `json:"ingredients" binding:"omitempty,dive"`
	Keywords    []string        `json:"keywords" binding:"omitempty,max=10,dive,min=1,max=20"`
	Steps       []StepDTO       `json:"steps" binding:"omitempty,dive"`
	Servings    int             `json:"servings" binding:"omitempty,min=1,max=99"`
}
