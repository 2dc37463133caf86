package entity

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MaxRecipeNameLen     = 100
	MaxServings          = 99
	MaxKeywords          = 10
	MaxKeywordLen        = 20
	MaxIngredientNameLen = 50
	MaxIngredientAmtLen  = 20
)

type Recipe struct {
	ID       uint                        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string                      `json:"name" binding:"required,min=1,max=100" gorm:"type:varchar(100);not null"`
	Servings int                         `json:"servings" binding:"required,min=1,max=99" gorm:"not null;default:1"`
	Keywords datatypes.JSONSlice[string] `json:"keywords" gorm:"type:jsonb"`
	Created  time.Time                   `json:"created" gorm:"not null;autoCreateTime;index"`
	Updated  time.Time                   `json:"updated" gorm:"autoUpdateTime"`
	Deleted  bool                        `json:"-" gorm:"not null;default:false;index"`

	Ingredients []Ingredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Steps       []Step       `json:"steps,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

type Ingredient struct {
	ID       uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	RecipeID uint   `json:"-" gorm:"not null;index"`
	Name     string `json:"name" binding:"required,min=1,max=50" gorm:"type:varchar(50);not null"`
	Amount   string `json:"amount" binding:"required,min=1,max=20" gorm:"type:varchar(20);not null"`
	Deleted  bool   `json:"-" gorm:"not null;default:false"`
}

func (Ingredient) TableName() string {
	return "recipe_ingredients"
}

// Step rows are ordered by StepOrder, a dense 1-based sequence assigned from
// the position in the input list at creation time. PhotoID is a weak reference
// to a Photo; deleting the photo does not touch the step.
type Step struct {
	ID          uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	RecipeID    uint   `json:"-" gorm:"not null;index"`
	StepOrder   int    `json:"step_order" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	PhotoID     *uint  `json:"photo_id,omitempty"`
	Deleted     bool   `json:"-" gorm:"not null;default:false"`
}

func (Step) TableName() string {
	return "recipe_steps"
}
