package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	RecipeEvents *RecipeEventService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	recipeEvents := InitRecipeEventService(channel)
	if recipeEvents == nil {
		panic("Failed to initialize Recipe event service")
	}

	produceInstance = &Produce{
		RecipeEvents: recipeEvents,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
