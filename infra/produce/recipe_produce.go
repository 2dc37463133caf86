package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RecipeEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	RecipeID   uint   `json:"recipe_id"`
	Name       string `json:"name,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type RecipeEventService struct {
	channel *amqp.Channel
}

func InitRecipeEventService(channel *amqp.Channel) *RecipeEventService {
	return &RecipeEventService{
		channel: channel,
	}
}

func (s *RecipeEventService) PublishRecipeCreated(ctx context.Context, recipeID uint, name string) error {
	return s.publish(ctx, "recipe.created", RecipeEvent{
		Type:     "created",
		RecipeID: recipeID,
		Name:     name,
	})
}

func (s *RecipeEventService) PublishRecipeUpdated(ctx context.Context, recipeID uint, name string) error {
	return s.publish(ctx, "recipe.updated", RecipeEvent{
		Type:     "updated",
		RecipeID: recipeID,
		Name:     name,
	})
}

func (s *RecipeEventService) PublishRecipeDeleted(ctx context.Context, recipeID uint) error {
	return s.publish(ctx, "recipe.deleted", RecipeEvent{
		Type:     "deleted",
		RecipeID: recipeID,
	})
}

func (s *RecipeEventService) publish(ctx context.Context, routingKey string, event RecipeEvent) error {
	event.EventID = uuid.NewString()
	event.OccurredAt = time.Now().Format(time.RFC3339)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe event: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		"recipe_exchange", // exchange
		routingKey,        // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   event.EventID,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish recipe event: %w", err)
	}

	return nil
}
