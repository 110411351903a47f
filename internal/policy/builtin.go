package policy

import (
	"github.com/trindadeeesx/nexus/internal/model"
)

// ChatPolicy proposes a low-priority acknowledgment for casual chat.
type ChatPolicy struct{}

func (ChatPolicy) Name() string { return "chat_policy" }

func (ChatPolicy) Applies(_ model.Event, c model.Classification) bool {
	return c.Intent == model.IntentChat
}

func (ChatPolicy) Evaluate(event model.Event, _ model.Classification) []model.Action {
	return []model.Action{{
		Type:       model.ActionSendMessage,
		Target:     event.Source,
		Payload:    map[string]any{"text": "Estou ouvindo."},
		Priority:   1,
		Confidence: 0.6,
	}}
}

// FoodPolicy proposes a higher-priority suggestion when the topic is food.
type FoodPolicy struct{}

func (FoodPolicy) Name() string { return "food_policy" }

func (FoodPolicy) Applies(_ model.Event, c model.Classification) bool {
	return c.Topic == model.TopicFood
}

func (FoodPolicy) Evaluate(event model.Event, _ model.Classification) []model.Action {
	return []model.Action{{
		Type:       model.ActionSendMessage,
		Target:     event.Source,
		Payload:    map[string]any{"text": "Posso sugerir uma receita se quiser."},
		Priority:   5,
		Confidence: 0.9,
	}}
}
