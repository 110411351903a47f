// Package classify maps raw event text to a coarse intent/topic/confidence
// triple via keyword rules.
package classify

import (
	"strings"

	"github.com/trindadeeesx/nexus/internal/model"
)

// Keyword sets, checked in declaration order. Topic sets are mutually
// overriding: when a text matches more than one, the later set wins.
// That precedence is inherited behavior, not an intent signal — see
// DESIGN.md before relying on it.
var (
	commandWords      = []string{"ligar", "desligar", "abrir", "fechar"}
	foodWords         = []string{"bolo", "cookie", "comida", "receita", "torta"}
	weatherWords      = []string{"chuva", "clima", "tempo"}
	relationshipWords = []string{"namorado", "namorada", "marido", "esposa"}
)

// Classify derives a classification from the event's payload text.
// It is a pure function: missing text yields the CHAT/UNKNOWN defaults,
// never an error.
func Classify(event model.Event) model.Classification {
	text := strings.ToLower(event.Text())

	c := model.Classification{
		Intent:     model.IntentChat,
		Topic:      model.TopicUnknown,
		Confidence: 0.5,
	}

	if containsAny(text, commandWords) {
		c.Intent = model.IntentCommand
		c.Confidence = 0.8
	}

	if containsAny(text, foodWords) {
		c.Topic = model.TopicFood
		c.Confidence = 0.7
	}

	if containsAny(text, weatherWords) {
		c.Topic = model.TopicWeather
		c.Confidence = 0.7
	}

	if containsAny(text, relationshipWords) {
		c.Topic = model.TopicRelationship
		c.Confidence = 0.7
	}

	return c
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
