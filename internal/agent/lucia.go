package agent

import (
	"strings"

	"github.com/trindadeeesx/nexus/internal/model"
)

// contextTopic is the session-context key under which agents remember
// the current conversation topic across turns.
const contextTopic = "topic"

// Lucia is the default conversational agent: chatty, food-oriented,
// prefixes every reply with her name.
type Lucia struct{}

func (Lucia) Name() string { return "lucia" }

// Think matches substrings of the lowered content and remembers the
// topic in the session context so follow-up turns ("sim, quero") keep
// the thread.
func (Lucia) Think(ev *model.ConversationEvent, sess *model.Session) model.Action {
	content := strings.ToLower(ev.Content)
	if strings.TrimSpace(content) == "" {
		return model.NoOp("empty turn")
	}

	reply := func(text string, priority int, confidence float64) model.Action {
		return model.Action{
			Type:       model.ActionSendMessage,
			Target:     ev.Stream,
			Payload:    map[string]any{"text": "Lúcia diz: " + text},
			Priority:   priority,
			Confidence: confidence,
		}
	}

	switch {
	case containsAny(content, "bolo", "receita", "comida", "torta", "cookie"):
		if sess != nil {
			sess.Context[contextTopic] = "comida"
		}
		return reply("Posso sugerir uma receita se quiser.", 5, 0.9)

	case containsAny(content, "sim", "quero", "pode"):
		if sess != nil && sess.Context[contextTopic] == "comida" {
			return reply("Que tal um bolo de cenoura? Anoto os ingredientes.", 5, 0.85)
		}
		return reply("Combinado.", 2, 0.6)

	case containsAny(content, "tchau", "até mais", "obrigado", "obrigada"):
		if sess != nil {
			sess.State = model.SessionClosing
		}
		return reply("Até logo!", 3, 0.8)

	case containsAny(content, "oi", "olá", "bom dia", "boa noite"):
		return reply("Oi! Estou ouvindo.", 2, 0.7)
	}

	return reply("Estou ouvindo.", 1, 0.6)
}

// Handle rewraps a decided SEND_MESSAGE in Lucia's voice. Anything else,
// including the no-op sentinel, passes through unchanged.
func (Lucia) Handle(action model.Action) model.Action {
	if action.Type != model.ActionSendMessage {
		return action
	}
	return model.Action{
		Type:       model.ActionSendMessage,
		Target:     action.Target,
		Payload:    map[string]any{"text": "Lúcia diz: " + action.Text()},
		Priority:   action.Priority,
		Confidence: 0.9,
	}
}

func containsAny(content string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(content, w) {
			return true
		}
	}
	return false
}
