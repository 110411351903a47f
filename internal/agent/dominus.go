package agent

import (
	"strings"

	"github.com/trindadeeesx/nexus/internal/model"
)

// Dominus is the command agent: it only reacts to device commands and
// stays silent otherwise.
type Dominus struct{}

func (Dominus) Name() string { return "dominus" }

// Think recognizes command verbs in the lowered content; the last
// recognized command is remembered in the session context.
func (Dominus) Think(ev *model.ConversationEvent, sess *model.Session) model.Action {
	content := strings.ToLower(ev.Content)

	if !containsAny(content, "ligar", "desligar", "abrir", "fechar") {
		return model.NoOp("no command recognized")
	}

	if sess != nil {
		sess.Context["last_command"] = content
	}

	return model.Action{
		Type:       model.ActionSendMessage,
		Target:     ev.Stream,
		Payload:    map[string]any{"text": "Dominus executou: " + ev.Content},
		Priority:   6,
		Confidence: 0.95,
	}
}

// Handle rewraps a decided SEND_MESSAGE as an executed command report.
// No-ops and other action types pass through unchanged.
func (Dominus) Handle(action model.Action) model.Action {
	if action.Type != model.ActionSendMessage {
		return action
	}
	return model.Action{
		Type:       model.ActionSendMessage,
		Target:     action.Target,
		Payload:    map[string]any{"text": "Dominus executou: " + action.Text()},
		Priority:   action.Priority,
		Confidence: 0.95,
	}
}
