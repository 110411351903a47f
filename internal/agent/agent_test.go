package agent_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trindadeeesx/nexus/internal/agent"
	"github.com/trindadeeesx/nexus/internal/model"
)

func turn(content string) *model.ConversationEvent {
	return &model.ConversationEvent{
		EventID:   "ev-1",
		Timestamp: time.Now(),
		Stream:    "terminal",
		UserID:    "u1",
		Modality:  model.EventText,
		Content:   content,
	}
}

func newSession() *model.Session {
	return &model.Session{
		SessionID: "s-1",
		UserID:    "u1",
		Stream:    "terminal",
		Agent:     "lucia",
		State:     model.SessionInConversation,
		Context:   make(map[string]any),
	}
}

func TestRegistry(t *testing.T) {
	r := agent.NewRegistry(agent.Lucia{}, agent.Dominus{})

	lucia, ok := r.Get("lucia")
	require.True(t, ok)
	assert.Equal(t, "lucia", lucia.Name())

	_, ok = r.Get("unknown")
	assert.False(t, ok)

	assert.Equal(t, []string{"lucia", "dominus"}, r.Names())
}

func TestLuciaFoodReply(t *testing.T) {
	sess := newSession()
	action := agent.Lucia{}.Think(turn("quero uma receita de bolo"), sess)

	require.False(t, action.IsNoOp())
	assert.Equal(t, model.ActionSendMessage, action.Type)
	assert.Equal(t, "terminal", action.Target)
	assert.Equal(t, 5, action.Priority)
	assert.Contains(t, action.Text(), "Lúcia diz:")
	assert.Equal(t, "comida", sess.Context["topic"])
}

// Session context carries the topic across turns: a bare "sim, quero"
// only becomes a recipe follow-up if the previous turn was about food.
func TestLuciaRemembersTopic(t *testing.T) {
	sess := newSession()
	lucia := agent.Lucia{}

	lucia.Think(turn("fala de comida"), sess)
	followUp := lucia.Think(turn("sim, quero"), sess)
	assert.Contains(t, followUp.Text(), "bolo de cenoura")
	assert.Equal(t, 5, followUp.Priority)

	cold := lucia.Think(turn("sim, quero"), newSession())
	assert.NotContains(t, cold.Text(), "bolo de cenoura")
}

func TestLuciaFallbackAndEmpty(t *testing.T) {
	lucia := agent.Lucia{}

	fallback := lucia.Think(turn("xyz sem sentido"), newSession())
	require.False(t, fallback.IsNoOp())
	assert.Equal(t, 1, fallback.Priority)

	empty := lucia.Think(turn("   "), newSession())
	assert.True(t, empty.IsNoOp())
}

func TestLuciaClosingTurn(t *testing.T) {
	sess := newSession()
	agent.Lucia{}.Think(turn("obrigado, tchau"), sess)
	assert.Equal(t, model.SessionClosing, sess.State)
}

func TestLuciaThinkWithoutSession(t *testing.T) {
	action := agent.Lucia{}.Think(turn("quero bolo"), nil)
	assert.False(t, action.IsNoOp())
}

func TestDominusCommand(t *testing.T) {
	sess := newSession()
	action := agent.Dominus{}.Think(turn("pode Ligar a luz"), sess)

	require.False(t, action.IsNoOp())
	assert.Equal(t, 6, action.Priority)
	assert.Equal(t, 0.95, action.Confidence)
	assert.Contains(t, action.Text(), "Dominus executou:")
	assert.Equal(t, "pode ligar a luz", sess.Context["last_command"])
}

func TestDominusNoCommand(t *testing.T) {
	action := agent.Dominus{}.Think(turn("oi, tudo bem?"), newSession())
	assert.True(t, action.IsNoOp())
}

func TestHandlePassthrough(t *testing.T) {
	noop := model.NoOp("nothing")
	assert.Equal(t, noop, agent.Lucia{}.Handle(noop))
	assert.Equal(t, noop, agent.Dominus{}.Handle(noop))

	logAction := model.LogAction(map[string]any{"info": "x"})
	assert.Equal(t, logAction, agent.Lucia{}.Handle(logAction))
}

func TestHandleWrapsMessages(t *testing.T) {
	in := model.Action{
		Type:       model.ActionSendMessage,
		Target:     "terminal",
		Payload:    map[string]any{"text": "Estou ouvindo."},
		Priority:   1,
		Confidence: 0.6,
	}

	out := agent.Lucia{}.Handle(in)
	assert.Equal(t, "Lúcia diz: Estou ouvindo.", out.Text())
	assert.Equal(t, 0.9, out.Confidence)

	out = agent.Dominus{}.Handle(in)
	assert.Equal(t, "Dominus executou: Estou ouvindo.", out.Text())
	assert.Equal(t, 0.95, out.Confidence)
}
