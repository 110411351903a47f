package veto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trindadeeesx/nexus/internal/model"
	"github.com/trindadeeesx/nexus/internal/veto"
)

func TestVeto(t *testing.T) {
	l := veto.New(veto.DefaultConfidenceThreshold)

	chat := func(confidence float64) model.Classification {
		return model.Classification{Intent: model.IntentChat, Topic: model.TopicUnknown, Confidence: confidence}
	}
	action := func(priority int) model.Action {
		return model.Action{Type: model.ActionSendMessage, Priority: priority, Confidence: 0.9}
	}

	tests := []struct {
		name   string
		action model.Action
		c      model.Classification
		want   bool
	}{
		{"low priority casual chat suppressed", action(1), chat(0.5), true},
		{"priority 5 interrupts chat", action(5), chat(0.5), false},
		{"confident chat not suppressed", action(1), chat(0.7), false},
		{"command intent not suppressed", action(1), model.Classification{Intent: model.IntentCommand, Confidence: 0.5}, false},
		{"boundary priority 4", action(4), chat(0.69), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Veto(tt.action, tt.c))
		})
	}
}

func TestVetoConfigurableThreshold(t *testing.T) {
	strict := veto.New(0.95)
	c := model.Classification{Intent: model.IntentChat, Confidence: 0.9}
	a := model.Action{Type: model.ActionSendMessage, Priority: 1}
	assert.True(t, strict.Veto(a, c))

	relaxed := veto.New(0.5)
	assert.False(t, relaxed.Veto(a, c))
}
