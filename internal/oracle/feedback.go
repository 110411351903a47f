package oracle

import (
	"fmt"

	"github.com/trindadeeesx/nexus/internal/model"
)

// suggestMinConfidence is the confidence below which a SUGGESTION
// insight is only logged instead of surfaced.
const suggestMinConfidence = 0.7

// ProcessInsights maps each insight to exactly one feedback action by
// type. Severity drives the anomaly escalation: critical anomalies
// notify, the rest are logged.
func ProcessInsights(insights []model.OracleInsight) []model.FeedbackAction {
	actions := make([]model.FeedbackAction, 0, len(insights))
	for _, insight := range insights {
		switch insight.Type {
		case model.InsightHabit:
			actions = append(actions, model.FeedbackAction{
				Kind:        model.FeedbackSuggest,
				Description: "Padrão recorrente detectado. Pode virar rotina automática no futuro.",
				Severity:    insight.Severity,
				Metadata:    insight.Metadata,
				Confidence:  insight.Confidence,
			})

		case model.InsightSuggestion:
			if insight.Confidence >= suggestMinConfidence {
				actions = append(actions, model.FeedbackAction{
					Kind:        model.FeedbackSuggest,
					Description: insight.Description,
					Severity:    insight.Severity,
					Metadata:    insight.Metadata,
					Confidence:  insight.Confidence,
				})
			} else {
				actions = append(actions, model.FeedbackAction{
					Kind:        model.FeedbackLog,
					Description: fmt.Sprintf("Sugestão ignorada por baixa confiança: %s", insight.Description),
					Severity:    model.SeverityInfo,
					Confidence:  insight.Confidence,
				})
			}

		case model.InsightAnomaly:
			if insight.Severity >= model.SeverityCritical {
				actions = append(actions, model.FeedbackAction{
					Kind:        model.FeedbackNotify,
					Description: fmt.Sprintf("Anomalia crítica: %s", insight.Description),
					Severity:    insight.Severity,
					Metadata:    insight.Metadata,
					Confidence:  insight.Confidence,
				})
			} else {
				actions = append(actions, model.FeedbackAction{
					Kind:        model.FeedbackLog,
					Description: fmt.Sprintf("Anomalia detectada: %s", insight.Description),
					Severity:    insight.Severity,
					Metadata:    insight.Metadata,
					Confidence:  insight.Confidence,
				})
			}
		}
	}
	return actions
}
