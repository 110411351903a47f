package oracle

import (
	"fmt"
	"sort"
	"time"

	"github.com/trindadeeesx/nexus/internal/model"
)

// Analyzer detector thresholds.
const (
	habitMinSamples     = 5
	habitMaxSpreadHours = 0.5

	frequencyWindow   = 10 * time.Minute
	frequencyMinCount = 10

	lowConfidenceMinSamples = 5
	lowConfidenceMean       = 0.3

	blockedRateThreshold = 0.4

	unusedPolicyMinAttempts = 5
)

// analyzerSource tags insights produced by the detectors themselves
// rather than attributed to a specific event source.
const analyzerSource = "oracle.analyzer"

// Analyzer mines the historical record for patterns. Detectors are
// independent: each one's output is appended, none suppress each other.
type Analyzer struct {
	now func() time.Time
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// WithClock replaces the analyzer's clock. Test seam for the
// high-frequency window.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Analyze runs the five detectors over the full history.
func (a *Analyzer) Analyze(history []model.OracleRecord) []model.OracleInsight {
	var insights []model.OracleInsight
	insights = append(insights, a.detectTimeHabits(history)...)
	insights = append(insights, a.detectHighFrequency(history)...)
	insights = append(insights, a.detectLowConfidence(history)...)
	insights = append(insights, a.detectBlockedRate(history)...)
	insights = append(insights, a.detectUnusedPolicies(history)...)
	return insights
}

func (a *Analyzer) insight(typ model.InsightType, source, description string, confidence float64, metadata map[string]any) model.OracleInsight {
	return model.OracleInsight{
		TS:          a.now().UTC(),
		Type:        typ,
		Source:      source,
		Description: description,
		Confidence:  confidence,
		Severity:    model.SeverityInfo,
		Metadata:    metadata,
	}
}

// detectTimeHabits finds (source, action) groups that recur inside a
// narrow hour-of-day band.
func (a *Analyzer) detectTimeHabits(history []model.OracleRecord) []model.OracleInsight {
	type groupKey struct {
		source string
		action model.ActionType
	}
	groups := make(map[groupKey][]float64)
	for _, rec := range history {
		k := groupKey{rec.Source, rec.ActionType}
		hour := float64(rec.TS.Hour()) + float64(rec.TS.Minute())/60
		groups[k] = append(groups[k], hour)
	}

	var insights []model.OracleInsight
	for _, k := range sortedKeys(groups, func(k groupKey) string { return k.source + "|" + string(k.action) }) {
		hours := groups[k]
		if len(hours) < habitMinSamples {
			continue
		}

		minH, maxH, sum := hours[0], hours[0], 0.0
		for _, h := range hours {
			minH = min(minH, h)
			maxH = max(maxH, h)
			sum += h
		}
		if maxH-minH > habitMaxSpreadHours {
			continue
		}

		avg := sum / float64(len(hours))
		insights = append(insights, a.insight(
			model.InsightHabit,
			k.source,
			fmt.Sprintf("Ação %s ocorre frequentemente por volta das %dh", k.action, int(avg)),
			0.8,
			map[string]any{"avg_hour": avg, "samples": len(hours)},
		))
	}
	return insights
}

// detectHighFrequency flags (action, target) pairs repeated many times
// within the recent window.
func (a *Analyzer) detectHighFrequency(history []model.OracleRecord) []model.OracleInsight {
	type pairKey struct {
		action model.ActionType
		target string
	}
	cutoff := a.now().Add(-frequencyWindow)
	counts := make(map[pairKey]int)
	for _, rec := range history {
		if rec.TS.Before(cutoff) {
			continue
		}
		counts[pairKey{rec.ActionType, rec.Target}]++
	}

	var insights []model.OracleInsight
	for _, k := range sortedKeys(counts, func(k pairKey) string { return string(k.action) + "|" + k.target }) {
		count := counts[k]
		if count < frequencyMinCount {
			continue
		}
		insights = append(insights, a.insight(
			model.InsightAnomaly,
			analyzerSource,
			fmt.Sprintf("Ação %s para %s executada %d vezes em poucos minutos", k.action, k.target, count),
			0.8,
			map[string]any{"action_type": string(k.action), "target": k.target, "count": count},
		))
	}
	return insights
}

// detectLowConfidence flags action types whose mean confidence stays low.
func (a *Analyzer) detectLowConfidence(history []model.OracleRecord) []model.OracleInsight {
	groups := make(map[model.ActionType][]float64)
	for _, rec := range history {
		groups[rec.ActionType] = append(groups[rec.ActionType], rec.Confidence)
	}

	var insights []model.OracleInsight
	for _, action := range sortedKeys(groups, func(k model.ActionType) string { return string(k) }) {
		confidences := groups[action]
		if len(confidences) < lowConfidenceMinSamples {
			continue
		}
		sum := 0.0
		for _, c := range confidences {
			sum += c
		}
		avg := sum / float64(len(confidences))
		if avg >= lowConfidenceMean {
			continue
		}
		insights = append(insights, a.insight(
			model.InsightSuggestion,
			analyzerSource,
			fmt.Sprintf("Ação %s apresenta confiança média baixa (%.2f)", action, avg),
			1-avg,
			map[string]any{"action_type": string(action), "average_confidence": avg},
		))
	}
	return insights
}

// detectBlockedRate flags a history dominated by ignored/failed outcomes.
func (a *Analyzer) detectBlockedRate(history []model.OracleRecord) []model.OracleInsight {
	total := len(history)
	if total == 0 {
		return nil
	}

	blocked := 0
	for _, rec := range history {
		if rec.Result == model.ResultIgnored || rec.Result == model.ResultFailed {
			blocked++
		}
	}

	rate := float64(blocked) / float64(total)
	if rate < blockedRateThreshold {
		return nil
	}
	return []model.OracleInsight{a.insight(
		model.InsightAnomaly,
		analyzerSource,
		fmt.Sprintf("Alta taxa de bloqueios detectada (%.0f%%)", rate*100),
		rate,
		map[string]any{"blocked": blocked, "total": total},
	)}
}

// detectUnusedPolicies flags policies with repeated attempts and zero
// successful outcomes.
func (a *Analyzer) detectUnusedPolicies(history []model.OracleRecord) []model.OracleInsight {
	groups := make(map[string][]model.ActionResult)
	for _, rec := range history {
		policy, ok := rec.Metadata[model.MetaPolicy].(string)
		if !ok || policy == "" {
			continue
		}
		groups[policy] = append(groups[policy], rec.Result)
	}

	var insights []model.OracleInsight
	for _, policy := range sortedKeys(groups, func(k string) string { return k }) {
		results := groups[policy]
		if len(results) < unusedPolicyMinAttempts {
			continue
		}
		success := 0
		for _, r := range results {
			if r == model.ResultSuccess {
				success++
			}
		}
		if success > 0 {
			continue
		}
		insights = append(insights, a.insight(
			model.InsightSuggestion,
			analyzerSource,
			fmt.Sprintf("Policy %q nunca gerou ações bem-sucedidas", policy),
			0.7,
			map[string]any{"policy": policy, "attempts": len(results)},
		))
	}
	return insights
}

// sortedKeys returns the map's keys ordered by the given projection, so
// detector output is deterministic across runs.
func sortedKeys[K comparable, V any](m map[K]V, project func(K) string) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return project(keys[i]) < project(keys[j]) })
	return keys
}
