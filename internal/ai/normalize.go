package ai

import (
	"math"

	"github.com/shenikar/crisis_mesh/internal/models"
)

// DefaultUrgency применяется, когда внешний ответ не содержит срочности
const DefaultUrgency = 5

// Normalize приводит внешний ответ к форме Classification. Порядок источников по полям:
//
//	category            внешнее значение, если оно есть и не "other", иначе baseline
//	urgency             внешнее число (округление, 1..10), иначе 5
//	recommendedAction   внешнее известное значение; неизвестное выводится из urgency; нет значения - baseline
//	policeNeeded        внешнее значение, иначе action == dispatch_immediate && urgency >= 9
//	communityResolution внешнее значение, иначе !policeNeeded
//	emotion, emotionIntensity, reasoning, keyIndicators - внешние, иначе baseline
//	suggestedResponse   внешнее значение, иначе recommendedAction baseline
func Normalize(p Payload, baseline models.Classification) models.Classification {
	out := baseline.Clone()

	if p.Category != nil && models.Category(*p.Category) != models.CategoryOther {
		out.Category = models.Category(*p.Category)
	}

	out.Urgency = DefaultUrgency
	if p.Urgency != nil {
		out.Urgency = clampScore(*p.Urgency)
	}

	if p.RecommendedAction != nil {
		action := models.Action(*p.RecommendedAction)
		if !action.Valid() {
			action = models.ActionForUrgency(out.Urgency)
		}
		out.RecommendedAction = action
	}

	if p.PoliceNeeded != nil {
		out.PoliceNeeded = *p.PoliceNeeded
	} else {
		out.PoliceNeeded = out.RecommendedAction == models.ActionDispatchImmediate && out.Urgency >= 9
	}

	if p.CommunityResolution != nil {
		out.CommunityResolution = *p.CommunityResolution
	} else {
		out.CommunityResolution = !out.PoliceNeeded
	}

	if p.Emotion != nil {
		out.Emotion = models.Emotion(*p.Emotion)
	}
	if p.EmotionIntensity != nil {
		out.EmotionIntensity = clampScore(*p.EmotionIntensity)
	}
	if p.Reasoning != nil {
		out.Reasoning = *p.Reasoning
	}
	if len(p.KeyIndicators) > 0 {
		out.KeyIndicators = append([]string(nil), p.KeyIndicators...)
	}

	out.SuggestedResponse = string(baseline.RecommendedAction)
	if p.SuggestedResponse != nil {
		out.SuggestedResponse = *p.SuggestedResponse
	}

	return out
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return DefaultUrgency
	}
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}
