// Package classifier реализует детерминированную классификацию текстовых сообщений
// упорядоченным каскадом правил "предикат -> исход".
package classifier

import (
	"strings"

	"github.com/shenikar/crisis_mesh/internal/models"
)

// rule - правило каскада. Порядок правил задает приоритет тяжести
type rule struct {
	category models.Category
	match    func(lower string) bool
}

// cascade проверяется сверху вниз, побеждает первое совпавшее правило
var cascade = []rule{
	{models.CategorySuicideRisk, anyOf("die", "dying", "death", "suicide", "end it", "kill myself")},
	{models.CategoryArmedThreat, anyOf("gun", "knife", "weapon", "shoot", "stab", "blade")},
	{models.CategoryHomicideThreat, anyOf("kill", "murder")},
	{models.CategoryEmergencyRequest, anyOf("911", "emergency", "need police now")},
	{models.CategoryPhysicalAssault, anyOf("hitting me", "hit me", "beating", "attacked", "assaulting")},
	{models.CategoryPhysicalContact, anyOf("grabbed", "touching", "groping", "groped")},
	{models.CategoryDomesticViolence, domestic},
	{models.CategorySexualAssault, anyOf("rape", "sexual", "molest")},
	{models.CategoryFollowing, anyOf("follow", "stalking", "chasing", "behind me")},
	{models.CategoryUnsafeLocation, anyOf("not safe", "unsafe")},
	{models.CategoryFearResponse, anyOf("scared", "afraid", "terrified", "frightened")},
	{models.CategoryHarassment, anyOf("harass", "catcall", "yelling", "won't leave", "won't stop")},
	{models.CategoryPreventiveSafety, anyOf("alone", "by myself")},
	{models.CategoryUncomfortableSituation, anyOf("uncomfortable", "creepy", "weird", "strange")},
	{models.CategoryHelpRequest, anyOf("help")},
	{models.CategoryIntoxicatedPerson, anyOf("drunk", "intoxicated", "high")},
	{models.CategoryConversational, func(lower string) bool {
		return lower == "hi" || containsAny(lower, "talk", "listen", "okay", "fine", "hello")
	}},
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// Classify сопоставляет тексту классификацию. Функция тотальна и детерминирована
func Classify(text string) models.Classification {
	lower := Normalize(text)
	for _, r := range cascade {
		if r.match(lower) {
			return build(r.category)
		}
	}
	return build(models.CategoryNeedsAssessment)
}

// Normalize приводит текст к виду, по которому работают предикаты
func Normalize(text string) string {
	return strings.TrimSpace(apostrophes.Replace(strings.ToLower(text)))
}

// Profile возвращает базовую классификацию категории без анализа текста
func Profile(category models.Category) (models.Classification, bool) {
	if _, ok := profiles[category]; !ok {
		return models.Classification{}, false
	}
	return build(category), true
}

// Categories возвращает категории в порядке приоритета, последней идет категория по умолчанию
func Categories() []models.Category {
	out := make([]models.Category, 0, len(cascade)+1)
	for _, r := range cascade {
		out = append(out, r.category)
	}
	return append(out, models.CategoryNeedsAssessment)
}

func build(category models.Category) models.Classification {
	p := profiles[category]
	action := models.ActionForUrgency(p.urgency)
	return models.Classification{
		Category:            category,
		Urgency:             p.urgency,
		Emotion:             p.emotion,
		EmotionIntensity:    p.emotionIntensity,
		RecommendedAction:   action,
		PoliceNeeded:        p.policeNeeded,
		CommunityResolution: !p.policeNeeded,
		Reasoning:           p.reasoning,
		KeyIndicators:       append([]string(nil), p.keyIndicators...),
		SuggestedResponse:   string(action),
	}
}

func domestic(lower string) bool {
	if containsAny(lower, "boyfriend", "husband", "partner") {
		return true
	}
	// "ex" только отдельным словом, иначе совпадут "next", "text" и т.п.
	if strings.HasPrefix(lower, "ex ") || strings.Contains(lower, " ex ") || strings.Contains(lower, " ex-") || strings.HasPrefix(lower, "ex-") {
		return true
	}
	return strings.Contains(lower, "home") && strings.Contains(lower, "scared")
}

func anyOf(needles ...string) func(string) bool {
	return func(lower string) bool {
		return containsAny(lower, needles...)
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
