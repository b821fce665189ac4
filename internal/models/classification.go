package models

// Category - категория кризисной ситуации, определяемая классификатором
type Category string

const (
	CategorySuicideRisk            Category = "suicide_risk"
	CategoryArmedThreat            Category = "armed_threat"
	CategoryHomicideThreat         Category = "homicide_threat"
	CategoryEmergencyRequest       Category = "emergency_request"
	CategoryPhysicalAssault        Category = "physical_assault"
	CategoryPhysicalContact        Category = "physical_contact"
	CategoryDomesticViolence       Category = "domestic_violence"
	CategorySexualAssault          Category = "sexual_assault"
	CategoryFollowing              Category = "following"
	CategoryUnsafeLocation         Category = "unsafe_location"
	CategoryFearResponse           Category = "fear_response"
	CategoryHarassment             Category = "harassment"
	CategoryPreventiveSafety       Category = "preventive_safety"
	CategoryUncomfortableSituation Category = "uncomfortable_situation"
	CategoryHelpRequest            Category = "help_request"
	CategoryIntoxicatedPerson      Category = "intoxicated_person"
	CategoryConversational         Category = "conversational"
	CategoryNeedsAssessment        Category = "needs_assessment"

	// CategoryOther - общее значение, которое возвращают внешние модели, когда не уверены
	CategoryOther Category = "other"
)

// Emotion - доминирующая эмоция отправителя
type Emotion string

const (
	EmotionDespair    Emotion = "despair"
	EmotionTerror     Emotion = "terror"
	EmotionPanic      Emotion = "panic"
	EmotionViolation  Emotion = "violation"
	EmotionFear       Emotion = "fear"
	EmotionTrauma     Emotion = "trauma"
	EmotionDiscomfort Emotion = "discomfort"
	EmotionUnease     Emotion = "unease"
	EmotionDistress   Emotion = "distress"
	EmotionConcern    Emotion = "concern"
	EmotionNeutral    Emotion = "neutral"
)

// Action - рекомендуемый путь эскалации
type Action string

const (
	ActionDispatchImmediate Action = "dispatch_immediate"
	ActionDispatchMonitor   Action = "dispatch_monitor"
	ActionProvideResources  Action = "provide_resources"
)

// ActionForUrgency выводит рекомендуемое действие из срочности
func ActionForUrgency(urgency int) Action {
	switch {
	case urgency >= 8:
		return ActionDispatchImmediate
	case urgency >= 6:
		return ActionDispatchMonitor
	default:
		return ActionProvideResources
	}
}

// Classification - структурированная оценка сообщения
type Classification struct {
	Category            Category `json:"category"`
	Urgency             int      `json:"urgency"`
	Emotion             Emotion  `json:"emotion"`
	EmotionIntensity    int      `json:"emotionIntensity"`
	RecommendedAction   Action   `json:"recommendedAction"`
	PoliceNeeded        bool     `json:"policeNeeded"`
	CommunityResolution bool     `json:"communityResolution"`
	Reasoning           string   `json:"reasoning"`
	KeyIndicators       []string `json:"keyIndicators"`
	SuggestedResponse   string   `json:"suggestedResponse,omitempty"`
}

// Clone возвращает копию, не разделяющую слайс индикаторов
func (c Classification) Clone() Classification {
	cp := c
	if c.KeyIndicators != nil {
		cp.KeyIndicators = append([]string(nil), c.KeyIndicators...)
	}
	return cp
}

// Valid проверяет, что действие входит в известный набор
func (a Action) Valid() bool {
	switch a {
	case ActionDispatchImmediate, ActionDispatchMonitor, ActionProvideResources:
		return true
	}
	return false
}
