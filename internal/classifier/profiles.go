package classifier

import "github.com/shenikar/crisis_mesh/internal/models"

// profile - исход правила каскада: все, кроме рекомендуемого действия,
// которое выводится из срочности
type profile struct {
	urgency          int
	emotion          models.Emotion
	emotionIntensity int
	policeNeeded     bool
	reasoning        string
	keyIndicators    []string
}

var profiles = map[models.Category]profile{
	models.CategorySuicideRisk: {
		urgency: 10, emotion: models.EmotionDespair, emotionIntensity: 10, policeNeeded: true,
		reasoning:     "CRITICAL: Suicidal ideation detected. Immediate mental health crisis intervention required. Police + crisis counselor dispatched.",
		keyIndicators: []string{"death language", "suicidal ideation", "extreme distress"},
	},
	models.CategoryArmedThreat: {
		urgency: 10, emotion: models.EmotionTerror, emotionIntensity: 10, policeNeeded: true,
		reasoning:     "LETHAL THREAT: Weapon presence confirmed. Police dispatched immediately. Volunteer provides location coordination only and does not approach the scene.",
		keyIndicators: []string{"weapon mentioned", "lethal force", "immediate danger"},
	},
	models.CategoryHomicideThreat: {
		urgency: 10, emotion: models.EmotionTerror, emotionIntensity: 10, policeNeeded: true,
		reasoning:     "ACTIVE THREAT: Homicide threat detected. Police required for arrest and protection. Medical standby initiated.",
		keyIndicators: []string{"murder threat", "lethal intent", "active danger"},
	},
	models.CategoryEmergencyRequest: {
		urgency: 10, emotion: models.EmotionPanic, emotionIntensity: 9, policeNeeded: true,
		reasoning:     "USER REQUESTING POLICE: Direct emergency service request. Honoring the reporter's choice for police involvement.",
		keyIndicators: []string{"explicit police request", "911 mentioned", "emergency declared"},
	},
	models.CategoryPhysicalAssault: {
		urgency: 10, emotion: models.EmotionPanic, emotionIntensity: 9, policeNeeded: true,
		reasoning:     "ACTIVE ASSAULT: Physical violence in progress. Police required. Medical evaluation needed after rescue.",
		keyIndicators: []string{"active violence", "physical assault", "ongoing attack"},
	},
	models.CategoryPhysicalContact: {
		urgency: 9, emotion: models.EmotionViolation, emotionIntensity: 8, policeNeeded: true,
		reasoning:     "PHYSICAL CONTACT: Unwanted physical contact occurred. Volunteer assists with immediate safety, police needed for assault documentation.",
		keyIndicators: []string{"unwanted touch", "physical boundary violation", "potential assault"},
	},
	models.CategoryDomesticViolence: {
		urgency: 9, emotion: models.EmotionFear, emotionIntensity: 8, policeNeeded: true,
		reasoning:     "DOMESTIC SITUATION: Partner or ex-partner involved. High recurrence risk. Police needed for protection order enforcement.",
		keyIndicators: []string{"intimate partner", "domestic context", "escalation risk"},
	},
	models.CategorySexualAssault: {
		urgency: 10, emotion: models.EmotionTrauma, emotionIntensity: 10, policeNeeded: true,
		reasoning:     "SEXUAL ASSAULT: Immediate police and medical response required. Evidence preservation critical.",
		keyIndicators: []string{"sexual assault", "medical needed", "evidence preservation"},
	},
	models.CategoryFollowing: {
		urgency: 9, emotion: models.EmotionFear, emotionIntensity: 8,
		reasoning:     "ACTIVE PURSUIT: Person following the reporter. No weapon detected yet. Volunteer provides presence and escort, police on standby.",
		keyIndicators: []string{"being followed", "active pursuit", "no weapon yet"},
	},
	models.CategoryUnsafeLocation: {
		urgency: 8, emotion: models.EmotionFear, emotionIntensity: 7,
		reasoning:     "UNSAFE ENVIRONMENT: Reporter in a threatening location. No immediate perpetrator. Volunteer escort to move the reporter to safety.",
		keyIndicators: []string{"location concern", "environmental threat", "preventive action needed"},
	},
	models.CategoryFearResponse: {
		urgency: 8, emotion: models.EmotionFear, emotionIntensity: 7,
		reasoning:     "FEAR DETECTED: Context unclear but emotion indicates threat perception. Volunteer dispatched to assess.",
		keyIndicators: []string{"fear emotion", "threat perception", "needs assessment"},
	},
	models.CategoryHarassment: {
		urgency: 7, emotion: models.EmotionDiscomfort, emotionIntensity: 6,
		reasoning:     "HARASSMENT: Verbal harassment without physical threat. Volunteer can de-escalate through presence.",
		keyIndicators: []string{"verbal harassment", "no physical threat", "de-escalation possible"},
	},
	models.CategoryPreventiveSafety: {
		urgency: 6, emotion: models.EmotionUnease, emotionIntensity: 5,
		reasoning:     "PREVENTIVE REQUEST: Reporter seeking company for safety. No active threat.",
		keyIndicators: []string{"isolation concern", "preventive measure", "seeking presence"},
	},
	models.CategoryUncomfortableSituation: {
		urgency: 6, emotion: models.EmotionUnease, emotionIntensity: 5,
		reasoning:     "DISCOMFORT: Reporter uncomfortable with a person or situation. Volunteer provides presence and monitors for escalation.",
		keyIndicators: []string{"intuition", "discomfort", "early warning signs"},
	},
	models.CategoryHelpRequest: {
		urgency: 7, emotion: models.EmotionDistress, emotionIntensity: 6,
		reasoning:     "HELP REQUESTED: General help call without specifics. Volunteer dispatched to assess.",
		keyIndicators: []string{"help requested", "needs assessment", "situation unclear"},
	},
	models.CategoryIntoxicatedPerson: {
		urgency: 7, emotion: models.EmotionConcern, emotionIntensity: 6,
		reasoning:     "INTOXICATED PERSON: Unpredictable behavior. Volunteer guides the reporter to a safe location.",
		keyIndicators: []string{"intoxication", "unpredictable", "monitoring needed"},
	},
	models.CategoryConversational: {
		urgency: 3, emotion: models.EmotionNeutral, emotionIntensity: 2,
		reasoning:     "NON-EMERGENCY: Reporter engaging conversationally or seeking emotional support. No immediate safety threat.",
		keyIndicators: []string{"conversational", "emotional support", "no threat detected"},
	},
	models.CategoryNeedsAssessment: {
		urgency: 5, emotion: models.EmotionConcern, emotionIntensity: 4,
		reasoning:     "UNCLEAR SITUATION: Message does not match crisis patterns. Requesting clarification. Volunteer on standby.",
		keyIndicators: []string{"unclear context", "awaiting details", "monitoring"},
	},
}
