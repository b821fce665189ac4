package classifier

import (
	"testing"

	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_ArmedThreatBeatsFollowing(t *testing.T) {
	// Действие
	c := Classify("Someone has a knife and is following me")

	// Проверки
	assert.Equal(t, models.CategoryArmedThreat, c.Category)
	assert.Equal(t, 10, c.Urgency)
	assert.True(t, c.PoliceNeeded)
	assert.False(t, c.CommunityResolution)
	assert.Equal(t, models.ActionDispatchImmediate, c.RecommendedAction)
}

func TestClassify_HarassmentWontStop(t *testing.T) {
	c := Classify("I feel uncomfortable, this guy won't stop talking to me")

	assert.Equal(t, models.CategoryHarassment, c.Category)
	assert.Equal(t, 7, c.Urgency)
	assert.True(t, c.CommunityResolution)
	assert.False(t, c.PoliceNeeded)
	assert.Equal(t, models.ActionDispatchMonitor, c.RecommendedAction)
}

func TestClassify_TypographicApostrophe(t *testing.T) {
	c := Classify("He won’t leave me alone")

	assert.Equal(t, models.CategoryHarassment, c.Category)
}

func TestClassify_WeaponOutranksFear(t *testing.T) {
	c := Classify("I'm scared, he has a gun")

	assert.Equal(t, models.CategoryArmedThreat, c.Category)
}

func TestClassify_Table(t *testing.T) {
	cases := []struct {
		text     string
		category models.Category
		urgency  int
	}{
		{"I want to die", models.CategorySuicideRisk, 10},
		{"he said he will kill me", models.CategoryHomicideThreat, 10},
		{"EMERGENCY please", models.CategoryEmergencyRequest, 10},
		{"call 911", models.CategoryEmergencyRequest, 10},
		{"he is hitting me", models.CategoryPhysicalAssault, 10},
		{"a man grabbed my arm", models.CategoryPhysicalContact, 9},
		{"my boyfriend is outside", models.CategoryDomesticViolence, 9},
		{"I'm at home and scared", models.CategoryDomesticViolence, 9},
		{"he tried to rape me", models.CategorySexualAssault, 10},
		{"someone is stalking me", models.CategoryFollowing, 9},
		{"this street is not safe", models.CategoryUnsafeLocation, 8},
		{"I'm terrified", models.CategoryFearResponse, 8},
		{"they keep catcalling", models.CategoryHarassment, 7},
		{"walking alone tonight", models.CategoryPreventiveSafety, 6},
		{"this place is creepy", models.CategoryUncomfortableSituation, 6},
		{"help", models.CategoryHelpRequest, 7},
		{"there is a drunk guy", models.CategoryIntoxicatedPerson, 7},
		{"hi", models.CategoryConversational, 3},
		{"I just need to talk", models.CategoryConversational, 3},
		{"what time is it", models.CategoryNeedsAssessment, 5},
		{"", models.CategoryNeedsAssessment, 5},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			c := Classify(tc.text)
			assert.Equal(t, tc.category, c.Category)
			assert.Equal(t, tc.urgency, c.Urgency)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify("someone is following me home")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify("someone is following me home"))
	}
}

func TestClassify_ResultNotShared(t *testing.T) {
	first := Classify("help")
	first.KeyIndicators[0] = "mutated"

	second := Classify("help")
	assert.Equal(t, "help requested", second.KeyIndicators[0])
}

func TestProfiles_PoliceExcludesCommunity(t *testing.T) {
	for _, category := range Categories() {
		c, ok := Profile(category)
		require.True(t, ok, category)

		if c.PoliceNeeded {
			assert.False(t, c.CommunityResolution, category)
		}
		assert.Equal(t, !c.PoliceNeeded, c.CommunityResolution, category)
		assert.Equal(t, models.ActionForUrgency(c.Urgency), c.RecommendedAction, category)
		assert.NotEmpty(t, c.Reasoning, category)
		assert.NotEmpty(t, c.KeyIndicators, category)
		assert.GreaterOrEqual(t, c.Urgency, 1)
		assert.LessOrEqual(t, c.Urgency, 10)
	}
}

func TestCategories_OrderAndDefault(t *testing.T) {
	categories := Categories()

	require.Len(t, categories, 18)
	assert.Equal(t, models.CategorySuicideRisk, categories[0])
	assert.Equal(t, models.CategoryNeedsAssessment, categories[len(categories)-1])
}

func TestProfile_Unknown(t *testing.T) {
	_, ok := Profile(models.CategoryOther)
	assert.False(t, ok)
}
