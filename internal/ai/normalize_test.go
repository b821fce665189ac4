package ai

import (
	"testing"

	"github.com/shenikar/crisis_mesh/internal/classifier"
	"github.com/shenikar/crisis_mesh/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, body string) Payload {
	t.Helper()
	p, err := ParsePayload(body)
	require.NoError(t, err)
	return p
}

func TestNormalize_EmptyPayload(t *testing.T) {
	baseline := classifier.Classify("someone is following me")

	got := Normalize(parse(t, `{}`), baseline)

	assert.Equal(t, baseline.Category, got.Category)
	assert.Equal(t, DefaultUrgency, got.Urgency)
	assert.Equal(t, baseline.RecommendedAction, got.RecommendedAction)
	// dispatch_immediate, но urgency 5 < 9
	assert.False(t, got.PoliceNeeded)
	assert.True(t, got.CommunityResolution)
	assert.Equal(t, baseline.Reasoning, got.Reasoning)
	assert.Equal(t, baseline.KeyIndicators, got.KeyIndicators)
	assert.Equal(t, string(baseline.RecommendedAction), got.SuggestedResponse)
}

func TestNormalize_OtherCategoryIgnored(t *testing.T) {
	baseline := classifier.Classify("he has a gun")

	got := Normalize(parse(t, `{"category":"other","urgency":10}`), baseline)

	assert.Equal(t, models.CategoryArmedThreat, got.Category)
}

func TestNormalize_UrgencyCoercion(t *testing.T) {
	baseline := classifier.Classify("hello")

	assert.Equal(t, 8, Normalize(parse(t, `{"urgency":"8"}`), baseline).Urgency)
	assert.Equal(t, 10, Normalize(parse(t, `{"urgency":42}`), baseline).Urgency)
	assert.Equal(t, 1, Normalize(parse(t, `{"urgency":0}`), baseline).Urgency)
	assert.Equal(t, 7, Normalize(parse(t, `{"urgency":6.6}`), baseline).Urgency)
	assert.Equal(t, DefaultUrgency, Normalize(parse(t, `{"urgency":null}`), baseline).Urgency)
}

func TestNormalize_PoliceDerivedFromAction(t *testing.T) {
	baseline := classifier.Classify("hello")

	got := Normalize(parse(t, `{"recommendedAction":"dispatch_immediate","urgency":9}`), baseline)
	assert.True(t, got.PoliceNeeded)
	assert.False(t, got.CommunityResolution)

	got = Normalize(parse(t, `{"recommendedAction":"dispatch_monitor","urgency":9}`), baseline)
	assert.False(t, got.PoliceNeeded)
}

func TestNormalize_ExplicitFlagsWin(t *testing.T) {
	baseline := classifier.Classify("hello")

	got := Normalize(parse(t, `{"police_needed":true,"community_resolution":true,"urgency":4}`), baseline)

	assert.True(t, got.PoliceNeeded)
	assert.True(t, got.CommunityResolution)
}

func TestNormalize_UnknownActionDerivedFromUrgency(t *testing.T) {
	baseline := classifier.Classify("hello")

	got := Normalize(parse(t, `{"recommended_action":"safety_check","urgency":7}`), baseline)

	assert.Equal(t, models.ActionDispatchMonitor, got.RecommendedAction)
}

func TestNormalize_SnakeCaseAliases(t *testing.T) {
	baseline := classifier.Classify("hello")

	got := Normalize(parse(t, `{
		"category": "harassment",
		"urgency": 7,
		"emotion": "discomfort",
		"emotion_intensity": 6,
		"key_indicators": ["verbal"],
		"suggested_response": "Stay where people can see you."
	}`), baseline)

	assert.Equal(t, models.CategoryHarassment, got.Category)
	assert.Equal(t, models.EmotionDiscomfort, got.Emotion)
	assert.Equal(t, 6, got.EmotionIntensity)
	assert.Equal(t, []string{"verbal"}, got.KeyIndicators)
	assert.Equal(t, "Stay where people can see you.", got.SuggestedResponse)
}

func TestNormalize_DoesNotMutateBaseline(t *testing.T) {
	baseline := classifier.Classify("help")
	indicators := append([]string(nil), baseline.KeyIndicators...)

	_ = Normalize(parse(t, `{"keyIndicators":["x"]}`), baseline)

	assert.Equal(t, indicators, baseline.KeyIndicators)
}

func TestParsePayload_Wrapped(t *testing.T) {
	p := parse(t, `{"analysis":{"category":"fear_response","urgency":8}}`)

	require.NotNil(t, p.Category)
	assert.Equal(t, "fear_response", *p.Category)
}

func TestParsePayload_Errors(t *testing.T) {
	_, err := ParsePayload("no json here")
	assert.Error(t, err)

	_, err = ParsePayload(`{"urgency":"high"}`)
	assert.Error(t, err)
}
