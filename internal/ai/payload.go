package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Payload - ответ внешнего классификатора. Каждое поле необязательно,
// nil означает "поле отсутствует". Поддерживаются camelCase и snake_case имена
type Payload struct {
	Category            *string
	Urgency             *float64
	Emotion             *string
	EmotionIntensity    *float64
	RecommendedAction   *string
	PoliceNeeded        *bool
	CommunityResolution *bool
	Reasoning           *string
	KeyIndicators       []string
	SuggestedResponse   *string
}

type rawPayload struct {
	Category                 *string      `json:"category"`
	Urgency                  *looseNumber `json:"urgency"`
	Emotion                  *string      `json:"emotion"`
	EmotionIntensity         *looseNumber `json:"emotionIntensity"`
	EmotionIntensitySnake    *looseNumber `json:"emotion_intensity"`
	RecommendedAction        *string      `json:"recommendedAction"`
	RecommendedActionSnake   *string      `json:"recommended_action"`
	PoliceNeeded             *bool        `json:"policeNeeded"`
	PoliceNeededSnake        *bool        `json:"police_needed"`
	CommunityResolution      *bool        `json:"communityResolution"`
	CommunityResolutionSnake *bool        `json:"community_resolution"`
	Reasoning                *string      `json:"reasoning"`
	KeyIndicators            []string     `json:"keyIndicators"`
	KeyIndicatorsSnake       []string     `json:"key_indicators"`
	SuggestedResponse        *string      `json:"suggestedResponse"`
	SuggestedResponseSnake   *string      `json:"suggested_response"`
}

// UnmarshalJSON сводит алиасы в одно поле; camelCase имеет приоритет
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw rawPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Payload{
		Category:            nonEmpty(raw.Category),
		Emotion:             nonEmpty(raw.Emotion),
		RecommendedAction:   nonEmpty(firstString(raw.RecommendedAction, raw.RecommendedActionSnake)),
		PoliceNeeded:        firstBool(raw.PoliceNeeded, raw.PoliceNeededSnake),
		CommunityResolution: firstBool(raw.CommunityResolution, raw.CommunityResolutionSnake),
		Reasoning:           nonEmpty(raw.Reasoning),
		SuggestedResponse:   nonEmpty(firstString(raw.SuggestedResponse, raw.SuggestedResponseSnake)),
		KeyIndicators:       raw.KeyIndicators,
	}
	if len(p.KeyIndicators) == 0 {
		p.KeyIndicators = raw.KeyIndicatorsSnake
	}
	if raw.Urgency != nil {
		v := float64(*raw.Urgency)
		p.Urgency = &v
	}
	intensity := raw.EmotionIntensity
	if intensity == nil {
		intensity = raw.EmotionIntensitySnake
	}
	if intensity != nil {
		v := float64(*intensity)
		p.EmotionIntensity = &v
	}
	return nil
}

// ParsePayload извлекает JSON-объект из ответа модели, в том числе из markdown-блока
func ParsePayload(text string) (Payload, error) {
	body := extractJSON(text)
	if body == "" {
		return Payload{}, fmt.Errorf("no json object in response")
	}

	// ответ может быть обернут: {"analysis": {...}}
	var wrapped struct {
		Analysis json.RawMessage `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err == nil && len(wrapped.Analysis) > 0 && wrapped.Analysis[0] == '{' {
		body = string(wrapped.Analysis)
	}

	var p Payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return Payload{}, fmt.Errorf("malformed payload: %w", err)
	}
	return p, nil
}

func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			text = strings.TrimSpace(rest[:j])
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// looseNumber принимает число или строку с числом
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("empty number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*n = looseNumber(v)
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return v
		}
	}
	return nil
}

func firstBool(values ...*bool) *bool {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
