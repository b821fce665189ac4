package models

import "strings"

// CategoryDisplay - статические данные для отображения категории на клиентах
type CategoryDisplay struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Color    string   `json:"color"`
}

var categoryColors = map[Category]string{
	CategorySuicideRisk:            "from-purple-700 to-red-900",
	CategoryArmedThreat:            "from-red-700 to-red-900",
	CategoryHomicideThreat:         "from-red-700 to-black",
	CategoryEmergencyRequest:       "from-red-600 to-orange-600",
	CategoryPhysicalAssault:        "from-red-600 to-orange-700",
	CategoryPhysicalContact:        "from-red-500 to-orange-600",
	CategoryDomesticViolence:       "from-red-600 to-pink-700",
	CategorySexualAssault:          "from-red-600 to-purple-700",
	CategoryFollowing:              "from-orange-500 to-yellow-500",
	CategoryHarassment:             "from-pink-500 to-pink-700",
	CategoryUnsafeLocation:         "from-yellow-400 to-amber-500",
	CategoryFearResponse:           "from-yellow-600 to-orange-500",
	CategoryPreventiveSafety:       "from-yellow-400 to-green-500",
	CategoryUncomfortableSituation: "from-yellow-400 to-lime-500",
	CategoryHelpRequest:            "from-orange-400 to-yellow-500",
	CategoryIntoxicatedPerson:      "from-orange-400 to-yellow-600",
	CategoryConversational:         "from-blue-500 to-cyan-500",
	CategoryNeedsAssessment:        "from-zinc-500 to-zinc-700",
	CategoryOther:                  "from-zinc-500 to-zinc-700",
}

// Label возвращает человекочитаемое имя категории
func (c Category) Label() string {
	if c == "" {
		return "safety"
	}
	return strings.ReplaceAll(string(c), "_", " ")
}

// Color возвращает цветовой токен категории, для неизвестных - цвет "other"
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[CategoryOther]
}

// Display собирает данные отображения категории
func (c Category) Display() CategoryDisplay {
	return CategoryDisplay{Category: c, Label: c.Label(), Color: c.Color()}
}

// LocationLabels - подписи локаций, используемые когда сообщение пришло без подсказки
var LocationLabels = []string{
	"Queen & Spadina • Downtown Toronto",
	"King & Bay • Financial District",
	"Dundas & Yonge • Eaton Centre",
	"Front & York • Union Station",
	"Bathurst & King • Fashion District",
	"Bloor & Yonge • Yorkville",
	"Harbourfront • Queens Quay",
}
