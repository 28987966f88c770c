package menu

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NormalizedMenu is the canonical hierarchical menu produced by the
// normalizer. It is always well-formed: repair failures degrade to a
// skeleton with one empty "Menu Items" section, never to nil.
type NormalizedMenu struct {
	RestaurantName string        `json:"restaurant_name"`
	MenuSections   []MenuSection `json:"menu_sections"`
}

type MenuSection struct {
	SectionName string     `json:"section_name"`
	Items       []MenuItem `json:"items"`
}

// MenuItem carries both the raw extracted fields and, after
// classification, the catalog taxonomy assignment. AICategory is
// guaranteed non-nil once the item has passed through the engine.
type MenuItem struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Pricing        []PriceVariant  `json:"pricing,omitempty"`
	Price          *Money          `json:"price,omitempty"`
	AICategory     *Classification `json:"ai_category,omitempty"`
	AIDescription  string          `json:"ai_description"`
	AllowVariation int             `json:"allowvariation"`
}

type PriceVariant struct {
	Size     string `json:"size"`
	Price    Money  `json:"price"`
	Currency string `json:"currency"`
}

// Classification is a resolved taxonomy assignment.
type Classification struct {
	CategoryID     int      `json:"category_id"`
	CategoryName   string   `json:"category_name"`
	AttributeID    int      `json:"attribute_id"`
	AttributeName  string   `json:"attribute_name"`
	VariationIDs   []int    `json:"variation_ids"`
	VariationNames []string `json:"variation_names"`
}

// Money tolerates the vision model returning prices either as JSON
// numbers or as quoted strings ("360", "₹250"). Unparseable values
// decode to 0 rather than failing the whole menu.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*m = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*m = 0
			return nil
		}
		str = strings.TrimFunc(str, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.' && r != '-'
		})
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			*m = 0
			return nil
		}
		*m = Money(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*m = 0
		return nil
	}
	*m = Money(v)
	return nil
}

func (m Money) Float64() float64 { return float64(m) }
