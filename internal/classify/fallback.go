package classify

import (
	"strings"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/menu"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/taxonomy"
)

// nonVegKeywords flags Non-Veg by substring match on the item name.
// "tikka" is deliberately in this list even though it also drives
// category selection, so "Paneer Tikka" classifies Non-Veg; imported
// catalogs rely on that quirk staying put.
var nonVegKeywords = []string{
	"chicken", "mutton", "fish", "egg", "meat", "beef", "pork", "prawns", "tikka",
}

// categoryRules are checked in order; first match wins.
var categoryRules = []struct {
	keywords []string
	category int
}{
	{[]string{"tikka"}, 39},
	{[]string{"tandoori"}, 54},
	{[]string{"rice"}, 32},
	{[]string{"naan", "roti"}, 21},
	{[]string{"roll"}, 33},
}

// FallbackClassification is the deterministic keyword classifier used
// whenever the AI path fails. Pure: same name, same result, always.
func FallbackClassification(name string) *menu.Classification {
	lower := strings.ToLower(name)

	attrID := taxonomy.AttributeVeg
	for _, kw := range nonVegKeywords {
		if strings.Contains(lower, kw) {
			attrID = taxonomy.AttributeNonVeg
			break
		}
	}

	catID := taxonomy.DefaultCategoryID
	for _, rule := range categoryRules {
		matched := false
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if matched {
			catID = rule.category
			break
		}
	}

	return &menu.Classification{
		CategoryID:    catID,
		CategoryName:  taxonomy.CategoryName(catID),
		AttributeID:   attrID,
		AttributeName: taxonomy.AttributeName(attrID),
		VariationIDs:  []int{taxonomy.VariationHalfPlate, taxonomy.VariationFullPlate},
		VariationNames: []string{
			taxonomy.VariationName(taxonomy.VariationHalfPlate),
			taxonomy.VariationName(taxonomy.VariationFullPlate),
		},
	}
}
