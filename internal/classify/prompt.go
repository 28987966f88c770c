package classify

import (
	"fmt"
	"strings"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/taxonomy"
)

const systemPrompt = "You are an expert food categorization assistant."

func buildPrompt(name, desc string) string {
	var cats strings.Builder
	for _, id := range taxonomy.CategoryIDs() {
		fmt.Fprintf(&cats, "%d: %s\n", id, taxonomy.CategoryName(id))
	}

	return fmt.Sprintf(`Categorize this menu item: '%s' (Description text from menu: '%s')

Available Categories (IDs):
%s
Available Attributes:
1: Veg
2: Non-Veg

Available Variations:
1: Half Plate
2: Full Plate

Return ONLY this JSON:
{
  "category_id": 39,
  "attribute_id": 2,
  "variation_ids": [1, 2],
  "description_120": "A concise, neutral, factual description <= 120 chars (no emojis, no marketing)."
}`, name, desc, cats.String())
}
