package menu

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/taxonomy"
)

// RowRecord is one flat catalog-import row: one sellable price point.
type RowRecord struct {
	ID             int             `json:"id"`
	CategoryID     int             `json:"category_id"`
	Name           string          `json:"name"`
	Image          string          `json:"image"`
	AllowVariation int             `json:"allowvariation"`
	Price          float64         `json:"price"`
	SellPrice      float64         `json:"sell_price"`
	Status         int             `json:"status"`
	AttributeID    int             `json:"attribute_id"`
	IsTaxable      int             `json:"is_taxable"`
	TaxID          string          `json:"tax_id"`
	Description    string          `json:"description"`
	RegularPrice   float64         `json:"regular_price"`
	GroupID        int             `json:"group_id"`
	Variations     json.RawMessage `json:"variations"`
}

type variationPayload struct {
	VariationID   int    `json:"variation_id"`
	VariationName string `json:"variation_name"`
}

// Flatten expands the classified hierarchy into catalog rows, one per
// (item x price variant). Row ids form the contiguous sequence 1..N
// across the whole call, in original section/item order.
func Flatten(m *NormalizedMenu) []RowRecord {
	rows := []RowRecord{}
	if m == nil {
		return rows
	}

	id := 1
	for _, sec := range m.MenuSections {
		for _, item := range sec.Items {
			ai := item.AICategory
			if ai == nil {
				// Classification is guaranteed upstream; this is a last
				// line of defense, not an expected path.
				ai = &Classification{
					CategoryID:   taxonomy.DefaultCategoryID,
					AttributeID:  taxonomy.DefaultAttributeID,
					VariationIDs: []int{taxonomy.VariationFullPlate},
				}
			}

			if len(item.Pricing) > 0 {
				for _, p := range item.Pricing {
					size := p.Size
					if size == "" {
						size = "Full"
					}
					variationID := taxonomy.VariationFullPlate
					if strings.EqualFold(size, "Half") {
						variationID = taxonomy.VariationHalfPlate
					}
					rows = append(rows, buildRow(
						id,
						ai,
						fmt.Sprintf("%s (%s)", item.Name, size),
						p.Price.Float64(),
						item.Description,
						&variationID,
					))
					id++
				}
				continue
			}

			price := 0.0
			if item.Price != nil {
				price = item.Price.Float64()
			}
			name := item.Name
			if name == "" {
				name = "Item"
			}
			rows = append(rows, buildRow(id, ai, name, price, item.Description, nil))
			id++
		}
	}
	return rows
}

func buildRow(id int, ai *Classification, name string, price float64, desc string, variationID *int) RowRecord {
	allow := 1
	var payload json.RawMessage
	if variationID != nil {
		// The row already represents one concrete size.
		allow = 0
		payload, _ = json.Marshal(variationPayload{
			VariationID:   *variationID,
			VariationName: taxonomy.VariationName(*variationID),
		})
	} else {
		ids := uniqueInts(ai.VariationIDs)
		if len(ids) == 0 {
			ids = []int{taxonomy.VariationFullPlate}
		}
		payload, _ = json.Marshal(ids)
	}

	return RowRecord{
		ID:             id,
		CategoryID:     ai.CategoryID,
		Name:           name,
		Image:          "",
		AllowVariation: allow,
		Price:          price,
		SellPrice:      price,
		Status:         1,
		AttributeID:    ai.AttributeID,
		IsTaxable:      1,
		TaxID:          "1",
		Description:    desc,
		RegularPrice:   price,
		GroupID:        ai.CategoryID,
		Variations:     payload,
	}
}

func uniqueInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
