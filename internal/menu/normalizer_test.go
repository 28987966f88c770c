package menu

import "testing"

func TestNormalizeCleanJSON(t *testing.T) {
	raw := `{
		"restaurant_name": "Spice Villa",
		"menu_sections": [
			{"section_name": "Starters", "items": [
				{"name": "Paneer Tikka", "description": "Smoky cottage cheese", "pricing": [
					{"size": "Half", "price": 180, "currency": "INR"},
					{"size": "Full", "price": 320, "currency": "INR"}
				]}
			]}
		]
	}`

	m := Normalize(raw)
	if m.RestaurantName != "Spice Villa" {
		t.Fatalf("expected Spice Villa, got %s", m.RestaurantName)
	}
	if len(m.MenuSections) != 1 || len(m.MenuSections[0].Items) != 1 {
		t.Fatalf("unexpected shape: %+v", m)
	}
	item := m.MenuSections[0].Items[0]
	if len(item.Pricing) != 2 {
		t.Fatalf("expected 2 price variants, got %d", len(item.Pricing))
	}
	if item.Pricing[0].Price.Float64() != 180 {
		t.Fatalf("expected 180, got %v", item.Pricing[0].Price)
	}
}

func TestNormalizeFencedJSON(t *testing.T) {
	raw := "Here is the menu:\n```json\n" +
		`{"restaurant_name": "Cafe One", "menu_sections": [{"section_name": "Drinks", "items": []}]}` +
		"\n```\nLet me know if you need anything else."

	m := Normalize(raw)
	if m.RestaurantName != "Cafe One" {
		t.Fatalf("fenced payload not recovered: %+v", m)
	}
	if m.MenuSections[0].SectionName != "Drinks" {
		t.Fatalf("expected Drinks section, got %s", m.MenuSections[0].SectionName)
	}
}

func TestNormalizeStringPrices(t *testing.T) {
	raw := `{"menu_sections": [{"section_name": "Mains", "items": [
		{"name": "Dal Makhani", "price": "360"},
		{"name": "Shahi Paneer", "price": "₹250"}
	]}]}`

	m := Normalize(raw)
	items := m.MenuSections[0].Items
	if items[0].Price.Float64() != 360 {
		t.Fatalf("quoted price not parsed: %v", items[0].Price)
	}
	if items[1].Price.Float64() != 250 {
		t.Fatalf("currency-prefixed price not parsed: %v", items[1].Price)
	}
}

func TestNormalizeLegacyItemsShape(t *testing.T) {
	raw := `{"items": [{"name": "Veg Biryani", "price": 220}]}`

	m := Normalize(raw)
	if m.RestaurantName != "Restaurant Menu" {
		t.Fatalf("expected default restaurant name, got %s", m.RestaurantName)
	}
	if len(m.MenuSections) != 1 || m.MenuSections[0].SectionName != "Menu Items" {
		t.Fatalf("legacy items not wrapped into a section: %+v", m)
	}
	if m.MenuSections[0].Items[0].Name != "Veg Biryani" {
		t.Fatalf("item lost: %+v", m.MenuSections[0].Items)
	}
}

func TestNormalizeNoJSONFallsBackToSkeleton(t *testing.T) {
	m := Normalize("I am sorry, I cannot read this image.")
	if m == nil {
		t.Fatal("expected skeleton, got nil")
	}
	if m.RestaurantName != "Restaurant Menu" {
		t.Fatalf("expected skeleton name, got %s", m.RestaurantName)
	}
	if len(m.MenuSections) != 1 || len(m.MenuSections[0].Items) != 0 {
		t.Fatalf("expected one empty section, got %+v", m.MenuSections)
	}
}

func TestNormalizeEmptyInputFallsBackToSkeleton(t *testing.T) {
	m := Normalize("")
	if len(m.MenuSections) != 1 || m.MenuSections[0].SectionName != "Menu Items" {
		t.Fatalf("expected skeleton, got %+v", m)
	}
}

func TestNormalizeTruncatedArrayKeepsLeadingItems(t *testing.T) {
	// Generation cuts off mid-item: the two complete leading items must
	// survive, the partial third must not.
	raw := `{"restaurant_name": "Truncated Tandoor", "menu_sections": [
		{"section_name": "Mains", "items": [
			{"name": "Butter Chicken", "price": 340},
			{"name": "Dal Tadka", "price": 210},
			{"name": "Palak Pan`

	m := Normalize(raw)
	if m.RestaurantName != "Truncated Tandoor" {
		t.Fatalf("expected recovered restaurant name, got %s", m.RestaurantName)
	}
	items := m.MenuSections[0].Items
	if len(items) != 2 {
		t.Fatalf("expected 2 recovered items, got %d: %+v", len(items), items)
	}
	if items[0].Name != "Butter Chicken" || items[1].Name != "Dal Tadka" {
		t.Fatalf("wrong items recovered: %+v", items)
	}
}

func TestNormalizeControlCharacters(t *testing.T) {
	raw := "{\"menu_sections\": [{\"section_name\": \"Snacks\", \"items\": [{\"name\": \"Samosa\x00\x01\", \"price\": 30}]}]}"

	m := Normalize(raw)
	if m.MenuSections[0].Items[0].Name != "Samosa" {
		t.Fatalf("control characters not stripped: %q", m.MenuSections[0].Items[0].Name)
	}
}

func TestNormalizeNilSectionItems(t *testing.T) {
	raw := `{"menu_sections": [{"section_name": "Empty"}]}`

	m := Normalize(raw)
	if m.MenuSections[0].Items == nil {
		t.Fatal("nil items not normalized to empty slice")
	}
}
