package taxonomy

// Fixed catalog taxonomy. Initialized once at process start and never
// mutated afterwards, so it is safe to share across requests without locks.

const (
	// DefaultCategoryID is used whenever no better category is known (Main Course).
	DefaultCategoryID = 71

	// DefaultAttributeID is Veg.
	DefaultAttributeID = 1

	AttributeVeg    = 1
	AttributeNonVeg = 2

	VariationHalfPlate = 1
	VariationFullPlate = 2
)

var categories = map[int]string{
	1: "Pizza", 2: "Starters", 3: "Burger", 4: "Cold Coffee", 5: "Pav Bhaji", 6: "Vadapav",
	7: "Samosa", 8: "Sandwich", 9: "Chaat", 10: "Kachori", 11: "Chole Kulche", 12: "Chole Bhature",
	13: "Tikki", 14: "Pakode", 15: "Soups", 16: "Bedmi Poori", 17: "Beverages", 18: "Combos",
	19: "Dahi Bhalla", 20: "Gol Gappe", 21: "Naan/Paranthe", 22: "Raita", 23: "Spring Roll",
	24: "Bhel Puri", 25: "Choupsey", 26: "Maggi", 27: "Dal", 28: "Desserts", 29: "Egg & Omelette",
	30: "Falafel", 31: "Frankie", 32: "Rice", 33: "Rolls", 34: "Ice Cream", 35: "Korean Dishes",
	36: "Laphing", 37: "Lassi", 38: "Sabzi", 39: "Tikka", 40: "Patties", 41: "Puri Sabji",
	42: "Shawarma", 43: "Special Chinese Flavours", 44: "Chaap", 45: "Tawa Se", 46: "Momos",
	47: "With Rice", 48: "South Indian", 49: "Platter & more", 50: "Jalandhri", 51: "Monakos",
	52: "New Variety", 53: "French Toast", 54: "Tandoori items", 55: "Afghani items",
	56: "Garlic bread", 57: "Masala items", 58: "Onion items", 59: "Half fry",
	60: "Butter Omelette", 61: "Boiled egg", 62: "Pulav", 63: "Extras", 64: "Noodles",
	65: "Egg Dosa Omelette", 66: "Nutri kulcha", 67: "Rice bowl", 68: "Fries & pasta",
	69: "Snacks", 70: "Pizza Omelette", 71: "Main Course", 72: "Chinese", 73: "Waffles",
	74: "Waffle Sandwich", 75: "Shakes", 76: "Waffle cake", 77: "Waffle Sundaes",
	78: "Mini pancakes", 79: "Fries", 80: "Salad", 81: "Corn", 82: "Ram Ladoo", 83: "Meal",
}

var attributes = map[int]string{
	AttributeVeg:    "Veg",
	AttributeNonVeg: "Non-Veg",
}

var variations = map[int]string{
	VariationHalfPlate: "Half Plate",
	VariationFullPlate: "Full Plate",
}

// CategoryName resolves a category id. Unknown ids resolve to "Unknown";
// callers keep the numeric id as-is.
func CategoryName(id int) string {
	if name, ok := categories[id]; ok {
		return name
	}
	return "Unknown"
}

func AttributeName(id int) string {
	if name, ok := attributes[id]; ok {
		return name
	}
	return "Unknown"
}

func VariationName(id int) string {
	if name, ok := variations[id]; ok {
		return name
	}
	return "Unknown"
}

// CategoryCount reports the number of known categories.
func CategoryCount() int { return len(categories) }

// CategoryIDs returns all category ids in ascending order.
func CategoryIDs() []int {
	ids := make([]int, 0, len(categories))
	for i := 1; i <= len(categories); i++ {
		if _, ok := categories[i]; ok {
			ids = append(ids, i)
		}
	}
	return ids
}
