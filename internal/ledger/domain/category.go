package domain

import "strings"

// CategoryOther is the fallback when no keyword group matches.
const CategoryOther = "other"

// categoryRules is an ordered rule table: the first group containing a
// keyword found in the product name wins.
var categoryRules = []struct {
	label    string
	keywords []string
}{
	{"electronics", []string{"phone", "laptop", "tablet", "monitor", "camera", "headphone", "charger"}},
	{"groceries", []string{"coffee", "tea", "milk", "bread", "sugar", "juice", "chocolate"}},
	{"apparel", []string{"shirt", "jeans", "jacket", "dress", "sneaker", "sock", "hoodie"}},
	{"appliances", []string{"kettle", "toaster", "vacuum", "fridge", "microwave", "blender"}},
	{"furniture", []string{"chair", "table", "sofa", "desk", "shelf", "wardrobe"}},
}

// Categorize maps a product name to a category label by case-insensitive
// keyword match. Deterministic, no side effects.
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.label
			}
		}
	}
	return CategoryOther
}
