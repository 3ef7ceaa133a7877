// Package food holds the catalog-facing domain types: search candidates,
// canonical food categories and the variety heuristics built on them.
package food

import "strings"

// Category is the normalized food group. Scoring, cap enforcement and gap
// detection must all consult the same canonicalization, or their filtering
// decisions will disagree with each other.
type Category string

const (
	CategoryProtein    Category = "protein"
	CategoryCarbs      Category = "carbs"
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryDairy      Category = "dairy"
	CategoryFats       Category = "fats"
	CategoryOther      Category = "other"
)

// All lists every canonical category in cap-walk order.
func All() []Category {
	return []Category{
		CategoryProtein,
		CategoryCarbs,
		CategoryVegetables,
		CategoryFruits,
		CategoryDairy,
		CategoryFats,
		CategoryOther,
	}
}

// categorySynonyms maps raw catalog spellings to canonical categories.
// Catalog rows mix singular, plural and localized labels.
var categorySynonyms = map[string]Category{
	"protein":       CategoryProtein,
	"proteins":      CategoryProtein,
	"meat":          CategoryProtein,
	"meats":         CategoryProtein,
	"seafood":       CategoryProtein,
	"carb":          CategoryCarbs,
	"carbs":         CategoryCarbs,
	"carbohydrate":  CategoryCarbs,
	"carbohydrates": CategoryCarbs,
	"grain":         CategoryCarbs,
	"grains":        CategoryCarbs,
	"starch":        CategoryCarbs,
	"starches":      CategoryCarbs,
	"vegetable":     CategoryVegetables,
	"vegetables":    CategoryVegetables,
	"veggie":        CategoryVegetables,
	"veggies":       CategoryVegetables,
	"greens":        CategoryVegetables,
	"fruit":         CategoryFruits,
	"fruits":        CategoryFruits,
	"dairy":         CategoryDairy,
	"dairies":       CategoryDairy,
	"fat":           CategoryFats,
	"fats":          CategoryFats,
	"oil":           CategoryFats,
	"oils":          CategoryFats,
	"other":         CategoryOther,
	"others":        CategoryOther,
}

// inferenceRule is one row of the name-based fallback table.
type inferenceRule struct {
	category Category
	keywords []string
}

// inferenceRules is walked top to bottom and the first keyword hit wins.
// Dairy is checked before protein so "buttermilk" and "whey" land in
// dairy, and fats last so "coconut milk" is not claimed by the nut rule.
var inferenceRules = []inferenceRule{
	{CategoryDairy, []string{
		"milk", "yogurt", "yoghurt", "cheese", "curd", "kefir", "whey", "cream",
	}},
	{CategoryProtein, []string{
		"chicken", "beef", "pork", "fish", "salmon", "tuna", "shrimp", "prawn",
		"egg", "tofu", "tempeh", "turkey", "duck", "lamb", "bean", "lentil", "chickpea",
	}},
	{CategoryCarbs, []string{
		"rice", "bread", "pasta", "noodle", "oat", "potato", "quinoa", "cereal",
		"corn", "tortilla", "bun", "porridge", "couscous", "barley",
	}},
	{CategoryVegetables, []string{
		"broccoli", "spinach", "carrot", "salad", "kale", "cabbage", "cucumber",
		"tomato", "zucchini", "lettuce", "pepper", "mushroom", "asparagus",
		"cauliflower", "eggplant", "okra", "vegetable",
	}},
	{CategoryFruits, []string{
		"apple", "banana", "berry", "orange", "mango", "grape", "pear", "melon",
		"kiwi", "peach", "pineapple", "papaya", "plum", "fruit",
	}},
	{CategoryFats, []string{
		"oil", "butter", "avocado", "almond", "walnut", "peanut", "cashew",
		"pistachio", "seed", "nut",
	}},
}

// Canonicalize resolves a raw catalog category plus the food's names into
// a canonical category. The raw string is tried against the synonym table
// first; when it is absent or unknown, the names fall through the ordered
// keyword rules. No match lands in CategoryOther.
func Canonicalize(raw, name, nameEn string) Category {
	if category, ok := categorySynonyms[normalizeLabel(raw)]; ok {
		return category
	}

	lowered := strings.ToLower(name + " " + nameEn)
	for _, rule := range inferenceRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

func normalizeLabel(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func containsAny(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}
