package food

import (
	"strings"

	"github.com/google/uuid"
)

// Candidate is one food item returned by similarity search, carrying its
// per-100g macro profile and the similarity against the current query
// embedding. Candidates are ephemeral: built per search call, scored by
// the engine, never persisted as-is.
type Candidate struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NameEn      string    `json:"name_en,omitempty"`
	RawCategory string    `json:"category"`
	Calories    float64   `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	Fiber       float64   `json:"fiber"`
	Similarity  float64   `json:"similarity"`
}

// CanonicalCategory resolves the candidate's normalized category. Always
// derived through Canonicalize so every call site agrees.
func (c Candidate) CanonicalCategory() Category {
	return Canonicalize(c.RawCategory, c.Name, c.NameEn)
}

// DiversityKind classifies a food for the lunch/dinner variety rules.
type DiversityKind int

const (
	DiversityNone DiversityKind = iota
	DiversityDairy
	DiversityNutSeed
	DiversityRootVegetable
	DiversityVegetable
)

// Keyword nets for the variety heuristic. Catalog category metadata is
// not always reliable, so name matching backs it up.
var (
	rootVegetableKeywords = []string{
		"carrot", "beet", "radish", "turnip", "parsnip", "sweet potato", "taro", "yam",
	}
	vegetableKeywords = []string{
		"broccoli", "spinach", "salad", "kale", "cabbage", "cucumber", "tomato",
		"zucchini", "lettuce", "mushroom", "asparagus", "cauliflower", "vegetable", "greens",
	}
	nutSeedKeywords = []string{
		"almond", "walnut", "peanut", "cashew", "pistachio", "pecan", "hazelnut",
		"chia", "flax", "sesame", "seed", "nut",
	}
	dairyKeywords = []string{
		"milk", "yogurt", "yoghurt", "cheese", "curd", "kefir",
	}
)

// Diversity classifies the candidate for the vegetable guarantee and the
// lunch/dinner diversity bonus. Root vegetables are checked before the
// general vegetable net so "sweet potato" is not lost to the carbs
// category of its raw metadata.
func (c Candidate) Diversity() DiversityKind {
	name := strings.ToLower(c.Name + " " + c.NameEn)

	switch {
	case containsAny(name, rootVegetableKeywords):
		return DiversityRootVegetable
	case c.CanonicalCategory() == CategoryVegetables || containsAny(name, vegetableKeywords):
		return DiversityVegetable
	case containsAny(name, nutSeedKeywords):
		return DiversityNutSeed
	case c.CanonicalCategory() == CategoryDairy || containsAny(name, dairyKeywords):
		return DiversityDairy
	}
	return DiversityNone
}

// CountsForVegetableGuarantee reports whether the candidate satisfies the
// lunch/dinner requirement of at least one vegetable, root vegetable,
// nut/seed or dairy item.
func (c Candidate) CountsForVegetableGuarantee() bool {
	return c.Diversity() != DiversityNone
}
