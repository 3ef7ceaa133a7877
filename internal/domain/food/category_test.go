package food

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// CategoryTestSuite provides a test suite for category canonicalization
type CategoryTestSuite struct {
	suite.Suite
}

// TestCanonicalize tests raw label normalization and keyword inference
func (suite *CategoryTestSuite) TestCanonicalize() {
	suite.Run("PluralAndAliasLabels_ShouldNormalize", func() {
		assert.Equal(suite.T(), CategoryProtein, Canonicalize("Proteins", "", ""))
		assert.Equal(suite.T(), CategoryProtein, Canonicalize("meat", "", ""))
		assert.Equal(suite.T(), CategoryCarbs, Canonicalize("Carbohydrates", "", ""))
		assert.Equal(suite.T(), CategoryVegetables, Canonicalize("veggies", "", ""))
		assert.Equal(suite.T(), CategoryFats, Canonicalize(" Oils ", "", ""))
	})

	suite.Run("UnknownLabel_ShouldFallBackToNameKeywords", func() {
		assert.Equal(suite.T(), CategoryProtein, Canonicalize("", "Grilled Chicken Breast", ""))
		assert.Equal(suite.T(), CategoryCarbs, Canonicalize("misc", "Steamed Jasmine Rice", ""))
		assert.Equal(suite.T(), CategoryFruits, Canonicalize("", "", "Dragon Fruit"))
	})

	suite.Run("DairyKeywords_ShouldWinBeforeFats", func() {
		// "buttermilk" contains both "butter" and "milk"; the dairy rule
		// is checked first, so it must win
		assert.Equal(suite.T(), CategoryDairy, Canonicalize("", "Buttermilk", ""))
		assert.Equal(suite.T(), CategoryDairy, Canonicalize("", "Whey Protein Shake", ""))
	})

	suite.Run("ProteinKeywords_ShouldWinBeforeVegetables", func() {
		// first match wins: a chicken salad is classified as protein
		assert.Equal(suite.T(), CategoryProtein, Canonicalize("", "Chicken Salad", ""))
	})

	suite.Run("NoSignal_ShouldLandInOther", func() {
		assert.Equal(suite.T(), CategoryOther, Canonicalize("", "Mystery Bar", ""))
		assert.Equal(suite.T(), CategoryOther, Canonicalize("snack bars", "Crunch Bar", ""))
	})
}

// TestDiversity tests the vegetable/root/nut/dairy heuristic
func (suite *CategoryTestSuite) TestDiversity() {
	suite.Run("RootVegetable_ShouldBeatRawCarbCategory", func() {
		// Arrange
		candidate := Candidate{Name: "Roasted Sweet Potato", RawCategory: "carbs"}

		// Act & Assert
		assert.Equal(suite.T(), DiversityRootVegetable, candidate.Diversity())
		assert.True(suite.T(), candidate.CountsForVegetableGuarantee())
	})

	suite.Run("LeafVegetable_ShouldClassifyAsVegetable", func() {
		candidate := Candidate{Name: "Baby Spinach", RawCategory: "vegetables"}
		assert.Equal(suite.T(), DiversityVegetable, candidate.Diversity())
	})

	suite.Run("VegetableByNameOnly_ShouldStillClassify", func() {
		// unreliable catalog metadata, name match is the safety net
		candidate := Candidate{Name: "Garden Salad Mix", RawCategory: ""}
		assert.Equal(suite.T(), DiversityVegetable, candidate.Diversity())
	})

	suite.Run("NutsAndSeeds_ShouldClassify", func() {
		assert.Equal(suite.T(), DiversityNutSeed, Candidate{Name: "Roasted Almonds"}.Diversity())
		assert.Equal(suite.T(), DiversityNutSeed, Candidate{Name: "Chia Pudding"}.Diversity())
	})

	suite.Run("Dairy_ShouldClassify", func() {
		assert.Equal(suite.T(), DiversityDairy, Candidate{Name: "Greek Yogurt", RawCategory: "dairy"}.Diversity())
	})

	suite.Run("PlainProtein_ShouldNotCount", func() {
		candidate := Candidate{Name: "Grilled Chicken Breast", RawCategory: "protein"}
		assert.Equal(suite.T(), DiversityNone, candidate.Diversity())
		assert.False(suite.T(), candidate.CountsForVegetableGuarantee())
	})
}

// TestCategoryTestSuite runs the test suite
func TestCategoryTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryTestSuite))
}
