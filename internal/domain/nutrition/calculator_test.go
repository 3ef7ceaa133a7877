package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// CalculatorTestSuite provides a test suite for the nutrition calculator
type CalculatorTestSuite struct {
	suite.Suite
	calc *Calculator
}

// SetupSuite initializes the test suite
func (suite *CalculatorTestSuite) SetupSuite() {
	suite.calc = NewCalculator()
}

// TestBMR tests the Mifflin-St Jeor derivation
func (suite *CalculatorTestSuite) TestBMR() {
	suite.Run("MaleProfile_ShouldMatchFormula", func() {
		// Arrange
		profile := Profile{Gender: GenderMale, WeightKg: 80, HeightCm: 178, Age: 25}

		// Act
		bmr := suite.calc.BMR(profile)

		// Assert
		assert.InDelta(suite.T(), 1792.5, bmr, 0.001)
	})

	suite.Run("TallerMaleProfile_ShouldMatchFormula", func() {
		// Arrange
		profile := Profile{Gender: GenderMale, WeightKg: 80, HeightCm: 180, Age: 25}

		// Act
		bmr := suite.calc.BMR(profile)

		// Assert
		assert.InDelta(suite.T(), 1805.0, bmr, 0.001)
	})

	suite.Run("FemaleProfile_ShouldSubtractConstant", func() {
		// Arrange
		male := Profile{Gender: GenderMale, WeightKg: 65, HeightCm: 168, Age: 30}
		female := Profile{Gender: GenderFemale, WeightKg: 65, HeightCm: 168, Age: 30}

		// Act
		maleBMR := suite.calc.BMR(male)
		femaleBMR := suite.calc.BMR(female)

		// Assert
		assert.InDelta(suite.T(), maleBMR-166, femaleBMR, 0.001)
	})

	suite.Run("HeavierProfile_ShouldRaiseBMR", func() {
		// Arrange
		base := Profile{Gender: GenderMale, WeightKg: 70, HeightCm: 175, Age: 30}
		heavier := base
		heavier.WeightKg = 75

		// Act & Assert
		assert.Greater(suite.T(), suite.calc.BMR(heavier), suite.calc.BMR(base))
	})

	suite.Run("TallerProfile_ShouldRaiseBMR", func() {
		// Arrange
		base := Profile{Gender: GenderFemale, WeightKg: 60, HeightCm: 160, Age: 40}
		taller := base
		taller.HeightCm = 170

		// Act & Assert
		assert.Greater(suite.T(), suite.calc.BMR(taller), suite.calc.BMR(base))
	})

	suite.Run("OlderProfile_ShouldLowerBMR", func() {
		// Arrange
		base := Profile{Gender: GenderMale, WeightKg: 82, HeightCm: 181, Age: 28}
		older := base
		older.Age = 48

		// Act & Assert
		assert.Less(suite.T(), suite.calc.BMR(older), suite.calc.BMR(base))
	})
}

// TestTDEE tests activity tier selection and multiplication
func (suite *CalculatorTestSuite) TestTDEE() {
	suite.Run("SessionTiers_ShouldMapToBands", func() {
		assert.Equal(suite.T(), ActivityLow, TierForSessions(0))
		assert.Equal(suite.T(), ActivityLow, TierForSessions(3))
		assert.Equal(suite.T(), ActivityModerate, TierForSessions(4))
		assert.Equal(suite.T(), ActivityModerate, TierForSessions(5))
		assert.Equal(suite.T(), ActivityHigh, TierForSessions(6))
		assert.Equal(suite.T(), ActivityHigh, TierForSessions(10))
	})

	suite.Run("ModerateTier_ShouldUseModerateMultiplier", func() {
		// Arrange
		bmr := 1792.5

		// Act
		tdee := suite.calc.TDEE(bmr, 5)

		// Assert
		assert.InDelta(suite.T(), bmr*1.55, tdee, 0.001)
	})

	suite.Run("MoreSessions_ShouldNeverLowerTDEE", func() {
		// Arrange
		bmr := 1600.0

		// Act & Assert
		previous := 0.0
		for sessions := 0; sessions <= 8; sessions++ {
			tdee := suite.calc.TDEE(bmr, sessions)
			assert.GreaterOrEqual(suite.T(), tdee, previous)
			previous = tdee
		}
	})
}

// TestTargetCalories tests the per-objective adjustment rules
func (suite *CalculatorTestSuite) TestTargetCalories() {
	suite.Run("GainMuscleTrainingDay_ShouldAddWorkoutAndSurplus", func() {
		// Arrange
		tdee := 2778.0
		workout := 450.0

		// Act
		target := suite.calc.TargetCalories(tdee, ObjectiveGainMuscle, true, workout)

		// Assert
		assert.Equal(suite.T(), 3528.0, target)
	})

	suite.Run("GainMuscleRestDay_ShouldIgnoreWorkout", func() {
		// Arrange
		tdee := 2778.0

		// Act
		target := suite.calc.TargetCalories(tdee, ObjectiveGainMuscle, false, 450)

		// Assert
		assert.Equal(suite.T(), 2928.0, target)
	})

	suite.Run("LoseFatTrainingDay_ShouldReplenishHalfTheBurn", func() {
		// Arrange
		tdee := 2200.0
		workout := 400.0

		// Act
		target := suite.calc.TargetCalories(tdee, ObjectiveLoseFat, true, workout)

		// Assert
		// workout added in full, then half removed again by the ratio rule
		assert.Equal(suite.T(), 2400.0, target)
	})

	suite.Run("LoseFatRestDay_ShouldApplyDeficit", func() {
		// Act
		target := suite.calc.TargetCalories(2200, ObjectiveLoseFat, false, 0)

		// Assert
		assert.Equal(suite.T(), 1800.0, target)
	})

	suite.Run("EnduranceTrainingDay_ShouldScaleWithWorkout", func() {
		// Act
		target := suite.calc.TargetCalories(2500, ObjectiveEndurance, true, 600)

		// Assert
		assert.Equal(suite.T(), 3250.0, target)
	})

	suite.Run("MaintainAnyDay_ShouldStayAtTDEE", func() {
		assert.Equal(suite.T(), 2400.0, suite.calc.TargetCalories(2400, ObjectiveMaintain, false, 0))
		assert.Equal(suite.T(), 2900.0, suite.calc.TargetCalories(2400, ObjectiveMaintain, true, 500))
	})
}

// TestMacros tests the ratio table and the energy round trip
func (suite *CalculatorTestSuite) TestMacros() {
	suite.Run("AllObjectives_ShouldRoundTripCalories", func() {
		objectives := []Objective{ObjectiveGainMuscle, ObjectiveLoseFat, ObjectiveEndurance, ObjectiveMaintain}
		for _, objective := range objectives {
			// Act
			proteinG, carbsG, fatG := suite.calc.Macros(2600, objective)

			// Assert
			total := proteinG*KcalPerGramProtein + carbsG*KcalPerGramCarbs + fatG*KcalPerGramFat
			assert.InDelta(suite.T(), 2600, total, 10, "objective %s", objective)
		}
	})

	suite.Run("GainMuscle_ShouldFavorCarbsThenProtein", func() {
		// Act
		proteinG, carbsG, fatG := suite.calc.Macros(3000, ObjectiveGainMuscle)

		// Assert
		assert.Equal(suite.T(), 225.0, proteinG)
		assert.Equal(suite.T(), 338.0, carbsG)
		assert.Equal(suite.T(), 83.0, fatG)
	})

	suite.Run("LoseFat_ShouldFavorProtein", func() {
		// Act
		proteinG, carbsG, _ := suite.calc.Macros(1800, ObjectiveLoseFat)

		// Assert
		assert.Greater(suite.T(), proteinG, carbsG)
	})
}

// TestDailyTarget tests the full derivation with the reference profile
func (suite *CalculatorTestSuite) TestDailyTarget() {
	suite.Run("ReferenceProfile_ShouldDeriveAllFields", func() {
		// Arrange
		profile := Profile{Gender: GenderMale, WeightKg: 80, HeightCm: 178, Age: 25}
		goal := Goal{Objective: ObjectiveGainMuscle, SessionsPerWeek: 5}

		// Act
		target := suite.calc.DailyTarget(profile, goal, true, 400)

		// Assert
		assert.InDelta(suite.T(), 1792.5, target.BMR, 0.001)
		assert.InDelta(suite.T(), 1792.5*1.55, target.TDEE, 0.001)
		assert.Equal(suite.T(), 3478.0, target.Calories)

		total := target.ProteinG*KcalPerGramProtein + target.CarbsG*KcalPerGramCarbs + target.FatG*KcalPerGramFat
		assert.InDelta(suite.T(), target.Calories, total, 10)
	})
}

// TestMealTargetFor tests slot apportioning
func (suite *CalculatorTestSuite) TestMealTargetFor() {
	suite.Run("LunchShare_ShouldScaleEveryField", func() {
		// Arrange
		target := Target{Calories: 2800, ProteinG: 210, CarbsG: 315, FatG: 78}

		// Act
		meal := suite.calc.MealTargetFor(target, 35)

		// Assert
		assert.Equal(suite.T(), 980.0, meal.Calories)
		assert.Equal(suite.T(), 74.0, meal.ProteinG)
		assert.Equal(suite.T(), 110.0, meal.CarbsG)
		assert.Equal(suite.T(), 27.0, meal.FatG)
	})

	suite.Run("SlotShares_MayDriftFromDailyTotal", func() {
		// Arrange
		target := Target{Calories: 2001, ProteinG: 151, CarbsG: 201, FatG: 67}
		shares := []float64{25, 35, 30, 10}

		// Act
		sum := 0.0
		for _, share := range shares {
			sum += suite.calc.MealTargetFor(target, share).Calories
		}

		// Assert
		// independent per-field rounding: small drift is accepted
		assert.InDelta(suite.T(), target.Calories, sum, 3)
	})
}

// TestValidation tests the caller-facing validation helpers
func (suite *CalculatorTestSuite) TestValidation() {
	suite.Run("ValidProfile_ShouldPass", func() {
		profile := Profile{Gender: GenderFemale, WeightKg: 58, HeightCm: 164, Age: 31}
		assert.NoError(suite.T(), profile.Validate())
	})

	suite.Run("NonPositiveWeight_ShouldFail", func() {
		profile := Profile{Gender: GenderMale, WeightKg: 0, HeightCm: 180, Age: 25}
		assert.ErrorIs(suite.T(), profile.Validate(), ErrInvalidWeight)
	})

	suite.Run("UnknownGender_ShouldFail", func() {
		profile := Profile{Gender: "unknown", WeightKg: 70, HeightCm: 180, Age: 25}
		assert.ErrorIs(suite.T(), profile.Validate(), ErrInvalidGender)
	})

	suite.Run("UnknownObjective_ShouldFail", func() {
		goal := Goal{Objective: "bulk", SessionsPerWeek: 3}
		assert.ErrorIs(suite.T(), goal.Validate(), ErrInvalidObjective)
	})

	suite.Run("NegativeSessions_ShouldFail", func() {
		goal := Goal{Objective: ObjectiveMaintain, SessionsPerWeek: -1}
		assert.ErrorIs(suite.T(), goal.Validate(), ErrInvalidSessions)
	})
}

// TestCalculatorTestSuite runs the test suite
func TestCalculatorTestSuite(t *testing.T) {
	suite.Run(t, new(CalculatorTestSuite))
}
