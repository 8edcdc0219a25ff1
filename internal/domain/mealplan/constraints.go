package mealplan

// DailyNutrition is a per-day macro aggregate.
type DailyNutrition struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Bound is an inclusive [Min, Max] range for a per-day macro aggregate.
type Bound struct {
	Min float64
	Max float64
}

// Contains reports whether v is within the bound.
func (b Bound) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Distance returns a normalized violation distance in [0,1]. A value
// inside the bound contributes 0; shortfall is measured against Min,
// excess against Max.
func (b Bound) Distance(v float64) float64 {
	var violation, ref float64
	switch {
	case v < b.Min:
		violation = b.Min - v
		ref = b.Min
	case v > b.Max:
		violation = v - b.Max
		ref = b.Max
	default:
		return 0
	}
	if ref <= 0 {
		ref = 1
	}
	d := violation / ref
	if d > 1 {
		d = 1
	}
	return d
}

// Validate rejects inverted or negative bounds.
func (b Bound) Validate() error {
	if b.Min < 0 || b.Max < 0 {
		return ErrNegativeBound
	}
	if b.Min > b.Max {
		return ErrInvertedBound
	}
	return nil
}

// ConstraintSet holds the per-day macro bounds a plan is optimized
// against.
type ConstraintSet struct {
	Calories Bound
	Protein  Bound
	Carbs    Bound
	Fat      Bound
}

// Validate checks every bound before any optimization work begins.
func (c ConstraintSet) Validate() error {
	for _, b := range []Bound{c.Calories, c.Protein, c.Carbs, c.Fat} {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Score returns 1 minus the mean normalized violation distance across
// the four macros, clamped to [0,1]. A macro already within its bound
// contributes 0 distance; 1.0 means fully within all bounds.
func (c ConstraintSet) Score(n DailyNutrition) float64 {
	total := c.Calories.Distance(n.Calories) +
		c.Protein.Distance(n.Protein) +
		c.Carbs.Distance(n.Carbs) +
		c.Fat.Distance(n.Fat)
	score := 1 - total/4
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Satisfied reports whether every macro is within its bound.
func (c ConstraintSet) Satisfied(n DailyNutrition) bool {
	return c.Calories.Contains(n.Calories) &&
		c.Protein.Contains(n.Protein) &&
		c.Carbs.Contains(n.Carbs) &&
		c.Fat.Contains(n.Fat)
}
