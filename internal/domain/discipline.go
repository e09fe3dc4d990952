package domain

// Discipline is the workout category.
type Discipline string

const (
	DisciplineSwim     Discipline = "swim"
	DisciplineBike     Discipline = "bike"
	DisciplineRun      Discipline = "run"
	DisciplineStrength Discipline = "strength"
	DisciplineBrick    Discipline = "brick" // combined bike+run
	DisciplineRest     Discipline = "rest"
)

// Disciplines lists every known discipline in display order.
var Disciplines = []Discipline{
	DisciplineSwim,
	DisciplineBike,
	DisciplineRun,
	DisciplineStrength,
	DisciplineBrick,
	DisciplineRest,
}

func (d Discipline) Valid() bool {
	switch d {
	case DisciplineSwim, DisciplineBike, DisciplineRun, DisciplineStrength, DisciplineBrick, DisciplineRest:
		return true
	}
	return false
}

// Intensity is the target effort of a planned workout.
type Intensity string

const (
	IntensityEasy     Intensity = "easy"
	IntensityModerate Intensity = "moderate"
	IntensityHard     Intensity = "hard"
	IntensityRace     Intensity = "race"
	IntensityRecovery Intensity = "recovery"
)

func (i Intensity) Valid() bool {
	switch i {
	case IntensityEasy, IntensityModerate, IntensityHard, IntensityRace, IntensityRecovery:
		return true
	}
	return false
}
