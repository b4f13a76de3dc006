package engine

// AgeBand is a pediatric age group.
type AgeBand string

const (
	AgeInfant     AgeBand = "infant"
	AgeToddler    AgeBand = "toddler"
	AgeChild      AgeBand = "child"
	AgeAdolescent AgeBand = "adolescent"
)

// BandForAge maps an age in months to its band.
func BandForAge(months float64) AgeBand {
	switch {
	case months < 12:
		return AgeInfant
	case months < 36:
		return AgeToddler
	case months < 144:
		return AgeChild
	default:
		return AgeAdolescent
	}
}

// Norms are the age-adjusted alarm thresholds for vital signs.
type Norms struct {
	HRMax  float64
	RRMax  float64
	SBPMin float64
}

// NormsFor returns the thresholds for an age in months. SBP uses the
// 70 + 2 x age-in-years hypotension rule between 1 and 10 years.
func NormsFor(months float64) Norms {
	years := months / 12
	switch BandForAge(months) {
	case AgeInfant:
		return Norms{HRMax: 160, RRMax: 50, SBPMin: 70}
	case AgeToddler:
		return Norms{HRMax: 140, RRMax: 40, SBPMin: 70 + 2*years}
	case AgeChild:
		sbp := 70 + 2*years
		if sbp > 90 {
			sbp = 90
		}
		return Norms{HRMax: 130, RRMax: 30, SBPMin: sbp}
	default:
		return Norms{HRMax: 110, RRMax: 24, SBPMin: 90}
	}
}
