package patient

import "strings"

// Sex is the biological sex of the patient.
type Sex string

const (
	SexUnknown Sex = ""
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
)

var sexAliases = map[string]Sex{
	"male": SexMale, "m": SexMale, "boy": SexMale,
	"female": SexFemale, "f": SexFemale, "girl": SexFemale,
}

// ParseSex maps a raw value to Sex. ok is false for unrecognised values.
func ParseSex(raw string) (Sex, bool) {
	s, ok := sexAliases[normalize(raw)]
	return s, ok
}

// Pupils is the pupillary light reflex finding.
type Pupils string

const (
	PupilsUnknown   Pupils = ""
	PupilsReactive  Pupils = "reactive"
	PupilsSluggish  Pupils = "sluggish"
	PupilsFixedOne  Pupils = "fixed_one"
	PupilsFixedBoth Pupils = "fixed_both"
)

var pupilsAliases = map[string]Pupils{
	"reactive": PupilsReactive, "normal": PupilsReactive, "perrl": PupilsReactive,
	"sluggish": PupilsSluggish, "slow": PupilsSluggish,
	"fixed_one": PupilsFixedOne, "unilateral": PupilsFixedOne, "anisocoria": PupilsFixedOne,
	"fixed_both": PupilsFixedBoth, "fixed": PupilsFixedBoth, "bilateral": PupilsFixedBoth,
}

// ParsePupils maps a raw value to Pupils.
func ParsePupils(raw string) (Pupils, bool) {
	p, ok := pupilsAliases[normalize(raw)]
	return p, ok
}

// SeizureType classifies the dominant seizure presentation.
type SeizureType string

const (
	SeizureUnknown     SeizureType = ""
	SeizureNone        SeizureType = "none"
	SeizureFocal       SeizureType = "focal"
	SeizureGeneralized SeizureType = "generalized"
	SeizureMyoclonic   SeizureType = "myoclonic"
	SeizureStatus      SeizureType = "status"
	// SeizureRefractory is refractory status epilepticus, an emergency by itself.
	SeizureRefractory SeizureType = "refractory_status"
)

var seizureAliases = map[string]SeizureType{
	"none":  SeizureNone,
	"focal": SeizureFocal, "partial": SeizureFocal,
	"generalized": SeizureGeneralized, "generalised": SeizureGeneralized, "tonic_clonic": SeizureGeneralized, "gtc": SeizureGeneralized,
	"myoclonic": SeizureMyoclonic,
	"status":    SeizureStatus, "status_epilepticus": SeizureStatus, "se": SeizureStatus,
	"refractory_status": SeizureRefractory, "refractory": SeizureRefractory, "rse": SeizureRefractory, "super_refractory": SeizureRefractory,
}

// ParseSeizureType maps a raw value to SeizureType.
func ParseSeizureType(raw string) (SeizureType, bool) {
	s, ok := seizureAliases[normalize(raw)]
	return s, ok
}

// Antibody is the CSF autoantibody finding.
type Antibody string

const (
	AntibodyUnknown  Antibody = ""
	AntibodyNegative Antibody = "negative"
	AntibodyPending  Antibody = "pending"
	AntibodyNMDAR    Antibody = "nmdar"
	AntibodyMOG      Antibody = "mog"
	AntibodyGAD      Antibody = "gad"
	AntibodyOther    Antibody = "other"
)

var antibodyAliases = map[string]Antibody{
	"negative": AntibodyNegative, "neg": AntibodyNegative, "none": AntibodyNegative,
	"pending": AntibodyPending,
	"nmdar":   AntibodyNMDAR, "anti_nmdar": AntibodyNMDAR, "nmda": AntibodyNMDAR,
	"mog": AntibodyMOG, "anti_mog": AntibodyMOG, "mogad": AntibodyMOG,
	"gad": AntibodyGAD, "gad65": AntibodyGAD, "anti_gad": AntibodyGAD,
	"other": AntibodyOther, "lgi1": AntibodyOther, "caspr2": AntibodyOther, "gabab": AntibodyOther, "ampar": AntibodyOther,
}

// ParseAntibody maps a raw value to Antibody.
func ParseAntibody(raw string) (Antibody, bool) {
	a, ok := antibodyAliases[normalize(raw)]
	return a, ok
}

// Positive reports a confirmed autoantibody.
func (a Antibody) Positive() bool {
	switch a {
	case AntibodyNMDAR, AntibodyMOG, AntibodyGAD, AntibodyOther:
		return true
	}
	return false
}

func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return s
}
