// Package drugs classifies administered agents for the therapeutic and
// pharmacovigilance engines.
package drugs

import (
	"strings"

	"github.com/neuroped/cds/internal/domain/patient"
)

// Class is a pharmacological class relevant to the rule tables.
type Class string

const (
	ClassUnknown           Class = ""
	ClassBenzodiazepine    Class = "benzodiazepine"
	ClassAntiseizure       Class = "antiseizure"
	ClassAnaesthetic       Class = "anaesthetic"
	ClassCorticosteroid    Class = "corticosteroid"
	ClassIVIG              Class = "ivig"
	ClassPlasmaExchange    Class = "plasma_exchange"
	ClassImmunosuppressant Class = "immunosuppressant"
	ClassCytokineBlocker   Class = "cytokine_blocker"
	ClassAntiviral         Class = "antiviral"
	ClassAntibiotic        Class = "antibiotic"
	ClassCarbapenem        Class = "carbapenem"
	ClassAminoglycoside    Class = "aminoglycoside"
	ClassNSAID             Class = "nsaid"
	ClassAntiplatelet      Class = "antiplatelet"
	ClassOpioid            Class = "opioid"
	ClassAnalgesic         Class = "analgesic"
	ClassDiet              Class = "diet"
)

// Profile is the catalogue entry of one agent.
type Profile struct {
	Name          string
	Class         Class
	Line          int
	Hepatotoxic   bool
	Nephrotoxic   bool
	CNSDepressant bool
}

// Antimicrobial reports anti-infective cover.
func (p Profile) Antimicrobial() bool {
	switch p.Class {
	case ClassAntiviral, ClassAntibiotic, ClassCarbapenem, ClassAminoglycoside:
		return true
	}
	return false
}

// Immunosuppressive reports agents that blunt the immune response.
func (p Profile) Immunosuppressive() bool {
	switch p.Class {
	case ClassCorticosteroid, ClassImmunosuppressant, ClassCytokineBlocker:
		return true
	}
	return false
}

// catalog is keyed by canonical name. Line is the escalation line of the
// therapeutic tree, zero for supportive agents.
var catalog = map[string]Profile{
	"midazolam":          {Class: ClassBenzodiazepine, Line: 1, CNSDepressant: true},
	"lorazepam":          {Class: ClassBenzodiazepine, Line: 1, CNSDepressant: true},
	"diazepam":           {Class: ClassBenzodiazepine, Line: 1, CNSDepressant: true},
	"clonazepam":         {Class: ClassBenzodiazepine, Line: 1, CNSDepressant: true},
	"methylprednisolone": {Class: ClassCorticosteroid, Line: 1},
	"prednisolone":       {Class: ClassCorticosteroid, Line: 1},
	"dexamethasone":      {Class: ClassCorticosteroid, Line: 1},
	"ivig":               {Class: ClassIVIG, Line: 1},

	"levetiracetam":   {Class: ClassAntiseizure, Line: 2},
	"phenytoin":       {Class: ClassAntiseizure, Line: 2, Hepatotoxic: true},
	"fosphenytoin":    {Class: ClassAntiseizure, Line: 2, Hepatotoxic: true},
	"valproate":       {Class: ClassAntiseizure, Line: 2, Hepatotoxic: true},
	"phenobarbital":   {Class: ClassAntiseizure, Line: 2, Hepatotoxic: true, CNSDepressant: true},
	"lacosamide":      {Class: ClassAntiseizure, Line: 2},
	"carbamazepine":   {Class: ClassAntiseizure, Hepatotoxic: true},
	"topiramate":      {Class: ClassAntiseizure},
	"plasma_exchange": {Class: ClassPlasmaExchange, Line: 2},

	"rituximab":        {Class: ClassImmunosuppressant, Line: 3},
	"cyclophosphamide": {Class: ClassImmunosuppressant, Line: 3, Hepatotoxic: true},
	"anakinra":         {Class: ClassCytokineBlocker, Line: 3},
	"mycophenolate":    {Class: ClassImmunosuppressant},
	"tacrolimus":       {Class: ClassImmunosuppressant, Nephrotoxic: true},
	"azathioprine":     {Class: ClassImmunosuppressant, Hepatotoxic: true},

	"midazolam_infusion": {Class: ClassAnaesthetic, Line: 4, CNSDepressant: true},
	"ketamine":           {Class: ClassAnaesthetic, Line: 4, CNSDepressant: true},
	"propofol":           {Class: ClassAnaesthetic, Line: 4, CNSDepressant: true},
	"thiopental":         {Class: ClassAnaesthetic, Line: 4, CNSDepressant: true},
	"pentobarbital":      {Class: ClassAnaesthetic, Line: 4, CNSDepressant: true},
	"tocilizumab":        {Class: ClassCytokineBlocker, Line: 4},
	"ketogenic_diet":     {Class: ClassDiet, Line: 4},

	"acyclovir":     {Class: ClassAntiviral, Nephrotoxic: true},
	"ceftriaxone":   {Class: ClassAntibiotic},
	"cefotaxime":    {Class: ClassAntibiotic},
	"vancomycin":    {Class: ClassAntibiotic, Nephrotoxic: true},
	"cotrimoxazole": {Class: ClassAntibiotic},
	"meropenem":     {Class: ClassCarbapenem},
	"imipenem":      {Class: ClassCarbapenem},
	"ertapenem":     {Class: ClassCarbapenem},
	"gentamicin":    {Class: ClassAminoglycoside, Nephrotoxic: true},
	"amikacin":      {Class: ClassAminoglycoside, Nephrotoxic: true},

	"ibuprofen":   {Class: ClassNSAID, Nephrotoxic: true},
	"aspirin":     {Class: ClassAntiplatelet},
	"paracetamol": {Class: ClassAnalgesic, Hepatotoxic: true},
	"morphine":    {Class: ClassOpioid, CNSDepressant: true},
	"fentanyl":    {Class: ClassOpioid, CNSDepressant: true},
}

var aliases = map[string]string{
	"acetaminophen":        "paracetamol",
	"valproic_acid":        "valproate",
	"sodium_valproate":     "valproate",
	"keppra":               "levetiracetam",
	"solumedrol":           "methylprednisolone",
	"immunoglobulin":       "ivig",
	"iv_immunoglobulin":    "ivig",
	"plex":                 "plasma_exchange",
	"plasmapheresis":       "plasma_exchange",
	"kd":                   "ketogenic_diet",
	"acetylsalicylic_acid": "aspirin",
	"aciclovir":            "acyclovir",
	"phenobarbitone":       "phenobarbital",
}

// Normalize canonicalises a drug name for catalogue lookup.
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	if canon, ok := aliases[n]; ok {
		return canon
	}
	return n
}

// Lookup resolves an administered drug. Catalogue entries take precedence;
// otherwise the caller-supplied class is used, and unknown agents get an
// empty class.
func Lookup(d patient.Drug) Profile {
	name := Normalize(d.Name)
	if p, ok := catalog[name]; ok {
		p.Name = name
		return p
	}
	return Profile{Name: name, Class: Class(Normalize(d.Class))}
}
