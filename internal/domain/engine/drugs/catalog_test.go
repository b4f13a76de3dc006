package drugs

import (
	"testing"

	"github.com/neuroped/cds/internal/domain/patient"
)

func TestLookup_CatalogueAndAliases(t *testing.T) {
	tests := []struct {
		in        patient.Drug
		wantName  string
		wantClass Class
	}{
		{patient.Drug{Name: "Valproic Acid"}, "valproate", ClassAntiseizure},
		{patient.Drug{Name: "Meropenem"}, "meropenem", ClassCarbapenem},
		{patient.Drug{Name: "acetaminophen"}, "paracetamol", ClassAnalgesic},
		{patient.Drug{Name: "PLEX"}, "plasma_exchange", ClassPlasmaExchange},
		{patient.Drug{Name: "zonisamide", Class: "Antiseizure"}, "zonisamide", ClassAntiseizure},
		{patient.Drug{Name: "mystery"}, "mystery", ClassUnknown},
	}
	for _, tt := range tests {
		p := Lookup(tt.in)
		if p.Name != tt.wantName || p.Class != tt.wantClass {
			t.Errorf("Lookup(%q) = %s/%s, want %s/%s", tt.in.Name, p.Name, p.Class, tt.wantName, tt.wantClass)
		}
	}
}

func TestProfileFlags(t *testing.T) {
	if !Lookup(patient.Drug{Name: "acyclovir"}).Antimicrobial() {
		t.Error("acyclovir should count as anti-infective cover")
	}
	if !Lookup(patient.Drug{Name: "rituximab"}).Immunosuppressive() {
		t.Error("rituximab should be immunosuppressive")
	}
	if Lookup(patient.Drug{Name: "levetiracetam"}).Immunosuppressive() {
		t.Error("levetiracetam is not immunosuppressive")
	}
	if !Lookup(patient.Drug{Name: "propofol"}).CNSDepressant {
		t.Error("propofol should be a CNS depressant")
	}
}

func TestSet(t *testing.T) {
	s := NewSet([]patient.Drug{
		{Name: "valproate"},
		{Name: "Valproic acid"},
		{Name: "midazolam"},
		{Name: "rituximab"},
	})
	if s.Len() != 3 {
		t.Fatalf("expected duplicates collapsed to 3 agents, got %d (%v)", s.Len(), s.Names())
	}
	if !s.Has("sodium valproate") || !s.HasAny("ketamine", "midazolam") || s.Has("ketamine") {
		t.Error("membership lookups are wrong")
	}
	if !s.HasClass(ClassBenzodiazepine) || s.HasClass(ClassCarbapenem) {
		t.Error("class lookups are wrong")
	}
	if !s.LineGiven(1) || !s.LineGiven(2) || !s.LineGiven(3) || s.LineGiven(4) {
		t.Error("line lookups are wrong")
	}
	if got := s.Names(); got[0] != "valproate" || got[2] != "rituximab" {
		t.Errorf("expected input order kept, got %v", got)
	}
}
