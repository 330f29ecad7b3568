package role

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePayRange(t *testing.T) {
	cases := []struct {
		in      string
		want    PayRange
		wantErr bool
	}{
		{in: "$120,000 - $180,000", want: PayRange{Low: 120000, High: 180000}},
		{in: "$95000 - $140000", want: PayRange{Low: 95000, High: 140000}},
		{in: "$1,250,000-$2,000,000", want: PayRange{Low: 1250000, High: 2000000}},
		{in: "$120,000+", wantErr: true},
		{in: "competitive", wantErr: true},
		{in: "$10 - $20 - $30", wantErr: true},
		{in: "$200,000 - $100,000", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParsePayRange(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidPayRange) {
				t.Fatalf("%q: expected ErrInvalidPayRange, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected err: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %+v, got %+v", tc.in, tc.want, got)
		}
	}
}

func TestParseDemand(t *testing.T) {
	for in, want := range map[string]Demand{
		"low":       DemandLow,
		"Medium":    DemandMedium,
		" HIGH ":    DemandHigh,
		"Very High": DemandVeryHigh,
		"very-high": DemandVeryHigh,
		"very_high": DemandVeryHigh,
	} {
		got, err := ParseDemand(in)
		if err != nil {
			t.Fatalf("%q: unexpected err: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}

	if _, err := ParseDemand("extreme"); !errors.Is(err, ErrInvalidDemand) {
		t.Fatalf("expected ErrInvalidDemand, got %v", err)
	}
}

func TestRole_RequiredDropsRepeats(t *testing.T) {
	r := Role{RequiredSkills: []string{"python", "sql", "python"}, SoftSkills: []string{"communication", "sql"}}
	want := []string{"python", "sql", "communication"}
	if got := r.Required(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	listed := []string{"python", "sql", "python", "communication", "sql"}
	if got := r.Listed(); !reflect.DeepEqual(got, listed) {
		t.Fatalf("expected %v, got %v", listed, got)
	}
}
