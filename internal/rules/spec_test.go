package rules

import (
	"errors"
	"testing"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		in   string
		want Spec
	}{
		{"S2-3/B3", Conway},
		{"s1-5/b3", Spec{1, 5, 3}},
		{"B3/S23", Conway},
		{"B3/S012345678", Spec{0, 8, 3}},
	}
	for _, tt := range tests {
		got, err := ParseSpec(tt.in)
		if err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseSpecRejects(t *testing.T) {
	for _, in := range []string{"B36/S23", "B3/S235", "S3-2/B3", "B3/S", "garbage"} {
		if _, err := ParseSpec(in); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("%q: expected ErrInvalidSpec, got %v", in, err)
		}
	}
}

func TestSpecStrings(t *testing.T) {
	if Conway.String() != "S2-3/B3" {
		t.Errorf("String() = %s", Conway.String())
	}
	if Conway.Rulestring() != "B3/S23" {
		t.Errorf("Rulestring() = %s", Conway.Rulestring())
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range ListPresets() {
		p, _ := GetPreset(name)
		if (p.Spec == nil) == (p.Rulestring == "") {
			t.Errorf("%s: exactly one of spec and rulestring must be set", name)
		}
		if p.Spec != nil {
			if err := p.Spec.Validate(); err != nil {
				t.Errorf("%s: %v", name, err)
			}
		}
	}
}
