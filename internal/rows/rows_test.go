package rows

import "testing"

func TestFlagBits(t *testing.T) {
	flags := []Flag{FlagDisabled, FlagAccent, FlagDestructive, FlagLoading}
	if FlagDisabled != 1 {
		t.Errorf("Expected FlagDisabled on bit 0, got %b", FlagDisabled)
	}
	var seen Flag
	for i, f := range flags {
		if f != 1<<i {
			t.Errorf("Expected flag %d to be %b, got %b", i, 1<<i, f)
		}
		if seen&f != 0 {
			t.Errorf("Flag %b overlaps an earlier flag", f)
		}
		seen |= f
	}
}

func TestRowHas(t *testing.T) {
	r := Row{Kind: KindSetting, ID: 1, Flags: FlagAccent | FlagLoading}
	if !r.Has(FlagAccent) || !r.Has(FlagLoading) || !r.Has(FlagAccent|FlagLoading) {
		t.Errorf("Expected accent and loading set on %b", r.Flags)
	}
	if r.Has(FlagDisabled) || r.Has(FlagAccent|FlagDisabled) {
		t.Errorf("Expected disabled unset on %b", r.Flags)
	}
	if !r.Has(FlagNone) {
		t.Error("Expected every row to have FlagNone")
	}
}

func TestSeparatorFor(t *testing.T) {
	tests := []struct {
		above, below Kind
		want         Kind
	}{
		{KindSetting, KindSetting, KindSeparator},
		{KindSetting, KindRadio, KindSeparatorFull},
		{KindSlider, KindText, KindSeparatorFull},
	}
	for _, tt := range tests {
		if got := SeparatorFor(tt.above, tt.below); got != tt.want {
			t.Errorf("SeparatorFor(%s, %s): expected %s, got %s", tt.above, tt.below, tt.want, got)
		}
	}
}

func TestRowString(t *testing.T) {
	if s := Setting(7, "Info", nil).String(); s != "setting#7" {
		t.Errorf("Expected setting#7, got %q", s)
	}
	if s := ShadowTop().String(); s != "shadow-top" {
		t.Errorf("Expected shadow-top, got %q", s)
	}
	if k := Separator(KindMedia).Kind; k != KindSeparator {
		t.Errorf("Expected a non-separator kind to fall back to separator, got %s", k)
	}
}
