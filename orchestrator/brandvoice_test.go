package orchestrator

import (
	"testing"

	"marketflow/types"
)

func TestVerdictThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.95, types.VerdictPass},
		{0.8, types.VerdictPass},
		{0.79, types.VerdictAdvisory},
		{0.6, types.VerdictAdvisory},
		{0.59, types.VerdictAttention},
		{0, types.VerdictAttention},
	}
	for _, c := range cases {
		if got := verdict(c.score); got != c.want {
			t.Fatalf("verdict(%v) = %q; want %q", c.score, got, c.want)
		}
	}
}

func TestBrandVoice(t *testing.T) {
	advisory := BrandVoice(map[string]float64{
		types.ToneProfessional:   0.9,
		types.ToneConfident:      0.8,
		types.ToneActionOriented: 0.85,
	})
	if advisory == nil {
		t.Fatalf("BrandVoice returned nil")
	}
	if advisory.Professionalism != types.VerdictPass ||
		advisory.Confidence != types.VerdictPass ||
		advisory.ActionOrientation != types.VerdictPass {
		t.Fatalf("advisory = %+v", advisory)
	}
	// Mean of 0.9, 0.8, 0.85 is 0.85.
	if advisory.Overall != types.VerdictPass {
		t.Fatalf("overall = %q; want pass", advisory.Overall)
	}
}

func TestBrandVoiceOverallUsesRawMean(t *testing.T) {
	// Two passes and one attention: mean (0.8+0.8+0.3)/3 = 0.633 is advisory,
	// even though no single axis is advisory.
	advisory := BrandVoice(map[string]float64{
		types.ToneProfessional:   0.8,
		types.ToneConfident:      0.8,
		types.ToneActionOriented: 0.3,
	})
	if advisory.ActionOrientation != types.VerdictAttention {
		t.Fatalf("action orientation = %q", advisory.ActionOrientation)
	}
	if advisory.Overall != types.VerdictAdvisory {
		t.Fatalf("overall = %q; want advisory", advisory.Overall)
	}
}

func TestBrandVoiceEmptyTone(t *testing.T) {
	if got := BrandVoice(nil); got != nil {
		t.Fatalf("BrandVoice(nil) = %+v; want nil", got)
	}
	if got := BrandVoice(map[string]float64{}); got != nil {
		t.Fatalf("BrandVoice(empty) = %+v; want nil", got)
	}
}
