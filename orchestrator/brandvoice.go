package orchestrator

import "marketflow/types"

// verdict buckets one tone score: 0.8 and above passes, 0.6 and above is an
// advisory, anything lower needs attention.
func verdict(score float64) string {
	switch {
	case score >= 0.8:
		return types.VerdictPass
	case score >= 0.6:
		return types.VerdictAdvisory
	default:
		return types.VerdictAttention
	}
}

// BrandVoice derives the per-axis and overall advisory verdicts from a
// provider's tone analysis. The overall verdict buckets the mean of the
// three raw scores, not the per-axis verdicts. Returns nil when no tone
// analysis exists, e.g. after a fallback enrichment.
func BrandVoice(tone map[string]float64) *types.BrandVoiceAdvisory {
	if len(tone) == 0 {
		return nil
	}

	professional := tone[types.ToneProfessional]
	confident := tone[types.ToneConfident]
	actionOriented := tone[types.ToneActionOriented]

	return &types.BrandVoiceAdvisory{
		Professionalism:   verdict(professional),
		Confidence:        verdict(confident),
		ActionOrientation: verdict(actionOriented),
		Overall:           verdict((professional + confident + actionOriented) / 3),
	}
}
