// Package timingqc compares cue boundaries against detected speech
// transitions and classifies the deviations worth a translator's attention.
//
// Analysis produces signed deltas per cue (positive means the speech event
// falls after the cue boundary); classification turns deltas into issues,
// suppressing the ones explained by neighbouring cues and downgrading the
// ones the source subtitles already carried.
package timingqc
