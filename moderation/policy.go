package moderation

import "ahri-bot/model"

const (
	// explicit must clear the nsfw threshold by this much to delete outright
	nsfwMargin = 0.05
	// suggestive-only content is flagged, never deleted, and needs a higher bar
	suggestiveMargin = 0.10
	// a near-threshold explicit score must lead the suggestive score by more than this
	nsfwSuggestiveGap = 0.15

	scoreTolerance = 1e-9
)

// Decide chooses the action for one scanned image. Thresholds are taken from
// the illustration pair for illustrated media and from the photo pair
// otherwise. Rules are checked in order; the first match wins:
//
//  1. explicit >= nsfw + 0.05                                  → delete
//  2. explicit >= nsfw and explicit - suggestive > 0.15        → delete
//  3. suggestive >= suggestiveThreshold + 0.10                 → flag
//  4. otherwise                                                → none
//
// Decide is pure and total: NaN scores never match a rule.
func Decide(scores model.ScanScores, th model.Thresholds) model.Decision {
	nsfw, suggestive := th.For(scores.Kind)

	switch {
	case atLeast(scores.Explicit, nsfw+nsfwMargin):
		return model.DecisionDelete
	case atLeast(scores.Explicit, nsfw) && greater(scores.Explicit-scores.Suggestive, nsfwSuggestiveGap):
		return model.DecisionDelete
	case atLeast(scores.Suggestive, suggestive+suggestiveMargin):
		return model.DecisionFlag
	default:
		return model.DecisionNone
	}
}

// atLeast and greater absorb float rounding so that, e.g., 0.85 counts as
// reaching 0.80 + 0.05.
func atLeast(v, bound float64) bool {
	return v >= bound-scoreTolerance
}

func greater(v, bound float64) bool {
	return v > bound+scoreTolerance
}
