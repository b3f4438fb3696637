package classifier

import (
	"ahri-bot/model"
	"encoding/json"
	"fmt"
	"sort"
)

// explicitClasses are the nudity sub-scores whose maximum is the explicit score.
var explicitClasses = []string{"sexual_activity", "sexual_display", "erotica"}

// ParseSightengine extracts scores from a check.json response body.
//
// The response shape is loose, so decoding is tolerant:
//   - a score may be a number or an object of numbers (its maximum is used);
//   - "suggestive" is read at the top level first, then inside "nudity";
//   - "type" may be missing, a label string, or an object of label→confidence,
//     in which case the most confident label wins.
//
// Missing scores read as 0. Only a body that is not a JSON object, or one that
// reports "status": "failure", is an error.
func ParseSightengine(body []byte) (model.ScanScores, error) {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return model.ScanScores{}, fmt.Errorf("returned non-JSON: %w", err)
	}
	if data == nil {
		return model.ScanScores{}, fmt.Errorf("returned an empty body")
	}
	if status, _ := data["status"].(string); status == "failure" {
		return model.ScanScores{}, fmt.Errorf("reported failure: %s", failureMessage(data))
	}

	nudity, _ := data["nudity"].(map[string]any)

	var explicit float64
	for _, class := range explicitClasses {
		explicit = max(explicit, asFloat(nudity[class]))
	}

	suggestiveRaw, ok := data["suggestive"]
	if !ok {
		suggestiveRaw = nudity["suggestive"]
	}

	label := string(model.MediaPhoto)
	switch t := data["type"].(type) {
	case map[string]any:
		if len(t) > 0 {
			label = mostConfident(t)
		}
	case string:
		label = t
	}

	return model.ScanScores{
		Explicit:   explicit,
		Suggestive: asFloat(suggestiveRaw),
		Kind:       model.MediaKindFromLabel(label),
		Label:      label,
	}, nil
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case map[string]any:
		var best float64
		found := false
		for _, x := range n {
			if f, ok := x.(float64); ok && (!found || f > best) {
				best, found = f, true
			}
		}
		return best
	default:
		return 0
	}
}

// mostConfident returns the key with the highest numeric value. Ties go to the
// lexically smallest key so the result does not depend on map order.
func mostConfident(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	bestScore := asNumber(m[best])
	for _, k := range keys[1:] {
		if s := asNumber(m[k]); s > bestScore {
			best, bestScore = k, s
		}
	}
	return best
}

func asNumber(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

func failureMessage(data map[string]any) string {
	if e, ok := data["error"].(map[string]any); ok {
		if msg, ok := e["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return "unknown error"
}
