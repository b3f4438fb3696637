package classifier

import (
	"ahri-bot/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSightengine(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		explicit   float64
		suggestive float64
		kind       model.MediaKind
		label      string
	}{
		{
			name:     "explicit is max of sub-categories",
			body:     `{"status":"success","nudity":{"sexual_activity":0.1,"sexual_display":0.7,"erotica":0.3,"suggestive":0.2}}`,
			explicit: 0.7, suggestive: 0.2, kind: model.MediaPhoto, label: "photo",
		},
		{
			name:     "top-level suggestive wins over nested",
			body:     `{"nudity":{"erotica":0.4,"suggestive":0.2},"suggestive":0.9}`,
			explicit: 0.4, suggestive: 0.9, kind: model.MediaPhoto, label: "photo",
		},
		{
			name:     "nested score objects use their maximum",
			body:     `{"nudity":{"sexual_display":{"a":0.2,"b":0.6},"suggestive":{"bikini":0.3,"cleavage":0.8}}}`,
			explicit: 0.6, suggestive: 0.8, kind: model.MediaPhoto, label: "photo",
		},
		{
			name: "type as string",
			body: `{"nudity":{},"type":"anime"}`,
			kind: model.MediaIllustration, label: "anime",
		},
		{
			name:     "type as mapping picks most confident",
			body:     `{"nudity":{"erotica":0.5},"type":{"photo":0.1,"illustration":0.85,"ai_generated":"n/a"}}`,
			explicit: 0.5, kind: model.MediaIllustration, label: "illustration",
		},
		{
			name: "unknown label falls back to photo thresholds",
			body: `{"type":{"painting":0.99}}`,
			kind: model.MediaPhoto, label: "painting",
		},
		{
			name: "missing everything",
			body: `{}`,
			kind: model.MediaPhoto, label: "photo",
		},
		{
			name: "wrong types read as zero",
			body: `{"nudity":{"erotica":"high","sexual_activity":true},"suggestive":null,"type":42}`,
			kind: model.MediaPhoto, label: "photo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSightengine([]byte(tt.body))
			require.NoError(t, err)
			assert.InDelta(t, tt.explicit, got.Explicit, 1e-9)
			assert.InDelta(t, tt.suggestive, got.Suggestive, 1e-9)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestParseSightengineErrors(t *testing.T) {
	for _, body := range []string{
		`<html>oops</html>`,
		`null`,
		`[1,2,3]`,
		`{"status":"failure","error":{"type":"usage_limit","message":"Daily usage limit reached"}}`,
	} {
		_, err := ParseSightengine([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestMostConfidentTieIsDeterministic(t *testing.T) {
	m := map[string]any{"photo": 0.5, "illustration": 0.5}
	for i := 0; i < 20; i++ {
		assert.Equal(t, "illustration", mostConfident(m))
	}
}
