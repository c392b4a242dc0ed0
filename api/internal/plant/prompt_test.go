package plant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	for _, images := range [][]string{{"AAAA"}, {"AAAA", "BBBB"}} {
		req := BuildRequest(images)
		require.Len(t, req.Contents, 1)
		parts := req.Contents[0].Parts
		require.Len(t, parts, len(images)+1)

		assert.Equal(t, Prompt, parts[0].Text)
		assert.Nil(t, parts[0].InlineData)
		for i, img := range images {
			p := parts[i+1]
			assert.Empty(t, p.Text)
			require.NotNil(t, p.InlineData)
			assert.Equal(t, "image/jpeg", p.InlineData.MimeType)
			assert.Equal(t, img, p.InlineData.Data)
		}
	}
}

func TestBuildRequestWireFormat(t *testing.T) {
	b, err := json.Marshal(BuildRequest([]string{"QUJD"}))
	require.NoError(t, err)

	var wire struct {
		Contents []struct {
			Parts []map[string]any `json:"parts"`
		} `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(b, &wire))
	parts := wire.Contents[0].Parts
	assert.Equal(t, map[string]any{"text": Prompt}, parts[0])
	assert.Equal(t, map[string]any{
		"inline_data": map[string]any{"mime_type": "image/jpeg", "data": "QUJD"},
	}, parts[1])
}

func TestPromptMentionsSchema(t *testing.T) {
	for _, field := range []string{"name", "description", "uses", "health_benefits", "problems_solved", "category", "non_herbal"} {
		assert.Contains(t, Prompt, `"`+field+`"`)
	}
}
