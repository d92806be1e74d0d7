package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/edgard/newsbot/internal/logger"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), Config{ModelName: "gemini-2.5-flash"}, logger.Discard())
	require.Error(t, err)
}

func TestGenerateText(t *testing.T) {
	t.Parallel()

	fm := &fakeModels{resp: textResponse("Top story: ", "markets rallied.\n")}
	c := newSDKClient(fm, Config{ModelName: "gemini-2.5-flash", Temperature: 1}, logger.Discard())

	got, err := c.GenerateText(context.Background(), "summarize")
	require.NoError(t, err)

	assert.Equal(t, "Top story: markets rallied.", got)
	assert.Equal(t, "gemini-2.5-flash", fm.model)
	require.Len(t, fm.contents, 1)
	assert.Equal(t, "summarize", fm.contents[0].Parts[0].Text)
}

func TestGenerateTextErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
	}{
		{name: "api error", err: errors.New("429 quota exceeded")},
		{name: "nil response"},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason:        genai.BlockedReasonSafety,
					BlockReasonMessage: "unsafe",
				},
			},
		},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{
			name: "max tokens without content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
			},
		},
		{name: "blank text", resp: textResponse("  \n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newSDKClient(&fakeModels{resp: tt.resp, err: tt.err}, Config{ModelName: "m"}, logger.Discard())
			got, err := c.GenerateText(context.Background(), "p")
			require.Error(t, err)
			assert.Empty(t, got)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
