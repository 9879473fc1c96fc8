package claude

import (
	"context"
	"fmt"
	"io"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/homestash/internal/vision"
)

type Analyzer struct {
	client *anthropic.Client
	model  string
}

func NewAnalyzer(apiKey, model string, opts ...anthropic.ClientOption) *Analyzer {
	return &Analyzer{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, r io.Reader, mimeType string) (*vision.Result, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(a.model),
		// Well above the expected response for a crowded shelf photo
		// (≈30 items × ~15 tokens each), with headroom for verbose models.
		MaxTokens: 1024,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
						anthropic.MessagesContentSourceTypeBase64,
						normaliseMIME(mimeType),
						imageData,
					)),
					anthropic.NewTextMessageContent(vision.SuggestPrompt),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	text := resp.GetFirstContentText()
	return &vision.Result{
		Items:       vision.ParseResponse(text),
		RawResponse: text,
	}, nil
}

// normaliseMIME maps upload MIME types to the values the Anthropic API
// accepts (jpeg, png, gif, webp). Unknown types are coerced to jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
