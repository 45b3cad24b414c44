package openaiimpl

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
	"github.com/orgball2608/insta-scraper-api/internal/domain"
	"github.com/orgball2608/insta-scraper-api/internal/extractor"
	"github.com/orgball2608/insta-scraper-api/pkg/config"
	"github.com/orgball2608/insta-scraper-api/pkg/formatter"
	"github.com/orgball2608/insta-scraper-api/pkg/logger"
	"go.uber.org/fx"
)

const extractFunctionName = "extract_instagram_data"

const systemPrompt = `You are an expert Instagram post analyzer.
Extract all relevant information from the scraped Instagram post content.

Instructions:
- Extract the post caption, removing any extra formatting
- Identify if it's a video, image, or carousel post
- Extract engagement metrics (likes, comments, views)
- Find owner information (username, full name)
- Extract hashtags and mentions from the caption, without the leading # or @
- Get media URLs if available
- Extract timestamp information
- Include location if mentioned
- Extract alt text for accessibility

Be thorough but only include information that is clearly present in the content.
Call the extract_instagram_data function with the extracted data.`

type Opts struct {
	fx.In
	Config *config.Config
	Logger logger.Logger
}

type Adapter struct {
	config   *config.Config
	logger   logger.Logger
	api      openai.Client
	classify extractor.Classifier
}

func New(opts Opts) extractor.Client {
	return &Adapter{
		config:   opts.Config,
		logger:   opts.Logger.WithComponent("Extractor"),
		api:      openai.NewClient(option.WithAPIKey(opts.Config.OpenAI.APIKey)),
		classify: extractor.DefaultClassifier,
	}
}

var _ extractor.Client = (*Adapter)(nil)

// Extract submits the content to the model with a fixed function schema and
// decodes the function-call arguments into a post record. Returns (nil, nil)
// when the model produced no structured output at all.
func (a *Adapter) Extract(ctx context.Context, content string, url string) (*domain.Post, error) {
	content = formatter.Truncate(content, a.config.OpenAI.MaxContentChars)

	userPrompt := fmt.Sprintf(
		"Please analyze this Instagram post content and extract the structured data:\n\nURL: %s\n\nContent:\n%s",
		url, content,
	)

	req := openai.ChatCompletionNewParams{
		Model: a.config.OpenAI.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Tools:       []openai.ChatCompletionToolUnionParam{extractTool()},
		Temperature: openai.Float(a.config.OpenAI.Temperature),
	}

	resp, err := a.api.Chat.Completions.New(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, a.classified(err.Error())
	}

	if len(resp.Choices) == 0 {
		return nil, nil
	}
	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		a.logger.Warn("Model returned no function call", "url", url)
		return nil, nil
	}

	var post domain.Post
	if err := json.Unmarshal([]byte(msg.ToolCalls[0].Function.Arguments), &post); err != nil {
		return nil, a.classified(fmt.Sprintf("could not unmarshal function arguments: %v", err))
	}

	a.logger.Info("Extracted structured post data", "url", url, "type", post.Type)
	return &post, nil
}

func extractTool() openai.ChatCompletionToolUnionParam {
	function := openai.FunctionDefinitionParam{
		Name:        extractFunctionName,
		Description: openai.String("Extract structured data from Instagram post"),
		Parameters:  postSchema(),
	}
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: function,
			Type:     constant.ValueOf[constant.Function](),
		},
	}
}

func (a *Adapter) classified(message string) *extractor.Error {
	return &extractor.Error{
		Kind:    a.classify(message),
		Message: message,
	}
}
