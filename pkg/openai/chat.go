package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"StokAsistan/pkg/nlp"

	jsoniter "github.com/json-iterator/go"
	"github.com/sashabaranov/go-openai"
	"github.com/xeipuuv/gojsonschema"
)

type IChatGPT interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	ClassifyIntent(ctx context.Context, text string) (*nlp.OracleIntent, error)
}

type chatGPTService struct {
	client *openai.Client
	model  string
}

func NewChatGPT() (IChatGPT, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}

	model := os.Getenv("OPENAI_CHAT_MODEL")
	if model == "" {
		model = openai.GPT4
	}

	return newChatGPT(openai.NewClient(apiKey), model), nil
}

func newChatGPT(client *openai.Client, model string) *chatGPTService {
	return &chatGPTService{
		client: client,
		model:  model,
	}
}

func (c *chatGPTService) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: 0.7,
			TopP:        0.95,
			MaxTokens:   1024,
		},
	)
	if err != nil {
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from ChatGPT")
	}

	return resp.Choices[0].Message.Content, nil
}

const intentPrompt = `Sen bir stok yönetim uygulaması için komut sınıflandırıcısın.
Kullanıcının cümlesini tek bir (domain, action) çiftine eşle.

SADECE geçerli JSON döndür, başka hiçbir şey yazma.

Biçim:
{"domain":"category","action":"create","target":"","confidence":0.9}

Domain ve action değerleri:
- navigation: goto (target = sayfa adı, örn. "ürünler")
- modal: open (target = pencere adı, örn. "ürün")
- category: create, update, delete, addSub
- product: create, update, delete, stock
- supplier: create, update, delete
- unit: create, update, delete
- stockMovement: in, out, count, transfer, create
- help: show
- conversation: chat

Emin değilsen confidence değerini düşük ver.`

var intentSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"domain", "action", "confidence"},
	"properties": map[string]interface{}{
		"domain":     map[string]interface{}{"type": "string", "minLength": 1},
		"action":     map[string]interface{}{"type": "string", "minLength": 1},
		"target":     map[string]interface{}{"type": "string"},
		"confidence": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
	},
}

// ClassifyIntent asks the model for a JSON intent and validates its shape
// before decoding. Whether the pair is supported is the classifier's call.
func (c *chatGPTService) ClassifyIntent(ctx context.Context, text string) (*nlp.OracleIntent, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: intentPrompt},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			Temperature: 0.2,
			MaxTokens:   100,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from ChatGPT")
	}

	content := resp.Choices[0].Message.Content
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(intentSchema),
		gojsonschema.NewStringLoader(content),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid intent: %s", strings.Join(msgs, "; "))
	}

	var intent nlp.OracleIntent
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(content, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse intent: %w", err)
	}

	return &intent, nil
}

func IsRateLimit(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}

	return false
}
