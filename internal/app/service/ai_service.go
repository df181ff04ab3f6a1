package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reviewboost/reviewboost-backend/config"
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
)

// GeneratedTemplate is one review suggestion produced by the provider
type GeneratedTemplate struct {
	Content   string                  `json:"content"`
	Sentiment model.TemplateSentiment `json:"sentiment"`
	Category  string                  `json:"category"`
}

// AIService generates customer review templates for a business profile.
// When the provider is unconfigured or fails, callers fall back to the
// deterministic template set.
type AIService interface {
	GenerateTemplates(ctx context.Context, business *model.Business, count int) ([]GeneratedTemplate, error)
	FallbackTemplates(business *model.Business, count int) []GeneratedTemplate
}

type aiService struct {
	config     *config.OpenAIConfig
	httpClient *http.Client
}

func NewAIService(cfg *config.OpenAIConfig) AIService {
	return &aiService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (s *aiService) GenerateTemplates(ctx context.Context, business *model.Business, count int) ([]GeneratedTemplate, error) {
	if s.config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not configured")
	}

	content, err := s.callOpenAI(ctx, s.buildPrompt(business, count))
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	templates, err := parseTemplateJSON(content)
	if err != nil {
		logger.Warn("AI response was not parseable", map[string]interface{}{
			"business_id": business.ID,
			"error":       err.Error(),
		})
		return nil, err
	}
	if len(templates) > count {
		templates = templates[:count]
	}
	return templates, nil
}

func (s *aiService) buildPrompt(business *model.Business, count int) string {
	var prompt strings.Builder

	prompt.WriteString(
		"You write short, natural-sounding customer reviews that real people could post on Google.\n" +
			"The reviews must read like genuine first-person experiences, not marketing copy.\n\n" +
			"- Vary length between one and three sentences.\n" +
			"- Vary tone: some enthusiastic, some matter-of-fact.\n" +
			"- Never mention that the text was generated or suggested.\n" +
			"- No emojis, no hashtags.\n\n")

	fmt.Fprintf(&prompt, "Business name: %s\n", business.Name)
	if business.Category != "" {
		fmt.Fprintf(&prompt, "Business type: %s\n", business.Category)
	}
	fmt.Fprintf(&prompt,
		"\nWrite %d reviews. Respond with a JSON array only, each element "+
			"{\"content\": string, \"sentiment\": \"positive\"|\"neutral\", \"category\": string}.\n",
		count)

	return prompt.String()
}

func (s *aiService) callOpenAI(ctx context.Context, prompt string) (string, error) {
	reqBody := openAIRequest{
		Model: s.config.Model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.BaseURL+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var aiResp openAIResponse
	if err := json.Unmarshal(body, &aiResp); err != nil {
		return "", fmt.Errorf("unexpected response: %s", string(body))
	}
	if aiResp.Error != nil {
		return "", fmt.Errorf("OpenAI error: %s", aiResp.Error.Message)
	}
	if len(aiResp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	return aiResp.Choices[0].Message.Content, nil
}

func parseTemplateJSON(content string) ([]GeneratedTemplate, error) {
	// models sometimes wrap the array in a markdown fence
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var templates []GeneratedTemplate
	if err := json.Unmarshal([]byte(content), &templates); err != nil {
		return nil, err
	}

	out := templates[:0]
	for _, tpl := range templates {
		if strings.TrimSpace(tpl.Content) == "" {
			continue
		}
		if tpl.Sentiment != model.SentimentNeutral {
			tpl.Sentiment = model.SentimentPositive
		}
		out = append(out, tpl)
	}
	return out, nil
}

// fallbackPatterns are filled in with the business name; used when the AI
// provider is unavailable so the product keeps working without a key
var fallbackPatterns = []GeneratedTemplate{
	{Content: "Had a great experience at %s. The staff were friendly and everything went smoothly. Highly recommend.", Sentiment: model.SentimentPositive, Category: "service"},
	{Content: "%s exceeded my expectations. Will definitely be coming back.", Sentiment: model.SentimentPositive, Category: "general"},
	{Content: "Visited %s last week. Quick, professional and fairly priced.", Sentiment: model.SentimentPositive, Category: "value"},
	{Content: "Solid experience at %s. Nothing fancy but they do the job well.", Sentiment: model.SentimentNeutral, Category: "general"},
	{Content: "The team at %s really knows what they're doing. Five stars from me.", Sentiment: model.SentimentPositive, Category: "expertise"},
	{Content: "%s was easy to find and the service was prompt. Would use them again.", Sentiment: model.SentimentNeutral, Category: "service"},
}

func (s *aiService) FallbackTemplates(business *model.Business, count int) []GeneratedTemplate {
	if count <= 0 || count > len(fallbackPatterns) {
		count = len(fallbackPatterns)
	}

	templates := make([]GeneratedTemplate, 0, count)
	for _, pattern := range fallbackPatterns[:count] {
		templates = append(templates, GeneratedTemplate{
			Content:   fmt.Sprintf(pattern.Content, business.Name),
			Sentiment: pattern.Sentiment,
			Category:  pattern.Category,
		})
	}
	return templates
}
