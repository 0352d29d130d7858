package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"veriscan.ai/verify-api-gateway/app/domain/common"
	"veriscan.ai/verify-api-gateway/app/domain/verification"
	"veriscan.ai/verify-api-gateway/app/utils/httpclients/serper"
	"veriscan.ai/verify-api-gateway/app/utils/logger"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

const (
	searchResultCount = 5
	maxQueryLength    = 256
)

const systemPrompt = `You are a fact-checking assistant. Given a claim and ` +
	`web search context, respond with a JSON object: {"status": "TRUE"|"FALSE"|` +
	`"INDETERMINATE", "summary": string, "related_facts": [string], ` +
	`"confidence": "HIGH"|"MEDIUM"|"LOW"}. Base the verdict only on the claim ` +
	`and the provided context.`

// OpenAIClassifier runs the external verification pipeline: web-context
// enrichment through a search API, then a chat completion constrained to a
// JSON verdict.
type OpenAIClassifier struct {
	client *openai.Client
	search *serper.Client
	model  string
}

func NewOpenAIClassifier(searchClient *serper.Client) *OpenAIClassifier {
	cfg := openai.DefaultConfig(environment_variables.EnvironmentVariables.OPENAI_API_KEY)
	if base := environment_variables.EnvironmentVariables.OPENAI_BASE_URL; base != "" {
		cfg.BaseURL = base
	}
	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(cfg),
		search: searchClient,
		model:  environment_variables.EnvironmentVariables.OPENAI_MODEL,
	}
}

type verdict struct {
	Status       string   `json:"status"`
	Summary      string   `json:"summary"`
	RelatedFacts []string `json:"related_facts"`
	Confidence   string   `json:"confidence"`
}

func (c *OpenAIClassifier) Classify(ctx context.Context, content string) (*verification.VerificationResult, error) {
	results := c.enrich(ctx, content)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(content, results)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: chat completion: %v", common.ErrPipelineFailure, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: chat completion returned no choices", common.ErrPipelineFailure)
	}

	var v verdict
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &v); err != nil {
		return nil, fmt.Errorf("%w: malformed verdict: %v", common.ErrPipelineFailure, err)
	}

	result := &verification.VerificationResult{
		Status:       parseStatus(v.Status),
		Summary:      v.Summary,
		RelatedFacts: v.RelatedFacts,
		Confidence:   parseConfidence(v.Confidence),
	}
	if len(results) > 0 {
		if meta, err := json.Marshal(results); err == nil {
			result.SourceMeta = meta
		}
	}
	return result, nil
}

// enrich fetches web search context for the claim. Enrichment is best
// effort: a search failure degrades to classification without context.
func (c *OpenAIClassifier) enrich(ctx context.Context, content string) []serper.OrganicResult {
	query := strings.Join(strings.Fields(content), " ")
	if len(query) > maxQueryLength {
		query = query[:maxQueryLength]
	}
	resp, err := c.search.Search(ctx, query, searchResultCount)
	if err != nil {
		logger.GetLogger().Warnf("search enrichment failed, classifying without context: %v", err)
		return nil
	}
	return resp.Organic
}

func buildUserPrompt(content string, results []serper.OrganicResult) string {
	var b strings.Builder
	b.WriteString("Claim:\n")
	b.WriteString(content)
	if len(results) > 0 {
		b.WriteString("\n\nWeb context:\n")
		for _, r := range results {
			fmt.Fprintf(&b, "- %s (%s): %s\n", r.Title, r.Link, r.Snippet)
		}
	}
	return b.String()
}

func parseStatus(s string) verification.VerificationStatus {
	switch verification.VerificationStatus(strings.ToUpper(s)) {
	case verification.StatusTrue:
		return verification.StatusTrue
	case verification.StatusFalse:
		return verification.StatusFalse
	case verification.StatusIndeterminate:
		return verification.StatusIndeterminate
	default:
		return verification.StatusError
	}
}

func parseConfidence(s string) verification.Confidence {
	switch verification.Confidence(strings.ToUpper(s)) {
	case verification.ConfidenceHigh:
		return verification.ConfidenceHigh
	case verification.ConfidenceMedium:
		return verification.ConfidenceMedium
	case verification.ConfidenceLow:
		return verification.ConfidenceLow
	default:
		return ""
	}
}
