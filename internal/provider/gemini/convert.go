package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Cyclone1070/fschat/internal/provider"
	"google.golang.org/genai"
)

// toGeminiContents converts conversation history to Gemini Content format.
func toGeminiContents(history []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))

	for _, msg := range history {
		if msg.Content == "" {
			continue
		}

		role := "user"
		if msg.Role == provider.RoleAssistant {
			role = "model"
		}

		contents = append(contents, &genai.Content{
			Role: role,
			Parts: []*genai.Part{
				genai.NewPartFromText(msg.Content),
			},
		})
	}

	return contents
}

// toGeminiConfig converts Options to a Gemini generation config.
func toGeminiConfig(opts Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if opts.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(opts.SystemPrompt)},
		}
	}

	temperature := opts.Temperature
	config.Temperature = &temperature

	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = opts.MaxOutputTokens
	}

	return config
}

// textFromResponse extracts the reply text from the first candidate.
func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", &provider.ProviderError{
				Code:    provider.ErrorCodeContentBlocked,
				Message: provider.ErrContentBlocked.Error(),
			}
		}
		return "", &provider.ProviderError{
			Code:    provider.ErrorCodeEmptyResponse,
			Message: "no candidates in response",
		}
	}

	candidate := resp.Candidates[0]

	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", &provider.ProviderError{
			Code:      provider.ErrorCodeContentBlocked,
			Message:   provider.ErrContentBlocked.Error(),
			Retryable: false,
		}
	}

	var text strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				text.WriteString(part.Text)
			}
		}
	}

	if text.Len() == 0 {
		return "", &provider.ProviderError{
			Code:      provider.ErrorCodeEmptyResponse,
			Message:   provider.ErrEmptyResponse.Error(),
			Retryable: true,
		}
	}

	return text.String(), nil
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &provider.ProviderError{
			Code:       provider.ErrorCodeTimeout,
			Message:    provider.ErrTimeout.Error(),
			Underlying: err,
			Retryable:  true,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    "request cancelled",
			Underlying: err,
			Retryable:  false,
		}
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		// Generic network error
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    provider.ErrNetwork.Error(),
			Underlying: err,
			Retryable:  true,
		}
	}

	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeAuth,
			Message:    provider.ErrAuthentication.Error(),
			Underlying: err,
			Retryable:  false,
		}
	case http.StatusTooManyRequests:
		if strings.Contains(strings.ToLower(apiErr.Message), "quota") {
			return &provider.ProviderError{
				Code:       provider.ErrorCodeQuota,
				Message:    provider.ErrQuotaExceeded.Error(),
				Underlying: err,
				Retryable:  true,
			}
		}
		return &provider.ProviderError{
			Code:       provider.ErrorCodeRateLimit,
			Message:    provider.ErrRateLimit.Error(),
			Underlying: err,
			Retryable:  true,
		}
	case http.StatusBadRequest, http.StatusNotFound:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    fmt.Sprintf("invalid request: %s", apiErr.Message),
			Underlying: err,
			Retryable:  false,
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeUnavailable,
			Message:    provider.ErrServiceUnavailable.Error(),
			Underlying: err,
			Retryable:  true,
		}
	default:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    fmt.Sprintf("API error: %s", apiErr.Message),
			Underlying: err,
			Retryable:  true,
		}
	}
}

// asAPIError finds a genai.APIError in err's chain, whether it was returned
// by value or by pointer.
func asAPIError(err error) (genai.APIError, bool) {
	var byValue genai.APIError
	if errors.As(err, &byValue) {
		return byValue, true
	}
	var byPointer *genai.APIError
	if errors.As(err, &byPointer) && byPointer != nil {
		return *byPointer, true
	}
	return genai.APIError{}, false
}
