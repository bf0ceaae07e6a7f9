package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yoonly93/posikiCS/shared/models"
	"github.com/yoonly93/posikiCS/shared/utils"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	anthropicModel          = "claude-sonnet-4-20250514"
	messagesPath            = "/v1/messages"
	assistantMaxTokens      = 4096
	assistantHTTPTimeout    = 60 * time.Second
)

// ErrNoAPIKey is returned when the tenant has not configured an AI
// provider credential.
var ErrNoAPIKey = errors.New("AI API key is not configured; set it on the settings page")

// AssistantClient calls the Anthropic messages API for document translation
// and compliance review. The credential is per-tenant and passed per call.
type AssistantClient struct {
	baseURL string
	http    *http.Client
	breaker *utils.CircuitBreaker
}

// NewAssistantClient creates a client with default timeouts and a circuit
// breaker guarding the provider.
func NewAssistantClient() *AssistantClient {
	return &AssistantClient{
		baseURL: defaultAnthropicBaseURL,
		http: &http.Client{
			Timeout: assistantHTTPTimeout,
		},
		breaker: utils.NewCircuitBreaker(5, 30*time.Second),
	}
}

// NewAssistantClientWithBaseURL creates a client against a non-default
// endpoint.
func NewAssistantClientWithBaseURL(baseURL string) *AssistantClient {
	c := NewAssistantClient()
	c.baseURL = baseURL
	return c
}

type messagesRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []promptMessage `json:"messages"`
}

type promptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// complete sends one user prompt and returns the first text block.
func (ac *AssistantClient) complete(ctx context.Context, apiKey, prompt string) (string, error) {
	if apiKey == "" {
		return "", ErrNoAPIKey
	}

	payload := messagesRequest{
		Model:     anthropicModel,
		MaxTokens: assistantMaxTokens,
		Messages:  []promptMessage{{Role: "user", Content: prompt}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ac.baseURL+messagesPath, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	var out messagesResponse
	err = ac.breaker.Call(func() error {
		resp, err := ac.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var apiErr messagesResponse
			if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil &&
				apiErr.Error != nil && apiErr.Error.Message != "" {
				return fmt.Errorf("AI provider error: %s", apiErr.Error.Message)
			}
			return fmt.Errorf("AI provider returned status %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&out)
	})
	if err != nil {
		return "", err
	}

	for _, block := range out.Content {
		if block.Text != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("AI provider returned an empty response")
}

var docLangNamesKo = map[string]string{
	"en": "영어",
	"ja": "일본어",
	"ko": "한국어",
}

func docTypeLabelKo(docType string) string {
	if docType == models.DocTypePrivacy {
		return "개인정보처리방침"
	}
	return "이용약관"
}

// TranslateDocument translates a legal document into targetLang preserving
// markdown structure. Provider failures propagate with the provider message.
func (ac *AssistantClient) TranslateDocument(ctx context.Context, apiKey, content, targetLang, docType string) (string, error) {
	langName := docLangNamesKo[targetLang]
	if langName == "" {
		langName = targetLang
	}

	prompt := fmt.Sprintf(`이 %s을 %s로 번역해줘. 법적 문서의 형식과 구조를 유지하고, 해당 국가의 법적 관행에 맞게 자연스럽게 번역해줘. 마크다운 형식을 그대로 유지해줘. 번역 결과만 출력하고, 설명이나 부연은 붙이지 마.

---

%s`, docTypeLabelKo(docType), langName, content)

	return ac.complete(ctx, apiKey, prompt)
}

// ReviewDocument cross-checks a document against the app's declared feature
// list and reports mismatches.
func (ac *AssistantClient) ReviewDocument(ctx context.Context, apiKey, content string, features []string, docType string) (string, error) {
	prompt := fmt.Sprintf(`이 법적 문서(%s)와 앱 기능 목록을 비교해서 불일치하는 부분을 찾아줘.

앱에 등록된 기능: %s

예시:
- Firebase 사용하는데 데이터 수집 미언급
- Google 로그인 쓰는데 제3자 제공 미언급
- 위치 수집 기능이 있는데 위치정보 처리 미언급

문제점과 수정 제안을 한국어로 목록 형태로 출력해줘.

---

%s`, docTypeLabelKo(docType), strings.Join(features, ", "), content)

	return ac.complete(ctx, apiKey, prompt)
}
