package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	maxErrorBodyLength      = 512
)

// AnthropicGenerator Anthropic Messages 接口适配器
type AnthropicGenerator struct {
	client  *fasthttp.Client
	apiKey  string
	url     string
	timeout time.Duration
}

// NewAnthropicGenerator 创建 Anthropic 适配器
//
// baseURL 为空时使用官方地址
func NewAnthropicGenerator(apiKey, baseURL string, timeout time.Duration) *AnthropicGenerator {
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	return &AnthropicGenerator{
		client: &fasthttp.Client{
			Name:                "tribeai",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		apiKey:  apiKey,
		url:     strings.TrimRight(baseURL, "/") + "/v1/messages",
		timeout: timeout,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Role       string             `json:"role"`
	Model      string             `json:"model"`
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
	Usage      *anthropicUsage    `json:"usage"`
}

type anthropicErrorEnvelope struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError 供应商返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("status %d: %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// Generate 调用 Messages 接口
func (g *AnthropicGenerator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Message},
		},
	})
	if err != nil {
		return GenerationResult{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(g.url)
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.Header.Set("x-api-key", g.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.SetBodyRaw(body)

	if err := g.do(ctx, httpReq, httpResp); err != nil {
		return GenerationResult{}, err
	}

	respBody := httpResp.Body()
	if status := httpResp.StatusCode(); status < 200 || status >= 300 {
		return GenerationResult{}, parseAnthropicError(status, respBody)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return GenerationResult{}, fmt.Errorf("decode response: %w", err)
	}

	return normalizeAnthropic(resp)
}

// do 发送请求，截止时间取上下文截止时间和配置超时中较早者
//
// fasthttp 不支持在请求进行中取消，上下文只在发送前检查
func (g *AnthropicGenerator) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(g.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := g.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	return nil
}

// parseAnthropicError 解析 {"type":"error","error":{...}} 格式的错误
func parseAnthropicError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}

	var envelope anthropicErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
		return apiErr
	}

	apiErr.Message = truncateUTF8(strings.TrimSpace(string(body)), maxErrorBodyLength)
	return apiErr
}

// truncateUTF8 截断到不超过 n 字节，不拆分多字节字符
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// normalizeAnthropic 取第一个内容块的文本，Token 数为输入与输出之和
func normalizeAnthropic(resp anthropicResponse) (GenerationResult, error) {
	if len(resp.Content) == 0 {
		return GenerationResult{}, ErrEmptyReply
	}
	if resp.Usage == nil {
		return GenerationResult{}, ErrMissingUsage
	}
	return GenerationResult{
		Text:       resp.Content[0].Text,
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}
