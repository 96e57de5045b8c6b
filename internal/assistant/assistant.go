package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"tripease/config"
	"tripease/utils"
)

const (
	offlineMessage  = "Tính năng AI chưa được cấu hình. Vui lòng kiểm tra lại môi trường hệ thống."
	fallbackMessage = "Xin lỗi, tôi đang gặp khó khăn khi kết nối với máy chủ AI."

	systemInstruction = "Bạn là trợ lý TripEase. Trả lời ngắn gọn, tập trung vào giá xe và lộ trình tại Việt Nam."
)

// Assistant wraps the generative AI service used for chat replies and
// route analysis. A missing credential or upstream failure always
// degrades to a fixed message; the assistant never returns an error to
// the caller.
type Assistant struct {
	client  *genai.Client
	model   string
	breaker *utils.CircuitBreaker
}

func New(ctx context.Context, cfg *config.Config) *Assistant {
	a := &Assistant{
		model:   cfg.GeminiModel,
		breaker: utils.NewCircuitBreaker("gemini"),
	}

	if cfg.GeminiAPIKey == "" {
		slog.Warn("gemini api key not configured, assistant runs in offline mode")
		return a
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		slog.Error("failed to initialize gemini client", "error", err)
		return a
	}
	a.client = client
	return a
}

// Online reports whether a generative backend is configured.
func (a *Assistant) Online() bool {
	return a.client != nil
}

// Chat answers a free-form user message with marketplace context.
func (a *Assistant) Chat(ctx context.Context, message, contextInfo string) string {
	if !a.Online() {
		return offlineMessage
	}

	prompt := fmt.Sprintf("Context: %s\n\nUser: %s", contextInfo, message)
	reply, err := a.generate(ctx, prompt)
	if err != nil {
		slog.Error("assistant chat failed", "error", err)
		return fallbackMessage
	}
	return reply
}

// AnalyzeRoute estimates distance and duration between two places.
func (a *Assistant) AnalyzeRoute(ctx context.Context, origin, destination string) string {
	if !a.Online() {
		return offlineMessage
	}

	prompt := fmt.Sprintf(
		"Phân tích lộ trình từ %q đến %q. Tính quãng đường và thời gian dự kiến.",
		origin, destination,
	)
	reply, err := a.generate(ctx, prompt)
	if err != nil {
		slog.Error("route analysis failed", "origin", origin, "destination", destination, "error", err)
		return fallbackMessage
	}
	return reply
}

func (a *Assistant) generate(ctx context.Context, prompt string) (string, error) {
	return a.breaker.Execute(ctx, func(ctx context.Context) (string, error) {
		resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	})
}
