package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai client init failed: %w", err)
	}
	return &gemini{client: client, model: model}, nil
}

// a model handle is cheap; building one per call keeps SystemInstruction from leaking between requests.
func (g *gemini) generativeModel(system string) *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(0.3)
	if system == "" {
		system = DefaultSystem
	}
	m.SystemInstruction = genai.NewUserContent(genai.Text(system))
	return m
}

func (g *gemini) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.generativeModel(system).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return firstText(resp)
}

func (g *gemini) AnalyzeImage(ctx context.Context, prompt string, img Image) (string, error) {
	resp, err := g.generativeModel("").GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content with image: %w", err)
	}
	return firstText(resp)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no content returned from AI")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("response part is not text, received %T", resp.Candidates[0].Content.Parts[0])
	}
	return strings.TrimSpace(sb.String()), nil
}
