package build

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"fogsmith/internal/config"
)

// Gemini implements GenerativeService on the Gemini API.
type Gemini struct {
	client          *genai.Client
	model           string
	instructions    string
	schema          *genai.Schema
	temperature     float32
	topP            float32
	topK            float32
	maxOutputTokens int32
}

// The artifacts are raw game data; blocking categories on them starves the
// model of context, so every threshold is off.
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
}

// NewGemini creates the Gemini-backed service from validated configuration.
func NewGemini(ctx context.Context, cfg config.Gemini) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	var schema *genai.Schema
	if cfg.ResponseSchema != "" {
		schema = &genai.Schema{}
		if err := json.Unmarshal([]byte(cfg.ResponseSchema), schema); err != nil {
			return nil, fmt.Errorf("failed to parse response schema: %w", err)
		}
	}

	return &Gemini{
		client:          client,
		model:           cfg.Model,
		instructions:    cfg.Instructions,
		schema:          schema,
		temperature:     cfg.Temperature,
		topP:            cfg.TopP,
		topK:            cfg.TopK,
		maxOutputTokens: cfg.MaxOutputTokens,
	}, nil
}

// Upload ships a local artifact to the file store.
func (g *Gemini) Upload(ctx context.Context, path, mimeType, displayName string) (FileRef, error) {
	f, err := g.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: displayName,
	})
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to upload %s: %w", displayName, err)
	}
	return fileRef(f), nil
}

// FileState looks up an uploaded file's processing state.
func (g *Gemini) FileState(ctx context.Context, name string) (FileRef, error) {
	f, err := g.client.Files.Get(ctx, name, nil)
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to look up file %s: %w", name, err)
	}
	return fileRef(f), nil
}

// Converse opens a chat seeded with the uploaded artifacts as the first user
// turn and submits the prompt.
func (g *Gemini) Converse(ctx context.Context, files []FileRef, prompt string) (*Reply, error) {
	parts := make([]*genai.Part, 0, len(files))
	for _, f := range files {
		parts = append(parts, genai.NewPartFromURI(f.URI, f.MIMEType))
	}
	history := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	genCfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(g.temperature),
		TopP:              genai.Ptr(g.topP),
		TopK:              genai.Ptr(g.topK),
		MaxOutputTokens:   g.maxOutputTokens,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    g.schema,
		SystemInstruction: genai.NewContentFromText(g.instructions, genai.RoleModel),
		SafetySettings:    safetySettings,
	}

	chat, err := g.client.Chats.Create(ctx, g.model, genCfg, history)
	if err != nil {
		return nil, fmt.Errorf("failed to open exchange: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return nil, fmt.Errorf("exchange failed: %w", err)
	}

	reply := &Reply{Text: resp.Text()}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		reply.BlockReason = string(resp.PromptFeedback.BlockReason)
	}
	return reply, nil
}

func fileRef(f *genai.File) FileRef {
	ref := FileRef{
		Name:        f.Name,
		DisplayName: f.DisplayName,
		URI:         f.URI,
		MIMEType:    f.MIMEType,
	}
	switch f.State {
	case genai.FileStateActive:
		ref.State = StateActive
	case genai.FileStateFailed:
		ref.State = StateFailed
	case genai.FileStateProcessing:
		ref.State = StateProcessing
	default:
		ref.State = StateUploaded
	}
	return ref
}
