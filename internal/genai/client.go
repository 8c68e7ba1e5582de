// Package genai is the client for the generative-AI collaborator (Gemini
// REST API). It produces mission content and daily quotes, and verifies
// user-submitted media. Every call is best-effort from the caller's point of
// view: failures come back as errors the caller may downgrade to a warning.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"misimuslim/pkg/logger"
	"misimuslim/pkg/models"
)

// Config for the Gemini client
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to the Gemini generateContent endpoint
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Gemini client. Outbound calls are throttled to stay
// inside the provider's free-tier quota.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 4),
	}
}

// Wire types for the generateContent endpoint

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate performs one generateContent round-trip and returns the first
// candidate's text.
func (c *Client) generate(ctx context.Context, operation string, req generateRequest) (string, error) {
	start := time.Now()
	text, err := c.doGenerate(ctx, req)
	logger.GenAI(operation, int(time.Since(start).Milliseconds()), err)
	return text, err
}

func (c *Client) doGenerate(ctx context.Context, reqBody generateRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("genai error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("genai returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// stripFences removes markdown code fences the model sometimes wraps JSON in
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// GenerateMissions asks the model for count missions in the given category.
// Returned ids are disjoint from req.ExistingMissionIDs; auto missions are
// never generated.
func (c *Client) GenerateMissions(ctx context.Context, req models.GenerateMissionsRequest) ([]models.Mission, error) {
	prompt := fmt.Sprintf(`Buat %d misi Islami kategori %q untuk pengguna level %d dalam format JSON.
Setiap misi: {"id","title","description","xp","coins","type","bonus_xp"}.
"type" harus "photo" atau "action"; "bonus_xp" hanya untuk "photo", selain itu 0.
XP antara 30 dan 120, koin antara 10 dan 50, lebih tinggi untuk kategori mingguan/bulanan.
"id" harus unik dan TIDAK boleh salah satu dari: %s.
Jawab hanya dengan array JSON.`,
		req.Count, req.Category, req.Level, strings.Join(req.ExistingMissionIDs, ", "))

	text, err := c.generate(ctx, "generate_missions", generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, err
	}

	var missions []models.Mission
	if err := json.Unmarshal([]byte(stripFences(text)), &missions); err != nil {
		return nil, fmt.Errorf("failed to parse generated missions: %w", err)
	}

	existing := make(map[string]bool, len(req.ExistingMissionIDs))
	for _, id := range req.ExistingMissionIDs {
		existing[id] = true
	}

	valid := make([]models.Mission, 0, len(missions))
	for _, m := range missions {
		m.Category = req.Category
		if m.Type == models.MissionTypeAuto {
			continue // hand-authored only
		}
		if m.Type != models.MissionTypePhoto {
			m.BonusXP = 0
		}
		if existing[m.ID] || m.Validate() != nil {
			continue
		}
		existing[m.ID] = true
		valid = append(valid, m)
		if len(valid) == req.Count {
			break
		}
	}
	return valid, nil
}

// DailyQuote generates one motivational quote with its source reference
func (c *Client) DailyQuote(ctx context.Context) (*models.Quote, error) {
	prompt := `Berikan satu kutipan singkat yang memotivasi dari Al-Quran atau hadits shahih,
dalam format JSON {"text","source"}. Jawab hanya dengan objek JSON.`

	text, err := c.generate(ctx, "daily_quote", generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, err
	}

	var quote models.Quote
	if err := json.Unmarshal([]byte(stripFences(text)), &quote); err != nil {
		return nil, fmt.Errorf("failed to parse quote: %w", err)
	}
	if quote.Text == "" {
		return nil, fmt.Errorf("genai returned an empty quote")
	}
	return &quote, nil
}

// VerifyPhoto checks whether a submitted photo matches the mission
func (c *Client) VerifyPhoto(ctx context.Context, photo []byte, mimeType, missionDescription string) (*models.PhotoVerification, error) {
	prompt := fmt.Sprintf(`Apakah foto ini relevan dengan misi berikut: %q?
Jawab hanya dengan JSON {"is_relevant": bool, "reason": string}.`, missionDescription)

	text, err := c.generate(ctx, "verify_photo", generateRequest{
		Contents: []content{{Parts: []part{
			{Text: prompt},
			{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(photo)}},
		}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, err
	}

	var verification models.PhotoVerification
	if err := json.Unmarshal([]byte(stripFences(text)), &verification); err != nil {
		return nil, fmt.Errorf("failed to parse verification: %w", err)
	}
	return &verification, nil
}

// ReviewRecitation returns feedback text for an audio recitation recording
func (c *Client) ReviewRecitation(ctx context.Context, audio []byte, mimeType string) (string, error) {
	prompt := `Dengarkan rekaman tilawah ini dan berikan umpan balik singkat yang membangun
tentang tajwid dan kelancaran bacaan, dalam bahasa Indonesia.`

	text, err := c.generate(ctx, "review_recitation", generateRequest{
		Contents: []content{{Parts: []part{
			{Text: prompt},
			{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(audio)}},
		}}},
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("genai returned empty feedback")
	}
	return text, nil
}

// GenerateAvatar produces an avatar image for the given prompt. The model
// must support image output; the first inline image part is returned.
func (c *Client) GenerateAvatar(ctx context.Context, prompt string) ([]byte, string, error) {
	text := fmt.Sprintf("Buat avatar profil bergaya kartun islami yang sopan: %s", prompt)

	start := time.Now()
	img, mime, err := c.doGenerateImage(ctx, text)
	logger.GenAI("generate_avatar", int(time.Since(start).Milliseconds()), err)
	return img, mime, err
}

func (c *Client) doGenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit wait: %w", err)
	}

	reqBody := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("genai error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}
	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil {
				data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return nil, "", fmt.Errorf("failed to decode image data: %w", err)
				}
				return data, p.InlineData.MimeType, nil
			}
		}
	}
	return nil, "", fmt.Errorf("genai returned no image")
}
