// Package insight builds the day-bounded numeric payload and relays it to
// the Anthropic API for a narrative summary. Responses are cached locally
// keyed by payload hash, so re-running over unchanged data costs nothing.
package insight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
)

const maxResponseTokens = 4096

// Relay holds the client and cache location for insight requests.
type Relay struct {
	client   *anthropic.Client
	model    string
	cacheDir string
}

// NewRelay creates a relay against the Anthropic API. It fails fast when no
// API key is configured so the caller can suggest --no-llm.
func NewRelay(model string) (*Relay, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set (use --no-llm to print the payload without calling the API)")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Relay{
		client:   &client,
		model:    model,
		cacheDir: contract.GetInsightCacheDir(),
	}, nil
}

// BuildPayload reshapes the most recent n days of the series into the fixed
// numeric schema handed to the LLM. Detail payloads (sleep sessions, activity
// maps) are never included.
func BuildPayload(series *schema.DailySeries, n int) []schema.InsightDay {
	days := series.Days
	if n > 0 && len(days) > n {
		days = days[len(days)-n:]
	}

	payload := make([]schema.InsightDay, 0, len(days))
	for i := range days {
		payload = append(payload, schema.NewInsightDay(&days[i]))
	}
	return payload
}

// systemPrompt frames the model's role. The payload is strictly numeric, so
// the prompt carries the units and semantics the numbers alone cannot.
func systemPrompt() string {
	return `You are a health data analyst reviewing one person's daily metrics.

Each entry is one calendar day. Fields: sleep_hours, sleep_quality (0-100),
calories, carbs_g, protein_g, fat_g, sugar_g (grams), steps, workout_minutes,
workout_calories, workout_load (minutes weighted by intensity), rhr_bpm
(resting heart rate), weight_kg, bp_systolic, bp_diastolic. A null field
means no data was recorded that day; never treat null as zero.

Summarize notable patterns, trends, and outliers in plain language. Be
specific about which days and metrics drive each observation. Do not give
medical advice; suggest consulting a professional for anything concerning.`
}

// Summarize relays the payload to the API, consulting the local cache first.
func (r *Relay) Summarize(ctx context.Context, payload []schema.InsightDay) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode insight payload: %w", err)
	}

	key := cacheKey(r.model, data)
	if cached, ok := r.readCache(key); ok {
		return cached, nil
	}

	message := systemPrompt() + "\n\n---\n\nDaily metrics:\n" + string(data)

	response, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: maxResponseTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("API call failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("API returned no text content")
	}

	r.writeCache(key, text)
	return text, nil
}

// cacheKey hashes the model name and the exact payload bytes; any change to
// either produces a fresh API call.
func cacheKey(model string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func (r *Relay) cachePath(key string) string {
	return fmt.Sprintf("%s/%s.txt", r.cacheDir, key)
}

// readCache returns a previously stored response for this key, if any.
func (r *Relay) readCache(key string) (string, bool) {
	data, err := os.ReadFile(r.cachePath(key))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// writeCache stores the response. Cache failures are warnings; the caller
// already has the response in hand.
func (r *Relay) writeCache(key, text string) {
	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		contract.LogWarn("Failed to create insight cache directory", err)
		return
	}
	if err := os.WriteFile(r.cachePath(key), []byte(text), 0o600); err != nil {
		contract.LogWarn("Failed to write insight cache", err)
	}
}
