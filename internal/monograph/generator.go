package monograph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/satishskid/greylearn/internal/genai"
)

var (
	// Configuration errors: detected before any model call.
	ErrMissingTopic = errors.New("topic is required")
	ErrMissingKey   = errors.New("api key not provided")

	// ErrGenerationFailed is terminal: primary and fallback both failed, or
	// the response was not parsable JSON. The underlying cause is logged,
	// never surfaced.
	ErrGenerationFailed = errors.New("failed to generate monograph")
)

// Generator asks a model for a schema-constrained monograph, falling back to
// a secondary model once when the primary fails.
type Generator struct {
	client        genai.Client
	primaryModel  string
	fallbackModel string
}

func NewGenerator(client genai.Client, primary, fallback string) *Generator {
	return &Generator{client: client, primaryModel: primary, fallbackModel: fallback}
}

func buildPrompt(topic string) string {
	return fmt.Sprintf(`
You are a distinguished academic researcher and writer.
Your goal is to produce a "Deep Research Monograph" on the provided topic.

**Topic**: %s

**Requirements**:
1.  **Exhaustive Depth**: Do not produce surface-level content. Dive deep into mechanics, history, controversy, and advanced applications.
2.  **Structure**: Create a logical flow with multiple detailed sections.
3.  **Educational Value**: Define key concepts clearly.
4.  **Interactive Quiz**: Generate 5 challenging questions to test understanding.

**Thinking Process**:
- Use your "Thinking Mode" to plan the monograph structure before generating.
- critically evaluate sources (simulated) and ensure accuracy.

Box content in a verified JSON structure matching the schema.
`, topic)
}

// Generate runs one monograph generation. Every call goes to the model; there
// is no caching or dedup of topics.
func (g *Generator) Generate(ctx context.Context, topic, apiKey string) (Monograph, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Monograph{}, ErrMissingTopic
	}
	if apiKey == "" {
		return Monograph{}, ErrMissingKey
	}

	schema := monographSchema()
	prompt := buildPrompt(topic)

	text, err := g.client.GenerateContent(ctx, genai.Request{
		Model:            g.primaryModel,
		Messages:         genai.UserMessage(prompt),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		Thinking:         genai.ThinkingHigh,
		APIKey:           apiKey,
	})
	if err != nil {
		log.Printf("monograph: %s failed, falling back to %s: %v", g.primaryModel, g.fallbackModel, err)
		text, err = g.client.GenerateContent(ctx, genai.Request{
			Model:            g.fallbackModel,
			Messages:         genai.UserMessage(prompt),
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
			APIKey:           apiKey,
		})
		if err != nil {
			log.Printf("monograph: fallback %s failed: %v", g.fallbackModel, err)
			return Monograph{}, ErrGenerationFailed
		}
	}

	if text == "" {
		log.Printf("monograph: empty response for topic %q", topic)
		return Monograph{}, ErrGenerationFailed
	}

	// Permissive parse: required fields are requested via the schema, not
	// re-validated here; missing fields decode to zero values and render empty.
	var m Monograph
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		log.Printf("monograph: unparsable response for topic %q: %v", topic, err)
		return Monograph{}, ErrGenerationFailed
	}
	return m, nil
}
