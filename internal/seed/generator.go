// ABOUTME: Name generator for seed data.
// ABOUTME: Uses OpenAI for customer and technician names, falling back to the static set.

package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
)

// Generator supplies people for the seed job.
type Generator struct {
	client *openai.Client
	useAI  bool
	model  string
}

// PersonData is one generated customer or technician.
type PersonData struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
}

// People holds the generated names, in seed order.
type People struct {
	Customers   []PersonData `json:"customers"`
	Technicians []PersonData `json:"technicians"`
}

// NewGenerator creates a generator, loading the API key from .env if available.
func NewGenerator() *Generator {
	g := &Generator{}

	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		godotenv.Load(filepath.Join(home, ".env"))
	}

	g.model = os.Getenv("OPENAI_MODEL")
	if g.model == "" {
		g.model = "gpt-5-nano"
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		g.client = openai.NewClient(apiKey)
		g.useAI = true
		log.Printf("OpenAI API key found, generating names with model: %s", g.model)
	} else {
		log.Println("No OPENAI_API_KEY found, using static seed names")
	}
	return g
}

// NewStaticGenerator returns a generator that never calls OpenAI.
func NewStaticGenerator() *Generator {
	return &Generator{}
}

// People returns numCustomers customers and numTechnicians technicians.
// Any AI failure falls back to the static set.
func (g *Generator) People(ctx context.Context, numCustomers, numTechnicians int) People {
	static := People{
		Customers:   staticPeople(staticCustomers, numCustomers),
		Technicians: staticPeople(staticTechnicians, numTechnicians),
	}
	if !g.useAI {
		return static
	}

	log.Printf("Generating %d customers and %d technicians via AI...", numCustomers, numTechnicians)
	got, err := g.generatePeople(ctx, numCustomers, numTechnicians)
	if err != nil {
		log.Printf("  ✗ AI generation failed, using static names: %v", err)
		return static
	}
	return People{
		Customers:   fill(got.Customers, static.Customers),
		Technicians: fill(got.Technicians, static.Technicians),
	}
}

func (g *Generator) generatePeople(ctx context.Context, numCustomers, numTechnicians int) (People, error) {
	prompt := fmt.Sprintf(`Generate names for a cryptocurrency mining hardware repair shop.
Return a JSON object with two arrays:
- "customers": %d mining operations (hosting farms, small home miners, pools). Each has name (a contact person), company, phone.
- "technicians": %d repair technicians. Each has name and phone; company is empty.
Phone numbers should be US format (555-XXX-XXXX). Use diverse but realistic names.`, numCustomers, numTechnicians)

	return callOpenAI[People](ctx, g.client, g.model, prompt)
}

// fill keeps generated entries with a usable name and pads from fallback.
func fill(generated, fallback []PersonData) []PersonData {
	out := make([]PersonData, len(fallback))
	for i := range fallback {
		out[i] = fallback[i]
		if i < len(generated) && strings.TrimSpace(generated[i].Name) != "" {
			out[i] = generated[i]
		}
	}
	return out
}

func callOpenAI[T any](ctx context.Context, client *openai.Client, model, prompt string) (T, error) {
	var result T

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a data generator. Always respond with valid JSON only, no markdown or explanation.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return result, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return result, nil
}
