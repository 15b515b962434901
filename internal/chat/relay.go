// Package chat implements the stateless relay between the public page and
// the hosted generative-AI model.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/hyperjump/showroom/internal/brochure"
	"github.com/hyperjump/showroom/internal/models"
)

// ErrMissingMessage is returned when the request carries no question text.
// The caller maps it to a client error before any external call is made.
var ErrMissingMessage = errors.New("message is required")

// Placeholder text substituted when the caller omits context fields.
const (
	noInstructions = "No specific instructions provided."
	noInventory    = "No inventory data available."
)

const brochureReferText = "Please also refer to the attached brochure for detailed product information."

// Generator produces text from an ordered list of prompt parts.
type Generator interface {
	Generate(ctx context.Context, parts []*genai.Part) (string, error)
}

// Fetcher downloads a brochure document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options are the reloadable relay settings.
type Options struct {
	// PromptTemplate holds the system prompt with {custom_instructions} and
	// {inventory_context} tokens.
	PromptTemplate string
	// BrochureMode is "inline" (raw PDF part) or "text" (extracted text part).
	BrochureMode string
}

// Relay assembles the prompt and forwards it to the model. It holds no state
// between requests beyond its configuration.
type Relay struct {
	gen     Generator
	fetcher Fetcher
	logger  *zap.Logger

	mu   sync.RWMutex
	opts Options
}

// NewRelay creates a relay with the given generator and brochure fetcher.
func NewRelay(gen Generator, fetcher Fetcher, opts Options, logger *zap.Logger) *Relay {
	return &Relay{gen: gen, fetcher: fetcher, opts: opts, logger: logger}
}

// SetOptions swaps the relay settings; used by config hot-reload.
func (r *Relay) SetOptions(opts Options) {
	r.mu.Lock()
	r.opts = opts
	r.mu.Unlock()
}

func (r *Relay) options() Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opts
}

// Ask validates the request, builds the prompt, and returns the generated
// answer. A brochure that fails to fetch or parse is dropped without failing
// the request.
func (r *Relay) Ask(ctx context.Context, req *models.ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrMissingMessage
	}
	parts := r.buildParts(ctx, req)
	return r.gen.Generate(ctx, parts)
}

// buildParts assembles the ordered prompt parts: system prompt, user
// question, then the optional brochure attachment with its reference note.
func (r *Relay) buildParts(ctx context.Context, req *models.ChatRequest) []*genai.Part {
	opts := r.options()

	parts := []*genai.Part{
		genai.NewPartFromText(SystemPrompt(opts.PromptTemplate, req.CustomInstructions, req.InventoryContext)),
		genai.NewPartFromText("User Question: " + req.Message),
	}

	if req.BrochureURL == "" {
		return parts
	}
	data, err := r.fetcher.Fetch(ctx, req.BrochureURL)
	if err != nil {
		r.logger.Warn("brochure fetch failed, continuing without attachment",
			zap.String("url", req.BrochureURL), zap.Error(err))
		return parts
	}

	switch opts.BrochureMode {
	case "text":
		text, err := brochure.ExtractText(data)
		if err != nil {
			r.logger.Warn("brochure text extraction failed, continuing without attachment",
				zap.String("url", req.BrochureURL), zap.Error(err))
			return parts
		}
		parts = append(parts, genai.NewPartFromText("BROCHURE CONTENT:\n"+text))
	default:
		parts = append(parts, genai.NewPartFromBytes(data, "application/pdf"))
	}
	return append(parts, genai.NewPartFromText(brochureReferText))
}

// SystemPrompt renders the template with the operator knowledge and inventory
// context embedded verbatim. Empty fields fall back to placeholder sentences.
func SystemPrompt(template, customInstructions, inventoryContext string) string {
	if customInstructions == "" {
		customInstructions = noInstructions
	}
	if inventoryContext == "" {
		inventoryContext = noInventory
	}
	return strings.NewReplacer(
		"{custom_instructions}", customInstructions,
		"{inventory_context}", inventoryContext,
	).Replace(template)
}
