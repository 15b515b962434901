package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/hyperjump/showroom/internal/models"
)

type fakeGenerator struct {
	parts  []*genai.Part
	calls  int
	answer string
	err    error
}

func (g *fakeGenerator) Generate(ctx context.Context, parts []*genai.Part) (string, error) {
	g.calls++
	g.parts = parts
	return g.answer, g.err
}

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.data, f.err
}

func newTestRelay(gen Generator, fetcher Fetcher, opts Options) *Relay {
	if opts.PromptTemplate == "" {
		opts.PromptTemplate = "KB:\n{custom_instructions}\nINV:\n{inventory_context}"
	}
	return NewRelay(gen, fetcher, opts, zap.NewNop())
}

func TestAsk_missingMessage(t *testing.T) {
	gen := &fakeGenerator{}
	relay := newTestRelay(gen, &fakeFetcher{}, Options{})

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := relay.Ask(context.Background(), &models.ChatRequest{Message: msg})
		assert.ErrorIs(t, err, ErrMissingMessage)
	}
	// Validation fails before any model call.
	assert.Zero(t, gen.calls)
}

func TestAsk_basicPromptOrder(t *testing.T) {
	gen := &fakeGenerator{answer: "Hello!"}
	relay := newTestRelay(gen, &fakeFetcher{}, Options{})

	answer, err := relay.Ask(context.Background(), &models.ChatRequest{
		Message:            "What cars do you have?",
		CustomInstructions: "Open 9-5.",
		InventoryContext:   "- Ioniq 5: Electric, Price: $45,000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", answer)

	require.Len(t, gen.parts, 2)
	assert.Contains(t, gen.parts[0].Text, "Open 9-5.")
	assert.Contains(t, gen.parts[0].Text, "- Ioniq 5: Electric, Price: $45,000")
	assert.Equal(t, "User Question: What cars do you have?", gen.parts[1].Text)
}

func TestAsk_placeholdersWhenContextOmitted(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	relay := newTestRelay(gen, &fakeFetcher{}, Options{})

	_, err := relay.Ask(context.Background(), &models.ChatRequest{Message: "hi"})
	require.NoError(t, err)

	require.NotEmpty(t, gen.parts)
	assert.Contains(t, gen.parts[0].Text, "No specific instructions provided.")
	assert.Contains(t, gen.parts[0].Text, "No inventory data available.")
}

func TestAsk_brochureInline(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4 fake")
	gen := &fakeGenerator{answer: "ok"}
	relay := newTestRelay(gen, &fakeFetcher{data: pdfBytes}, Options{BrochureMode: "inline"})

	_, err := relay.Ask(context.Background(), &models.ChatRequest{
		Message:     "tell me more",
		BrochureURL: "https://example.com/brochure.pdf",
	})
	require.NoError(t, err)

	require.Len(t, gen.parts, 4)
	require.NotNil(t, gen.parts[2].InlineData)
	assert.Equal(t, "application/pdf", gen.parts[2].InlineData.MIMEType)
	assert.Equal(t, pdfBytes, gen.parts[2].InlineData.Data)
	assert.Equal(t, "Please also refer to the attached brochure for detailed product information.", gen.parts[3].Text)
}

func TestAsk_brochureFetchFailureIsNotFatal(t *testing.T) {
	gen := &fakeGenerator{answer: "still works"}
	relay := newTestRelay(gen, &fakeFetcher{err: errors.New("connection refused")}, Options{})

	answer, err := relay.Ask(context.Background(), &models.ChatRequest{
		Message:     "hi",
		BrochureURL: "https://example.com/broken.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "still works", answer)
	// The attachment and its reference note are both dropped.
	assert.Len(t, gen.parts, 2)
}

func TestAsk_brochureTextModeBadPDFIsNotFatal(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	relay := newTestRelay(gen, &fakeFetcher{data: []byte("not a pdf")}, Options{BrochureMode: "text"})

	_, err := relay.Ask(context.Background(), &models.ChatRequest{
		Message:     "hi",
		BrochureURL: "https://example.com/corrupt.pdf",
	})
	require.NoError(t, err)
	assert.Len(t, gen.parts, 2)
}

func TestAsk_generatorErrorPropagates(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	relay := newTestRelay(gen, &fakeFetcher{}, Options{})

	_, err := relay.Ask(context.Background(), &models.ChatRequest{Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSetOptions_swapsTemplate(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	relay := newTestRelay(gen, &fakeFetcher{}, Options{})

	relay.SetOptions(Options{PromptTemplate: "NEW TEMPLATE {custom_instructions} {inventory_context}"})
	_, err := relay.Ask(context.Background(), &models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gen.parts[0].Text, "NEW TEMPLATE"))
}

func TestSystemPrompt_verbatimSubstitution(t *testing.T) {
	// Context text is embedded as-is, including characters that look like
	// template syntax.
	got := SystemPrompt("A {custom_instructions} B {inventory_context} C",
		"use {braces} literally", "100% & <markup>")
	assert.Equal(t, "A use {braces} literally B 100% & <markup> C", got)
}

func TestSystemPrompt_placeholders(t *testing.T) {
	got := SystemPrompt("{custom_instructions}|{inventory_context}", "", "")
	assert.Equal(t, "No specific instructions provided.|No inventory data available.", got)
}
