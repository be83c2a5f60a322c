package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/support-assistant/internal/core/ports"
	"github.com/kirillkom/support-assistant/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, genModel, embedModel string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func NewWithExecutor(baseURL, genModel, embedModel string, executor *resilience.Executor) *Client {
	client := New(baseURL, genModel, embedModel)
	client.executor = executor
	return client
}

// Task prefixes expected by nomic-style embedding models. Indexed
// passages and search queries are embedded into the same space but
// with different task hints.
const (
	documentPrefix = "search_document: "
	queryPrefix    = "search_query: "
)

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string, role ports.EmbedRole) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	prefix := documentPrefix
	if role == ports.RoleQuery {
		prefix = queryPrefix
	}
	input := make([]string, len(texts))
	for i, text := range texts {
		input[i] = prefix + text
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": input,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := e.client.postJSON(ctx, "/api/embed", request, &response, "embed"); err != nil {
		return nil, err
	}
	if len(response.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(texts), len(response.Embeddings))
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text}, ports.RoleQuery)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

type Generator struct {
	client       *Client
	systemPrompt string
}

func NewGenerator(client *Client, systemPrompt string) *Generator {
	return &Generator{client: client, systemPrompt: systemPrompt}
}

func (g *Generator) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  g.client.genModel,
		"prompt": prompt,
		"stream": false,
	}
	if g.systemPrompt != "" {
		reqBody["system"] = g.systemPrompt
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := g.client.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

func (g *Generator) NewConversation() ports.Conversation {
	conv := &conversation{client: g.client}
	if g.systemPrompt != "" {
		conv.messages = []chatMessage{{Role: "system", Content: g.systemPrompt}}
	}
	return conv
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// conversation keeps the chat transcript so each turn is generated with
// the full history. The mutex serializes concurrent sends on one thread.
type conversation struct {
	client *Client

	mu       sync.Mutex
	messages []chatMessage
}

func (c *conversation) Send(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]chatMessage, len(c.messages), len(c.messages)+1)
	copy(messages, c.messages)
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	request := map[string]any{
		"model":    c.client.genModel,
		"messages": messages,
		"stream":   false,
	}

	var response struct {
		Message chatMessage `json:"message"`
	}
	if err := c.client.postJSON(ctx, "/api/chat", request, &response, "chat"); err != nil {
		return "", err
	}

	answer := strings.TrimSpace(response.Message.Content)
	c.messages = append(messages, chatMessage{Role: "assistant", Content: answer})
	return answer, nil
}
