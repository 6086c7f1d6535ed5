package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/aguiproto/agui"
)

// Interface compliance check.
var _ agui.Agent = (*Agent)(nil)

// Agent implements [agui.Agent] for the Google Gemini API.
type Agent struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// Option configures an [Agent].
type Option func(*Agent)

// WithModel sets the model ID. Default is gemini-3.1-pro-preview.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithMaxTokens caps the output tokens per run. The run input carries no
// generation settings, so this is an agent-level knob.
func WithMaxTokens(n int32) Option {
	return func(a *Agent) { a.maxTokens = n }
}

// New creates a new Gemini [Agent] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Agent, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	a := &Agent{
		client:    gc,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// RunAgent streams one model turn for the given input. It emits RunStarted,
// re-emits the model's response as text message and tool call spans, and
// closes with RunFinished. A non-nil error means the run failed after
// whatever events were already sent; the transport reports it in-band.
func (a *Agent) RunAgent(ctx context.Context, input agui.RunAgentInput, sink agui.Sink) error {
	started, err := agui.NewRunStartedEvent(input.ThreadID, input.RunID)
	if err != nil {
		return err
	}
	if err := sink.Send(ctx, started); err != nil {
		return err
	}

	contents := ConvertMessages(input.Messages)
	seq := a.client.Models.GenerateContentStream(ctx, a.model, contents, a.config(input))
	if err := EmitResponses(ctx, seq, sink); err != nil {
		return err
	}

	finished, err := agui.NewRunFinishedEvent(input.ThreadID, input.RunID)
	if err != nil {
		return err
	}
	return sink.Send(ctx, finished)
}

func (a *Agent) config(input agui.RunAgentInput) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: a.maxTokens,
		Tools:           ConvertTools(input.Tools),
	}
	if instr := systemInstruction(input.Messages); instr != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: instr}},
		}
	}
	return config
}

// systemInstruction joins the instruction-bearing history entries (system
// and developer roles) in order. Gemini takes these out of band, not as
// conversation contents.
func systemInstruction(msgs []agui.Message) string {
	var parts []string
	for _, msg := range msgs {
		if msg.Role != agui.RoleSystem && msg.Role != agui.RoleDeveloper {
			continue
		}
		if msg.Content != "" {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ConvertMessages converts protocol history to genai Contents. System and
// developer messages are excluded here; they ride as the system instruction.
// Exported for testing.
func ConvertMessages(msgs []agui.Message) []*genai.Content {
	var result []*genai.Content
	for _, msg := range msgs {
		switch msg.Role {
		case agui.RoleUser:
			result = append(result, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case agui.RoleAssistant:
			if c := assistantContent(msg); c != nil {
				result = append(result, c)
			}
		case agui.RoleTool:
			result = append(result, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       msg.ToolCallID,
						Name:     msg.Name,
						Response: map[string]any{"output": msg.Content},
					},
				}},
			})
		}
	}
	return result
}

func assistantContent(msg agui.Message) *genai.Content {
	var parts []*genai.Part
	if msg.Content != "" {
		parts = append(parts, &genai.Part{Text: msg.Content})
	}
	for _, tc := range msg.ToolCalls {
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   tc.ID,
				Name: tc.Name,
				Args: decodeArgs(tc.Arguments),
			},
		})
	}
	if msg.FunctionCall != nil {
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				Name: msg.FunctionCall.Name,
				Args: decodeArgs(msg.FunctionCall.Arguments),
			},
		})
	}
	if len(parts) == 0 {
		return nil
	}
	return &genai.Content{Role: "model", Parts: parts}
}

// decodeArgs parses an assembled argument string. Arguments that are not a
// JSON object degrade to nil args rather than failing the whole history.
func decodeArgs(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var args map[string]any
	_ = json.Unmarshal([]byte(raw), &args)
	return args
}

// ConvertTools converts protocol tool definitions to genai Tools.
// Exported for testing.
func ConvertTools(tools []agui.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		// Parameters is json.RawMessage, validated upstream.
		var schema map[string]any
		_ = json.Unmarshal(t.Parameters, &schema)
		decls[i] = &genai.FunctionDeclaration{
			Name:                 t.Name,
			Description:          t.Description,
			ParametersJsonSchema: schema,
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}
