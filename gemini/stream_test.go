package gemini_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/aguiproto/agui"
	"github.com/aguiproto/agui/gemini"
	"github.com/aguiproto/agui/mock"
)

// mockChunks returns a genai-style streaming iterator from pre-built chunks.
func mockChunks(chunks []*genai.GenerateContentResponse) func(func(*genai.GenerateContentResponse, error) bool) {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func textChunk(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func callChunk(fc *genai.FunctionCall) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{FunctionCall: fc}}},
		}},
	}
}

func TestEmitResponses_TextDeltas(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		textChunk("Hello"),
		textChunk(" world"),
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.NoError(t, err)

	require.Len(t, sink.Events, 4)
	start, ok := sink.Events[0].(*agui.TextMessageStartEvent)
	require.True(t, ok)
	assert.NotEmpty(t, start.MessageID)
	assert.Equal(t, agui.RoleAssistant, start.Role)

	first, ok := sink.Events[1].(*agui.TextMessageContentEvent)
	require.True(t, ok)
	assert.Equal(t, "Hello", first.Delta)
	assert.Equal(t, start.MessageID, first.MessageID)

	second, ok := sink.Events[2].(*agui.TextMessageContentEvent)
	require.True(t, ok)
	assert.Equal(t, " world", second.Delta)
	assert.Equal(t, start.MessageID, second.MessageID)

	end, ok := sink.Events[3].(*agui.TextMessageEndEvent)
	require.True(t, ok)
	assert.Equal(t, start.MessageID, end.MessageID)
}

func TestEmitResponses_ToolCall(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		callChunk(&genai.FunctionCall{ID: "sdk_id_1", Name: "read", Args: map[string]any{"path": "foo.go"}}),
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.NoError(t, err)

	require.Len(t, sink.Events, 3)
	start, ok := sink.Events[0].(*agui.ToolCallStartEvent)
	require.True(t, ok)
	assert.Equal(t, "sdk_id_1", start.ToolCallID)
	assert.Equal(t, "read", start.ToolName)
	assert.Empty(t, start.ParentMessageID)

	args, ok := sink.Events[1].(*agui.ToolCallArgsEvent)
	require.True(t, ok)
	assert.Equal(t, "sdk_id_1", args.ToolCallID)
	assert.JSONEq(t, `{"path":"foo.go"}`, args.Delta)

	end, ok := sink.Events[2].(*agui.ToolCallEndEvent)
	require.True(t, ok)
	assert.Equal(t, "sdk_id_1", end.ToolCallID)
	require.NotNil(t, end.ToolCall)
	assert.Equal(t, "read", end.ToolCall.Name)
	assert.JSONEq(t, `{"path":"foo.go"}`, end.ToolCall.Arguments)
}

func TestEmitResponses_ToolCallFallbackID(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		callChunk(&genai.FunctionCall{Name: "bash", Args: map[string]any{"cmd": "ls"}}),
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.NoError(t, err)

	start, ok := sink.Events[0].(*agui.ToolCallStartEvent)
	require.True(t, ok)
	assert.NotEmpty(t, start.ToolCallID)
	assert.True(t, len(start.ToolCallID) > 5, "generated ID should be non-trivial")
}

func TestEmitResponses_TextThenToolCall(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "I'll check."},
					{FunctionCall: &genai.FunctionCall{ID: "tc_1", Name: "read", Args: map[string]any{"path": "a.go"}}},
				}},
			}},
		},
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.NoError(t, err)

	// The open message closes before the tool call span begins.
	require.Len(t, sink.Events, 6)
	msgStart, ok := sink.Events[0].(*agui.TextMessageStartEvent)
	require.True(t, ok)
	_, ok = sink.Events[1].(*agui.TextMessageContentEvent)
	require.True(t, ok)
	_, ok = sink.Events[2].(*agui.TextMessageEndEvent)
	require.True(t, ok)

	callStart, ok := sink.Events[3].(*agui.ToolCallStartEvent)
	require.True(t, ok)
	assert.Equal(t, msgStart.MessageID, callStart.ParentMessageID)
	_, ok = sink.Events[4].(*agui.ToolCallArgsEvent)
	require.True(t, ok)
	_, ok = sink.Events[5].(*agui.ToolCallEndEvent)
	require.True(t, ok)
}

func TestEmitResponses_TextResumesAfterToolCall(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		textChunk("before"),
		callChunk(&genai.FunctionCall{ID: "tc_1", Name: "read", Args: map[string]any{"path": "a.go"}}),
		textChunk("after"),
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.NoError(t, err)

	// Two distinct message spans around the tool call.
	require.Len(t, sink.Events, 10)
	first, ok := sink.Events[0].(*agui.TextMessageStartEvent)
	require.True(t, ok)
	second, ok := sink.Events[6].(*agui.TextMessageStartEvent)
	require.True(t, ok)
	assert.NotEqual(t, first.MessageID, second.MessageID)

	_, ok = sink.Events[9].(*agui.TextMessageEndEvent)
	require.True(t, ok)
}

func TestEmitResponses_SkipsThoughtParts(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "reasoning", Thought: true, ThoughtSignature: []byte("sig")},
					{Text: "Answer"},
				}},
			}},
		},
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.NoError(t, err)

	require.Len(t, sink.Events, 3)
	content, ok := sink.Events[1].(*agui.TextMessageContentEvent)
	require.True(t, ok)
	assert.Equal(t, "Answer", content.Delta)
}

func TestEmitResponses_NilArgsBecomeEmptyObject(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		callChunk(&genai.FunctionCall{ID: "tc_nil", Name: "noop", Args: nil}),
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.NoError(t, err)

	require.Len(t, sink.Events, 3)
	args, ok := sink.Events[1].(*agui.ToolCallArgsEvent)
	require.True(t, ok)
	assert.Equal(t, "{}", args.Delta)

	end, ok := sink.Events[2].(*agui.ToolCallEndEvent)
	require.True(t, ok)
	require.NotNil(t, end.ToolCall)
	assert.Equal(t, "{}", end.ToolCall.Arguments)
}

func TestEmitResponses_PromptBlocked(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
				BlockReason: genai.BlockedReasonSafety,
			},
		},
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt blocked")
	assert.Contains(t, err.Error(), "SAFETY")
	assert.Empty(t, sink.Events)
}

func TestEmitResponses_IteratorError(t *testing.T) {
	t.Parallel()
	errIter := func(yield func(*genai.GenerateContentResponse, error) bool) {
		yield(nil, assert.AnError)
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), errIter, sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini:")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEmitResponses_DeliversEventsBeforeFailure(t *testing.T) {
	t.Parallel()
	iterFn := func(yield func(*genai.GenerateContentResponse, error) bool) {
		if !yield(textChunk("partial"), nil) {
			return
		}
		yield(nil, assert.AnError)
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), iterFn, sink)
	require.Error(t, err)

	// The message start and delta sent before the failure stand.
	require.Len(t, sink.Events, 2)
	_, ok := sink.Events[0].(*agui.TextMessageStartEvent)
	require.True(t, ok)
	content, ok := sink.Events[1].(*agui.TextMessageContentEvent)
	require.True(t, ok)
	assert.Equal(t, "partial", content.Delta)
}

func TestEmitResponses_InvalidToolArgs(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		callChunk(&genai.FunctionCall{ID: "tc_bad", Name: "read", Args: map[string]any{"val": math.NaN()}}),
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tool call arguments")
}

func TestEmitResponses_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	emptyIter := func(yield func(*genai.GenerateContentResponse, error) bool) {}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(ctx, emptyIter, sink)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.Events)
}

func TestEmitResponses_SkipsNilAndEmptyChunks(t *testing.T) {
	t.Parallel()
	chunks := []*genai.GenerateContentResponse{
		textChunk("before"),
		nil,
		{},
		textChunk(" after"),
	}

	sink := &mock.Sink{}
	err := gemini.EmitResponses(context.Background(), mockChunks(chunks), sink)
	require.NoError(t, err)

	require.Len(t, sink.Events, 4)
	first, ok := sink.Events[1].(*agui.TextMessageContentEvent)
	require.True(t, ok)
	assert.Equal(t, "before", first.Delta)
	second, ok := sink.Events[2].(*agui.TextMessageContentEvent)
	require.True(t, ok)
	assert.Equal(t, " after", second.Delta)
}

func TestEmitResponses_SinkErrorStopsRun(t *testing.T) {
	t.Parallel()
	sink := &mock.Sink{
		SendFn: func(ctx context.Context, e agui.Event) error {
			return assert.AnError
		},
	}

	err := gemini.EmitResponses(context.Background(), mockChunks([]*genai.GenerateContentResponse{textChunk("hi")}), sink)
	assert.ErrorIs(t, err, assert.AnError)
}
