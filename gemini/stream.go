package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/aguiproto/agui"
)

// EmitResponses translates a genai streaming iterator into protocol events
// on the sink. Text parts stream as deltas of an open text message; a
// function call part closes the open message and emits a complete tool
// call span parented to it. Exported so the translation can be tested with
// pre-built chunks.
func EmitResponses(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error], sink agui.Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	em := &emitter{sink: sink}
	for resp, err := range seq {
		if err != nil {
			return fmt.Errorf("gemini: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := em.chunk(ctx, resp); err != nil {
			return err
		}
	}
	return em.closeText(ctx)
}

// emitter tracks the text message left open across chunks so consecutive
// text parts join a single start/content/end span.
type emitter struct {
	sink  agui.Sink
	msgID string
}

func (em *emitter) chunk(ctx context.Context, resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return nil
	}
	if len(resp.Candidates) == 0 {
		if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return fmt.Errorf("gemini: prompt blocked: %s", fb.BlockReason)
		}
		return nil
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return nil
	}
	for _, part := range cand.Content.Parts {
		if err := em.part(ctx, part); err != nil {
			return err
		}
	}
	return nil
}

func (em *emitter) part(ctx context.Context, part *genai.Part) error {
	switch {
	case part == nil:
		return nil
	case part.FunctionCall != nil:
		return em.toolCall(ctx, part.FunctionCall)
	case part.Thought:
		// Thinking parts have no protocol representation.
		return nil
	case part.Text != "":
		return em.text(ctx, part.Text)
	}
	return nil
}

func (em *emitter) text(ctx context.Context, delta string) error {
	if em.msgID == "" {
		em.msgID = uuid.NewString()
		start, err := agui.NewTextMessageStartEvent(em.msgID)
		if err != nil {
			return err
		}
		if err := em.sink.Send(ctx, start); err != nil {
			return err
		}
	}
	content, err := agui.NewTextMessageContentEvent(em.msgID, delta)
	if err != nil {
		return err
	}
	return em.sink.Send(ctx, content)
}

// closeText ends the open text message, if any.
func (em *emitter) closeText(ctx context.Context) error {
	if em.msgID == "" {
		return nil
	}
	end, err := agui.NewTextMessageEndEvent(em.msgID)
	if err != nil {
		return err
	}
	em.msgID = ""
	return em.sink.Send(ctx, end)
}

func (em *emitter) toolCall(ctx context.Context, fc *genai.FunctionCall) error {
	parent := em.msgID
	if err := em.closeText(ctx); err != nil {
		return err
	}

	// The SDK may omit the call ID; spans need one to correlate.
	id := fc.ID
	if id == "" {
		id = uuid.NewString()
	}
	args := "{}"
	if len(fc.Args) > 0 {
		data, err := json.Marshal(fc.Args)
		if err != nil {
			return fmt.Errorf("gemini: invalid tool call arguments: %w", err)
		}
		args = string(data)
	}

	start, err := agui.NewToolCallStartEvent(id, fc.Name)
	if err != nil {
		return err
	}
	start.ParentMessageID = parent
	if err := em.sink.Send(ctx, start); err != nil {
		return err
	}

	delta, err := agui.NewToolCallArgsEvent(id, args)
	if err != nil {
		return err
	}
	if err := em.sink.Send(ctx, delta); err != nil {
		return err
	}

	end, err := agui.NewToolCallEndEvent(id)
	if err != nil {
		return err
	}
	end.ToolCall = &agui.ToolCall{ID: id, Name: fc.Name, Arguments: args}
	return em.sink.Send(ctx, end)
}
