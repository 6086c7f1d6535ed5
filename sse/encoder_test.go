package sse_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aguiproto/agui"
	"github.com/aguiproto/agui/sse"
)

func TestEncode_FrameShape(t *testing.T) {
	t.Parallel()

	frame, err := sse.Encode(mustEvent(t, agui.NewRunStartedEvent("t1", "r1")))
	require.NoError(t, err)

	s := string(frame)
	assert.True(t, bytes.HasPrefix(frame, []byte("data: ")))
	assert.True(t, bytes.HasSuffix(frame, []byte("\n\n")))
	assert.JSONEq(t,
		`{"type":"RUN_STARTED","thread_id":"t1","run_id":"r1"}`,
		s[len("data: "):len(s)-2])
}

func TestEncode_ContentNewlinesStayEscaped(t *testing.T) {
	t.Parallel()

	want := mustEvent(t, agui.NewTextMessageContentEvent("m1", "line1\nline2"))
	frame, err := sse.Encode(want)
	require.NoError(t, err)

	// Only the frame terminator may contain raw newlines.
	assert.Equal(t, 2, bytes.Count(frame, []byte("\n")))

	events, err := sse.NewDecoder().Feed(frame)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, want, events[0])
}

func TestEncodeAll_ConcatenatesFrames(t *testing.T) {
	t.Parallel()

	want := runFixture(t)
	stream, err := sse.EncodeAll(want)
	require.NoError(t, err)
	assert.Equal(t, len(want)*2, bytes.Count(stream, []byte("\n")))

	got, err := sse.NewDecoder().Feed(stream)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncodeAll_EmptyBatch(t *testing.T) {
	t.Parallel()

	stream, err := sse.EncodeAll(nil)
	require.NoError(t, err)
	assert.Empty(t, stream)
}

func TestEncode_PropagatesSerializationError(t *testing.T) {
	t.Parallel()

	ev, err := agui.NewCustomEvent("broken", json.RawMessage("{"))
	require.NoError(t, err)

	frame, err := sse.Encode(ev)
	assert.Nil(t, frame)
	var se *agui.SerializationError
	require.ErrorAs(t, err, &se)
}

func TestComment_Bytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte(": still alive\n"), sse.Comment("still alive"))
}

func TestPing_Bytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte(": ping\n\n"), sse.Ping())
}
