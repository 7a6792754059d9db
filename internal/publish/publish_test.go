package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/stepgrid/internal/ctxlog"
)

type emitted struct {
	event   string
	payload any
}

type fakeEmitter struct {
	sent   []emitted
	closed bool
}

func (f *fakeEmitter) Emit(event string, payload any) {
	f.sent = append(f.sent, emitted{event, payload})
}

func (f *fakeEmitter) Close() { f.closed = true }

func TestPublish_EmitsEveryPayloadInOrder(t *testing.T) {
	fake := &fakeEmitter{}
	var gotOpts Options
	p := New(Options{URL: "http://localhost:3000"})
	p.dial = func(_ context.Context, opts Options) (emitter, error) {
		gotOpts = opts
		return fake, nil
	}

	err := p.Publish(ctxlog.Discard(context.Background()), []any{"first", map[string]any{"n": 2}})
	require.NoError(t, err)

	assert.Equal(t, "/", gotOpts.Namespace, "namespace defaults to root")
	assert.Equal(t, gotOpts, p.Options())
	assert.Equal(t, []emitted{
		{ResultEvent, "first"},
		{ResultEvent, map[string]any{"n": 2}},
	}, fake.sent)
	assert.True(t, fake.closed)
}

func TestPublish_DialFailure(t *testing.T) {
	p := New(Options{URL: "http://localhost:3000", Namespace: "/sim"})
	p.dial = func(context.Context, Options) (emitter, error) {
		return nil, errors.New("refused")
	}

	err := p.Publish(ctxlog.Discard(context.Background()), []any{"x"})
	assert.ErrorContains(t, err, "publishing results: refused")
}

func TestDialSocketIO_RejectsRelativeURL(t *testing.T) {
	_, err := dialSocketIO(ctxlog.Discard(context.Background()), Options{URL: "localhost:3000/socket"})
	assert.Error(t, err)
}
