// Package publish pushes simulation results to a socket.io endpoint.
package publish

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/stepgrid/internal/ctxlog"
)

// ResultEvent is the socket.io event every result is emitted as.
const ResultEvent = "simulation.result"

// connectTimeout bounds how long Publish waits for the handshake.
const connectTimeout = 15 * time.Second

// Options configures the connection.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// emitter is the part of a socket.io client Publish needs.
type emitter interface {
	Emit(event string, payload any)
	Close()
}

type dialFunc func(ctx context.Context, opts Options) (emitter, error)

// Publisher emits results over one socket.io connection per Publish call.
type Publisher struct {
	opts Options
	dial dialFunc
}

// New returns a publisher for the endpoint described by opts.
func New(opts Options) *Publisher {
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	return &Publisher{opts: opts, dial: dialSocketIO}
}

// Options returns the connection settings with defaults applied.
func (p *Publisher) Options() Options {
	return p.opts
}

// Publish connects, emits every payload as ResultEvent in order, and
// disconnects.
func (p *Publisher) Publish(ctx context.Context, payloads []any) error {
	logger := ctxlog.FromContext(ctx).With("url", p.opts.URL, "namespace", p.opts.Namespace)

	client, err := p.dial(ctx, p.opts)
	if err != nil {
		return fmt.Errorf("publishing results: %w", err)
	}
	defer client.Close()

	for i, payload := range payloads {
		logger.Debug("Emitting result.", "event", ResultEvent, "index", i)
		client.Emit(ResultEvent, payload)
	}
	logger.Info("Published results.", "count", len(payloads))
	return nil
}

// socketClient adapts *socket.Socket to emitter.
type socketClient struct {
	io *socket.Socket
}

func (c *socketClient) Emit(event string, payload any) {
	c.io.Emit(event, payload)
}

func (c *socketClient) Close() {
	c.io.Disconnect()
}

// dialSocketIO opens a websocket-only socket.io connection and waits for
// the connect event.
func dialSocketIO(ctx context.Context, opts Options) (emitter, error) {
	logger := ctxlog.FromContext(ctx).With("url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("publish URL %q must be absolute", opts.URL)
	}

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sopts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)
	// Only the first outcome counts; later ones are dropped.
	report := func(err error) {
		select {
		case connected <- err:
		default:
		}
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected.", "sid", io.Id())
		report(nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		report(err)
	})

	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &socketClient{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", connectTimeout)
	}
}
