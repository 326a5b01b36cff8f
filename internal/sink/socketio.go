package sink

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/circuitgraph/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name graphs are published under.
const DefaultEvent = "graph"

// PublisherConfig holds the connection settings of a Publisher.
type PublisherConfig struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	// Timeout bounds the initial connection. Zero means 15s.
	Timeout time.Duration
}

// Publisher emits every record as a socket.io event.
type Publisher struct {
	client *socket.Socket
	event  string
	logger *slog.Logger
}

// Dial connects to the socket.io server and waits for the namespace to
// accept the connection.
func Dial(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	ctx, logger := ctxlog.With(ctx, "sink", "socketio", "url", cfg.URL)
	logger.Info("Connecting publisher...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q needs a scheme and a host", cfg.URL)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}
	event := cfg.Event
	if event == "" {
		event = DefaultEvent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		logger.Debug("connect_error event fired", "error", err)
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Publisher{client: io, event: event, logger: logger}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

func (p *Publisher) Write(_ context.Context, rec *Record) error {
	if !p.client.Connected() {
		return fmt.Errorf("socket.io publisher is not connected")
	}
	p.logger.Debug("Emitting event", "event", p.event, "name", rec.Name, "nodes", rec.Graph.Len())
	if err := p.client.Emit(p.event, rec.Payload()); err != nil {
		return fmt.Errorf("failed to emit %q: %w", rec.Name, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.logger.Info("Disconnecting publisher", "sid", p.client.Id())
	p.client.Disconnect()
	return nil
}
