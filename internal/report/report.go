// Package report streams run progress to a socket.io server so a dashboard
// can follow a long benchmark. It is optional; without a URL nothing is
// published.
package report

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/specialistvlad/flowbench/internal/ctxlog"
	"github.com/specialistvlad/flowbench/internal/executor"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names emitted to the server.
const (
	EventProgress = "progress"
	EventSummary  = "summary"
)

// DefaultConnectTimeout bounds the initial handshake.
const DefaultConnectTimeout = 15 * time.Second

// Options configures the connection.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Publisher emits progress and summary events.
type Publisher struct {
	logger *slog.Logger
	emit   func(event string, payload map[string]any)
	close  func()
}

// Connect dials the server and waits for the connect event.
func Connect(ctx context.Context, opts Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "report", "url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("report URL %q must be absolute", opts.URL)
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	sopts := socket.DefaultOptions()
	sopts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to report server", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	return &Publisher{
		logger: logger,
		emit: func(event string, payload map[string]any) {
			io.Emit(event, payload)
		},
		close: func() { io.Disconnect() },
	}, nil
}

// Progress publishes a progress snapshot.
func (p *Publisher) Progress(progress executor.Progress) {
	p.send(EventProgress, progress)
}

// Summary publishes the final summary of a run.
func (p *Publisher) Summary(summary *executor.Summary) {
	if summary == nil {
		return
	}
	p.send(EventSummary, summary)
}

// Close disconnects from the server.
func (p *Publisher) Close() {
	if p.close != nil {
		p.close()
	}
}

// send converts v into the generic map the socket.io parser encodes.
func (p *Publisher) send(event string, v any) {
	payload, err := toPayload(v)
	if err != nil {
		p.logger.Error("Failed to encode report event.", "event", event, "error", err)
		return
	}
	p.logger.Debug("Emitting report event.", "event", event)
	p.emit(event, payload)
}

func toPayload(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
