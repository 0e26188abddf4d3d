// Package logsink ships structured log events to a remote collector.
// Delivery is fire-and-forget: a bounded channel feeds a single worker,
// and every failure mode (full buffer, network error, non-2xx) drops
// the event after a local log line. The request path never waits on it.
package logsink

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jack/golang-url-alias-service/internal/config"
)

// Event is one structured log call: which stack and package produced
// it, at what level, and the human-readable message.
type Event struct {
	Stack   string `json:"stack"`
	Level   string `json:"level"`
	Package string `json:"package"`
	Message string `json:"message"`
}

// Client delivers events asynchronously. A Client built without a base
// URL is disabled and Log becomes a no-op.
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client

	events chan Event
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a sink client from config. The client must be started
// before events are delivered and stopped to flush the buffer.
func New(cfg *config.SinkConfig) *Client {
	if cfg.BaseURL == "" {
		return &Client{}
	}

	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = 256
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		events:     make(chan Event, bufferSize),
		stopCh:     make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (c *Client) Start() {
	if c.events == nil {
		return
	}

	c.wg.Add(1)
	go c.run()
	log.Printf("Log sink started (collector: %s)", c.baseURL)
}

// Stop flushes buffered events and stops the worker.
func (c *Client) Stop() {
	if c.events == nil {
		return
	}

	close(c.stopCh)
	c.wg.Wait()
	log.Println("Log sink stopped")
}

// Log enqueues one event. It never blocks: when the buffer is full the
// event is dropped.
func (c *Client) Log(stack, level, pkg, message string) {
	if c.events == nil {
		return
	}

	select {
	case c.events <- Event{Stack: stack, Level: level, Package: pkg, Message: message}:
	default:
		log.Printf("log sink buffer full, dropping event: %s", message)
	}
}

func (c *Client) run() {
	defer c.wg.Done()

	for {
		select {
		case event := <-c.events:
			c.deliver(event)
		case <-c.stopCh:
			// Drain whatever is still buffered before exiting.
			for {
				select {
				case event := <-c.events:
					c.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (c *Client) deliver(event Event) {
	data, err := json.Marshal(&event)
	if err != nil {
		log.Printf("log sink marshal failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logs", bytes.NewReader(data))
	if err != nil {
		log.Printf("log sink request build failed: %v", err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("log sink delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("log sink rejected event: status=%d", resp.StatusCode)
	}
}
