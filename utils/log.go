package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type LogLevel string

const (
	Info    LogLevel = "INFO"
	Warn    LogLevel = "WARNING"
	Error   LogLevel = "ERROR"
	Success LogLevel = "SUCCESS"
)

type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type DiscordEmbed struct {
	Title     string              `json:"title"`
	Color     int                 `json:"color"`
	Fields    []DiscordEmbedField `json:"fields"`
	Timestamp string              `json:"timestamp,omitempty"`
}

type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

func getColor(level LogLevel) int {
	switch level {
	case Success:
		return 3066993 // Green
	case Warn:
		return 15105570 // Orange
	case Error:
		return 15158332 // Red
	default:
		return 3447003 // Blue
	}
}

// Notifier mirrors log entries to a Discord webhook. A zero URL disables it.
// Entries are posted one at a time, in the order they were queued, by a single
// worker started on the first Enqueue.
type Notifier struct {
	webhookURL string
	client     *http.Client
	interval   time.Duration
	maxRetries int

	mu        sync.RWMutex // guards closed against sends on a closed queue
	closed    bool
	queue     chan notification
	startOnce sync.Once
	done      chan struct{}
}

type notification struct {
	level   LogLevel
	guildID string
	message string
}

const (
	notifierQueueSize = 1024
	notifierInterval  = 500 * time.Millisecond
	notifierRetries   = 3
)

type NotifierOption func(*Notifier)

// WithInterval sets the pause between consecutive webhook posts.
func WithInterval(d time.Duration) NotifierOption {
	return func(n *Notifier) { n.interval = d }
}

func NewNotifier(webhookURL string, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		webhookURL: webhookURL,
		client:     WebhookHTTPClient,
		interval:   notifierInterval,
		maxRetries: notifierRetries,
		queue:      make(chan notification, notifierQueueSize),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

// Enqueue schedules one entry for delivery without blocking. When the queue is
// full the entry is dropped and logged to the console.
func (n *Notifier) Enqueue(level LogLevel, guildID, message string) {
	if !n.Enabled() {
		return
	}
	n.startOnce.Do(func() { go n.run() })

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.queue <- notification{level: level, guildID: guildID, message: message}:
	default:
		log.Printf("Webhook queue full, dropping %s entry for guild %s", level, guildID)
	}
}

// Close stops accepting entries and waits for the queued ones to be posted.
func (n *Notifier) Close() {
	if !n.Enabled() {
		return
	}
	n.startOnce.Do(func() { go n.run() })
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()
	<-n.done
}

func (n *Notifier) run() {
	defer close(n.done)
	first := true
	for item := range n.queue {
		if !first && n.interval > 0 {
			time.Sleep(n.interval)
		}
		first = false
		n.deliver(item)
	}
}

func (n *Notifier) deliver(item notification) {
	for attempt := 0; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		retryAfter, err := n.post(ctx, item.level, item.guildID, item.message)
		cancel()
		if err == nil {
			return
		}
		if retryAfter <= 0 || attempt >= n.maxRetries {
			log.Printf("Failed to mirror log entry to webhook: %v", err)
			return
		}
		log.Printf("Webhook rate limited, retrying in %v", retryAfter)
		time.Sleep(retryAfter)
	}
}

// post returns a positive retry delay when the webhook answered 429.
func (n *Notifier) post(ctx context.Context, level LogLevel, guildID, message string) (time.Duration, error) {
	embed := DiscordEmbed{
		Title: string(level) + " Log",
		Color: getColor(level),
		Fields: []DiscordEmbedField{
			{Name: "Guild", Value: guildID, Inline: true},
			{Name: "Message", Value: Truncate(message, 1024)},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	payload := DiscordWebhookPayload{
		Embeds: []DiscordEmbed{embed},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		body, _ := io.ReadAll(resp.Body)
		return retryAfter(resp.Header, body), fmt.Errorf("webhook rate limited, status: %s", resp.Status)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to send log to discord, status: %s, body: %s", resp.Status, string(body))
	}

	return 0, nil
}

// retryAfter reads the delay from the Retry-After header or the retry_after
// body field, both in seconds. It falls back to one second.
func retryAfter(h http.Header, body []byte) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	var rl struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if json.Unmarshal(body, &rl) == nil && rl.RetryAfter > 0 {
		return time.Duration(rl.RetryAfter * float64(time.Second))
	}
	return time.Second
}
