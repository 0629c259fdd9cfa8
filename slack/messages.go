package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-slack-relay/internal/errors"
	"github.com/jrsteele09/go-slack-relay/proxy"
)

// minScheduleLead is the closest a scheduled message may be to now.
// Rejected client-side so a doomed call never reaches the vendor.
const minScheduleLead = time.Minute

// Message is one entry of a channel's history. TS doubles as the message
// identifier for edits and deletes.
type Message struct {
	TS       string
	Text     string
	User     string
	ThreadTS string
}

// ScheduledMessage is a pending message held by the vendor platform.
type ScheduledMessage struct {
	ID      string
	Channel string
	PostAt  int64
	Text    string
}

// SendMessageParams carries the required and optional fields of a
// chat.postMessage call.
type SendMessageParams struct {
	Channel  string
	Text     string
	ThreadTS string
	Blocks   []map[string]any
}

// ScheduleMessageParams adds the future delivery timestamp (unix
// seconds) to the send parameters.
type ScheduleMessageParams struct {
	Channel  string
	Text     string
	PostAt   int64
	ThreadTS string
	Blocks   []map[string]any
}

// UpdateMessageParams identifies an existing message by channel and ts.
type UpdateMessageParams struct {
	Channel string
	TS      string
	Text    string
	Blocks  []map[string]any
}

func (c *Client) SendMessage(ctx context.Context, p SendMessageParams) (Envelope, error) {
	body := map[string]any{
		"channel": p.Channel,
		"text":    p.Text,
	}
	if p.ThreadTS != "" {
		body["thread_ts"] = p.ThreadTS
	}
	if len(p.Blocks) > 0 {
		body["blocks"] = p.Blocks
	}
	return c.post(ctx, "/chat.postMessage", body)
}

// ScheduleMessage submits a message for future delivery. PostAt must be
// at least one minute in the future; anything earlier is rejected before
// a call is made.
func (c *Client) ScheduleMessage(ctx context.Context, p ScheduleMessageParams) (Envelope, error) {
	if p.PostAt < time.Now().Add(minScheduleLead).Unix() {
		return Envelope{}, errors.ErrScheduleTooSoon
	}
	body := map[string]any{
		"channel": p.Channel,
		"text":    p.Text,
		"post_at": p.PostAt,
	}
	if p.ThreadTS != "" {
		body["thread_ts"] = p.ThreadTS
	}
	if len(p.Blocks) > 0 {
		body["blocks"] = p.Blocks
	}
	return c.post(ctx, "/chat.scheduleMessage", body)
}

func (c *Client) UpdateMessage(ctx context.Context, p UpdateMessageParams) (Envelope, error) {
	body := map[string]any{
		"channel": p.Channel,
		"ts":      p.TS,
		"text":    p.Text,
	}
	if len(p.Blocks) > 0 {
		body["blocks"] = p.Blocks
	}
	return c.post(ctx, "/chat.update", body)
}

func (c *Client) DeleteMessage(ctx context.Context, channel, ts string) (Envelope, error) {
	return c.post(ctx, "/chat.delete", map[string]any{
		"channel": channel,
		"ts":      ts,
	})
}

// GetMessage fetches a single message by its ts.
func (c *Client) GetMessage(ctx context.Context, channel, ts string) (Envelope, error) {
	endpoint := fmt.Sprintf("/conversations.history?channel=%s&latest=%s&limit=1&inclusive=true", channel, ts)
	return c.call(ctx, proxy.Request{Endpoint: endpoint})
}

// ListScheduledMessages returns the pending scheduled messages of a
// channel.
func (c *Client) ListScheduledMessages(ctx context.Context, channel string) ([]ScheduledMessage, error) {
	env, err := c.call(ctx, proxy.Request{Endpoint: "/chat.scheduledMessages.list?channel=" + channel})
	if err != nil {
		return nil, err
	}

	var scheduled []ScheduledMessage
	for _, m := range env.Get("scheduled_messages").Array() {
		scheduled = append(scheduled, ScheduledMessage{
			ID:      m.Get("id").String(),
			Channel: m.Get("channel_id").String(),
			PostAt:  m.Get("post_at").Int(),
			Text:    m.Get("text").String(),
		})
	}
	return scheduled, nil
}

// DeleteScheduledMessage cancels a pending scheduled message.
func (c *Client) DeleteScheduledMessage(ctx context.Context, channel, scheduledMessageID string) (Envelope, error) {
	return c.post(ctx, "/chat.deleteScheduledMessage", map[string]any{
		"channel":              channel,
		"scheduled_message_id": scheduledMessageID,
	})
}

// post sends a form-encoded write call. The Web API accepts JSON for
// most chat.* methods, but form encoding works for all of them, so every
// write goes out the same way.
func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) (Envelope, error) {
	return c.call(ctx, proxy.Request{
		Endpoint:    endpoint,
		Method:      http.MethodPost,
		Body:        body,
		ContentType: proxy.ContentTypeForm,
	})
}
