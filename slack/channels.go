package slack

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-slack-relay/proxy"
)

// Channel is a vendor-defined conversation. Read-only from this client's
// perspective; listings are re-fetched per session, never cached.
type Channel struct {
	ID        string
	Name      string
	IsPrivate bool
}

// User is a workspace member, used to resolve message authors.
type User struct {
	ID       string
	Name     string
	RealName string
}

// channelListVariants is the ordered fallback chain for listing
// conversations. Workspace permission scopes can make the broader
// variants fail or come back empty, so each is tried in turn and the
// first non-empty result wins.
var channelListVariants = []string{
	"/conversations.list?types=public_channel,private_channel&limit=100",
	"/conversations.list?types=public_channel&limit=100",
	"/conversations.list?limit=100",
}

// ListChannels never returns an error for an empty workspace: exhausting
// every variant degrades to an empty list, because a workspace with no
// visible channels is a valid state.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	for _, endpoint := range channelListVariants {
		env, err := c.call(ctx, proxy.Request{Endpoint: endpoint})
		if err != nil {
			log.Debug().Str("endpoint", endpoint).Err(err).Msg("channel list variant failed")
			continue
		}

		channels := parseChannels(env)
		if len(channels) > 0 {
			return channels, nil
		}
	}
	return []Channel{}, nil
}

func parseChannels(env Envelope) []Channel {
	var channels []Channel
	for _, ch := range env.Get("channels").Array() {
		channels = append(channels, Channel{
			ID:        ch.Get("id").String(),
			Name:      ch.Get("name").String(),
			IsPrivate: ch.Get("is_private").Bool(),
		})
	}
	return channels
}

// ChannelHistory fetches up to limit recent messages of a channel.
func (c *Client) ChannelHistory(ctx context.Context, channel string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	endpoint := fmt.Sprintf("/conversations.history?channel=%s&limit=%d", channel, limit)
	env, err := c.call(ctx, proxy.Request{Endpoint: endpoint})
	if err != nil {
		return nil, err
	}

	var messages []Message
	for _, m := range env.Get("messages").Array() {
		messages = append(messages, Message{
			TS:       m.Get("ts").String(),
			Text:     m.Get("text").String(),
			User:     m.Get("user").String(),
			ThreadTS: m.Get("thread_ts").String(),
		})
	}
	return messages, nil
}

// ListUsers returns the workspace members.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	env, err := c.call(ctx, proxy.Request{Endpoint: "/users.list"})
	if err != nil {
		return nil, err
	}

	var users []User
	for _, u := range env.Get("members").Array() {
		users = append(users, User{
			ID:       u.Get("id").String(),
			Name:     u.Get("name").String(),
			RealName: u.Get("real_name").String(),
		})
	}
	return users, nil
}
