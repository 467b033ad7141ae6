// ABOUTME: Gmail API access behind a small message-source interface
// ABOUTME: Lists message ids for a search query and fetches From/To/Subject/Date metadata
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const maxGmailResults = 500

// Message is the metadata the importer needs from one email.
type Message struct {
	ID       string
	ThreadID string
	Headers  map[string]string
}

// MessageSource is the part of Gmail the importer talks to.
type MessageSource interface {
	UserEmail(ctx context.Context) (string, error)
	ListMessageIDs(ctx context.Context, query string) ([]string, error)
	GetMessage(ctx context.Context, id string) (*Message, error)
}

type gmailSource struct {
	svc *gmail.Service
}

// NewGmailSource creates a Gmail-backed source. The token refreshes through cfg.
func NewGmailSource(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (MessageSource, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &gmailSource{svc: svc}, nil
}

func (g *gmailSource) UserEmail(ctx context.Context) (string, error) {
	profile, err := g.svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get user profile: %w", err)
	}
	return profile.EmailAddress, nil
}

func (g *gmailSource) ListMessageIDs(ctx context.Context, query string) ([]string, error) {
	var ids []string
	call := g.svc.Users.Messages.List("me").Q(query).MaxResults(maxGmailResults)
	err := call.Pages(ctx, func(resp *gmail.ListMessagesResponse) error {
		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return ids, nil
}

func (g *gmailSource) GetMessage(ctx context.Context, id string) (*Message, error) {
	msg, err := g.svc.Users.Messages.Get("me", id).
		Format("metadata").
		MetadataHeaders("From", "To", "Subject", "Date").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}
	return &Message{ID: msg.Id, ThreadID: msg.ThreadId, Headers: parseHeaders(msg.Payload)}, nil
}

// parseHeaders flattens payload headers into a map; later duplicates win.
func parseHeaders(payload *gmail.MessagePart) map[string]string {
	headers := make(map[string]string)
	if payload == nil {
		return headers
	}
	for _, h := range payload.Headers {
		if h != nil {
			headers[h.Name] = h.Value
		}
	}
	return headers
}
