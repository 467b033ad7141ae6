// ABOUTME: Email draft generation from CRM context
// ABOUTME: Builds a prompt from the contact, optional deal, and recent interactions, then parses subject/body
package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/models"
)

const (
	recentInteractionLimit = 5
	interactionBodyLimit   = 200
	DefaultTone            = "professional"
)

type Request struct {
	ContactID uuid.UUID  `json:"contact_id"`
	DealID    *uuid.UUID `json:"deal_id,omitempty"`
	Intent    string     `json:"intent"`
	Tone      string     `json:"tone,omitempty"`
}

type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Service struct {
	conn   db.DBTX
	gen    Generator
	logger *slog.Logger
}

func NewService(conn db.DBTX, gen Generator, logger *slog.Logger) *Service {
	return &Service{conn: conn, gen: gen, logger: logging.OrDiscard(logger)}
}

// Draft gathers context for req and asks the generator for an email.
func (s *Service) Draft(ctx context.Context, req Request) (d *Draft, err error) {
	start := time.Now()
	defer func() {
		logging.Observe(ctx, s.logger, "email.draft", start, err, "contact_id", req.ContactID.String())
	}()

	intent := strings.TrimSpace(req.Intent)
	if intent == "" {
		return nil, models.NewValidationError("email_draft", "", "intent", "is required")
	}
	tone := strings.TrimSpace(req.Tone)
	if tone == "" {
		tone = DefaultTone
	}

	contact, err := db.NewContactRepository(s.conn).Get(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}
	if contact.IsArchived() {
		return nil, models.NewNotFoundError(models.EntityContact, req.ContactID.String())
	}

	var deal *models.Deal
	if req.DealID != nil {
		if deal, err = db.NewDealRepository(s.conn).Get(ctx, *req.DealID); err != nil {
			return nil, err
		}
	}

	interactions, err := db.NewInteractionRepository(s.conn).List(ctx, db.InteractionFilter{
		ContactID: &contact.ID,
		Limit:     recentInteractionLimit,
	})
	if err != nil {
		return nil, err
	}

	text, err := s.gen.Generate(ctx, BuildPrompt(contact, deal, interactions, intent, tone))
	if err != nil {
		return nil, err
	}
	draft := ParseDraft(text)
	return &draft, nil
}

// BuildPrompt renders the drafting instructions. interactions should be newest first.
func BuildPrompt(contact *models.Contact, deal *models.Deal, interactions []models.Interaction, intent, tone string) string {
	var ctxb strings.Builder
	fmt.Fprintf(&ctxb, "Contact: %s\n", contact.DisplayName())
	fmt.Fprintf(&ctxb, "Role: %s\n", contact.Role)
	fmt.Fprintf(&ctxb, "Email: %s\n", contact.Email)
	if contact.Notes != "" {
		fmt.Fprintf(&ctxb, "Notes: %s\n", contact.Notes)
	}

	if deal != nil {
		fmt.Fprintf(&ctxb, "\nDeal: %s\n", deal.Title)
		fmt.Fprintf(&ctxb, "Stage: %s\n", deal.Stage)
		fmt.Fprintf(&ctxb, "Value: %.2f %s\n", deal.Value, deal.Currency)
		if deal.Notes != "" {
			fmt.Fprintf(&ctxb, "Deal notes: %s\n", deal.Notes)
		}
	}

	if len(interactions) > 0 {
		ctxb.WriteString("\nRecent interactions:\n")
		for i, in := range interactions {
			if i == recentInteractionLimit {
				break
			}
			fmt.Fprintf(&ctxb, "- [%s] %s: %s - %s\n",
				in.Type, in.OccurredAt.Format(time.RFC3339), in.Subject, truncate(in.Body, interactionBodyLimit))
		}
	}

	return fmt.Sprintf(`You are drafting an email for a personal CRM user. Based on the context below, draft a %s email.

Context:
%s
Intent: %s

Respond with JSON only, no markdown:
{"subject": "...", "body": "..."}

The body should be the email text only (no subject line repeated). Use appropriate greeting and sign-off. Keep it concise and natural.`,
		tone, ctxb.String(), intent)
}

// ParseDraft reads a {"subject","body"} reply. Anything else becomes the body verbatim.
func ParseDraft(text string) Draft {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var d Draft
	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), &d); err != nil || (d.Subject == "" && d.Body == "") {
		return Draft{Body: text}
	}
	return d
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
