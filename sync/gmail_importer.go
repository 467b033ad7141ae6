// ABOUTME: Gmail importer that logs recent emails as contact interactions
// ABOUTME: Mail the user sent is outbound, everything else inbound; sync_log prevents re-imports
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/models"
)

const (
	gmailService     = "gmail"
	DefaultSyncDays  = 30
	emailChannel     = "email"
	gmailContactFrom = "gmail"
)

// Result summarizes one sync run.
type Result struct {
	Fetched     int `json:"fetched"`
	Imported    int `json:"imported"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
	NewContacts int `json:"new_contacts"`
}

type GmailImporter struct {
	database *db.DB
	source   MessageSource
	logger   *slog.Logger
}

func NewGmailImporter(database *db.DB, source MessageSource, logger *slog.Logger) *GmailImporter {
	return &GmailImporter{database: database, source: source, logger: logging.OrDiscard(logger)}
}

// Import pulls the last days days of mail. A message that fails to import is
// logged and counted; the run continues.
func (g *GmailImporter) Import(ctx context.Context, days int, now time.Time) (res Result, err error) {
	start := time.Now()
	defer func() {
		logging.Observe(ctx, g.logger, "sync.gmail", start, err,
			"fetched", res.Fetched, "imported", res.Imported, "new_contacts", res.NewContacts, "failed", res.Failed)
	}()

	if days <= 0 {
		days = DefaultSyncDays
	}
	userEmail, err := g.source.UserEmail(ctx)
	if err != nil {
		return res, err
	}

	existing, err := db.NewContactRepository(g.database.Conn()).List(ctx, db.ContactFilter{IncludeArchived: true})
	if err != nil {
		return res, fmt.Errorf("failed to load existing contacts: %w", err)
	}
	matcher := NewContactMatcher(existing)

	ids, err := g.source.ListMessageIDs(ctx, BuildQuery(days))
	if err != nil {
		return res, err
	}
	res.Fetched = len(ids)

	syncLog := db.NewSyncLog(g.database.Conn())
	for _, id := range ids {
		seen, err := syncLog.Exists(ctx, gmailService, id)
		if err != nil {
			return res, err
		}
		if seen {
			res.Skipped++
			continue
		}

		msg, err := g.source.GetMessage(ctx, id)
		if err != nil {
			g.logger.WarnContext(ctx, "failed to fetch message", "message_id", id, "error", err)
			res.Failed++
			continue
		}
		imported, created, err := g.importMessage(ctx, msg, userEmail, matcher, now)
		switch {
		case err != nil:
			g.logger.WarnContext(ctx, "failed to import message", "message_id", id, "error", err)
			res.Failed++
		case !imported:
			res.Skipped++
		default:
			res.Imported++
			if created {
				res.NewContacts++
			}
		}
	}
	return res, nil
}

func (g *GmailImporter) importMessage(ctx context.Context, msg *Message, userEmail string, matcher *ContactMatcher, now time.Time) (imported, created bool, err error) {
	subject := msg.Headers["Subject"]
	if isAutoGeneratedSubject(subject) {
		return false, false, nil
	}

	_, sender, _ := ExtractEmailAddress(msg.Headers["From"])
	direction := models.DirectionInbound
	counterpart := msg.Headers["From"]
	if strings.EqualFold(sender, userEmail) {
		direction = models.DirectionOutbound
		counterpart = firstRecipient(msg.Headers["To"])
	}

	name, email, domain := ExtractEmailAddress(counterpart)
	if email == "" || strings.EqualFold(email, userEmail) || domain == "" {
		return false, false, nil
	}
	if direction == models.DirectionInbound && isAutomatedSender(email) {
		return false, false, nil
	}

	occurredAt, err := parseEmailDate(msg.Headers["Date"])
	if err != nil {
		return false, false, err
	}

	contact, found := matcher.FindMatch(email)
	if found && contact.IsArchived() {
		return false, false, nil
	}

	err = g.database.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if !found {
			contact, err = createEmailContact(ctx, tx, name, email, domain, now)
			if err != nil {
				return err
			}
			created = true
		}

		interaction := &models.Interaction{
			ContactID:  contact.ID,
			Type:       models.InteractionEmail,
			Direction:  direction,
			Subject:    subject,
			OccurredAt: occurredAt.UTC(),
			CreatedAt:  now.UTC(),
		}
		if err := db.NewInteractionRepository(tx).Log(ctx, interaction); err != nil {
			return err
		}

		meta, _ := json.Marshal(map[string]string{"thread_id": msg.ThreadID, "subject": subject})
		return db.NewSyncLog(tx).Record(ctx, gmailService, msg.ID, models.EntityInteraction, interaction.ID.String(), string(meta), now.UTC())
	})
	if err != nil {
		return false, false, err
	}
	if created {
		matcher.Add(contact)
	}
	return true, created, nil
}

func createEmailContact(ctx context.Context, tx db.DBTX, name, email, domain string, now time.Time) (*models.Contact, error) {
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")

	contact := &models.Contact{
		FirstName:       first,
		LastName:        strings.TrimSpace(last),
		Email:           email,
		EngagementStage: models.EngagementNew,
		InboundChannel:  emailChannel,
		Source:          gmailContactFrom,
		Status:          models.ContactActive,
		CreatedAt:       now.UTC(),
	}
	if !isCommonEmailDomain(domain) {
		company, _, err := db.NewCompanyRepository(tx).FindOrCreate(ctx, &models.Company{
			Name:      companyNameFromDomain(domain),
			Website:   domain,
			CreatedAt: now.UTC(),
		})
		if err != nil {
			return nil, err
		}
		contact.CompanyID = &company.ID
	}
	if err := db.NewContactRepository(tx).Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// firstRecipient returns the first address of a To header as "Name <email>".
// Quoted display names may contain commas, so the header is parsed rather than split.
func firstRecipient(to string) string {
	list, err := mail.ParseAddressList(to)
	if err != nil || len(list) == 0 {
		first, _, _ := strings.Cut(to, ",")
		return first
	}
	if list[0].Name == "" {
		return list[0].Address
	}
	return list[0].Name + " <" + list[0].Address + ">"
}
