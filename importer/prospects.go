// ABOUTME: CSV prospect import: one company per row plus its leaders as new contacts
// ABOUTME: Leaders are "Name (Role)" entries; each row is written in its own transaction
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/models"
)

// CSVValidationError reports a malformed upload.
type CSVValidationError struct {
	Message string
}

func (e CSVValidationError) Error() string {
	return e.Message
}

// Summary counts what an import did.
type Summary struct {
	Rows             int `json:"rows"`
	CompaniesCreated int `json:"companies_created"`
	CompaniesSkipped int `json:"companies_skipped"`
	ContactsCreated  int `json:"contacts_created"`
}

// Options are stamped onto every imported contact.
type Options struct {
	Source         string
	Segment        string
	Tags           string
	InboundChannel string
	PhoneRegion    string
}

func (o Options) withDefaults() Options {
	if o.Source == "" {
		o.Source = "import"
	}
	if o.InboundChannel == "" {
		o.InboundChannel = "cold_outbound"
	}
	return o
}

// Leader is one parsed "Name (Role)" entry.
type Leader struct {
	FirstName string
	LastName  string
	Role      string
}

var leaderPattern = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)\s*$`)

// ParseLeader parses "Peeyoosh Pandey (CEO)". The first word is the first
// name and the rest the last name. Blank input reports false.
func ParseLeader(raw string) (Leader, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Leader{}, false
	}
	var l Leader
	name := raw
	if m := leaderPattern.FindStringSubmatch(raw); m != nil {
		name = strings.TrimSpace(m[1])
		l.Role = strings.TrimSpace(m[2])
	}
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return Leader{}, false
	}
	l.FirstName = parts[0]
	l.LastName = strings.Join(parts[1:], " ")
	return l, true
}

// ParseLeaders splits a leaders cell on ";", newlines, or "),".
func ParseLeaders(cell string) []Leader {
	cell = strings.ReplaceAll(cell, "),", ")\n")
	cell = strings.ReplaceAll(cell, ";", "\n")
	var out []Leader
	for _, chunk := range strings.Split(cell, "\n") {
		if l, ok := ParseLeader(chunk); ok {
			out = append(out, l)
		}
	}
	return out
}

var noteFields = []struct{ label, key string }{
	{"Location", "location"},
	{"Revenue", "revenue"},
	{"Description", "description"},
	{"Services", "services"},
	{"Sales Nav Signal", "sales_nav_signal"},
	{"Sales Nav Activity", "sales_nav_activity"},
}

type Importer struct {
	database *db.DB
	opts     Options
	logger   *slog.Logger
}

func New(database *db.DB, opts Options, logger *slog.Logger) *Importer {
	return &Importer{database: database, opts: opts.withDefaults(), logger: logging.OrDiscard(logger)}
}

// ImportProspects reads a CSV with a "name" column and optional industry,
// website, employees_linkedin, notes, ceo, ceo_phone, other_leaders and
// leaders columns. Rows whose company already exists are skipped whole.
func (im *Importer) ImportProspects(ctx context.Context, r io.Reader, now time.Time) (sum Summary, err error) {
	start := time.Now()
	defer func() {
		logging.Observe(ctx, im.logger, "import.prospects", start, err,
			"rows", sum.Rows, "companies_created", sum.CompaniesCreated, "contacts_created", sum.ContactsCreated)
	}()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return sum, CSVValidationError{Message: "csv file is empty"}
		}
		return sum, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["name"]; !ok {
		return sum, CSVValidationError{Message: `csv header must include "name"`}
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("read csv row %d: %w", sum.Rows+2, err)
		}
		sum.Rows++

		get := func(key string) string {
			if i, ok := index[key]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		if get("name") == "" {
			continue
		}
		created, contacts, err := im.importRow(ctx, get, now)
		if err != nil {
			return sum, fmt.Errorf("import row %d: %w", sum.Rows+1, err)
		}
		if !created {
			sum.CompaniesSkipped++
			continue
		}
		sum.CompaniesCreated++
		sum.ContactsCreated += contacts
	}
	return sum, nil
}

func (im *Importer) importRow(ctx context.Context, get func(string) string, now time.Time) (created bool, contacts int, err error) {
	company := &models.Company{
		Name:      get("name"),
		Industry:  get("industry"),
		Website:   get("website"),
		Size:      get("employees_linkedin"),
		Notes:     companyNotes(get),
		CreatedAt: now.UTC(),
	}

	var leaders []Leader
	if l, ok := ParseLeader(get("ceo")); ok {
		leaders = append(leaders, l)
	}
	leaders = append(leaders, ParseLeaders(get("other_leaders"))...)
	leaders = append(leaders, ParseLeaders(get("leaders"))...)

	err = im.database.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		co, isNew, err := db.NewCompanyRepository(tx).FindOrCreate(ctx, company)
		if err != nil {
			return err
		}
		if !isNew {
			return nil
		}
		created = true
		repo := db.NewContactRepository(tx)
		for i, l := range leaders {
			c := &models.Contact{
				FirstName:       l.FirstName,
				LastName:        l.LastName,
				Role:            l.Role,
				CompanyID:       &co.ID,
				Segment:         im.opts.Segment,
				EngagementStage: models.EngagementNew,
				InboundChannel:  im.opts.InboundChannel,
				Source:          im.opts.Source,
				Tags:            im.opts.Tags,
				Status:          models.ContactActive,
				CreatedAt:       now.UTC(),
			}
			if i == 0 {
				c.Phone = models.NormalizePhone(get("ceo_phone"), im.opts.PhoneRegion)
			}
			if err := repo.Create(ctx, c); err != nil {
				return err
			}
			contacts++
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return created, contacts, nil
}

func companyNotes(get func(string) string) string {
	var lines []string
	if n := get("notes"); n != "" {
		lines = append(lines, n)
	}
	for _, f := range noteFields {
		if v := get(f.key); v != "" {
			lines = append(lines, f.label+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}
