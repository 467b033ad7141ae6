package crm_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/voss/crm"
	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/models"
	"github.com/harperreed/voss/testutil"
)

func newService(t *testing.T) (*crm.Service, *db.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return crm.NewService(database, "US", nil), database
}

func TestAddContactDefaultsAndCompanyByName(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.AddContact(ctx, crm.ContactInput{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       " Ada@Example.com ",
		Phone:       "(650) 253-0000",
		CompanyName: "Analytical Engines",
	}, testutil.AsOf)
	require.NoError(t, err)
	assert.Equal(t, models.EngagementNew, c.EngagementStage)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.Equal(t, "+16502530000", c.Phone)
	require.NotNil(t, c.CompanyID)

	other, err := svc.AddContact(ctx, crm.ContactInput{FirstName: "Charles", CompanyName: "analytical engines"}, testutil.AsOf)
	require.NoError(t, err)
	assert.Equal(t, *c.CompanyID, *other.CompanyID)
}

func TestAddContactValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.AddContact(ctx, crm.ContactInput{FirstName: "Dup", Email: "dup@example.com"}, testutil.AsOf)
	require.NoError(t, err)
	missing := uuid.New()

	tests := []struct {
		name  string
		in    crm.ContactInput
		field string
	}{
		{"blank name", crm.ContactInput{FirstName: "  "}, "first_name"},
		{"bad stage", crm.ContactInput{FirstName: "A", Stage: "hot"}, "engagement_stage"},
		{"bad segment", crm.ContactInput{FirstName: "A", Segment: "retail"}, "segment"},
		{"bad channel", crm.ContactInput{FirstName: "A", InboundChannel: "fax"}, "inbound_channel"},
		{"bad email", crm.ContactInput{FirstName: "A", Email: "nope"}, "email"},
		{"duplicate email", crm.ContactInput{FirstName: "A", Email: "DUP@example.com"}, "email"},
		{"unknown company", crm.ContactInput{FirstName: "A", CompanyID: &missing}, "company_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddContact(ctx, tt.in, testutil.AsOf)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestStageUpdateAndArchive(t *testing.T) {
	svc, database := newService(t)
	ctx := context.Background()
	c := testutil.InsertContact(t, database, testutil.NewContact())

	_, err := svc.UpdateEngagementStage(ctx, c.ID, "warm", testutil.AsOf)
	assert.True(t, models.IsValidation(err))

	updated, err := svc.UpdateEngagementStage(ctx, c.ID, models.EngagementActive, testutil.AsOf)
	require.NoError(t, err)
	assert.Equal(t, models.EngagementActive, updated.EngagementStage)

	require.NoError(t, svc.ArchiveContact(ctx, c.ID, testutil.AsOf))
	assert.True(t, models.IsNotFound(svc.ArchiveContact(ctx, c.ID, testutil.AsOf)))

	_, err = svc.GetContact(ctx, c.ID)
	assert.True(t, models.IsNotFound(err))

	_, err = svc.LogInteraction(ctx, crm.InteractionInput{ContactID: c.ID}, testutil.AsOf)
	assert.True(t, models.IsValidation(err))
}

func TestLogInteraction(t *testing.T) {
	svc, database := newService(t)
	ctx := context.Background()
	c := testutil.InsertContact(t, database, testutil.NewContact())

	when := testutil.DaysAgo(3)
	i, err := svc.LogInteraction(ctx, crm.InteractionInput{
		ContactID: c.ID, Type: models.InteractionCall, Direction: models.DirectionInbound, OccurredAt: &when,
	}, testutil.AsOf)
	require.NoError(t, err)
	assert.True(t, i.OccurredAt.Equal(when))

	i, err = svc.LogInteraction(ctx, crm.InteractionInput{ContactID: c.ID}, testutil.AsOf)
	require.NoError(t, err)
	assert.Equal(t, models.InteractionNote, i.Type)
	assert.Equal(t, models.DirectionOutbound, i.Direction)
	assert.True(t, i.OccurredAt.Equal(testutil.AsOf))

	_, err = svc.LogInteraction(ctx, crm.InteractionInput{ContactID: c.ID, Type: "fax"}, testutil.AsOf)
	assert.True(t, models.IsValidation(err))

	list, err := svc.ListInteractions(ctx, c.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].OccurredAt.Equal(testutil.AsOf))
}

func TestDeals(t *testing.T) {
	svc, database := newService(t)
	ctx := context.Background()
	c := testutil.InsertContact(t, database, testutil.NewContact())

	_, err := svc.CreateDeal(ctx, crm.DealInput{ContactID: c.ID}, testutil.AsOf)
	assert.True(t, models.IsValidation(err))
	_, err = svc.CreateDeal(ctx, crm.DealInput{ContactID: c.ID, Title: "X", Value: -1}, testutil.AsOf)
	assert.True(t, models.IsValidation(err))
	_, err = svc.CreateDeal(ctx, crm.DealInput{ContactID: uuid.New(), Title: "X"}, testutil.AsOf)
	assert.True(t, models.IsValidation(err))

	d, err := svc.CreateDeal(ctx, crm.DealInput{ContactID: c.ID, Title: "Pilot", Value: 12500, Currency: "usd", ExpectedClose: "2024-03-01"}, testutil.AsOf)
	require.NoError(t, err)
	assert.Equal(t, models.StageLead, d.Stage)
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, models.Date("2024-03-01"), d.ExpectedClose)

	moved, err := svc.UpdateDealStage(ctx, d.ID, models.StageProposal, testutil.AsOf.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, models.StageProposal, moved.Stage)
	assert.True(t, moved.UpdatedAt.Equal(testutil.AsOf.AddDate(0, 0, 1)))

	_, err = svc.UpdateDealStage(ctx, uuid.New(), models.StageWon, testutil.AsOf)
	assert.True(t, models.IsNotFound(err))
}

func TestCreateDealCompany(t *testing.T) {
	svc, database := newService(t)
	ctx := context.Background()
	acme := testutil.InsertCompany(t, database, "Acme")
	other := testutil.InsertCompany(t, database, "Globex")
	c := testutil.InsertContact(t, database, testutil.NewContact(testutil.WithCompany(acme.ID)))
	deals := db.NewDealRepository(database.Conn())

	missing := uuid.New()
	_, err := svc.CreateDeal(ctx, crm.DealInput{ContactID: c.ID, CompanyID: &missing, Title: "Pilot"}, testutil.AsOf)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.EntityDeal, verr.Entity)
	assert.Equal(t, "company_id", verr.Field)

	inherited, err := svc.CreateDeal(ctx, crm.DealInput{ContactID: c.ID, Title: "Pilot"}, testutil.AsOf)
	require.NoError(t, err)
	stored, err := deals.Get(ctx, inherited.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompanyID)
	assert.Equal(t, acme.ID, *stored.CompanyID)

	explicit, err := svc.CreateDeal(ctx, crm.DealInput{ContactID: c.ID, CompanyID: &other.ID, Title: "Expansion"}, testutil.AsOf)
	require.NoError(t, err)
	stored, err = deals.Get(ctx, explicit.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompanyID)
	assert.Equal(t, other.ID, *stored.CompanyID)
}

func TestAddCompanyRejectsDuplicates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	co, err := svc.AddCompany(ctx, models.Company{Name: " Acme ", Industry: "Tools"}, testutil.AsOf)
	require.NoError(t, err)
	assert.Equal(t, "Acme", co.Name)
	assert.NotEqual(t, uuid.Nil, co.ID)

	_, err = svc.AddCompany(ctx, models.Company{Name: "ACME"}, testutil.AsOf)
	assert.True(t, models.IsValidation(err))
}
