package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/importer"
	"github.com/harperreed/voss/models"
	"github.com/harperreed/voss/testutil"
)

func TestParseLeader(t *testing.T) {
	tests := []struct {
		raw  string
		want importer.Leader
		ok   bool
	}{
		{"Peeyoosh Pandey (CEO)", importer.Leader{FirstName: "Peeyoosh", LastName: "Pandey", Role: "CEO"}, true},
		{"  Mary Ann van Dyke  (Head of Sales) ", importer.Leader{FirstName: "Mary", LastName: "Ann van Dyke", Role: "Head of Sales"}, true},
		{"Cher", importer.Leader{FirstName: "Cher"}, true},
		{"", importer.Leader{}, false},
		{"   ", importer.Leader{}, false},
	}
	for _, tt := range tests {
		got, ok := importer.ParseLeader(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestParseLeadersSeparators(t *testing.T) {
	got := importer.ParseLeaders("Ann Lee (CTO), Bob Ray (CFO); Cy Young\nDee Dee (COO)")
	require.Len(t, got, 4)
	assert.Equal(t, "Ann", got[0].FirstName)
	assert.Equal(t, "CTO", got[0].Role)
	assert.Equal(t, "CFO", got[1].Role)
	assert.Equal(t, "Young", got[2].LastName)
	assert.Equal(t, "COO", got[3].Role)
}

const prospectsCSV = `name,industry,website,location,ceo,ceo_phone,other_leaders
Acme Consulting,IT Services,https://acme.example,London,Jane Smith (CEO),(650) 253-0000,"Tom Brown (CTO), Amy Green (COO)"
Existing Ltd,IT Services,,,Old Boss (CEO),,
,,,,Nobody (CEO),,
`

func TestImportProspects(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.InsertCompany(t, database, "existing ltd")

	im := importer.New(database, importer.Options{Segment: "consulting", PhoneRegion: "US"}, nil)
	sum, err := im.ImportProspects(ctx, strings.NewReader(prospectsCSV), testutil.AsOf)
	require.NoError(t, err)
	assert.Equal(t, importer.Summary{Rows: 3, CompaniesCreated: 1, CompaniesSkipped: 1, ContactsCreated: 3}, sum)

	acme, err := db.NewCompanyRepository(database.Conn()).FindByName(ctx, "ACME CONSULTING")
	require.NoError(t, err)
	require.NotNil(t, acme)
	assert.Equal(t, "Location: London", acme.Notes)

	contacts, err := db.NewContactRepository(database.Conn()).List(ctx, db.ContactFilter{})
	require.NoError(t, err)
	require.Len(t, contacts, 3)
	for _, c := range contacts {
		assert.Equal(t, models.EngagementNew, c.EngagementStage)
		assert.Equal(t, "import", c.Source)
		assert.Equal(t, "consulting", c.Segment)
		require.NotNil(t, c.CompanyID)
		assert.Equal(t, acme.ID, *c.CompanyID)
		if c.FirstName == "Jane" {
			assert.Equal(t, "+16502530000", c.Phone)
			assert.Equal(t, "CEO", c.Role)
		}
	}
}

func TestImportProspectsRejectsBadHeader(t *testing.T) {
	database := testutil.NewTestDB(t)
	im := importer.New(database, importer.Options{}, nil)

	_, err := im.ImportProspects(context.Background(), strings.NewReader(""), testutil.AsOf)
	var csvErr importer.CSVValidationError
	require.ErrorAs(t, err, &csvErr)

	_, err = im.ImportProspects(context.Background(), strings.NewReader("company,ceo\nx,y\n"), testutil.AsOf)
	require.ErrorAs(t, err, &csvErr)
	assert.Contains(t, csvErr.Message, `"name"`)
}
