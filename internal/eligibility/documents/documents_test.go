package documents

import (
	"testing"

	"visa-eligibility-workers/internal/eligibility/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalog_CoversEveryScheme(t *testing.T) {
	catalog, err := Embedded()
	require.NoError(t, err)
	for _, id := range model.SupportedSchemes() {
		assert.NotEmpty(t, catalog[id].Baseline, string(id))
	}
}

func TestRequired_SpouseCertificateOnlyWhenDeclared(t *testing.T) {
	catalog := MustEmbedded()

	general := &model.F5Profile{SubType: model.F5General}
	docs, err := catalog.Required(general)
	require.NoError(t, err)
	assert.NotContains(t, docs, "Marriage certificate")

	general.HasKoreanSpouse = true
	docs, err = catalog.Required(general)
	require.NoError(t, err)
	assert.Contains(t, docs, "Marriage certificate")

	marriage := &model.F5Profile{SubType: model.F5Marriage, HasKoreanSpouse: true}
	docs, err = catalog.Required(marriage)
	require.NoError(t, err)
	count := 0
	for _, d := range docs {
		if d == "Marriage certificate" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRequired_Scholarship(t *testing.T) {
	catalog := MustEmbedded()

	p := &model.D2Profile{SubType: model.D2Bachelor}
	docs, err := catalog.Required(p)
	require.NoError(t, err)
	assert.NotContains(t, docs, "Scholarship certificate")
	assert.Contains(t, docs, "Bank balance certificate")

	p.ScholarshipFraction = 0.5
	docs, err = catalog.Required(p)
	require.NoError(t, err)
	assert.Contains(t, docs, "Scholarship certificate")
	assert.Contains(t, docs, "Bank balance certificate")

	p.ScholarshipFraction = 1
	docs, err = catalog.Required(p)
	require.NoError(t, err)
	assert.Contains(t, docs, "Scholarship certificate")
	assert.NotContains(t, docs, "Bank balance certificate")
}

func TestRequired_OrderPreserving(t *testing.T) {
	catalog := MustEmbedded()

	p := &model.E7Profile{SubType: model.E7Professional, TopikLevel: 3}
	docs, err := catalog.Required(p)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Passport",
		"Integrated application form",
		"Passport-size photograph",
		"Employment contract",
		"Employer business registration certificate",
		"Proof of qualification",
		"Degree certificate",
		"Career certificates",
		"TOPIK score report",
	}, docs)
}

func TestRequired_NegatedCondition(t *testing.T) {
	catalog := MustEmbedded()

	p := &model.F6Profile{SubType: model.F6Spouse, MetInPerson: false}
	docs, err := catalog.Required(p)
	require.NoError(t, err)
	assert.Contains(t, docs, "Evidence of communication history")

	p.MetInPerson = true
	docs, err = catalog.Required(p)
	require.NoError(t, err)
	assert.NotContains(t, docs, "Evidence of communication history")
}

func TestRequired_SectorDocuments(t *testing.T) {
	catalog := MustEmbedded()

	docs, err := catalog.Required(&model.E9Profile{Sector: model.E9Construction})
	require.NoError(t, err)
	assert.Contains(t, docs, "Construction safety training certificate")

	docs, err = catalog.Required(&model.E9Profile{Sector: model.E9Agriculture})
	require.NoError(t, err)
	assert.NotContains(t, docs, "Construction safety training certificate")
}

func TestRequired_DoesNotMutateCatalog(t *testing.T) {
	catalog := MustEmbedded()
	before := len(catalog[model.SchemeD2].Baseline)

	_, err := catalog.Required(&model.D2Profile{SubType: model.D2Bachelor, ScholarshipFraction: 1})
	require.NoError(t, err)
	assert.Len(t, catalog[model.SchemeD2].Baseline, before)
	assert.Contains(t, catalog[model.SchemeD2].Baseline, "Bank balance certificate")
}

func TestParseCatalogYAML_Errors(t *testing.T) {
	_, err := ParseCatalogYAML([]byte(""))
	assert.Error(t, err)

	_, err = ParseCatalogYAML([]byte("F-2-7:\n  baseline: [Passport]\n"))
	assert.ErrorContains(t, err, "no baseline")
}
