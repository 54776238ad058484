package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordEvaluation(t *testing.T) {
	before := testutil.ToFloat64(EligibilityEvaluations.WithLabelValues("E-9", "eligibility", OutcomeFail))
	RecordEvaluation("E-9", "eligibility", OutcomeFail)
	after := testutil.ToFloat64(EligibilityEvaluations.WithLabelValues("E-9", "eligibility", OutcomeFail))
	assert.Equal(t, before+1, after)
}

func TestRecordConstantsLookup(t *testing.T) {
	before := testutil.ToFloat64(ConstantsLookups.WithLabelValues("cache"))
	RecordConstantsLookup("cache")
	RecordConstantsLookup("cache")
	assert.Equal(t, before+2, testutil.ToFloat64(ConstantsLookups.WithLabelValues("cache")))
}

func TestRecordScore(t *testing.T) {
	RecordScore("F-2-7", 85)
	assert.Equal(t, 1, testutil.CollectAndCount(EligibilityScore))
}
