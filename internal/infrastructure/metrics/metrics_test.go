package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordShare(t *testing.T) {
	before := testutil.ToFloat64(SharesTotal.WithLabelValues("share", "failure"))
	RecordShare("share", false)
	assert.Equal(t, before+1, testutil.ToFloat64(SharesTotal.WithLabelValues("share", "failure")))
}

func TestRecordRequest_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	RecordRequest("GET", "", 404, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordShareLinkOutcome(t *testing.T) {
	before := testutil.ToFloat64(ShareLinkOutcomesTotal.WithLabelValues("copied"))
	RecordShareLinkOutcome("copied")
	assert.Equal(t, before+1, testutil.ToFloat64(ShareLinkOutcomesTotal.WithLabelValues("copied")))
}
