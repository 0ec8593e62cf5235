// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// sampleCount extracts the number of observations from a histogram.
func sampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationRequests.WithLabelValues("no_results"))

	RecordRecommendation("no_results", 150*time.Millisecond, 0)

	if got := testutil.ToFloat64(RecommendationRequests.WithLabelValues("no_results")); got != before+1 {
		t.Errorf("no_results counter = %v, want %v", got, before+1)
	}
}

func TestRecordRecommendation_Histograms(t *testing.T) {
	durations := sampleCount(t, RecommendationDuration)
	candidates := sampleCount(t, RecommendationCandidates)

	RecordRecommendation("upstream_unavailable", time.Second, 0)
	if got := sampleCount(t, RecommendationCandidates); got != candidates {
		t.Errorf("candidate samples = %d after a failure, want %d", got, candidates)
	}

	RecordRecommendation("success", 2*time.Second, 42)
	if got := sampleCount(t, RecommendationDuration); got != durations+2 {
		t.Errorf("duration samples = %d, want %d", got, durations+2)
	}
	if got := sampleCount(t, RecommendationCandidates); got != candidates+1 {
		t.Errorf("candidate samples = %d, want %d", got, candidates+1)
	}
}

func TestRecordGeocodeAndZoneSearch(t *testing.T) {
	beforeGeo := testutil.ToFloat64(GeocodeRequests.WithLabelValues("google", "no_match"))
	beforeZone := testutil.ToFloat64(ZoneSearches.WithLabelValues("fallback", "error"))

	RecordGeocode("google", "no_match")
	RecordZoneSearch("fallback", "error")
	RecordZoneSearch("fallback", "error")

	if got := testutil.ToFloat64(GeocodeRequests.WithLabelValues("google", "no_match")); got != beforeGeo+1 {
		t.Errorf("geocode counter = %v, want %v", got, beforeGeo+1)
	}
	if got := testutil.ToFloat64(ZoneSearches.WithLabelValues("fallback", "error")); got != beforeZone+2 {
		t.Errorf("zone counter = %v, want %v", got, beforeZone+2)
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "preferences"))

	RecordDBQuery("select", "preferences", 2*time.Millisecond, nil)
	RecordDBQuery("select", "preferences", 5*time.Millisecond, errors.New("connection reset"))

	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "preferences")); got != before+1 {
		t.Errorf("error counter = %v, want %v", got, before+1)
	}
}

func TestRecordSinks(t *testing.T) {
	beforeOK := testutil.ToFloat64(ArchiveWrites.WithLabelValues("ok"))
	beforeErr := testutil.ToFloat64(ArchiveWrites.WithLabelValues("error"))
	beforeDropped := testutil.ToFloat64(EventsPublished.WithLabelValues("dropped"))

	RecordArchiveWrite(nil)
	RecordArchiveWrite(errors.New("bucket missing"))
	RecordEventPublish("dropped")

	if got := testutil.ToFloat64(ArchiveWrites.WithLabelValues("ok")); got != beforeOK+1 {
		t.Errorf("archive ok = %v", got)
	}
	if got := testutil.ToFloat64(ArchiveWrites.WithLabelValues("error")); got != beforeErr+1 {
		t.Errorf("archive error = %v", got)
	}
	if got := testutil.ToFloat64(EventsPublished.WithLabelValues("dropped")); got != beforeDropped+1 {
		t.Errorf("events dropped = %v", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3")
	if n := testutil.CollectAndCount(AppInfo); n < 1 {
		t.Errorf("AppInfo series = %d, want >= 1", n)
	}
}
