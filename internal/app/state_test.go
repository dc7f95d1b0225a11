package app

import (
	"errors"
	"testing"
	"time"

	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/stats"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}

	q := s.Query()
	if q.Preset != models.PresetLast24Hours {
		t.Errorf("default preset = %v, want Last24Hours", q.Preset)
	}
	if s.HeatmapField() != stats.FieldRequests {
		t.Errorf("default heatmap field = %v, want Requests", s.HeatmapField())
	}
	if s.AnyLoading() {
		t.Error("nothing should be loading initially")
	}
}

func TestState_Query(t *testing.T) {
	s := NewState()
	q := s.Query().WithDimension(models.DimensionModel)
	s.SetQuery(q)

	if s.Query().Dimension != models.DimensionModel {
		t.Errorf("Dimension = %v, want Model", s.Query().Dimension)
	}
}

func TestState_Seq(t *testing.T) {
	s := NewState()

	first := s.NextSeq(QuerySeries)
	second := s.NextSeq(QuerySeries)
	if second != first+1 {
		t.Errorf("seq = %d after %d, want monotonic", second, first)
	}

	if s.IsCurrent(QuerySeries, first) {
		t.Error("superseded seq should not be current")
	}
	if !s.IsCurrent(QuerySeries, second) {
		t.Error("latest seq should be current")
	}

	// Kinds sequence independently.
	topSeq := s.NextSeq(QueryTop)
	if !s.IsCurrent(QueryTop, topSeq) || !s.IsCurrent(QuerySeries, second) {
		t.Error("sequences must be independent per kind")
	}
}

func TestState_Loading(t *testing.T) {
	s := NewState()

	s.SetLoading(QueryHeatmap, true)
	if !s.IsLoading(QueryHeatmap) {
		t.Error("heatmap should be loading")
	}
	if s.IsLoading(QuerySeries) {
		t.Error("series should not be loading")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}

	s.SetLoading(QueryHeatmap, false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
}

func TestState_SetSeries(t *testing.T) {
	s := NewState()

	resp := &models.SeriesResponse{
		Points: []models.SeriesPoint{
			{Requests: 10, Tokens: 100, DistinctUsers: 2},
			{Requests: 5, Tokens: 50, DistinctUsers: 7},
		},
		TotalPoints: 2,
	}
	s.SetSeries(resp)

	if s.Series() != resp {
		t.Error("Series should return the stored response")
	}

	// KPI totals are derived on store.
	k := s.KPIs()
	if k.TotalRequests != 15 || k.TotalTokens != 150 || k.PeakUsers != 7 {
		t.Errorf("KPIs = %+v", k)
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}

	s.SetSeries(nil)
	if s.KPIs() != (stats.KPITotals{}) {
		t.Error("clearing the series should clear the KPIs")
	}
}

func TestState_DataAccessors(t *testing.T) {
	s := NewState()

	h := &stats.Heatmap{Field: stats.FieldTokens}
	s.SetHeatmap(h)
	if s.Heatmap() != h {
		t.Error("Heatmap accessor mismatch")
	}

	s.SetHeatmapField(stats.FieldUsers)
	if s.HeatmapField() != stats.FieldUsers {
		t.Error("HeatmapField accessor mismatch")
	}

	rank := &models.RankResponse{Dimension: models.DimensionToken}
	s.SetRank(rank)
	if s.Rank() != rank {
		t.Error("Rank accessor mismatch")
	}

	anomalies := &models.AnomalyResponse{Rule: models.RuleSharedIP, TotalCount: 3}
	s.SetAnomalies(anomalies)
	if s.Anomalies() != anomalies {
		t.Error("Anomalies accessor mismatch")
	}

	probeErr := errors.New("connection refused")
	s.SetHealth(nil, probeErr)
	status, err := s.Health()
	if status != nil || !errors.Is(err, probeErr) {
		t.Errorf("Health = %v, %v", status, err)
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationSuccess, "exported", time.Minute)
	if id == "" {
		t.Fatal("AddNotification returned empty ID")
	}
	if len(s.GetNotifications()) != 1 {
		t.Errorf("notifications = %d, want 1", len(s.GetNotifications()))
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("notification should be removed")
	}
}

func TestState_NotificationCap(t *testing.T) {
	s := NewState()
	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "n", time.Minute)
	}
	if got := len(s.GetNotifications()); got != 10 {
		t.Errorf("notifications = %d, want capped at 10", got)
	}
}

func TestState_ExpiredNotifications(t *testing.T) {
	s := NewState()
	s.AddNotification(NotificationInfo, "stale", time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	if len(s.GetNotifications()) != 0 {
		t.Error("expired notification should be filtered from reads")
	}

	s.ClearExpiredNotifications()
	s.AddNotification(NotificationInfo, "fresh", time.Minute)
	if len(s.GetNotifications()) != 1 {
		t.Error("fresh notification should survive")
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	notes := s.GetNotifications()
	if len(notes) != 1 || notes[0].ID != LoadingNotificationID {
		t.Fatalf("notifications = %+v", notes)
	}

	// Setting again updates in place rather than stacking.
	s.SetLoadingNotification("Still loading...")
	notes = s.GetNotifications()
	if len(notes) != 1 || notes[0].Message != "Still loading..." {
		t.Errorf("notifications = %+v", notes)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}

func TestNotification_IsExpired(t *testing.T) {
	n := Notification{CreatedAt: time.Now().Add(-time.Hour), Duration: time.Minute}
	if !n.IsExpired() {
		t.Error("old notification should be expired")
	}

	sticky := Notification{CreatedAt: time.Now().Add(-time.Hour), Duration: 0}
	if sticky.IsExpired() {
		t.Error("zero-duration notification never expires")
	}
}

func TestQueryKind_String(t *testing.T) {
	kinds := []QueryKind{QuerySeries, QueryHeatmap, QueryTop, QueryAnomalies, QueryExport}
	for _, k := range kinds {
		if k.String() == "unknown" || k.String() == "" {
			t.Errorf("kind %d has no name", k)
		}
	}
}
