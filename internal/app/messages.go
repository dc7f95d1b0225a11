package app

import (
	"time"

	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/services"
	"github.com/dverley/gatewatch/internal/stats"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// AutoRefreshMsg fires on the overview auto-refresh interval.
type AutoRefreshMsg struct {
	Time time.Time
}

// SeriesLoadedMsg contains a loaded time series response. Seq ties the
// response to the query cycle that issued it; stale responses are
// dropped.
type SeriesLoadedMsg struct {
	Seq    uint64
	Query  models.QueryContext
	Series *models.SeriesResponse
	Err    error
}

// HeatmapLoadedMsg contains the hourly series reduced to a heatmap.
type HeatmapLoadedMsg struct {
	Seq     uint64
	Query   models.QueryContext
	Heatmap *stats.Heatmap
	Err     error
}

// RankLoadedMsg contains a loaded leaderboard response.
type RankLoadedMsg struct {
	Seq   uint64
	Query models.QueryContext
	Rank  *models.RankResponse
	Err   error
}

// AnomaliesLoadedMsg contains a loaded anomaly findings response.
type AnomaliesLoadedMsg struct {
	Seq       uint64
	Query     models.QueryContext
	Anomalies *models.AnomalyResponse
	Err       error
}

// ExportResultMsg contains the result of a CSV export download.
type ExportResultMsg struct {
	Seq  uint64
	Path string
	Err  error
}

// HealthMsg carries the latest backend health probe.
type HealthMsg struct {
	Status *models.HealthStatus
	Err    error
}

// QueryChangedMsg signals that the query context was replaced and the
// affected tabs should refetch.
type QueryChangedMsg struct {
	Query models.QueryContext
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
