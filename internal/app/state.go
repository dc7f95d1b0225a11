// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/stats"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// QueryKind identifies a class of backend query for loading state and
// response sequencing.
type QueryKind int

const (
	// QuerySeries covers the overview time series fetch.
	QuerySeries QueryKind = iota
	// QueryHeatmap covers the hourly series used by the heatmap.
	QueryHeatmap
	// QueryTop covers the leaderboard fetch.
	QueryTop
	// QueryAnomalies covers the anomaly findings fetch.
	QueryAnomalies
	// QueryExport covers CSV export downloads.
	QueryExport

	queryKindCount
)

// String returns the string representation of a QueryKind.
func (k QueryKind) String() string {
	switch k {
	case QuerySeries:
		return "series"
	case QueryHeatmap:
		return "heatmap"
	case QueryTop:
		return "top"
	case QueryAnomalies:
		return "anomalies"
	case QueryExport:
		return "export"
	default:
		return "unknown"
	}
}

// State is the shared application state behind the tabs. All reads and
// writes go through its methods; the query context is replaced
// wholesale, never mutated in place.
type State struct {
	mu sync.RWMutex

	query models.QueryContext

	series      *models.SeriesResponse
	kpis        stats.KPITotals
	heatmap     *stats.Heatmap
	heatmapVals stats.ValueField
	rank        *models.RankResponse
	anomalies   *models.AnomalyResponse
	health      *models.HealthStatus
	healthErr   error

	loading [queryKindCount]bool
	seq     [queryKindCount]uint64

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty state with default query parameters.
func NewState() *State {
	return &State{
		query:         models.DefaultQueryContext(time.Now()),
		heatmapVals:   stats.FieldRequests,
		notifications: make([]Notification, 0),
	}
}

// Query returns the current query context.
func (s *State) Query() models.QueryContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetQuery replaces the query context.
func (s *State) SetQuery(q models.QueryContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// NextSeq allocates the next sequence number for a query kind. Results
// carrying an older number than the latest allocation are stale.
func (s *State) NextSeq(kind QueryKind) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[kind]++
	return s.seq[kind]
}

// IsCurrent reports whether seq is the latest allocation for kind.
func (s *State) IsCurrent(kind QueryKind, seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq[kind] == seq
}

// SetLoading sets the loading flag for a query kind.
func (s *State) SetLoading(kind QueryKind, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading[kind] = loading
}

// IsLoading returns the loading flag for a query kind.
func (s *State) IsLoading(kind QueryKind) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[kind]
}

// AnyLoading returns true if any query is in flight.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.loading {
		if l {
			return true
		}
	}
	return false
}

// SetSeries stores a series response together with its derived KPI totals.
func (s *State) SetSeries(resp *models.SeriesResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = resp
	if resp != nil {
		s.kpis = stats.AggregateKPIs(resp.Points)
	} else {
		s.kpis = stats.KPITotals{}
	}
	s.LastUpdated = time.Now()
}

// Series returns the last loaded series response.
func (s *State) Series() *models.SeriesResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series
}

// KPIs returns the aggregated totals for the last loaded series.
func (s *State) KPIs() stats.KPITotals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kpis
}

// SetHeatmap stores the heatmap derived from the hourly series.
func (s *State) SetHeatmap(h *stats.Heatmap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heatmap = h
	s.LastUpdated = time.Now()
}

// Heatmap returns the last computed heatmap.
func (s *State) Heatmap() *stats.Heatmap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.heatmap
}

// HeatmapField returns the value field the heatmap is rendered from.
func (s *State) HeatmapField() stats.ValueField {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.heatmapVals
}

// SetHeatmapField selects the value field for the heatmap.
func (s *State) SetHeatmapField(f stats.ValueField) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heatmapVals = f
}

// SetRank stores a leaderboard response.
func (s *State) SetRank(resp *models.RankResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rank = resp
	s.LastUpdated = time.Now()
}

// Rank returns the last loaded leaderboard response.
func (s *State) Rank() *models.RankResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rank
}

// SetAnomalies stores an anomaly findings response.
func (s *State) SetAnomalies(resp *models.AnomalyResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anomalies = resp
	s.LastUpdated = time.Now()
}

// Anomalies returns the last loaded anomaly response.
func (s *State) Anomalies() *models.AnomalyResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.anomalies
}

// SetHealth stores the last health probe result.
func (s *State) SetHealth(status *models.HealthStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = status
	s.healthErr = err
}

// Health returns the last health probe result.
func (s *State) Health() (*models.HealthStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health, s.healthErr
}

// GetLastUpdated returns the last time data arrived.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last data arrival.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}
