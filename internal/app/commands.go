package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dverley/gatewatch/internal/anomaly"
	"github.com/dverley/gatewatch/internal/api"
	"github.com/dverley/gatewatch/internal/models"
	"github.com/dverley/gatewatch/internal/services"
	"github.com/dverley/gatewatch/internal/stats"
)

const (
	// DefaultTickInterval is the default interval between housekeeping ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// heatmapSlotSec is the fixed bucket width of the heatmap query.
	// Each cell is one hour; finer or coarser buckets would not land
	// on cell boundaries.
	heatmapSlotSec = 3600

	exportDateLayout = "20060102"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// autoRefreshCmd schedules the next overview refresh.
func autoRefreshCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return AutoRefreshMsg{Time: t}
	})
}

// loadSeriesCmd fetches the time series for the query context. The
// sequence number rides along so a superseded response can be dropped.
func loadSeriesCmd(client *api.Client, q models.QueryContext, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.Timeout())
		defer cancel()

		resp, err := client.FetchSeries(ctx, q.Range, q.Granularity())
		return SeriesLoadedMsg{Seq: seq, Query: q, Series: resp, Err: err}
	}
}

// loadHeatmapCmd fetches hourly buckets and folds them into a weekday
// by hour grid.
func loadHeatmapCmd(client *api.Client, q models.QueryContext, field stats.ValueField, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.Timeout())
		defer cancel()

		resp, err := client.FetchSeries(ctx, q.Range, heatmapSlotSec)
		if err != nil {
			return HeatmapLoadedMsg{Seq: seq, Query: q, Err: err}
		}
		h := stats.ToHeatmap(resp.Points, field)
		return HeatmapLoadedMsg{Seq: seq, Query: q, Heatmap: &h}
	}
}

// loadRankCmd fetches the leaderboard for the query context.
func loadRankCmd(client *api.Client, q models.QueryContext, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.Timeout())
		defer cancel()

		resp, err := client.FetchTop(ctx, q.Range, q.Dimension, q.Metric, q.Limit)
		return RankLoadedMsg{Seq: seq, Query: q, Rank: resp, Err: err}
	}
}

// loadAnomaliesCmd fetches anomaly findings for the query context.
func loadAnomaliesCmd(client *api.Client, q models.QueryContext, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), client.Timeout())
		defer cancel()

		resp, err := client.FetchAnomalies(ctx, q.Range, q.Rule, q.RuleParams)
		return AnomaliesLoadedMsg{Seq: seq, Query: q, Anomalies: resp, Err: err}
	}
}

// exportCmd downloads a CSV export mirroring the current query and
// writes it into the export directory.
func exportCmd(mgr *services.Manager, kind api.ExportKind, q models.QueryContext, seq uint64) tea.Cmd {
	return func() tea.Msg {
		client := mgr.Client()
		ctx, cancel := context.WithTimeout(context.Background(), client.Timeout())
		defer cancel()

		extras, filename := exportSpec(kind, q)
		data, err := client.ExportCSV(ctx, kind, q.Range, extras)
		if err != nil {
			return ExportResultMsg{Seq: seq, Err: err}
		}

		path, err := mgr.SaveExport(filename, data)
		return ExportResultMsg{Seq: seq, Path: path, Err: err}
	}
}

// exportSpec builds the query parameters and the local filename for an
// export. The parameters mirror the on-screen query exactly.
func exportSpec(kind api.ExportKind, q models.QueryContext) (map[string]string, string) {
	dates := fmt.Sprintf("%s_%s",
		q.Range.Start().Format(exportDateLayout),
		q.Range.End().Format(exportDateLayout))

	switch kind {
	case api.ExportTop:
		extras := map[string]string{
			"by":     q.Dimension.Wire(),
			"metric": q.Metric.Wire(),
		}
		return extras, fmt.Sprintf("top_%s_%s_%s.csv", q.Dimension.Wire(), q.Metric.Wire(), dates)

	case api.ExportAnomalies:
		extras := anomaly.ExportParams(q.Rule, q.RuleParams)
		return extras, fmt.Sprintf("anomalies_%s_%s.csv", q.Rule.Wire(), dates)

	default:
		extras := map[string]string{
			"slot_sec": strconv.Itoa(q.Granularity()),
		}
		return extras, fmt.Sprintf("dashboard_%s.csv", dates)
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// Commands provides the command factories shared with the tabs.
type Commands struct {
	manager *services.Manager
	state   *State
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager, state *State) *Commands {
	return &Commands{manager: mgr, state: state}
}

// LoadSeries starts a series fetch for the current query.
func (c *Commands) LoadSeries() tea.Cmd {
	q := c.state.Query()
	seq := c.state.NextSeq(QuerySeries)
	c.state.SetLoading(QuerySeries, true)
	return loadSeriesCmd(c.manager.Client(), q, seq)
}

// LoadHeatmap starts an hourly series fetch reduced to a heatmap.
func (c *Commands) LoadHeatmap() tea.Cmd {
	q := c.state.Query()
	seq := c.state.NextSeq(QueryHeatmap)
	c.state.SetLoading(QueryHeatmap, true)
	return loadHeatmapCmd(c.manager.Client(), q, c.state.HeatmapField(), seq)
}

// LoadRank starts a leaderboard fetch for the current query.
func (c *Commands) LoadRank() tea.Cmd {
	q := c.state.Query()
	seq := c.state.NextSeq(QueryTop)
	c.state.SetLoading(QueryTop, true)
	return loadRankCmd(c.manager.Client(), q, seq)
}

// LoadAnomalies starts an anomaly fetch for the current query.
func (c *Commands) LoadAnomalies() tea.Cmd {
	q := c.state.Query()
	seq := c.state.NextSeq(QueryAnomalies)
	c.state.SetLoading(QueryAnomalies, true)
	return loadAnomaliesCmd(c.manager.Client(), q, seq)
}

// Export starts a CSV export download for the current query.
func (c *Commands) Export(kind api.ExportKind) tea.Cmd {
	q := c.state.Query()
	seq := c.state.NextSeq(QueryExport)
	c.state.SetLoading(QueryExport, true)
	return exportCmd(c.manager, kind, q, seq)
}

// SetQuery replaces the query context and broadcasts the change.
func (c *Commands) SetQuery(q models.QueryContext) tea.Cmd {
	c.state.SetQuery(q)
	return func() tea.Msg {
		return QueryChangedMsg{Query: q}
	}
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}
