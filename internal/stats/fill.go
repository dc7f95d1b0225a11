package stats

import (
	"time"

	"github.com/dverley/gatewatch/internal/models"
)

// FillGaps returns a series with exactly one point per granularity
// slot covering the range, inserting zero-valued points for slots the
// backend omitted. Fixed-width charts and the heatmap rely on every
// slot being present. Points are assumed to be in bucket order, which
// the backend guarantees.
func FillGaps(r models.TimeRange, slotSec int, points []models.SeriesPoint) []models.SeriesPoint {
	if slotSec <= 0 {
		return points
	}

	slotMS := int64(slotSec) * 1000
	firstSlot := r.StartMS - r.StartMS%slotMS
	slots := int((r.EndMS-firstSlot)/slotMS) + 1

	byBucket := make(map[int64]models.SeriesPoint, len(points))
	for _, p := range points {
		byBucket[p.Bucket.UnixMilli()] = p
	}

	filled := make([]models.SeriesPoint, 0, slots)
	for i := range slots {
		bucketMS := firstSlot + int64(i)*slotMS
		if p, ok := byBucket[bucketMS]; ok {
			filled = append(filled, p)
			continue
		}
		filled = append(filled, models.SeriesPoint{Bucket: time.UnixMilli(bucketMS).UTC()})
	}
	return filled
}
