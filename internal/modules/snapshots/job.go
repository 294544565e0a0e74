package snapshots

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/calendar"
	"github.com/salesops/advisorpulse/internal/modules/performance"
)

// DefaultRetentionWeeks is how long closing-week snapshots are kept.
const DefaultRetentionWeeks = 52

// WeekSnapshotter computes the stats of every active advisor for a week.
type WeekSnapshotter interface {
	Today() calendar.Date
	SnapshotWeek(ctx context.Context, anchor string) (performance.WeekRange, []performance.AdvisorWeekStats, error)
}

// SnapshotJob stores the last closed week of every active advisor. It is
// scheduled shortly after Monday 00:00 so the whole previous week is in.
type SnapshotJob struct {
	source         WeekSnapshotter
	store          *Store
	retentionWeeks int
	timeout        time.Duration
	log            zerolog.Logger
}

// NewSnapshotJob creates a snapshot job. retentionWeeks <= 0 uses DefaultRetentionWeeks.
func NewSnapshotJob(source WeekSnapshotter, store *Store, retentionWeeks int) *SnapshotJob {
	if retentionWeeks <= 0 {
		retentionWeeks = DefaultRetentionWeeks
	}
	return &SnapshotJob{
		source:         source,
		store:          store,
		retentionWeeks: retentionWeeks,
		timeout:        2 * time.Minute,
		log:            zerolog.Nop(),
	}
}

// SetLogger sets the logger for the job
func (j *SnapshotJob) SetLogger(log zerolog.Logger) {
	j.log = log.With().Str("job", j.Name()).Logger()
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "weekly_snapshots"
}

// Run computes and stores the previous week, then prunes expired snapshots.
func (j *SnapshotJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	closed := calendar.MondayOf(j.source.Today()).AddDays(-7)
	week, stats, err := j.source.SnapshotWeek(ctx, closed.String())
	if err != nil {
		return fmt.Errorf("failed to compute week stats: %w", err)
	}

	stored := 0
	for _, s := range stats {
		if err := j.store.Put(ctx, week.WeekStart, s); err != nil {
			j.log.Error().Err(err).Str("advisor_id", s.AdvisorID).Msg("Failed to store snapshot")
			continue
		}
		stored++
	}

	pruned, err := j.store.Prune(ctx, week.WeekStart.AddDays(-7*j.retentionWeeks))
	if err != nil {
		j.log.Warn().Err(err).Msg("Failed to prune snapshots")
	}

	j.log.Info().
		Str("week_start", week.WeekStart.String()).
		Int("advisors", len(stats)).
		Int("stored", stored).
		Int64("pruned", pruned).
		Msg("Weekly snapshots stored")

	if stored < len(stats) {
		return fmt.Errorf("stored %d of %d snapshots", stored, len(stats))
	}
	return nil
}
