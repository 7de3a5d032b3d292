package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ops-agent/backend/internal/nlq"
	"github.com/ops-agent/backend/pkg/logger"
)

// maxPoints caps how many samples a chart carries; longer windows are
// downsampled by striding.
const maxPoints = 500

// metricItemKeys maps a chart dataset label to the backend item key that
// backs it. Values for the idle-CPU item are inverted to usage.
var metricItemKeys = map[string]struct {
	key    string
	invert bool
}{
	"CPU %":     {key: "system.cpu.util[,idle]", invert: true},
	"Memória %": {key: "vm.memory.util", invert: false},
	"Disco %":   {key: "vfs.fs.size[/,pused]", invert: false},
}

// Fetcher populates chart specifications with real time-series values
// from the monitoring datastore's read replica.
type Fetcher struct {
	db *sql.DB
}

func NewFetcher(db *sql.DB) *Fetcher {
	return &Fetcher{db: db}
}

// Populate fills chart.Labels and chart.Datasets[i].Data with history
// values for the window. A chart whose metric has no matching item on
// the host is returned unchanged rather than failing.
func (f *Fetcher) Populate(ctx context.Context, chart *nlq.ChartArtifact, host string, window nlq.TimeWindow) error {
	if len(chart.Datasets) == 0 {
		return nil
	}

	dataset := &chart.Datasets[0]
	metric, ok := metricItemKeys[dataset.Label]
	if !ok {
		return nil
	}

	itemID, err := f.findItem(ctx, host, metric.key)
	if err != nil {
		return err
	}
	if itemID == 0 {
		logger.Debug("No item for chart metric",
			zap.String("host", host),
			zap.String("key", metric.key),
		)
		return nil
	}

	query := `SELECT clock, value
FROM history
WHERE itemid = ?
  AND clock > ?
  AND clock <= ?
ORDER BY clock ASC`

	rows, err := f.db.QueryContext(ctx, query, itemID, window.From.Unix(), window.To.Unix())
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}
	defer rows.Close()

	var clocks []int64
	var values []float64
	for rows.Next() {
		var clock int64
		var value float64
		if err := rows.Scan(&clock, &value); err != nil {
			return fmt.Errorf("failed to scan history row: %w", err)
		}
		if metric.invert {
			value = 100 - value
		}
		clocks = append(clocks, clock)
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate history: %w", err)
	}

	clocks, values = Downsample(clocks, values, maxPoints)

	labels := make([]string, len(clocks))
	for i, clock := range clocks {
		labels[i] = time.Unix(clock, 0).Format("2006-01-02 15:04")
	}

	chart.Labels = labels
	dataset.Data = values

	logger.Debug("Chart populated",
		zap.String("host", host),
		zap.Int("points", len(values)),
	)
	return nil
}

func (f *Fetcher) findItem(ctx context.Context, host, key string) (int64, error) {
	query := `SELECT i.itemid
FROM items i
JOIN hosts h ON i.hostid = h.hostid
WHERE i.key_ = ?
  AND h.name LIKE ?
LIMIT 1`

	pattern := "%"
	if host != "" {
		pattern = "%" + host + "%"
	}

	var itemID int64
	err := f.db.QueryRowContext(ctx, query, key, pattern).Scan(&itemID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find item: %w", err)
	}
	return itemID, nil
}

// Downsample strides over the series so it carries at most max points.
// Clock/value pairs stay aligned.
func Downsample(clocks []int64, values []float64, max int) ([]int64, []float64) {
	if len(values) <= max || max <= 0 {
		return clocks, values
	}

	stride := (len(values) + max - 1) / max
	outClocks := make([]int64, 0, max)
	outValues := make([]float64, 0, max)
	for i := 0; i < len(values); i += stride {
		outClocks = append(outClocks, clocks[i])
		outValues = append(outValues, values[i])
	}
	return outClocks, outValues
}

// FormatValue renders a metric value with its unit the way the
// monitoring UI does: percentages keep two decimals, byte values scale
// to the nearest binary magnitude.
func FormatValue(value float64, units string) string {
	switch units {
	case "":
		return fmt.Sprintf("%g", value)
	case "%":
		return fmt.Sprintf("%.2f%%", value)
	case "B", "b", "bytes", "Bytes":
		switch {
		case value < 1024:
			return fmt.Sprintf("%.2f B", value)
		case value < 1024*1024:
			return fmt.Sprintf("%.2f KB", value/1024)
		case value < 1024*1024*1024:
			return fmt.Sprintf("%.2f MB", value/(1024*1024))
		case value < 1024*1024*1024*1024:
			return fmt.Sprintf("%.2f GB", value/(1024*1024*1024))
		default:
			return fmt.Sprintf("%.2f TB", value/(1024*1024*1024*1024))
		}
	default:
		return fmt.Sprintf("%.2f %s", value, units)
	}
}
