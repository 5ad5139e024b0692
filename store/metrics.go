package store

import (
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a PebbleStore's internal pebble.Metrics as
// Prometheus gauges/counters, the same collector-per-database shape the
// teacher wires its own pebble handle through, trimmed to the subset of
// pebble.Metrics the search engine's operators actually care about:
// compaction backlog, memtable pressure, and WAL growth.
type Collector struct {
	db *pebble.DB

	compactionCount         *prometheus.Desc
	compactionEstimatedDebt *prometheus.Desc
	compactionInProgress    *prometheus.Desc

	memtableSize  *prometheus.Desc
	memtableCount *prometheus.Desc

	walSize    *prometheus.Desc
	walBytesIn *prometheus.Desc
}

// NewCollector builds a Collector for a PebbleStore's pebble handle.
func (s *PebbleStore) NewCollector() *Collector {
	return &Collector{
		db: s.db,
		compactionCount: prometheus.NewDesc(
			"pix_store_compaction_total", "Total compactions performed", nil, nil),
		compactionEstimatedDebt: prometheus.NewDesc(
			"pix_store_compaction_estimated_debt_bytes", "Bytes estimated to reach a stable state", nil, nil),
		compactionInProgress: prometheus.NewDesc(
			"pix_store_compaction_in_progress_bytes", "Bytes currently being compacted", nil, nil),
		memtableSize: prometheus.NewDesc(
			"pix_store_memtable_size_bytes", "Current memtable size", nil, nil),
		memtableCount: prometheus.NewDesc(
			"pix_store_memtable_count", "Current memtable count", nil, nil),
		walSize: prometheus.NewDesc(
			"pix_store_wal_size_bytes", "Size of live WAL data", nil, nil),
		walBytesIn: prometheus.NewDesc(
			"pix_store_wal_bytes_in_total", "Logical bytes written to the WAL", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.compactionCount
	ch <- c.compactionEstimatedDebt
	ch <- c.compactionInProgress
	ch <- c.memtableSize
	ch <- c.memtableCount
	ch <- c.walSize
	ch <- c.walBytesIn
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.db.Metrics()
	ch <- prometheus.MustNewConstMetric(c.compactionCount, prometheus.CounterValue, float64(m.Compact.Count))
	ch <- prometheus.MustNewConstMetric(c.compactionEstimatedDebt, prometheus.GaugeValue, float64(m.Compact.EstimatedDebt))
	ch <- prometheus.MustNewConstMetric(c.compactionInProgress, prometheus.GaugeValue, float64(m.Compact.InProgressBytes))
	ch <- prometheus.MustNewConstMetric(c.memtableSize, prometheus.GaugeValue, float64(m.MemTable.Size))
	ch <- prometheus.MustNewConstMetric(c.memtableCount, prometheus.GaugeValue, float64(m.MemTable.Count))
	ch <- prometheus.MustNewConstMetric(c.walSize, prometheus.GaugeValue, float64(m.WAL.Size))
	ch <- prometheus.MustNewConstMetric(c.walBytesIn, prometheus.CounterValue, float64(m.WAL.BytesIn))
}
