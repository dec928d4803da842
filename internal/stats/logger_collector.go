package stats

import "github.com/replaylens/replaylens/internal/logger"

// LoggerCollector writes metrics to the debug log. Useful in development
// when no Prometheus registry is wired up.
type LoggerCollector struct {
	log *logger.Logger
}

var _ Collector = (*LoggerCollector)(nil)

// NewLogger creates a collector that emits metrics as debug log lines.
func NewLogger(log *logger.Logger) *LoggerCollector {
	if log == nil {
		log = logger.Default()
	}
	return &LoggerCollector{log: log.WithPrefix("stats")}
}

func (c *LoggerCollector) IncCounter(name string, delta int64) {
	c.log.Debug("counter %s += %d", name, delta)
}

func (c *LoggerCollector) SetGauge(name string, value int64) {
	c.log.Debug("gauge %s = %d", name, value)
}

func (c *LoggerCollector) ObserveHistogram(name string, value float64) {
	c.log.Debug("histogram %s <- %f", name, value)
}
