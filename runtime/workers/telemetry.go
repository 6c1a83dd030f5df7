package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"cineverse-chat/contract"
)

var _ contract.Worker = (*TelemetryWorker)(nil)

// Gauge reads one instantaneous value, e.g. online users or queued tasks.
type Gauge func() int

// TelemetryWorker periodically logs process health (RSS, CPU) together with
// the chat engine's own gauges. Runs under the supervisor.
type TelemetryWorker struct {
	log      *slog.Logger
	interval time.Duration
	online   Gauge
	queued   Gauge
}

func NewTelemetryWorker(log *slog.Logger, interval time.Duration, online, queued Gauge) *TelemetryWorker {
	return &TelemetryWorker{log: log, interval: interval, online: online, queued: queued}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("engine stats",
				"ram_bytes", rss,
				"cpu_percent", cpu,
				"online_users", w.online(),
				"queued_tasks", w.queued())
		}
	}
}

// selfStats retrieves memory and CPU usage for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
