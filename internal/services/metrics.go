package services

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type MetricSample struct {
	CapturedAt        time.Time `json:"capturedAt"`
	ProcessMemoryRSS  int64     `json:"processMemoryRssBytes"`
	SystemMemoryTotal int64     `json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `json:"systemMemoryUsedBytes"`
	DiskTotalBytes    int64     `json:"diskTotalBytes"`
	DiskUsedBytes     int64     `json:"diskUsedBytes"`
	ProcessCpuLoad    float64   `json:"processCpuLoad"`
	SystemCpuLoad     float64   `json:"systemCpuLoad"`
}

// CaptureMetrics samples host and process usage for the dashboard's system
// panel. Probe failures degrade to zero values rather than erroring out.
func CaptureMetrics(diskPath string) MetricSample {
	proc, _ := process.NewProcess(int32(os.Getpid()))
	memStat, _ := mem.VirtualMemory()
	diskStat, err := disk.Usage(diskPath)
	if err != nil {
		diskStat, _ = disk.Usage("/")
	}
	sample := MetricSample{CapturedAt: time.Now().UTC()}
	if proc != nil {
		if rss, _ := proc.MemoryInfo(); rss != nil {
			sample.ProcessMemoryRSS = int64(rss.RSS)
		}
		cpuPerc, _ := proc.CPUPercent()
		sample.ProcessCpuLoad = cpuPerc / 100.0
	}
	if memStat != nil {
		sample.SystemMemoryTotal = int64(memStat.Total)
		sample.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	if diskStat != nil {
		sample.DiskTotalBytes = int64(diskStat.Total)
		sample.DiskUsedBytes = int64(diskStat.Used)
	}
	if sysCPU, _ := cpu.Percent(0, false); len(sysCPU) > 0 {
		sample.SystemCpuLoad = sysCPU[0] / 100.0
	}
	return sample
}

// MetricsRing keeps the most recent samples in memory for the history
// endpoint; the mock has no durable metrics table.
type MetricsRing struct {
	mu      sync.Mutex
	samples []MetricSample
	limit   int
}

func NewMetricsRing(limit int) *MetricsRing {
	if limit <= 0 {
		limit = 500
	}
	return &MetricsRing{limit: limit}
}

func (r *MetricsRing) Add(sample MetricSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, sample)
	if len(r.samples) > r.limit {
		r.samples = r.samples[len(r.samples)-r.limit:]
	}
}

// Latest returns up to limit samples, oldest first.
func (r *MetricsRing) Latest(limit int) []MetricSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.samples) {
		limit = len(r.samples)
	}
	out := make([]MetricSample, limit)
	copy(out, r.samples[len(r.samples)-limit:])
	return out
}

type MetricsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	ch      chan MetricSample
}

func NewMetricsHub() *MetricsHub {
	return &MetricsHub{
		clients: map[*websocket.Conn]bool{},
		ch:      make(chan MetricSample, 16),
	}
}

func (h *MetricsHub) Run(ctx context.Context) {
	for {
		select {
		case sample := <-h.ch:
			h.mu.Lock()
			for conn := range h.clients {
				_ = conn.WriteJSON(sample)
			}
			h.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

func (h *MetricsHub) Broadcast(sample MetricSample) {
	select {
	case h.ch <- sample:
	default:
	}
}

func (h *MetricsHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *MetricsHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}
