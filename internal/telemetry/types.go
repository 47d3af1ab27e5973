package telemetry

// Report is the typed view of one monitoring frame.
type Report struct {
	Timestamp string              `mapstructure:"timestamp" json:"timestamp"`
	System    System              `mapstructure:"system" json:"system"`
	VLLM      VLLM                `mapstructure:"vllm" json:"vllm"`
	Models    []Model             `mapstructure:"models" json:"models"`
	Downloads map[string]Download `mapstructure:"downloads" json:"downloads"`
}

// System holds host resource usage.
type System struct {
	CPU     CPU     `mapstructure:"cpu" json:"cpu"`
	Memory  Memory  `mapstructure:"memory" json:"memory"`
	GPU     GPU     `mapstructure:"gpu" json:"gpu"`
	Disks   []Disk  `mapstructure:"disks" json:"disks"`
	Network Network `mapstructure:"network" json:"network"`
}

type CPU struct {
	UsagePercent   float64   `mapstructure:"usage_percent" json:"usage_percent"`
	CoreCount      int       `mapstructure:"core_count" json:"core_count"`
	FrequencyMHz   float64   `mapstructure:"frequency_mhz" json:"frequency_mhz"`
	PerCorePercent []float64 `mapstructure:"per_core_percent" json:"per_core_percent"`
	Temperature    *float64  `mapstructure:"temperature" json:"temperature,omitempty"` // nil when the host has no sensor
}

type Memory struct {
	TotalGB     float64 `mapstructure:"total_gb" json:"total_gb"`
	UsedGB      float64 `mapstructure:"used_gb" json:"used_gb"`
	AvailableGB float64 `mapstructure:"available_gb" json:"available_gb"`
	Percent     float64 `mapstructure:"percent" json:"percent"`
}

// GPU describes the first NVIDIA device. When Available is false, Name may
// carry the probe error instead of a device name.
type GPU struct {
	Available          bool    `mapstructure:"available" json:"available"`
	Name               string  `mapstructure:"name" json:"name"`
	MemoryTotalGB      float64 `mapstructure:"memory_total_gb" json:"memory_total_gb"`
	MemoryUsedGB       float64 `mapstructure:"memory_used_gb" json:"memory_used_gb"`
	MemoryPercent      float64 `mapstructure:"memory_percent" json:"memory_percent"`
	UtilizationPercent float64 `mapstructure:"utilization_percent" json:"utilization_percent"`
	TemperatureC       float64 `mapstructure:"temperature_c" json:"temperature_c"`
	PowerWatts         float64 `mapstructure:"power_watts" json:"power_watts"`
}

type Disk struct {
	MountPoint string  `mapstructure:"mount_point" json:"mount_point"`
	TotalGB    float64 `mapstructure:"total_gb" json:"total_gb"`
	UsedGB     float64 `mapstructure:"used_gb" json:"used_gb"`
	FreeGB     float64 `mapstructure:"free_gb" json:"free_gb"`
	Percent    float64 `mapstructure:"percent" json:"percent"`
}

type Network struct {
	BytesSentMB float64 `mapstructure:"bytes_sent_mb" json:"bytes_sent_mb"`
	BytesRecvMB float64 `mapstructure:"bytes_recv_mb" json:"bytes_recv_mb"`
	PacketsSent int64   `mapstructure:"packets_sent" json:"packets_sent"`
	PacketsRecv int64   `mapstructure:"packets_recv" json:"packets_recv"`
}

type VLLM struct {
	Server  VLLMServer  `mapstructure:"server" json:"server"`
	Metrics VLLMMetrics `mapstructure:"metrics" json:"metrics"`
}

type VLLMServer struct {
	Connected    bool   `mapstructure:"connected" json:"connected"`
	URL          string `mapstructure:"url" json:"url"`
	Status       string `mapstructure:"status" json:"status"`
	Version      string `mapstructure:"version" json:"version"`
	ModelsLoaded int    `mapstructure:"models_loaded" json:"models_loaded"`
}

type VLLMMetrics struct {
	RequestsTotal          int64   `mapstructure:"requests_total" json:"requests_total"`
	RequestsRunning        int64   `mapstructure:"requests_running" json:"requests_running"`
	TokensGenerated        int64   `mapstructure:"tokens_generated" json:"tokens_generated"`
	AvgLatencyMs           float64 `mapstructure:"avg_latency_ms" json:"avg_latency_ms"`
	ThroughputTokensPerSec float64 `mapstructure:"throughput_tokens_per_sec" json:"throughput_tokens_per_sec"`
}

// Model is one model process managed by the backend.
type Model struct {
	Name   string `mapstructure:"name" json:"name"`
	Port   string `mapstructure:"port" json:"port"` // usually numeric, kept as text
	Status string `mapstructure:"status" json:"status"`
}

// Model statuses reported by the backend.
const (
	ModelStarting = "starting"
	ModelRunning  = "running"
	ModelZombie   = "zombie"
)

// Download is one model download tracked by the backend.
type Download struct {
	Status   string `mapstructure:"status" json:"status"`
	Progress string `mapstructure:"progress" json:"progress"`
	Log      string `mapstructure:"log" json:"log"`
}

// Download statuses reported by the backend.
const (
	DownloadActive = "downloading"
	DownloadDone   = "done"
	DownloadError  = "error"
)
