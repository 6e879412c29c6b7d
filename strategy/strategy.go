package strategy

import "time"

// Strategy bundles the tunables for one loading run.
type Strategy struct {
	Name string

	// MaxConcurrent bounds how many modules load in parallel within a
	// batch. Batches themselves run strictly one after another.
	MaxConcurrent int

	// Timeout is the hard per-attempt deadline covering fetch, compile,
	// instantiate, and the bindings initializer.
	Timeout time.Duration

	// RetryAttempts is the total number of attempts per module.
	RetryAttempts int

	// UseStreaming enables the chunked fetch path with progress
	// reporting; on failure the same attempt falls back to a buffered
	// fetch.
	UseStreaming bool

	// PreloadNonCritical starts the optional phase in the background
	// after the blocking phases settle.
	PreloadNonCritical bool
}

// The three fixed presets.
var (
	Fast = Strategy{
		Name:               "fast",
		MaxConcurrent:      4,
		Timeout:            10 * time.Second,
		RetryAttempts:      2,
		UseStreaming:       true,
		PreloadNonCritical: true,
	}

	Moderate = Strategy{
		Name:          "moderate",
		MaxConcurrent: 2,
		Timeout:       20 * time.Second,
		RetryAttempts: 3,
		UseStreaming:  true,
	}

	Slow = Strategy{
		Name:          "slow",
		MaxConcurrent: 1,
		Timeout:       45 * time.Second,
		RetryAttempts: 1,
	}
)

// ByName returns a preset by its name.
func ByName(name string) (Strategy, bool) {
	switch name {
	case Fast.Name:
		return Fast, true
	case Moderate.Name:
		return Moderate, true
	case Slow.Name:
		return Slow, true
	}
	return Strategy{}, false
}

// Conditions captures a read-only snapshot of the network. Known is false
// when no network information source is available.
type Conditions struct {
	// EffectiveType mirrors the Network Information API values:
	// "slow-2g", "2g", "3g", "4g".
	EffectiveType string

	// DownlinkMbps is the estimated downstream bandwidth in megabits
	// per second.
	DownlinkMbps float64

	Known bool
}

// defaultBytesPerSecond is a conservative 1 Mbps when bandwidth is unknown.
const defaultBytesPerSecond = 128 * 1024

// Select maps conditions to a preset. Deterministic and side-effect free.
func Select(c Conditions) Strategy {
	if !c.Known {
		return Moderate
	}
	if c.DownlinkMbps > 0 && c.DownlinkMbps < 0.5 || c.EffectiveType == "slow-2g" {
		return Slow
	}
	if c.DownlinkMbps > 0 && c.DownlinkMbps < 1.5 || c.EffectiveType == "2g" || c.EffectiveType == "3g" {
		return Moderate
	}
	return Fast
}

// BytesPerSecond converts the downlink estimate to bytes per second for
// time estimation, falling back to 1 Mbps when unknown.
func (c Conditions) BytesPerSecond() float64 {
	if !c.Known || c.DownlinkMbps <= 0 {
		return defaultBytesPerSecond
	}
	return c.DownlinkMbps * 1_000_000 / 8
}
