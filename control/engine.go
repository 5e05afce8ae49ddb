package control

import (
	"fmt"

	"github.com/quartzengine/quartz/telemetry"
)

// Latency targets, in milliseconds of frame budget. Larger is slower.
const (
	latency60FPS float32 = 16.66
	latency30FPS float32 = 33.33
	latency20FPS float32 = 50.0
	latencyIdle  float32 = 200.0
)

// Frame-time heuristics thresholds.
const (
	// frameTimeWarnMS is the average above which frame time is
	// problematic.
	frameTimeWarnMS = 18.0
	// frameTimeCriticalMS is the average above which frame time is
	// critically high.
	frameTimeCriticalMS = 25.0
	// frameTimeVarianceThreshold flags stutter.
	frameTimeVarianceThreshold = 4.0
	// frameTimeTrendThreshold flags a rising slope per window.
	frameTimeTrendThreshold = 2.0
	// minSamples gates the frame-time heuristics until the window has
	// signal.
	minSamples = 10
)

// Load thresholds.
const (
	cpuLoadCritical float32 = 0.95
	gpuLoadCritical float32 = 0.95
	gpuLoadWarn     float32 = 0.90
)

// deathSpiralPressures is the number of simultaneous heavy pressures
// that indicates cascading failure.
const deathSpiralPressures = 3

// FrameTimeMetricID names the rolling frame-time window consumed by
// the engine.
var FrameTimeMetricID = telemetry.NewMetricID("renderer", "frame_time")

// AnalysisReport is the heuristic engine's output, consumed by policy
// code in the control plane. The schema is stable within a version.
type AnalysisReport struct {
	// NeedsNegotiation is set when a resource conflict or performance
	// drop calls for a full renegotiation round.
	NeedsNegotiation bool
	// SuggestedLatencyMS is the global frame budget target derived
	// from analysis. Rules only relax it (monotone max), never
	// tighten it.
	SuggestedLatencyMS float32
	// DeathSpiralDetected is set when several subsystems fail their
	// budgets simultaneously and an emergency stop of further
	// scheduling is advised. Advisory: it does not terminate the
	// process.
	DeathSpiralDetected bool
	// Alerts is a human-readable summary for telemetry and logging.
	Alerts []string
}

// HeuristicEngine evaluates the situational model and decides whether
// renegotiation is necessary and what the global performance target
// should be.
type HeuristicEngine struct{}

// NewHeuristicEngine creates an engine.
func NewHeuristicEngine() *HeuristicEngine { return &HeuristicEngine{} }

// relax raises the latency target, never lowering it.
func (r *AnalysisReport) relax(latencyMS float32) {
	r.SuggestedLatencyMS = max(r.SuggestedLatencyMS, latencyMS)
}

// Analyze applies the heuristic rules in order: phase target, thermal,
// battery, frame-time average, stutter variance, trend slope, CPU and
// GPU pressure, and finally death-spiral detection over the
// accumulated pressure count. The Background phase short-circuits
// after its alert.
func (e *HeuristicEngine) Analyze(ctx Context, store *MetricStore) AnalysisReport {
	report := AnalysisReport{SuggestedLatencyMS: latency60FPS}
	pressure := 0

	switch ctx.Phase {
	case PhaseBoot, PhaseMenu:
		report.SuggestedLatencyMS = latency30FPS
	case PhaseSimulation:
		report.SuggestedLatencyMS = latency60FPS
	case PhaseBackground:
		report.SuggestedLatencyMS = latencyIdle
	}

	// Background always negotiates so agents can throttle down, and
	// no further rules apply.
	if ctx.Phase == PhaseBackground {
		report.NeedsNegotiation = true
		report.Alerts = append(report.Alerts, "Phase: Background, reducing all agents to minimum.")
		return report
	}

	switch ctx.Hardware.Thermal {
	case ThermalCritical:
		slogger().Warn("heuristic: critical thermal state, emergency budget reduction")
		report.NeedsNegotiation = true
		report.relax(latency20FPS)
		report.Alerts = append(report.Alerts, "Thermal: CRITICAL, emergency load reduction.")
		pressure++
	case ThermalThrottling:
		slogger().Warn("heuristic: device is throttling, recommending load reduction")
		report.NeedsNegotiation = true
		report.relax(latency30FPS)
		report.Alerts = append(report.Alerts, "Thermal: Throttling, capping to 30 FPS.")
		pressure++
	case ThermalWarm:
		slogger().Debug("heuristic: device is warm, monitoring")
	case ThermalCool:
	}

	switch ctx.Hardware.Battery {
	case BatteryCritical:
		slogger().Warn("heuristic: battery critical, mandatory power saving")
		report.NeedsNegotiation = true
		report.relax(latency20FPS)
		report.Alerts = append(report.Alerts, "Battery: CRITICAL, mandatory power saving.")
		pressure++
	case BatteryLow:
		slogger().Info("heuristic: battery low, reducing target to 30 FPS")
		report.NeedsNegotiation = true
		report.relax(latency30FPS)
		report.Alerts = append(report.Alerts, "Battery: Low, capping to 30 FPS.")
	case BatteryHigh, BatteryMains:
	}

	if store.SampleCount(FrameTimeMetricID) >= minSamples {
		avg := store.Average(FrameTimeMetricID)
		if avg > frameTimeCriticalMS {
			slogger().Warn("heuristic: frame time critically high", "avg_ms", avg)
			report.NeedsNegotiation = true
			report.Alerts = append(report.Alerts, fmt.Sprintf(
				"FrameTime: CRITICAL, avg %.2fms exceeds %.0fms.", avg, float64(frameTimeCriticalMS)))
			pressure++
		} else if avg > frameTimeWarnMS {
			slogger().Debug("heuristic: frame time elevated", "avg_ms", avg)
			report.NeedsNegotiation = true
			report.Alerts = append(report.Alerts, fmt.Sprintf(
				"FrameTime: Elevated, avg %.2fms above %.0fms threshold.", avg, float64(frameTimeWarnMS)))
		}

		if variance := store.Variance(FrameTimeMetricID); variance > frameTimeVarianceThreshold {
			slogger().Info("heuristic: stutter detected", "variance", variance)
			report.NeedsNegotiation = true
			report.Alerts = append(report.Alerts, fmt.Sprintf(
				"Stutter: Variance %.2f exceeds threshold %.1f.", variance, float64(frameTimeVarianceThreshold)))
		}

		if trend := store.Trend(FrameTimeMetricID); trend > frameTimeTrendThreshold {
			slogger().Info("heuristic: frame time rising", "trend_ms", trend)
			report.NeedsNegotiation = true
			report.Alerts = append(report.Alerts, fmt.Sprintf(
				"Trend: Frame time rising at %+.2fms/window.", trend))
		}
	}

	if ctx.Hardware.CPULoad > cpuLoadCritical {
		slogger().Warn("heuristic: CPU load critical", "load", ctx.Hardware.CPULoad)
		report.NeedsNegotiation = true
		report.Alerts = append(report.Alerts, fmt.Sprintf(
			"CPU: Load %.0f%% exceeds critical threshold.", ctx.Hardware.CPULoad*100))
		pressure++
	}

	if ctx.Hardware.GPULoad > gpuLoadCritical {
		slogger().Warn("heuristic: GPU load critical", "load", ctx.Hardware.GPULoad)
		report.NeedsNegotiation = true
		report.Alerts = append(report.Alerts, fmt.Sprintf(
			"GPU: Load %.0f%% exceeds critical threshold.", ctx.Hardware.GPULoad*100))
		pressure++
	} else if ctx.Hardware.GPULoad > gpuLoadWarn {
		slogger().Debug("heuristic: GPU load elevated", "load", ctx.Hardware.GPULoad)
		report.NeedsNegotiation = true
		report.Alerts = append(report.Alerts, fmt.Sprintf(
			"GPU: Load %.0f%% above warning threshold.", ctx.Hardware.GPULoad*100))
	}

	// Several independent pressure sources active at once indicate
	// cascading failure.
	if pressure >= deathSpiralPressures {
		slogger().Error("heuristic: death spiral detected, emergency stop required",
			"pressures", pressure)
		report.DeathSpiralDetected = true
		report.NeedsNegotiation = true
		report.Alerts = append(report.Alerts, fmt.Sprintf(
			"DEATH SPIRAL: %d simultaneous pressures.", pressure))
	}

	return report
}
