// Package control provides the adaptive control plane: rolling metric
// windows with statistical summaries, the situational context, and the
// heuristic engine that turns both into renegotiation decisions.
package control

// ExecutionPhase is the engine's coarse lifecycle phase.
type ExecutionPhase int

const (
	// PhaseBoot covers startup and loading.
	PhaseBoot ExecutionPhase = iota
	// PhaseMenu covers menu and frontend screens.
	PhaseMenu
	// PhaseSimulation is active gameplay.
	PhaseSimulation
	// PhaseBackground means the application is not in the foreground.
	PhaseBackground
)

// String returns the phase name.
func (p ExecutionPhase) String() string {
	switch p {
	case PhaseBoot:
		return "Boot"
	case PhaseMenu:
		return "Menu"
	case PhaseSimulation:
		return "Simulation"
	case PhaseBackground:
		return "Background"
	default:
		return "Unknown"
	}
}

// ThermalStatus is the device's thermal pressure level.
type ThermalStatus int

const (
	// ThermalCool is nominal.
	ThermalCool ThermalStatus = iota
	// ThermalWarm merits monitoring but no action.
	ThermalWarm
	// ThermalThrottling means the platform is already reducing clocks.
	ThermalThrottling
	// ThermalCritical requires an emergency load reduction.
	ThermalCritical
)

// String returns the thermal state name.
func (t ThermalStatus) String() string {
	switch t {
	case ThermalCool:
		return "Cool"
	case ThermalWarm:
		return "Warm"
	case ThermalThrottling:
		return "Throttling"
	case ThermalCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// BatteryLevel is the power source state.
type BatteryLevel int

const (
	// BatteryMains means wall power.
	BatteryMains BatteryLevel = iota
	// BatteryHigh is a comfortably charged battery.
	BatteryHigh
	// BatteryLow merits power saving.
	BatteryLow
	// BatteryCritical requires mandatory power saving.
	BatteryCritical
)

// String returns the battery level name.
func (b BatteryLevel) String() string {
	switch b {
	case BatteryMains:
		return "Mains"
	case BatteryHigh:
		return "High"
	case BatteryLow:
		return "Low"
	case BatteryCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// HardwareState is the sampled hardware context.
type HardwareState struct {
	Thermal ThermalStatus
	Battery BatteryLevel
	// CPULoad and GPULoad are utilizations in [0, 1].
	CPULoad float32
	GPULoad float32
}

// Context is the full situational model the heuristic engine consumes.
type Context struct {
	Phase    ExecutionPhase
	Hardware HardwareState
}

// SimulationContext returns a nominal gameplay context.
func SimulationContext() Context {
	return Context{Phase: PhaseSimulation}
}
