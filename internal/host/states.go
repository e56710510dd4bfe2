// internal/host/states.go
package host

// PrinterState is the print job state reported by the host
// (print_stats.state).
type PrinterState string

const (
	StateStandby   PrinterState = "standby"
	StatePrinting  PrinterState = "printing"
	StatePaused    PrinterState = "paused"
	StateComplete  PrinterState = "complete"
	StateError     PrinterState = "error"
	StateCancelled PrinterState = "cancelled"
	StateUnknown   PrinterState = "unknown"
)

// PrinterStateFor maps a raw host value, falling back to unknown.
func PrinterStateFor(v string) PrinterState {
	switch s := PrinterState(v); s {
	case StateStandby, StatePrinting, StatePaused, StateComplete, StateError, StateCancelled:
		return s
	default:
		return StateUnknown
	}
}

// Active reports whether the printer is actively printing. Paused
// counts: the job is still in flight and webcams should run at the
// printing rate.
func (s PrinterState) Active() bool {
	return s == StatePrinting || s == StatePaused
}

// KlippyState is the firmware state reported by the host.
type KlippyState string

const (
	KlippyReady        KlippyState = "ready"
	KlippyError        KlippyState = "error"
	KlippyShutdown     KlippyState = "shutdown"
	KlippyStartup      KlippyState = "startup"
	KlippyDisconnected KlippyState = "disconnected"
	KlippyUnknown      KlippyState = "unknown"
)

// KlippyStateFor maps a raw host value, falling back to unknown.
func KlippyStateFor(v string) KlippyState {
	switch s := KlippyState(v); s {
	case KlippyReady, KlippyError, KlippyShutdown, KlippyStartup, KlippyDisconnected:
		return s
	default:
		return KlippyUnknown
	}
}
