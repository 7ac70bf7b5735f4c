package logs

import (
	"code.xxxxx.cn/platform/yarnlogs/pkg/yarn"
)

// Phase is where the logs of an application live
type Phase int

/* application phases */
const (
	// PhaseRunning logs are served by the node managers
	PhaseRunning Phase = iota
	// PhaseFinished logs are read from the archive
	PhaseFinished
	// PhasePending no container has produced logs yet
	PhasePending
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	case PhasePending:
		return "pending"
	}
	return "unknown"
}

// ClassifyPhase map an application report to a phase, a failed lookup is treated as finished
func ClassifyPhase(report *yarn.ApplicationReport, err error) Phase {
	if err != nil || report == nil {
		return PhaseFinished
	}
	switch {
	case report.State.IsPending():
		return PhasePending
	case report.State.IsFinal():
		return PhaseFinished
	}
	return PhaseRunning
}
