package runner

import "time"

// StepStatus represents the state of a step
type StepStatus int

const (
	StepRunning StepStatus = iota
	StepSuccess
	StepFailed
)

// Step records one stage of the run sequence
type Step struct {
	Name      string
	Status    StepStatus
	ExitCode  int
	StartTime time.Time
	EndTime   time.Time
}

func startStep(name string, now time.Time) *Step {
	return &Step{Name: name, Status: StepRunning, StartTime: now}
}

func (s *Step) finish(code int, now time.Time) {
	s.ExitCode = code
	s.EndTime = now
	if code == 0 {
		s.Status = StepSuccess
	} else {
		s.Status = StepFailed
	}
}

// Duration returns how long the step has been running or ran
func (s *Step) Duration() time.Duration {
	if s.Status == StepRunning {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// StatusIcon returns an icon representing the step status
func (s *Step) StatusIcon() string {
	switch s.Status {
	case StepRunning:
		return "◐"
	case StepSuccess:
		return "✓"
	case StepFailed:
		return "✗"
	default:
		return "?"
	}
}
