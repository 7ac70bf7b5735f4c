package yarn

// ApplicationState is the yarn application state reported by the resource manager
type ApplicationState string

/* application states */
const (
	StateNew       ApplicationState = "NEW"
	StateNewSaving ApplicationState = "NEW_SAVING"
	StateSubmitted ApplicationState = "SUBMITTED"
	StateAccepted  ApplicationState = "ACCEPTED"
	StateRunning   ApplicationState = "RUNNING"
	StateFinished  ApplicationState = "FINISHED"
	StateFailed    ApplicationState = "FAILED"
	StateKilled    ApplicationState = "KILLED"
)

// IsFinal is true once the application can no longer run containers
func (s ApplicationState) IsFinal() bool {
	return s == StateFinished || s == StateFailed || s == StateKilled
}

// IsPending is true while no container of the application has been allocated
func (s ApplicationState) IsPending() bool {
	return s == StateNew || s == StateNewSaving || s == StateSubmitted
}
