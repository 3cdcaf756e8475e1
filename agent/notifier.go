package agent

// Notifier receives run lifecycle events. RunStarted fires when a scheduled
// iteration begins; RunFinished fires for every recorded run, scheduled or
// manual. The server's websocket hub implements it for live updates.
type Notifier interface {
	RunStarted(runID string, spec JobSpec)
	RunFinished(rec RunRecord)
}

// NopNotifier discards all events. It is the default when no notifier is
// wired in.
type NopNotifier struct{}

func (NopNotifier) RunStarted(string, JobSpec) {}
func (NopNotifier) RunFinished(RunRecord)      {}
