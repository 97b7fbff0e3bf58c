package agent

func humanizeState(s State, dryRun bool) string {
	switch s {
	case StatePending:
		if dryRun {
			return "dry run: actions generated but not executed"
		}
		return "not started"
	case StateExecuting:
		return "execution in progress"
	case StateCompleted:
		return "all actions applied"
	case StatePartiallyFailed:
		return "partially completed: some actions failed or were rejected"
	case StateFailed:
		return "run failed before any action was executed"
	default:
		return string(s)
	}
}
