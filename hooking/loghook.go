package hooking

import "log"

// A LogHook is a hook that is responsible for writing what happens to the
// match into a log.
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks.
type LogHookBase struct {
	*log.Logger
}
