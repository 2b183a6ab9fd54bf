package controller

import "errors"

// ErrIllegalAction is returned when an action is not legal in the current
// match state.
var ErrIllegalAction = errors.New("illegal action")
