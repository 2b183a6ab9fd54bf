package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExecInfo is a property of the program run that produced a recording.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecTableName is the table that ExecRecorder writes into.
const ExecTableName = "exec_info"

const execTimeLayout = "2006-01-02 15:04:05.000000000"

// ExecRecorder records how and when the program ran.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates the exec_info table in the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecTableName, ExecInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start logs the start of the current execution.
func (e *ExecRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", time.Now().Format(execTimeLayout)},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	ex, err := os.Executable()
	if err == nil {
		e.entries = append(e.entries,
			ExecInfo{"Working Directory", filepath.Dir(ex)})
	}
}

// Property adds a free-form property of the run.
func (e *ExecRecorder) Property(name, value string) {
	e.entries = append(e.entries, ExecInfo{name, value})
}

// End writes the collected properties along with the end time.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(ExecTableName, entry)
	}

	e.recorder.InsertData(ExecTableName,
		ExecInfo{"End Time", time.Now().Format(execTimeLayout)})

	e.entries = nil

	e.recorder.Flush()
}
