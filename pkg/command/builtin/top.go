package builtin

import (
	"context"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// TopCommand returns a Value::Interactive wrapping a ProcessMonitor payload
// (spec §4.3): a block that installs the ProcessMonitor interactive viewer.
// The process table is sampled once per invocation; nothing re-samples it
// afterwards.
type TopCommand struct{}

func (TopCommand) Name() string { return "top" }

// TopViewerName is the Value.Interactive.Viewer tag the Shell Widget checks
// to install a ProcessMonitor sub-state (spec §4.1 "interactive viewer
// substates are installed when an Interactive value arrives").
const TopViewerName = "process_monitor"

func (TopCommand) Execute(args []string, ctx *command.CommandContext) (value.Value, error) {
	procs, err := SampleProcesses(context.Background())
	if err != nil {
		return value.Value{}, err
	}

	columns := []string{"pid", "user", "cpu", "mem", "cmd"}
	rows := make([][]value.Value, len(procs))
	for i, p := range procs {
		rows[i] = []value.Value{
			value.Int(int64(p.PID)),
			value.String(p.User),
			value.Float(p.CPU),
			value.Float(p.MemMB),
			value.String(p.Command),
		}
	}
	table := value.Table(columns, rows)
	return value.InteractiveValue(TopViewerName, table), nil
}
