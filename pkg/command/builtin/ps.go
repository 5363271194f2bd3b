package builtin

import (
	"context"
	"strings"
	"time"

	gopsprocess "github.com/shirou/gopsutil/v4/process"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// PsCommand implements `ps`, returning a Table<pid,user,cpu,mem,cmd> sampled
// via gopsutil (spec §4.4 domain stack). `top` calls SampleProcesses the
// same way, once per invocation; there is no periodic refresh.
type PsCommand struct{}

func (PsCommand) Name() string { return "ps" }

func (PsCommand) Execute(args []string, ctx *command.CommandContext) (value.Value, error) {
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
	return value.Table(columns, rows), nil
}

// SampleProcesses enumerates the current process table via gopsutil,
// producing the Process domain projection consumed by `ps`, `sort --by cpu`,
// and the ProcessMonitor interactive viewer.
func SampleProcesses(ctx context.Context) ([]*value.Process, error) {
	procs, err := gopsprocess.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*value.Process, 0, len(procs))
	for _, p := range procs {
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || strings.TrimSpace(cmdline) == "" {
			name, nerr := p.NameWithContext(ctx)
			if nerr != nil {
				continue
			}
			cmdline = name
		}
		cpuPct, _ := p.CPUPercentWithContext(ctx)
		memInfo, _ := p.MemoryInfoWithContext(ctx)
		username, _ := p.UsernameWithContext(ctx)
		createMs, _ := p.CreateTimeWithContext(ctx)

		var memMB float64
		if memInfo != nil {
			memMB = float64(memInfo.RSS) / (1024 * 1024)
		}

		out = append(out, &value.Process{
			PID:     p.Pid,
			User:    username,
			CPU:     cpuPct,
			MemMB:   memMB,
			Command: cmdline,
			Started: time.UnixMilli(createMs),
		})
	}
	return out, nil
}
