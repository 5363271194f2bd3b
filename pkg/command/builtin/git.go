package builtin

import (
	"bufio"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// GitCommand implements `git status` and `git log` as structured commands
// (supplemented from original_source/nexus-kernel/src/commands/git.rs),
// projecting porcelain output into Value::GitStatus / Value::GitCommit so
// `sort --by date` and the DiffViewer can consume them. Everything else is
// shelled out verbatim to the system `git` binary (the teacher's
// pkg/shell/detect.go pattern of wrapping an external binary via os/exec).
type GitCommand struct{}

func (GitCommand) Name() string { return "git" }

func (GitCommand) Execute(args []string, ctx *command.CommandContext) (value.Value, error) {
	if len(args) == 0 {
		return value.Unit(), nil
	}

	switch args[0] {
	case "status":
		return gitStatus(ctx)
	case "log":
		return gitLog(ctx, args[1:])
	default:
		out, err := exec.Command("git", args...).Output()
		if err != nil {
			return value.Value{}, fmt.Errorf("git: %w", err)
		}
		return value.String(string(out)), nil
	}
}

func gitStatus(ctx *command.CommandContext) (value.Value, error) {
	out, err := runGit(ctx.State.Cwd, "status", "--porcelain=v1", "-b")
	if err != nil {
		return value.Value{}, err
	}

	status := &value.GitStatus{}
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "##") {
			status.Branch = strings.TrimSpace(strings.TrimPrefix(line, "##"))
			if idx := strings.Index(status.Branch, "..."); idx >= 0 {
				status.Branch = status.Branch[:idx]
			}
			continue
		}
		if len(line) < 3 {
			continue
		}
		indexState, workState, name := line[0], line[1], strings.TrimSpace(line[3:])
		switch {
		case indexState == '?' && workState == '?':
			status.Untracked = append(status.Untracked, name)
		case indexState != ' ':
			status.Staged = append(status.Staged, name)
		case workState != ' ':
			status.Unstaged = append(status.Unstaged, name)
		}
	}
	return value.GitStatusValue(status), nil
}

const gitLogFieldSep = "\x1f"
const gitLogRecordSep = "\x1e"

func gitLog(ctx *command.CommandContext, extra []string) (value.Value, error) {
	format := "%H" + gitLogFieldSep + "%an" + gitLogFieldSep + "%aI" + gitLogFieldSep + "%s" + gitLogRecordSep
	out, err := runGit(ctx.State.Cwd, append([]string{"log", "--pretty=format:" + format}, extra...)...)
	if err != nil {
		return value.Value{}, err
	}

	var commits []value.Value
	for _, rec := range strings.Split(out, gitLogRecordSep) {
		rec = strings.TrimSpace(rec)
		if rec == "" {
			continue
		}
		fields := strings.Split(rec, gitLogFieldSep)
		if len(fields) != 4 {
			continue
		}
		date, _ := time.Parse(time.RFC3339, fields[2])
		commits = append(commits, value.GitCommitValue(&value.GitCommit{
			Hash:    fields[0],
			Author:  fields[1],
			Date:    date,
			Subject: fields[3],
		}))
	}
	return value.List(commits), nil
}

func runGit(cwd string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
