// Package value implements the Value tagged union: Nexus's typed output
// channel that flows between kernel commands, through pipes, and into rich
// viewers. It is deliberately a closed, tagged variant rather than an open
// interface (see DESIGN.md, "Dynamic dispatch -> tagged variants").
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the Value variants.
type Kind int

const (
	KindUnit Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindBytes
	KindList
	KindRecord
	KindTable
	KindFileEntry
	KindProcess
	KindGitStatus
	KindGitCommit
	KindPath
	KindMedia
	KindInteractive
	KindDiffFile
)

// RecordField is one named field inside a Record value.
type RecordField struct {
	Name  string
	Value Value
}

// Column describes one column of a Table value.
type Column struct {
	Name string
}

// FileEntry is the domain projection for a single filesystem entry, as
// produced by `ls` and consumed by `sort -S`/`-t` and the TreeBrowser viewer.
type FileEntry struct {
	Name     string
	Path     string
	IsDir    bool
	Size     int64
	Modified time.Time
}

// Process is the domain projection for one OS process row, as produced by
// `ps`/`top` and consumed by the ProcessMonitor viewer.
type Process struct {
	PID     int32
	User    string
	CPU     float64
	MemMB   float64
	Command string
	Started time.Time
}

// GitStatus is the domain projection for `git status` porcelain output.
type GitStatus struct {
	Branch    string
	Staged    []string
	Unstaged  []string
	Untracked []string
}

// GitCommit is one entry from `git log`.
type GitCommit struct {
	Hash    string
	Author  string
	Date    time.Time
	Subject string
}

// DiffFile is one file's hunks from a diff, as iterated by the DiffViewer.
type DiffFile struct {
	Path  string
	Hunks []string
}

// Media carries an opaque image/asset payload plus its content type. Decoding
// the bytes (PNG/JPEG/etc.) is an external interface per spec §1.
type Media struct {
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

// Interactive wraps nested content that installs an interactive viewer
// sub-state on the owning block (see pkg/block for the sub-state machine).
type Interactive struct {
	Viewer  string
	Content *Value
}

// Value is the tagged union described in spec §3. Exactly one field group is
// meaningful for a given Kind; constructors below enforce that invariant.
type Value struct {
	Kind Kind

	Int    int64
	Float  float64
	Str    string
	Bool   bool
	Bytes  []byte
	List   []Value
	Record []RecordField

	Columns []Column
	Rows    [][]Value

	FileEntry   *FileEntry
	Process     *Process
	GitStatus   *GitStatus
	GitCommit   *GitCommit
	Path        string
	Media       *Media
	Interactive *Interactive
	DiffFile    *DiffFile
}

func Unit() Value                   { return Value{Kind: KindUnit} }
func Int(v int64) Value             { return Value{Kind: KindInt, Int: v} }
func Float(v float64) Value         { return Value{Kind: KindFloat, Float: v} }
func String(v string) Value         { return Value{Kind: KindString, Str: v} }
func Bool(v bool) Value             { return Value{Kind: KindBool, Bool: v} }
func BytesValue(v []byte) Value     { return Value{Kind: KindBytes, Bytes: v} }
func List(items []Value) Value      { return Value{Kind: KindList, List: items} }
func Record(fields []RecordField) Value { return Value{Kind: KindRecord, Record: fields} }
func Table(columns []string, rows [][]Value) Value {
	cols := make([]Column, len(columns))
	for i, c := range columns {
		cols[i] = Column{Name: c}
	}
	return Value{Kind: KindTable, Columns: cols, Rows: rows}
}
func FileEntryValue(e *FileEntry) Value { return Value{Kind: KindFileEntry, FileEntry: e} }
func ProcessValue(p *Process) Value     { return Value{Kind: KindProcess, Process: p} }
func GitStatusValue(s *GitStatus) Value { return Value{Kind: KindGitStatus, GitStatus: s} }
func GitCommitValue(c *GitCommit) Value { return Value{Kind: KindGitCommit, GitCommit: c} }
func PathValue(p string) Value          { return Value{Kind: KindPath, Path: p} }
func MediaValue(m *Media) Value         { return Value{Kind: KindMedia, Media: m} }
func InteractiveValue(viewer string, content Value) Value {
	return Value{Kind: KindInteractive, Interactive: &Interactive{Viewer: viewer, Content: &content}}
}
func DiffFileValue(d *DiffFile) Value { return Value{Kind: KindDiffFile, DiffFile: d} }

// ToText produces a pipe-compatible textual representation of the value.
func (v Value) ToText() string {
	switch v.Kind {
	case KindUnit:
		return ""
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindBytes:
		return string(v.Bytes)
	case KindList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.ToText()
		}
		return strings.Join(parts, "\n")
	case KindRecord:
		parts := make([]string, len(v.Record))
		for i, f := range v.Record {
			parts[i] = fmt.Sprintf("%s=%s", f.Name, f.Value.ToText())
		}
		return strings.Join(parts, "\n")
	case KindTable:
		lines := make([]string, 0, len(v.Rows)+1)
		names := make([]string, len(v.Columns))
		for i, c := range v.Columns {
			names[i] = c.Name
		}
		lines = append(lines, strings.Join(names, "\t"))
		for _, row := range v.Rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = cell.ToText()
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
		return strings.Join(lines, "\n")
	case KindFileEntry:
		if v.FileEntry == nil {
			return ""
		}
		return v.FileEntry.Name
	case KindProcess:
		if v.Process == nil {
			return ""
		}
		return v.Process.Command
	case KindGitStatus:
		if v.GitStatus == nil {
			return ""
		}
		return v.GitStatus.Branch
	case KindGitCommit:
		if v.GitCommit == nil {
			return ""
		}
		return fmt.Sprintf("%s %s", v.GitCommit.Hash, v.GitCommit.Subject)
	case KindPath:
		return v.Path
	case KindMedia:
		if v.Media == nil {
			return ""
		}
		return fmt.Sprintf("<media %s, %d bytes>", v.Media.ContentType, len(v.Media.Data))
	case KindInteractive:
		if v.Interactive == nil || v.Interactive.Content == nil {
			return ""
		}
		return v.Interactive.Content.ToText()
	case KindDiffFile:
		if v.DiffFile == nil {
			return ""
		}
		return v.DiffFile.Path
	default:
		return ""
	}
}

// GetField exposes a named field for multi-key sort and field-based
// lookups. Returns (value, true) if the field is present on this variant.
func (v Value) GetField(name string) (Value, bool) {
	lower := strings.ToLower(name)
	switch v.Kind {
	case KindRecord:
		for _, f := range v.Record {
			if strings.EqualFold(f.Name, name) {
				return f.Value, true
			}
		}
	case KindFileEntry:
		if v.FileEntry == nil {
			return Value{}, false
		}
		switch lower {
		case "name":
			return String(v.FileEntry.Name), true
		case "size":
			return Int(v.FileEntry.Size), true
		case "modified", "mtime", "time":
			return Int(v.FileEntry.Modified.Unix()), true
		case "path":
			return String(v.FileEntry.Path), true
		case "isdir", "dir":
			return Bool(v.FileEntry.IsDir), true
		}
	case KindProcess:
		if v.Process == nil {
			return Value{}, false
		}
		switch lower {
		case "pid":
			return Int(int64(v.Process.PID)), true
		case "cpu":
			return Float(v.Process.CPU), true
		case "mem", "memory":
			return Float(v.Process.MemMB), true
		case "user":
			return String(v.Process.User), true
		case "cmd", "command":
			return String(v.Process.Command), true
		case "time", "started":
			return Int(v.Process.Started.Unix()), true
		}
	case KindGitCommit:
		if v.GitCommit == nil {
			return Value{}, false
		}
		switch lower {
		case "hash":
			return String(v.GitCommit.Hash), true
		case "author":
			return String(v.GitCommit.Author), true
		case "date":
			return Int(v.GitCommit.Date.Unix()), true
		case "subject":
			return String(v.GitCommit.Subject), true
		}
	}
	return Value{}, false
}

// AsDomain returns the domain-specific payload (FileEntry, Process, ...) if
// present, else nil. Callers type-switch on the concrete pointer type.
func (v Value) AsDomain() any {
	switch v.Kind {
	case KindFileEntry:
		return v.FileEntry
	case KindProcess:
		return v.Process
	case KindGitStatus:
		return v.GitStatus
	case KindGitCommit:
		return v.GitCommit
	case KindDiffFile:
		return v.DiffFile
	default:
		return nil
	}
}

// SortTable reorders rows in place by the given 0-based column index,
// ascending, or descending when descending is true. Used by the Shell Widget's sort_table operation (spec §4.1),
// which toggles ascending/descending across calls.
func SortTable(rows [][]Value, col int, descending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		var a, b Value
		if col >= 0 && col < len(rows[i]) {
			a = rows[i][col]
		}
		if col >= 0 && col < len(rows[j]) {
			b = rows[j][col]
		}
		cmp := Compare(a, b, CompareOptions{})
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}
