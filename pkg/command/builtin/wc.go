package builtin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// WcCommand implements `wc` (spec §4.4, §8 scenario 3): default mode counts
// lines+words+bytes, a single explicit metric reduces to a bare Int, and
// explicit files produce a Record (one file) or Table-with-totals (many).
type WcCommand struct{}

func (WcCommand) Name() string { return "wc" }

type wcOptions struct {
	lines, words, chars, bytes bool
	files                      []string
}

func parseWcOptions(args []string) wcOptions {
	var opts wcOptions
	hasFlags := false
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--"):
			hasFlags = true
			switch arg {
			case "--lines":
				opts.lines = true
			case "--words":
				opts.words = true
			case "--chars":
				opts.chars = true
			case "--bytes":
				opts.bytes = true
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			hasFlags = true
			for _, c := range arg[1:] {
				switch c {
				case 'l':
					opts.lines = true
				case 'w':
					opts.words = true
				case 'm':
					opts.chars = true
				case 'c':
					opts.bytes = true
				}
			}
		default:
			opts.files = append(opts.files, arg)
		}
	}
	if !hasFlags {
		opts.lines, opts.words, opts.bytes = true, true, true
	}
	return opts
}

type wcCounts struct {
	lines, words, chars, bytes int
}

func countString(s string, opts wcOptions) wcCounts {
	var c wcCounts
	if opts.lines {
		c.lines = countLines(s)
	}
	if opts.words {
		c.words = len(strings.Fields(s))
	}
	if opts.chars {
		c.chars = utf8.RuneCountInString(s)
	}
	if opts.bytes {
		c.bytes = len(s)
	}
	return c
}

// countLines mirrors Rust's str::lines().count(): counts newline-terminated
// or final-unterminated segments, but a trailing newline does not produce an
// extra empty segment.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

func (WcCommand) Execute(args []string, ctx *command.CommandContext) (value.Value, error) {
	opts := parseWcOptions(args)

	if in := ctx.TakeStdin(); in != nil {
		return wcValue(*in, opts), nil
	}

	if len(opts.files) > 0 {
		type fileResult struct {
			name   string
			counts wcCounts
		}
		results := make([]fileResult, 0, len(opts.files))
		for _, f := range opts.files {
			path := f
			if !filepath.IsAbs(path) {
				path = filepath.Join(ctx.State.Cwd, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return value.Value{}, fmt.Errorf("%s: %w", f, err)
			}
			results = append(results, fileResult{name: f, counts: countString(string(data), opts)})
		}

		if len(results) == 1 {
			return formatCountsRecord(results[0].counts, opts, results[0].name), nil
		}

		var columns []string
		if opts.lines {
			columns = append(columns, "lines")
		}
		if opts.words {
			columns = append(columns, "words")
		}
		if opts.chars {
			columns = append(columns, "chars")
		}
		if opts.bytes {
			columns = append(columns, "bytes")
		}
		columns = append(columns, "file")

		var total wcCounts
		rows := make([][]value.Value, 0, len(results)+1)
		for _, r := range results {
			total.lines += r.counts.lines
			total.words += r.counts.words
			total.chars += r.counts.chars
			total.bytes += r.counts.bytes
			rows = append(rows, countsRow(r.counts, opts, r.name))
		}
		rows = append(rows, countsRow(total, opts, "total"))
		return value.Table(columns, rows), nil
	}

	return value.Unit(), nil
}

func countsRow(c wcCounts, opts wcOptions, name string) []value.Value {
	var row []value.Value
	if opts.lines {
		row = append(row, value.Int(int64(c.lines)))
	}
	if opts.words {
		row = append(row, value.Int(int64(c.words)))
	}
	if opts.chars {
		row = append(row, value.Int(int64(c.chars)))
	}
	if opts.bytes {
		row = append(row, value.Int(int64(c.bytes)))
	}
	row = append(row, value.String(name))
	return row
}

func wcValue(v value.Value, opts wcOptions) value.Value {
	onlyLines := opts.lines && !opts.words && !opts.chars && !opts.bytes

	switch v.Kind {
	case value.KindList:
		if onlyLines {
			return value.Int(int64(len(v.List)))
		}
		texts := make([]string, len(v.List))
		for i, item := range v.List {
			texts[i] = item.ToText()
		}
		return formatCounts(countString(strings.Join(texts, "\n"), opts), opts)

	case value.KindTable:
		return value.Int(int64(len(v.Rows)))

	case value.KindRecord:
		if onlyLines {
			return value.Int(int64(len(v.Record)))
		}
		parts := make([]string, len(v.Record))
		for i, f := range v.Record {
			parts[i] = fmt.Sprintf("%s=%s", f.Name, f.Value.ToText())
		}
		return formatCounts(countString(strings.Join(parts, "\n"), opts), opts)

	case value.KindString:
		return formatCounts(countString(v.Str, opts), opts)

	case value.KindBytes:
		if opts.bytes && !opts.lines && !opts.words && !opts.chars {
			return value.Int(int64(len(v.Bytes)))
		}
		return formatCounts(countString(string(v.Bytes), opts), opts)

	case value.KindMedia:
		if v.Media == nil {
			return value.Int(0)
		}
		if opts.bytes && !opts.lines && !opts.words && !opts.chars {
			return value.Int(int64(len(v.Media.Data)))
		}
		return formatCounts(countString(string(v.Media.Data), opts), opts)

	default:
		return value.Int(0)
	}
}

func formatCounts(c wcCounts, opts wcOptions) value.Value {
	return formatCountsRecordOpt(c, opts, "")
}

func formatCountsRecord(c wcCounts, opts wcOptions, filename string) value.Value {
	return formatCountsRecordOpt(c, opts, filename)
}

func formatCountsRecordOpt(c wcCounts, opts wcOptions, filename string) value.Value {
	var fields []value.RecordField
	if opts.lines {
		fields = append(fields, value.RecordField{Name: "lines", Value: value.Int(int64(c.lines))})
	}
	if opts.words {
		fields = append(fields, value.RecordField{Name: "words", Value: value.Int(int64(c.words))})
	}
	if opts.chars {
		fields = append(fields, value.RecordField{Name: "chars", Value: value.Int(int64(c.chars))})
	}
	if opts.bytes {
		fields = append(fields, value.RecordField{Name: "bytes", Value: value.Int(int64(c.bytes))})
	}
	if filename != "" {
		fields = append(fields, value.RecordField{Name: "file", Value: value.String(filename)})
	}

	// Single metric with no filename: return bare int for pipeline ergonomics.
	if len(fields) == 1 {
		return fields[0].Value
	}
	return value.Record(fields)
}
