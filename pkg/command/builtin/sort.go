package builtin

import (
	"strconv"
	"strings"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/command"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/value"
)

// SortCommand implements `sort` (spec §4.4): multi-key field sort, 1-based
// column index, numeric/reverse/unique/ignore-case modifiers, and the
// "smart" default comparison (numeric if both sides parse, else natural).
type SortCommand struct{}

func (SortCommand) Name() string { return "sort" }

type sortOptions struct {
	reverse    bool
	numeric    bool
	bySize     bool
	byTime     bool
	ignoreCase bool
	unique     bool
	byFields   []string
	byKey      int // 1-based; 0 means unset
}

func parseSortOptions(args []string) sortOptions {
	var opts sortOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case strings.HasPrefix(arg, "--"):
			switch arg {
			case "--reverse":
				opts.reverse = true
			case "--numeric-sort":
				opts.numeric = true
			case "--size":
				opts.bySize = true
			case "--time":
				opts.byTime = true
			case "--ignore-case":
				opts.ignoreCase = true
			case "--unique":
				opts.unique = true
			case "--key":
				if i+1 < len(args) {
					if n, err := strconv.Atoi(args[i+1]); err == nil {
						opts.byKey = n
					}
					i++
				}
			case "--by":
				if i+1 < len(args) {
					opts.byFields = strings.Split(args[i+1], ",")
					i++
				}
			}
		case arg == "-k":
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					opts.byKey = n
				} else {
					opts.byFields = strings.Split(args[i+1], ",")
				}
				i++
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			for _, c := range arg[1:] {
				switch c {
				case 'r':
					opts.reverse = true
				case 'n':
					opts.numeric = true
				case 'S':
					opts.bySize = true
				case 't':
					opts.byTime = true
				case 'f':
					opts.ignoreCase = true
				case 'u':
					opts.unique = true
				}
			}
		default:
			if len(opts.byFields) == 0 {
				opts.byFields = strings.Split(arg, ",")
			}
		}
	}
	return opts
}

func (opts sortOptions) compareOpts() value.CompareOptions {
	return value.CompareOptions{
		Numeric:    opts.numeric,
		IgnoreCase: opts.ignoreCase,
		BySize:     opts.bySize,
		ByTime:     opts.byTime,
	}
}

func (SortCommand) Execute(args []string, ctx *command.CommandContext) (value.Value, error) {
	opts := parseSortOptions(args)
	in := ctx.TakeStdin()
	if in == nil {
		return value.Unit(), nil
	}
	return sortValue(*in, opts), nil
}

func sortValue(v value.Value, opts sortOptions) value.Value {
	switch v.Kind {
	case value.KindList:
		items := append([]value.Value(nil), v.List...)
		sortGeneric(items, opts)
		if opts.unique {
			items = dedupeByText(items)
		}
		return value.List(items)

	case value.KindTable:
		rows := append([][]value.Value(nil), v.Rows...)
		col := resolveSortColumn(v.Columns, opts)
		cmp := opts.compareOpts()
		stableSort(rows, func(a, b []value.Value) int {
			av := cellAt(a, col)
			bv := cellAt(b, col)
			c := value.Compare(av, bv, cmp)
			if opts.reverse {
				c = -c
			}
			return c
		})
		if opts.unique {
			rows = dedupeRowsByFirstText(rows)
		}
		return value.Value{Kind: value.KindTable, Columns: v.Columns, Rows: rows}

	case value.KindString:
		lines := strings.Split(v.Str, "\n")
		cmp := opts.compareOpts()
		stableSortStrings(lines, func(a, b string) int {
			var c int
			switch {
			case opts.ignoreCase:
				c = value.NaturalCompareFold(a, b)
			case opts.numeric:
				c = value.Compare(value.String(a), value.String(b), value.CompareOptions{Numeric: true})
			default:
				c = value.Compare(value.String(a), value.String(b), cmp)
			}
			_ = cmp
			if opts.reverse {
				c = -c
			}
			return c
		})
		if opts.unique {
			lines = dedupeStrings(lines)
		}
		return value.String(strings.Join(lines, "\n"))

	default:
		return v
	}
}

func resolveSortColumn(columns []value.Column, opts sortOptions) int {
	if opts.byKey > 0 {
		return opts.byKey - 1
	}
	if len(opts.byFields) > 0 {
		for i, c := range columns {
			if strings.EqualFold(c.Name, opts.byFields[0]) {
				return i
			}
		}
		return 0
	}
	return 0
}

func cellAt(row []value.Value, col int) value.Value {
	if col < 0 || col >= len(row) {
		return value.Unit()
	}
	return row[col]
}

func sortGeneric(items []value.Value, opts sortOptions) {
	allFileEntries := true
	for _, it := range items {
		if it.Kind != value.KindFileEntry {
			allFileEntries = false
			break
		}
	}
	cmp := opts.compareOpts()
	if allFileEntries && len(items) > 0 {
		stableSort2(items, func(a, b value.Value) int {
			c := value.Compare(a, b, cmp)
			if opts.reverse {
				c = -c
			}
			return c
		})
		return
	}

	stableSort2(items, func(a, b value.Value) int {
		var c int
		if len(opts.byFields) > 0 {
			for _, field := range opts.byFields {
				c = compareByField(a, b, field, cmp)
				if c != 0 {
					break
				}
			}
		} else {
			c = value.Compare(a, b, cmp)
		}
		if opts.reverse {
			c = -c
		}
		return c
	})
}

// compareByField extracts a named field from each value and compares them;
// values that have the field sort before values missing it.
func compareByField(a, b value.Value, field string, cmp value.CompareOptions) int {
	va, okA := a.GetField(field)
	vb, okB := b.GetField(field)
	switch {
	case okA && okB:
		return value.Compare(va, vb, cmp)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

func dedupeByText(items []value.Value) []value.Value {
	out := items[:0:0]
	var lastText string
	haveLast := false
	for _, it := range items {
		t := it.ToText()
		if haveLast && t == lastText {
			continue
		}
		out = append(out, it)
		lastText = t
		haveLast = true
	}
	return out
}

func dedupeRowsByFirstText(rows [][]value.Value) [][]value.Value {
	out := rows[:0:0]
	var lastText string
	haveLast := false
	for _, row := range rows {
		var t string
		if len(row) > 0 {
			t = row[0].ToText()
		}
		if haveLast && t == lastText {
			continue
		}
		out = append(out, row)
		lastText = t
		haveLast = true
	}
	return out
}

func dedupeStrings(lines []string) []string {
	out := lines[:0:0]
	var last string
	have := false
	for _, l := range lines {
		if have && l == last {
			continue
		}
		out = append(out, l)
		last = l
		have = true
	}
	return out
}
