package value

import (
	"strconv"
	"strings"
)

// CompareOptions mirrors the Rust SortOptions fields that influence a single
// pairwise comparison (the flag-parsing/field-selection concerns live in
// pkg/command/builtin/sort.go).
type CompareOptions struct {
	Numeric    bool // -n / --numeric-sort: force numeric parse on strings
	IgnoreCase bool // -f / --ignore-case
	BySize     bool // -S / --size: FileEntry comparison by size
	ByTime     bool // -t / --time: FileEntry comparison by modified time
}

// Compare implements the cross-type comparison law from spec §4.4/§8
// ("Natural sort law"): numeric types compare numerically with (Int,Float)
// promotion to float64; strings compare "smart" (numeric if both parse,
// else natural); FileEntry/Process/GitCommit/Path get domain-specific
// comparisons; everything else falls back to natural comparison of ToText().
func Compare(a, b Value, opts CompareOptions) int {
	switch {
	case a.Kind == KindInt && b.Kind == KindInt:
		return cmpInt64(a.Int, b.Int)
	case a.Kind == KindFloat && b.Kind == KindFloat:
		return cmpFloat64(a.Float, b.Float)
	case a.Kind == KindInt && b.Kind == KindFloat:
		return cmpFloat64(float64(a.Int), b.Float)
	case a.Kind == KindFloat && b.Kind == KindInt:
		return cmpFloat64(a.Float, float64(b.Int))

	case a.Kind == KindString && b.Kind == KindString:
		switch {
		case opts.Numeric:
			na := parseFloatOrMax(a.Str)
			nb := parseFloatOrMax(b.Str)
			return cmpFloat64(na, nb)
		case opts.IgnoreCase:
			return NaturalCompareFold(a.Str, b.Str)
		default:
			return smartStringCompare(a.Str, b.Str)
		}

	case a.Kind == KindFileEntry && b.Kind == KindFileEntry:
		if a.FileEntry == nil || b.FileEntry == nil {
			return 0
		}
		switch {
		case opts.BySize:
			return cmpInt64(a.FileEntry.Size, b.FileEntry.Size)
		case opts.ByTime:
			return cmpInt64(a.FileEntry.Modified.UnixNano(), b.FileEntry.Modified.UnixNano())
		default:
			return NaturalCompare(a.FileEntry.Name, b.FileEntry.Name)
		}

	case a.Kind == KindProcess && b.Kind == KindProcess:
		if a.Process == nil || b.Process == nil {
			return 0
		}
		return NaturalCompare(a.Process.Command, b.Process.Command)

	case a.Kind == KindGitCommit && b.Kind == KindGitCommit:
		if a.GitCommit == nil || b.GitCommit == nil {
			return 0
		}
		return cmpInt64(a.GitCommit.Date.UnixNano(), b.GitCommit.Date.UnixNano())

	case a.Kind == KindPath && b.Kind == KindPath:
		return NaturalCompare(a.Path, b.Path)

	// Cross-type string/number comparison.
	case a.Kind == KindString && b.Kind == KindInt:
		if n, err := strconv.ParseInt(strings.TrimSpace(a.Str), 10, 64); err == nil {
			return cmpInt64(n, b.Int)
		}
		return 1 // unparseable string sorts after
	case a.Kind == KindInt && b.Kind == KindString:
		if n, err := strconv.ParseInt(strings.TrimSpace(b.Str), 10, 64); err == nil {
			return cmpInt64(a.Int, n)
		}
		return -1

	default:
		return NaturalCompare(a.ToText(), b.ToText())
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func parseFloatOrMax(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 1.7976931348623157e+308 // math.MaxFloat64, matching f64::MAX fallback
	}
	return n
}

// smartStringCompare compares two strings numerically if both parse as
// numbers, else falls back to natural comparison (spec §8, "Natural sort
// law").
func smartStringCompare(a, b string) int {
	na, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	nb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return cmpFloat64(na, nb)
	}
	return NaturalCompare(a, b)
}

// NaturalCompare implements "file2" < "file10" ordering by treating maximal
// runs of ASCII digits as integers rather than comparing digit-by-digit.
func NaturalCompare(a, b string) int {
	return naturalCompare(a, b, false)
}

// NaturalCompareFold is NaturalCompare with ASCII case folded (the -f flag).
func NaturalCompareFold(a, b string) int {
	return naturalCompare(a, b, true)
}

func naturalCompare(a, b string, fold bool) int {
	ar, br := []rune(a), []rune(b)
	i, j := 0, 0
	for {
		switch {
		case i >= len(ar) && j >= len(br):
			return 0
		case i >= len(ar):
			return -1
		case j >= len(br):
			return 1
		}
		ac, bc := ar[i], br[j]
		if isASCIIDigit(ac) && isASCIIDigit(bc) {
			an, ni := collectNumber(ar, i)
			bn, nj := collectNumber(br, j)
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
			i, j = ni, nj
			continue
		}
		cac, cbc := ac, bc
		if fold {
			cac, cbc = foldASCII(ac), foldASCII(bc)
		}
		if cac != cbc {
			if cac < cbc {
				return -1
			}
			return 1
		}
		i++
		j++
	}
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func foldASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// collectNumber reads a maximal run of ASCII digits starting at i, returning
// the parsed value (saturating, matching the Rust u64::saturating_mul/add)
// and the index just past the run.
func collectNumber(r []rune, i int) (uint64, int) {
	var num uint64
	for i < len(r) && isASCIIDigit(r[i]) {
		d := uint64(r[i] - '0')
		if num > (^uint64(0)-d)/10 {
			num = ^uint64(0) // saturate
		} else {
			num = num*10 + d
		}
		i++
	}
	return num, i
}
