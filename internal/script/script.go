package script

// Latin is the fallback classification for text that contains no
// characters from any registered script block.
const Latin = "latin"

// Interval is an inclusive range of Unicode code points.
type Interval struct {
	Lo rune
	Hi rune
}

// Range is a named writing system together with the code point
// intervals that belong to it.
type Range struct {
	Name      string
	Intervals []Interval
}

// Registered script blocks, ordered by ascending first code point.
// Classify resolves ties by keeping the earliest entry, so the order
// here is part of the contract.
var registry = []Range{
	{Name: "arabic", Intervals: []Interval{{0x0600, 0x06FF}}},
	{Name: "devanagari", Intervals: []Interval{{0x0900, 0x097F}}},
	{Name: "bengali", Intervals: []Interval{{0x0980, 0x09FF}}},
	{Name: "gujarati", Intervals: []Interval{{0x0A80, 0x0AFF}}},
	{Name: "tamil", Intervals: []Interval{{0x0B80, 0x0BFF}}},
	{Name: "telugu", Intervals: []Interval{{0x0C00, 0x0C7F}}},
	{Name: "kannada", Intervals: []Interval{{0x0C80, 0x0CFF}}},
	{Name: "malayalam", Intervals: []Interval{{0x0D00, 0x0D7F}}},
}

// Index built at init time.
var byName map[string]*Range

func init() {
	byName = make(map[string]*Range, len(registry))
	for i := range registry {
		byName[registry[i].Name] = &registry[i]
	}
}

func (r *Range) contains(cp rune) bool {
	for _, iv := range r.Intervals {
		if cp >= iv.Lo && cp <= iv.Hi {
			return true
		}
	}
	return false
}

// Classify returns the name of the registered script with the highest
// character count in text, or Latin when no registered script occurs.
// A tie keeps the earlier registry entry. The scan is a single pass
// over the text and never fails.
func Classify(text string) string {
	counts := make([]int, len(registry))
	for _, cp := range text {
		for i := range registry {
			if registry[i].contains(cp) {
				counts[i]++
				break
			}
		}
	}
	best := -1
	bestCount := 0
	for i, n := range counts {
		if n > bestCount {
			best = i
			bestCount = n
		}
	}
	if best < 0 {
		return Latin
	}
	return registry[best].Name
}

// Known reports whether name is a registered script or the Latin
// fallback.
func Known(name string) bool {
	if name == Latin {
		return true
	}
	_, ok := byName[name]
	return ok
}

// Ranges returns a copy of the registry in classification order.
func Ranges() []Range {
	out := make([]Range, len(registry))
	for i, r := range registry {
		intervals := make([]Interval, len(r.Intervals))
		copy(intervals, r.Intervals)
		out[i] = Range{Name: r.Name, Intervals: intervals}
	}
	return out
}
