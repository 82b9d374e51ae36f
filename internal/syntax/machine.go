package syntax

// Span is one classified run of bytes within a file's content, expressed
// as a half-open byte range [Start, End).
type Span struct {
	Kind  Kind
	Start int
	End   int
}

// Machine classifies a byte slice against a fixed Profile. It carries no
// state across calls to Classify; each call is a complete, deterministic
// pass over its input, matching the property that classification at any
// position depends only on the prefix before it and the rule list.
type Machine struct {
	profile Profile
}

// New returns a Machine bound to profile.
func New(profile Profile) *Machine {
	return &Machine{profile: profile}
}

func hasPrefixAt(data []byte, pos int, prefix string) bool {
	if prefix == "" {
		return false
	}
	if pos+len(prefix) > len(data) {
		return false
	}
	return string(data[pos:pos+len(prefix)]) == prefix
}

// Classify walks data from position 0 and returns the ordered list of
// classified spans. An unterminated non-code state at EOF is not an
// error: the final span simply carries that state's Kind, and the caller
// may inspect Unterminated to flag the file.
func (m *Machine) Classify(data []byte) (spans []Span, unterminated bool) {
	pos := 0
	n := len(data)
	curRule := -1
	curStart := 0

	for pos < n {
		if curRule == -1 {
			bestLen, bestIdx := 0, -1
			for i, r := range m.profile.Rules {
				if r.Start == "" {
					continue
				}
				if hasPrefixAt(data, pos, r.Start) && len(r.Start) > bestLen {
					bestLen, bestIdx = len(r.Start), i
				}
			}
			if bestIdx >= 0 {
				if pos > curStart {
					spans = append(spans, Span{Code, curStart, pos})
				}
				curRule = bestIdx
				curStart = pos
				pos += bestLen
				continue
			}
			pos++
			continue
		}

		rule := m.profile.Rules[curRule]

		if rule.Kind == LineComment {
			if data[pos] == '\n' {
				spans = append(spans, Span{LineComment, curStart, pos})
				curStart = pos
				curRule = -1
				continue
			}
			pos++
			continue
		}

		if rule.HasEscape && rule.Kind != RawString && data[pos] == rule.Escape {
			pos += 2
			continue
		}

		if hasPrefixAt(data, pos, rule.End) {
			pos += len(rule.End)
			spans = append(spans, Span{rule.Kind, curStart, pos})
			curStart = pos
			curRule = -1
			continue
		}
		pos++
	}

	if curRule == -1 {
		if pos > curStart {
			spans = append(spans, Span{Code, curStart, pos})
		}
		return spans, false
	}

	kind := m.profile.Rules[curRule].Kind
	spans = append(spans, Span{kind, curStart, pos})
	return spans, true
}

// FindFirst returns the rule index of the first non-code boundary in
// line, and the byte position it starts at. ruleIndex is -1 and pos is
// the index of the first non-whitespace byte when no rule matches; this
// is used by ignore-file parsing to strip leading whitespace. FindFirst
// is pure: it never mutates machine or profile state.
func (m *Machine) FindFirst(line []byte) (ruleIndex int, pos int) {
	for i := 0; i < len(line); i++ {
		for idx, r := range m.profile.Rules {
			if r.Start != "" && hasPrefixAt(line, i, r.Start) {
				return idx, i
			}
		}
	}
	first := 0
	for first < len(line) && (line[first] == ' ' || line[first] == '\t') {
		first++
	}
	return -1, first
}

// ReadFirst returns the matched substring bounded by the rule found by
// FindFirst: from the start pattern through its end pattern (or line end
// for a LineComment rule / an unterminated match).
func (m *Machine) ReadFirst(line []byte) (ruleIndex int, value []byte) {
	idx, pos := m.FindFirst(line)
	if idx == -1 {
		return -1, nil
	}
	rule := m.profile.Rules[idx]
	start := pos + len(rule.Start)

	if rule.Kind == LineComment {
		return idx, line[pos:]
	}

	for i := start; i < len(line); i++ {
		if rule.HasEscape && rule.Kind != RawString && line[i] == rule.Escape {
			i++
			continue
		}
		if hasPrefixAt(line, i, rule.End) {
			return idx, line[pos : i+len(rule.End)]
		}
	}
	return idx, line[pos:]
}
