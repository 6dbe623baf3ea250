package predicate

import (
	"sort"
	"strings"
	"unicode"
)

// fnmatch pattern → gobwas/glob pattern.
//
// gobwas reads "**" as a separator-crossing wildcard, has brace
// alternation, rejects unterminated or mixed bracket expressions and lets
// a bracket expression match the separator. fnmatch(3) does none of that,
// so patterns are rewritten before they are compiled:
//
//   - runs of '*' collapse into one
//   - '{', '}' and the other gobwas specials in literal text are escaped
//   - a '[' without a closing ']' is a literal '['
//   - bracket expressions are normalised to one gobwas range or list
//   - with FNM_PATHNAME ('/' separator) a bracket expression never matches '/'
//
// ok is false when the pattern can never match, e.g. "[z-a]".
func translate(pattern string, pathMode bool) (glob string, ok bool) {
	rs := []rune(pattern)
	var b strings.Builder
	ok = true

	for i := 0; i < len(rs); i++ {
		switch c := rs[i]; c {
		case '\\':
			if i+1 < len(rs) {
				i++
				c = rs[i]
			}
			writeLiteral(&b, c)
		case '*':
			for i+1 < len(rs) && rs[i+1] == '*' {
				i++
			}
			b.WriteByte('*')
		case '?':
			b.WriteByte('?')
		case '[':
			cls, n, closed := parseClass(rs[i+1:])
			if !closed {
				writeLiteral(&b, '[')
				continue
			}
			i += n
			if pathMode {
				cls = cls.withoutSlash()
			}
			if !cls.write(&b) {
				ok = false
			}
		default:
			writeLiteral(&b, c)
		}
	}
	return b.String(), ok
}

func writeLiteral(b *strings.Builder, c rune) {
	switch c {
	case '*', '?', '\\', '[', ']', '{', '}', ',':
		b.WriteByte('\\')
	}
	b.WriteRune(c)
}

type runeRange struct {
	lo, hi rune
}

type charClass struct {
	negated bool
	ranges  []runeRange
}

// parseClass reads a bracket expression after its '['. n is the number of
// runes consumed including the closing ']'; closed is false when there is none.
func parseClass(rs []rune) (cls charClass, n int, closed bool) {
	j := 0
	if j < len(rs) && (rs[j] == '!' || rs[j] == '^') {
		cls.negated = true
		j++
	}

	first := true
	for j < len(rs) {
		c := rs[j]
		if c == ']' && !first {
			return cls, j + 1, true
		}
		first = false

		if c == '[' && j+1 < len(rs) && rs[j+1] == ':' {
			if members, width, found := namedClass(rs[j:]); found {
				cls.ranges = append(cls.ranges, members...)
				j += width
				continue
			}
		}

		if c == '\\' {
			j++
			if j >= len(rs) {
				return cls, 0, false
			}
			c = rs[j]
		}
		j++

		// "a-" followed by ']' keeps the '-' as a member
		if j+1 < len(rs) && rs[j] == '-' && rs[j+1] != ']' {
			hi := rs[j+1]
			j += 2
			if hi == '\\' {
				if j >= len(rs) {
					return cls, 0, false
				}
				hi = rs[j]
				j++
			}
			if c <= hi {
				cls.ranges = append(cls.ranges, runeRange{c, hi})
			}
			continue
		}
		cls.ranges = append(cls.ranges, runeRange{c, c})
	}
	return cls, 0, false
}

var namedClasses = map[string]func(rune) bool{
	"alnum":  func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) },
	"alpha":  unicode.IsLetter,
	"blank":  func(r rune) bool { return r == ' ' || r == '\t' },
	"cntrl":  unicode.IsControl,
	"digit":  unicode.IsDigit,
	"graph":  func(r rune) bool { return unicode.IsGraphic(r) && r != ' ' },
	"lower":  unicode.IsLower,
	"print":  unicode.IsPrint,
	"punct":  func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) },
	"space":  unicode.IsSpace,
	"upper":  unicode.IsUpper,
	"xdigit": func(r rune) bool { return strings.ContainsRune("0123456789abcdefABCDEF", r) },
}

// namedClass expands "[:name:]" over ASCII, as fnmatch does in the C locale
func namedClass(rs []rune) (members []runeRange, width int, found bool) {
	s := string(rs)
	end := strings.Index(s[2:], ":]")
	if end < 0 {
		return nil, 0, false
	}
	name := s[2 : 2+end]
	is, known := namedClasses[name]
	if !known {
		return nil, 0, false
	}
	for r := rune(0); r < 128; r++ {
		if is(r) {
			members = append(members, runeRange{r, r})
		}
	}
	return members, len([]rune(s[:2+end+2])), true
}

// withoutSlash makes the class unable to match '/'
func (c charClass) withoutSlash() charClass {
	if c.negated {
		c.ranges = append(append([]runeRange{}, c.ranges...), runeRange{'/', '/'})
		return c
	}

	var out []runeRange
	for _, r := range c.ranges {
		if r.lo > '/' || r.hi < '/' {
			out = append(out, r)
			continue
		}
		if r.lo < '/' {
			out = append(out, runeRange{r.lo, '/' - 1})
		}
		if r.hi > '/' {
			out = append(out, runeRange{'/' + 1, r.hi})
		}
	}
	c.ranges = out
	return c
}

// write emits the class in gobwas syntax. It returns false when the class
// matches no character at all.
func (c charClass) write(b *strings.Builder) bool {
	switch {
	case len(c.ranges) == 0 && c.negated:
		b.WriteByte('?')
		return true
	case len(c.ranges) == 0:
		return false
	}

	// gobwas takes a single range as lo and hi runes without escapes;
	// 0 and a leading '!' are the only runes it cannot read there
	if len(c.ranges) == 1 {
		r := c.ranges[0]
		if !c.negated && r.lo == r.hi {
			writeLiteral(b, r.lo)
			return true
		}
		if r.lo != 0 && (c.negated || r.lo != '!') {
			b.WriteByte('[')
			if c.negated {
				b.WriteByte('!')
			}
			b.WriteRune(r.lo)
			b.WriteByte('-')
			b.WriteRune(r.hi)
			b.WriteByte(']')
			return true
		}
	}

	members := c.members()
	if len(members) == 1 && !c.negated {
		writeLiteral(b, members[0])
		return true
	}
	if len(members) == 1 {
		// "[!\-]" would read as a range starting at '\'
		b.WriteString("[!")
		b.WriteRune(members[0])
		b.WriteByte('-')
		b.WriteRune(members[0])
		b.WriteByte(']')
		return true
	}

	b.WriteByte('[')
	if c.negated {
		b.WriteByte('!')
	}
	for _, m := range members {
		b.WriteByte('\\')
		b.WriteRune(m)
	}
	b.WriteByte(']')
	return true
}

// members lists every rune of the class once, sorted, with '-' moved off
// the front where gobwas would take it as a range
func (c charClass) members() []rune {
	seen := make(map[rune]bool)
	var out []rune
	for _, r := range c.ranges {
		for x := r.lo; x <= r.hi; x++ {
			if !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	if len(out) > 1 && out[0] == '-' {
		out = append(out[1:], '-')
	}
	return out
}
