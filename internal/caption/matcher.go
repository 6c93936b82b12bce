package caption

import "regexp"

// RegexpMatcher tries its patterns in order and returns the submatches of the
// first one that matches. With all set, every match of that pattern is returned.
type RegexpMatcher struct {
	reArr []*regexp.Regexp
	all   bool
}

func NewRegexpMatcher(patterns ...string) *RegexpMatcher {
	return newRegexpMatcher(false, patterns)
}

func NewRegexpMatcherAll(patterns ...string) *RegexpMatcher {
	return newRegexpMatcher(true, patterns)
}

func newRegexpMatcher(all bool, patterns []string) *RegexpMatcher {
	reArr := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		reArr = append(reArr, regexp.MustCompile(p))
	}
	return &RegexpMatcher{reArr: reArr, all: all}
}

// Match returns nil when no pattern matches.
func (s *RegexpMatcher) Match(input string) [][]string {
	for _, re := range s.reArr {
		if s.all {
			if ms := re.FindAllStringSubmatch(input, -1); len(ms) > 0 {
				return ms
			}
			continue
		}
		if m := re.FindStringSubmatch(input); m != nil {
			return [][]string{m}
		}
	}
	return nil
}
