// Package caption turns a semi-structured movie caption into a MovieInfo record
// and renders that record into the display and file post templates.
package caption

import "strings"

// DefaultQuality is used when a caption names no resolution or source.
const DefaultQuality = "720p"

// MovieInfo holds the fields parsed from a movie caption.
// Every field is always present; unparsed fields keep their zero value.
type MovieInfo struct {
	Name     string
	Year     string
	Genre    string
	Language string
	Score    string
	Awards   string
	Actors   []string
	Duration string
	Summary  string
	Country  string
	Quality  string
}

// Extract parses a caption. It never fails: a field whose pattern does not
// match keeps its default value.
func Extract(caption string) MovieInfo {
	info := MovieInfo{
		Actors:  []string{},
		Quality: DefaultQuality,
	}
	for _, rule := range fieldRules {
		groups := rule.matcher.Match(caption)
		if groups == nil {
			continue
		}
		rule.apply(&info, groups)
	}
	return info
}

func applyName(info *MovieInfo, groups [][]string) {
	full := strings.TrimSpace(groups[0][1])

	year := ""
	if m := yearRe.FindStringSubmatch(full); m != nil {
		year = m[1]
	}
	info.Year = year

	name := strings.TrimSpace(strings.TrimLeft(full, "("))
	if year != "" {
		if pos := strings.Index(name, "("+year); pos > 0 {
			name = strings.TrimSpace(name[:pos])
		}
	}
	info.Name = strings.TrimSpace(strings.ReplaceAll(name, "..", ""))
}

func applyScore(info *MovieInfo, groups [][]string) {
	num := normalizeDigits(strings.TrimSpace(groups[0][1]))
	den := normalizeDigits(strings.TrimSpace(groups[0][2]))
	info.Score = num + "/" + den
}

func applyActors(info *MovieInfo, groups [][]string) {
	actors := make([]string, 0, len(groups))
	for _, g := range groups {
		actors = append(actors, g[1])
	}
	info.Actors = actors
}

func applyDuration(info *MovieInfo, groups [][]string) {
	info.Duration = normalizeDigits(strings.TrimSpace(groups[0][1]))
}

// trimmed returns an apply func storing the trimmed first group into the
// field selected by set.
func trimmed(set func(*MovieInfo, string)) func(*MovieInfo, [][]string) {
	return func(info *MovieInfo, groups [][]string) {
		set(info, strings.TrimSpace(groups[0][1]))
	}
}
