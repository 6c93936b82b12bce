package caption

import "regexp"

// Field identifies a MovieInfo field filled by a rule.
type Field int

const (
	FieldName Field = iota
	FieldGenre
	FieldLanguage
	FieldScore
	FieldAwards
	FieldActors
	FieldDuration
	FieldQuality
	FieldSummary
)

var fieldNames = map[Field]string{
	FieldName:     "name",
	FieldGenre:    "genre",
	FieldLanguage: "language",
	FieldScore:    "score",
	FieldAwards:   "awards",
	FieldActors:   "actors",
	FieldDuration: "duration",
	FieldQuality:  "quality",
	FieldSummary:  "summary",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return "unknown"
}

type fieldRule struct {
	field   Field
	matcher *RegexpMatcher
	apply   func(info *MovieInfo, groups [][]string)
}

// Bare quality tokens must not touch letters or digits of any script; \b only knows ASCII.
const (
	tokenStart = `(?:^|[^\p{L}\p{N}_])`
	tokenEnd   = `(?:$|[^\p{L}\p{N}_])`
)

var yearRe = regexp.MustCompile(`\(([0-9۰-۹]{4})`)

// fieldRules is evaluated top to bottom, each rule against the whole caption.
// Patterns inside one matcher are tried in order and the first match wins.
var fieldRules = []fieldRule{
	{FieldName, NewRegexpMatcher(`🎥فیلم\s*(.+?)(?:\n|$)`), applyName},
	{FieldGenre, NewRegexpMatcher(`📽ژانر:\s*(.+?)(?:\n|$)`), trimmed(func(i *MovieInfo, v string) { i.Genre = v })},
	{FieldLanguage, NewRegexpMatcher(`[📄📃]زبان:\s*(.+?)(?:\n|$)`), trimmed(func(i *MovieInfo, v string) { i.Language = v })},
	{FieldScore, NewRegexpMatcher(`[⭐️⭐]امتیاز\s*([۰-۹0-9.]+)\s*از\s*([۰-۹0-9]+)`), applyScore},
	{FieldAwards, NewRegexpMatcher(`🎁جوایز:\s*(.+?)(?:\n|$)`), trimmed(func(i *MovieInfo, v string) { i.Awards = v })},
	{FieldActors, NewRegexpMatcherAll(`/([A-Za-z_]+)`), applyActors},
	{FieldDuration, NewRegexpMatcher(`[⏳⌛️]مدت زمان:\s*(.+?)(?:\n|$)`), applyDuration},
	{FieldQuality, NewRegexpMatcher(
		`[🎬📹🎥]کیفیت:\s*(.+?)(?:\n|$)`,
		`Quality:\s*(.+?)(?:\n|$)`,
		`(?i)`+tokenStart+`(4K|2160p|1080p|720p|480p|360p)`+tokenEnd,
		`(?i)`+tokenStart+`(BluRay|BRRip|WEB-DL|WEBRip|HDRip)`+tokenEnd,
	), trimmed(func(i *MovieInfo, v string) { i.Quality = v })},
	{FieldSummary, NewRegexpMatcher(`(?s)خلاصه داستان:\s*(.+?)$`), trimmed(func(i *MovieInfo, v string) { i.Summary = v })},
}
