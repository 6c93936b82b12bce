package caption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCaption = "🎥فیلم The Great Escape (1963\n" +
	"📽ژانر: Action\n" +
	"⭐️امتیاز ۸.۵ از ۱۰\n" +
	"⏳مدت زمان: ۱۲۰ دقیقه\n" +
	"خلاصه داستان: A thrilling tale."

func TestExtract_SampleCaption(t *testing.T) {
	info := Extract(sampleCaption)

	assert.Equal(t, "The Great Escape", info.Name)
	assert.Equal(t, "1963", info.Year)
	assert.Equal(t, "Action", info.Genre)
	assert.Equal(t, "8.5/10", info.Score)
	assert.Equal(t, "120 دقیقه", info.Duration)
	assert.Equal(t, "A thrilling tale.", info.Summary)
	assert.Equal(t, DefaultQuality, info.Quality)
	assert.Empty(t, info.Language)
	assert.Empty(t, info.Awards)
	assert.Empty(t, info.Country)
	assert.Empty(t, info.Actors)
}

func TestExtract_EmptyCaption(t *testing.T) {
	info := Extract("")

	assert.Equal(t, MovieInfo{Actors: []string{}, Quality: DefaultQuality}, info)
	require.NotNil(t, info.Actors)
}

func TestExtract_Fields(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		check   func(t *testing.T, info MovieInfo)
	}{
		{
			name:    "name with leading paren and dotted title",
			caption: "🎥فیلم (April..s Daug..hter (2017 (دختر ماه آوریل)",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, "Aprils Daughter", info.Name)
				assert.Equal(t, "2017", info.Year)
			},
		},
		{
			name:    "name without year",
			caption: "🎥فیلم  Heat  \nsomething else",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, "Heat", info.Name)
				assert.Empty(t, info.Year)
			},
		},
		{
			name:    "persian digit year",
			caption: "🎥فیلم Title (۲۰۱۷\n",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, "Title", info.Name)
				assert.Equal(t, "۲۰۱۷", info.Year)
			},
		},
		{
			name:    "language with alternate page marker",
			caption: "📃زبان: English",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, "English", info.Language)
			},
		},
		{
			name:    "language with first page marker",
			caption: "📄زبان:  Persian ",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, "Persian", info.Language)
			},
		},
		{
			name:    "score with plain star and ascii digits",
			caption: "⭐امتیاز 7.2 از 10",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, "7.2/10", info.Score)
			},
		},
		{
			name:    "awards",
			caption: "🎁جوایز: 3 Oscars\n",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, "3 Oscars", info.Awards)
			},
		},
		{
			name:    "duration with alternate hourglass",
			caption: "⌛️مدت زمان: ۹۵ دقیقه",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, "95 دقیقه", info.Duration)
			},
		},
		{
			name:    "actors keep order and duplicates",
			caption: "بازیگران: /John_Doe و /Jane و /John_Doe",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, []string{"John_Doe", "Jane", "John_Doe"}, info.Actors)
			},
		},
		{
			name:    "summary spans lines",
			caption: "خلاصه داستان:\n  first line\nsecond line\n",
			check: func(t *testing.T, info MovieInfo) {
				assert.Equal(t, "first line\nsecond line", info.Summary)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Extract(tt.caption))
		})
	}
}

func TestExtract_Quality(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    string
	}{
		{"explicit persian marker", "🎬کیفیت: 1080p BluRay\n", "1080p BluRay"},
		{"explicit video marker", "📹کیفیت: WEB-DL", "WEB-DL"},
		{"explicit english marker", "Quality: 4K HDR", "4K HDR"},
		{"bare resolution token", "some text 1080p here", "1080p"},
		{"bare token is case insensitive", "release 2160P", "2160P"},
		{"resolution beats source token", "BluRay 480p", "480p"},
		{"source token only", "WEBRip x264", "WEBRip"},
		{"explicit marker beats bare token", "🎬کیفیت: 720p\nalso 1080p", "720p"},
		{"token glued to persian text", "کیفیت1080pفارسی", DefaultQuality},
		{"token between persian words", "کیفیت 1080p فارسی", "1080p"},
		{"token glued to digits", "x1080p", DefaultQuality},
		{"nothing found", "no quality here", DefaultQuality},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.caption).Quality)
		})
	}
}

func TestExtract_OrderIndependent(t *testing.T) {
	lines := []string{
		"🎥فیلم Inception (2010",
		"📽ژانر: Sci-Fi",
		"📄زبان: English",
		"⭐️امتیاز ۸.۸ از ۱۰",
		"🎁جوایز: 4 Oscars",
		"⏳مدت زمان: ۱۴۸ دقیقه",
		"🎬کیفیت: 1080p",
		"/Leonardo_DiCaprio /Elliot_Page",
	}
	summary := "خلاصه داستان: Dreams within dreams."

	canonical := Extract(strings.Join(append(append([]string{}, lines...), summary), "\n"))

	reversed := make([]string, 0, len(lines)+1)
	for i := len(lines) - 1; i >= 0; i-- {
		reversed = append(reversed, lines[i])
	}
	reversed = append(reversed, summary)

	assert.Equal(t, canonical, Extract(strings.Join(reversed, "\n")))
	assert.Equal(t, "Inception", canonical.Name)
	assert.Equal(t, "8.8/10", canonical.Score)
	assert.Equal(t, "148 دقیقه", canonical.Duration)
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "0123456789", normalizeDigits("۰۱۲۳۴۵۶۷۸۹"))
	assert.Equal(t, "abc 12", normalizeDigits("abc ۱2"))
	assert.Equal(t, "", normalizeDigits(""))
	assert.Equal(t, "12\uFFFD", normalizeDigits("۱۲\xff"))
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "quality", FieldQuality.String())
	assert.Equal(t, "unknown", Field(99).String())
}
