package caption

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDisplay(t *testing.T) {
	info := MovieInfo{
		Name:     "The Great Escape",
		Year:     "1963",
		Score:    "8.5/10",
		Duration: "120 دقیقه",
		Genre:    "Action",
		Summary:  "A thrilling tale.",
	}

	want := "Download 🔞#Film_Nights🔞\n" +
		"\n" +
		"⬛️ Name: The Great Escape\n" +
		"🟨 Data Release: 1963\n" +
		"🟥 Score IMDB: 《8.5/10》\n" +
		"🟩 Country: 🇺🇸 USA\n" +
		"🟪 Time: 120 دقیقه\n" +
		"🟫 Genre: 《Action》\n" +
		"\n" +
		"A thrilling tale.\n" +
		"\n" +
		"🔗 https://t.me/Film_Maamnooe"

	assert.Equal(t, want, RenderDisplay(info))
}

func TestRenderDisplay_Country(t *testing.T) {
	out := RenderDisplay(MovieInfo{Country: "🇫🇷 France"})

	assert.Contains(t, out, "🟩 Country: 🇫🇷 France\n")
	assert.NotContains(t, out, DefaultCountry)
}

func TestRenderDisplay_EmptyInfo(t *testing.T) {
	out := RenderDisplay(MovieInfo{})

	assert.Contains(t, out, "⬛️ Name: \n")
	assert.Contains(t, out, "🟥 Score IMDB: 《》\n")
	assert.Contains(t, out, "🟩 Country: 🇺🇸 USA\n")
}

func TestRenderFilePost(t *testing.T) {
	want := "🟧 Heat\n" +
		"🟥 Quality: 1080p\n" +
		"🟦 Language: 《زیرنویس چسبیده》\n" +
		"\n" +
		"🔗 https://t.me/Film_Maamnooe"

	assert.Equal(t, want, RenderFilePost(MovieInfo{Name: "Heat", Quality: "1080p"}))
}

func TestRenderFilePost_EmptyQualityFallsBack(t *testing.T) {
	out := RenderFilePost(MovieInfo{Name: "Heat"})

	assert.Contains(t, out, "🟥 Quality: 720p\n")
}

func TestRender_Pure(t *testing.T) {
	info := Extract(sampleCaption)

	assert.Equal(t, RenderDisplay(info), RenderDisplay(info))
	assert.Equal(t, RenderFilePost(info), RenderFilePost(info))
}

func TestRender_PercentInFields(t *testing.T) {
	out := RenderDisplay(MovieInfo{Summary: "100% real %s"})

	assert.Contains(t, out, "\n100% real %s\n")
}
