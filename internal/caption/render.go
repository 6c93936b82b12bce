package caption

import "fmt"

const (
	// DefaultCountry is shown on the display post when the caption has no country.
	DefaultCountry = "🇺🇸 USA"
	channelLink    = "🔗 https://t.me/Film_Maamnooe"
)

const displayTemplate = `Download 🔞#Film_Nights🔞

⬛️ Name: %s
🟨 Data Release: %s
🟥 Score IMDB: 《%s》
🟩 Country: %s
🟪 Time: %s
🟫 Genre: 《%s》

%s

` + channelLink

const fileTemplate = `🟧 %s
🟥 Quality: %s
🟦 Language: 《زیرنویس چسبیده》

` + channelLink

// RenderDisplay builds the caption of the poster post.
func RenderDisplay(info MovieInfo) string {
	country := info.Country
	if country == "" {
		country = DefaultCountry
	}
	return fmt.Sprintf(displayTemplate,
		info.Name,
		info.Year,
		info.Score,
		country,
		info.Duration,
		info.Genre,
		info.Summary,
	)
}

// RenderFilePost builds the caption sent with the movie file.
func RenderFilePost(info MovieInfo) string {
	quality := info.Quality
	if quality == "" {
		quality = DefaultQuality
	}
	return fmt.Sprintf(fileTemplate, info.Name, quality)
}
