package catalog

// Categories is the full Play Store category vocabulary
var Categories = []string{
	"APPLICATION", "ART_AND_DESIGN", "AUTO_AND_VEHICLES",
	"BEAUTY", "BOOKS_AND_REFERENCE", "BUSINESS", "COMICS",
	"COMMUNICATION", "DATING", "EDUCATION", "ENTERTAINMENT",
	"EVENTS", "FINANCE", "FOOD_AND_DRINK", "HEALTH_AND_FITNESS",
	"HOUSE_AND_HOME", "LIBRARIES_AND_DEMO", "LIFESTYLE",
	"MAPS_AND_NAVIGATION", "MEDICAL", "MUSIC_AND_AUDIO",
	"NEWS_AND_MAGAZINES", "PARENTING", "PERSONALIZATION",
	"PHOTOGRAPHY", "PRODUCTIVITY", "SHOPPING", "SOCIAL",
	"SPORTS", "TOOLS", "TRAVEL_AND_LOCAL", "VIDEO_PLAYERS",
	"WATCH_FACE", "WEATHER", "GAME", "GAME_ACTION", "GAME_ADVENTURE",
	"GAME_ARCADE", "GAME_BOARD", "GAME_CARD", "GAME_CASINO",
	"GAME_CASUAL", "GAME_EDUCATIONAL", "GAME_MUSIC", "GAME_PUZZLE",
	"GAME_RACING", "GAME_ROLE_PLAYING", "GAME_SIMULATION",
	"GAME_SPORTS", "GAME_STRATEGY", "GAME_TRIVIA", "GAME_WORD", "FAMILY",
}

// Collections are the fixed top lists the catalog exposes per category
var Collections = []string{
	"TOP_FREE",
	"TOP_PAID",
	"GROSSING",
}

// IsCategory reports whether name belongs to the category vocabulary
func IsCategory(name string) bool {
	return contains(Categories, name)
}

// IsCollection reports whether name belongs to the collection vocabulary
func IsCollection(name string) bool {
	return contains(Collections, name)
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
