package catalog

import "github.com/samvad-hq/samvad-portal/internal/domain"

// Keywords maps a target category to lowercase substrings (brands, synonyms, localized labels)
// that also place an article in that category when found in a tag or the category string.
var Keywords = map[domain.Category][]string{
	domain.CategorySmartphones: {
		"smartphone", "iphone", "samsung", "galaxy", "pixel", "xiaomi", "redmi", "poco",
		"oneplus", "oppo", "realme", "motorola", "huawei", "honor", "nothing phone",
		"telefono", "cellulare",
	},
	domain.CategoryWearables: {
		"wearable", "smartwatch", "smart watch", "galaxy watch", "apple watch", "wear os",
		"smartband", "fitbit", "garmin", "amazfit", "auricolari", "earbuds", "airpods",
	},
	domain.CategoryModding: {
		"modding", "root", "custom rom", "magisk", "bootloader", "twrp", "kernel",
		"xposed", "lsposed", "recovery", "firmware",
	},
	domain.CategoryAppsGames: {
		"app", "apk", "giochi", "gioco", "games", "gaming", "play store", "videogiochi",
	},
	domain.CategoryDeals: {
		"offert", "sconto", "sconti", "coupon", "deal", "black friday", "prime day", "promo",
	},
	domain.CategoryReviews: {
		"recension", "review", "prova", "hands-on", "unboxing",
	},
	domain.CategoryGuides: {
		"guida", "guide", "how to", "how-to", "consigli",
	},
	domain.CategoryTutorials: {
		"tutorial", "passo passo", "step by step",
	},
	domain.CategoryNews: {
		"notizie", "novità", "annuncio", "leak", "rumor", "aggiornamento",
	},
}

// KeywordsFor returns a copy of the keyword list for cat.
func KeywordsFor(cat domain.Category) []string {
	return KeywordsIn(Keywords, cat)
}

// KeywordsIn looks up cat in table case-insensitively and returns its keywords lowercased.
func KeywordsIn(table map[domain.Category][]string, cat domain.Category) []string {
	if kws, ok := table[cat]; ok {
		return normalizeKeywords(kws)
	}
	key := cat.Key()
	for c, kws := range table {
		if c.Key() == key {
			return normalizeKeywords(kws)
		}
	}
	return nil
}

func normalizeKeywords(kws []string) []string {
	out := make([]string, 0, len(kws))
	for _, kw := range kws {
		if k := domain.NormalizeKey(kw); k != "" {
			out = append(out, k)
		}
	}
	return out
}
