package catalog

import (
	"fmt"
	"strings"

	"brainbuzz/internal/domain"
)

var difficultyPoints = map[domain.Difficulty]int{domain.Easy: 10, domain.Medium: 15, domain.Hard: 20}

var logoPoints = map[domain.Difficulty]int{domain.Easy: 8, domain.Medium: 12, domain.Hard: 16}

// BuiltinBanks returns the stock banks of every game.
func BuiltinBanks() []domain.Bank {
	return []domain.Bank{
		wordBank(),
		flagBank(),
		brainBank(),
		foodBank(),
		logoBank(),
	}
}

var words = []string{
	"BRAIN", "STUDY", "LEARN", "THINK", "SMART", "FOCUS", "WRITE", "TEACH",
	"GRADE", "PAPER", "BOOKS", "CLASS", "NOTES", "SOLVE", "RULES", "LOGIC",
	"SHARP", "QUICK", "CLEAR", "POWER", "SPEED", "BOOST", "SKILL",
}

func wordBank() domain.Bank {
	items := make([]domain.QuizItem, 0, len(words))
	for _, w := range words {
		items = append(items, domain.QuizItem{
			ID:         strings.ToLower(w),
			PromptKind: domain.PromptText,
			Answer:     w,
			Difficulty: domain.Medium,
			Points:     10,
		})
	}
	return domain.Bank{Game: domain.GameWordle, Items: items}
}

var countries = []struct{ code, name string }{
	{"us", "United States"}, {"ca", "Canada"}, {"gb", "United Kingdom"}, {"fr", "France"},
	{"de", "Germany"}, {"it", "Italy"}, {"es", "Spain"}, {"jp", "Japan"},
	{"cn", "China"}, {"in", "India"}, {"br", "Brazil"}, {"au", "Australia"},
	{"ru", "Russia"}, {"mx", "Mexico"}, {"ar", "Argentina"}, {"za", "South Africa"},
	{"eg", "Egypt"}, {"ng", "Nigeria"}, {"kr", "South Korea"}, {"th", "Thailand"},
	{"tr", "Turkey"}, {"sa", "Saudi Arabia"}, {"nl", "Netherlands"}, {"be", "Belgium"},
	{"ch", "Switzerland"}, {"se", "Sweden"}, {"no", "Norway"}, {"dk", "Denmark"},
	{"fi", "Finland"}, {"pt", "Portugal"}, {"gr", "Greece"}, {"ie", "Ireland"},
	{"at", "Austria"}, {"pl", "Poland"}, {"cz", "Czech Republic"}, {"hu", "Hungary"},
	{"sk", "Slovakia"}, {"ro", "Romania"}, {"bg", "Bulgaria"}, {"hr", "Croatia"},
	{"si", "Slovenia"}, {"lt", "Lithuania"}, {"lv", "Latvia"}, {"ee", "Estonia"},
	{"ua", "Ukraine"}, {"by", "Belarus"}, {"md", "Moldova"}, {"rs", "Serbia"},
	{"me", "Montenegro"}, {"ba", "Bosnia and Herzegovina"}, {"mk", "North Macedonia"},
}

func flagBank() domain.Bank {
	items := make([]domain.QuizItem, 0, len(countries))
	for _, c := range countries {
		items = append(items, domain.QuizItem{
			ID:         c.code,
			Prompt:     fmt.Sprintf("https://flagcdn.com/256x192/%s.png", c.code),
			PromptKind: domain.PromptImage,
			Answer:     c.name,
			Difficulty: domain.Medium,
			Points:     10,
			Category:   "flags",
		})
	}
	return domain.Bank{Game: domain.GameFlagGuesser, Items: items}
}

func brainBank() domain.Bank {
	item := func(id, category, prompt string, options []string, correct int, d domain.Difficulty, explanation string) domain.QuizItem {
		return domain.QuizItem{
			ID:          id,
			Prompt:      prompt,
			PromptKind:  domain.PromptText,
			Options:     options,
			Correct:     correct,
			Difficulty:  d,
			Points:      difficultyPoints[d],
			Category:    category,
			Explanation: explanation,
		}
	}
	return domain.Bank{Game: domain.GameBrainChallenges, Items: []domain.QuizItem{
		item("pizza", "math", "If a pizza has 8 slices and you eat 3, what fraction of the pizza remains?",
			[]string{"3/8", "5/8", "1/2", "2/3"}, 1, domain.Easy,
			"8 - 3 = 5 slices remaining out of 8 total = 5/8"),
		item("roses", "logic", "All roses are flowers. Some flowers fade quickly. Therefore:",
			[]string{"All roses fade quickly", "Some roses fade quickly", "No roses fade quickly", "Cannot be determined"}, 3, domain.Medium,
			"Nothing in the premises says which flowers fade, so roses are undetermined."),
		item("sequence", "pattern", "What comes next in the sequence: 2, 6, 12, 20, 30, ?",
			[]string{"40", "42", "44", "48"}, 1, domain.Medium,
			"The terms are n(n+1) for n = 1..5, so the next one is 6 x 7 = 42"),
		item("map", "riddle", "I have cities, but no houses. I have mountains, but no trees. I have water, but no fish. What am I?",
			[]string{"A picture", "A map", "A dream", "A book"}, 1, domain.Easy,
			"A map shows cities, mountains and water without any houses, trees or fish."),
		item("equation", "math", "If 5x + 3 = 23, what is the value of x?",
			[]string{"3", "4", "5", "6"}, 1, domain.Easy,
			"5x = 23 - 3 = 20, so x = 20 / 5 = 4"),
		item("machines", "logic", "If it takes 6 machines 6 minutes to make 6 widgets, how long does it take 100 machines to make 100 widgets?",
			[]string{"6 minutes", "10 minutes", "60 minutes", "100 minutes"}, 0, domain.Hard,
			"Each machine makes one widget in 6 minutes, so 100 machines make 100 widgets in 6 minutes."),
		item("shapes", "pattern", "Which shape completes the pattern? Circle, Square, Triangle, Circle, Square, ?",
			[]string{"Circle", "Triangle", "Square", "Pentagon"}, 1, domain.Easy,
			"The pattern repeats every three shapes: Circle, Square, Triangle."),
		item("towel", "riddle", "What gets wetter the more it dries?",
			[]string{"A sponge", "A towel", "Hair", "Clothes"}, 1, domain.Easy,
			"A towel gets wetter as it dries other things."),
	}}
}

func foodBank() domain.Bank {
	item := func(id, emoji string, options []string, correct int, d domain.Difficulty) domain.QuizItem {
		return domain.QuizItem{
			ID:         id,
			Prompt:     emoji,
			PromptKind: domain.PromptEmoji,
			Options:    options,
			Correct:    correct,
			Difficulty: d,
			Points:     difficultyPoints[d],
			Category:   "food",
		}
	}
	return domain.Bank{Game: domain.GameFoodQuiz, Items: []domain.QuizItem{
		item("pizza", "🍕", []string{"Pizza", "Burger", "Sandwich", "Pasta"}, 0, domain.Easy),
		item("apple", "🍎", []string{"Orange", "Banana", "Apple", "Grape"}, 2, domain.Easy),
		item("burger", "🍔", []string{"Pizza", "Burger", "Hot Dog", "Sandwich"}, 1, domain.Easy),
		item("pasta", "🍝", []string{"Rice", "Noodles", "Pasta", "Bread"}, 2, domain.Easy),
		item("ice-cream", "🍦", []string{"Cake", "Ice Cream", "Pudding", "Yogurt"}, 1, domain.Easy),
		item("salad", "🥗", []string{"Soup", "Salad", "Sandwich", "Pasta"}, 1, domain.Medium),
		item("sushi", "🍣", []string{"Sushi", "Fish", "Rice", "Noodles"}, 0, domain.Medium),
		item("croissant", "🥐", []string{"Bread", "Croissant", "Bagel", "Muffin"}, 1, domain.Medium),
		item("hot-pot", "🍲", []string{"Soup", "Stew", "Curry", "Hot Pot"}, 3, domain.Hard),
		item("dumpling", "🥟", []string{"Ravioli", "Dumpling", "Meatball", "Wontons"}, 1, domain.Hard),
	}}
}

func logoBank() domain.Bank {
	item := func(id, symbol string, options []string, correct int, d domain.Difficulty) domain.QuizItem {
		return domain.QuizItem{
			ID:         id,
			Prompt:     symbol,
			PromptKind: domain.PromptEmoji,
			Options:    options,
			Correct:    correct,
			Difficulty: d,
			Points:     logoPoints[d],
			Category:   "brands",
		}
	}
	return domain.Bank{Game: domain.GameLogoGuesser, Items: []domain.QuizItem{
		item("apple", "🍎", []string{"Apple", "Google", "Microsoft", "Sony"}, 0, domain.Easy),
		item("amazon", "🛍️", []string{"eBay", "Shopify", "Amazon", "Etsy"}, 2, domain.Easy),
		item("youtube", "▶️", []string{"Netflix", "YouTube", "Vimeo", "Twitch"}, 1, domain.Easy),
		item("spotify", "🎵", []string{"SoundCloud", "Apple Music", "Spotify", "Deezer"}, 2, domain.Easy),
		item("instagram", "📸", []string{"Instagram", "Snapchat", "TikTok", "Pinterest"}, 0, domain.Easy),
		item("snapchat", "👻", []string{"Ghost", "Snapchat", "Discord", "Reddit"}, 1, domain.Medium),
		item("skyscanner", "🛩️", []string{"Airbnb", "Expedia", "Skyscanner", "Booking.com"}, 2, domain.Medium),
		item("steam", "🕹️", []string{"Xbox", "PlayStation", "Nintendo", "Steam"}, 3, domain.Medium),
	}}
}
