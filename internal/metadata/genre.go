package metadata

import "strings"

// categoryTable maps provider category labels onto the genre vocabulary
// stored on book records. Order matters: the case-insensitive substring
// fallback scans entries top to bottom, so specific labels ("Science
// Fiction", "Nonfiction") must precede the generic ones they contain.
var categoryTable = []struct {
	key   string
	genre string
}{
	{"Science Fiction", "Science Fiction"},
	{"Fantasy", "Fantasy"},
	{"Mystery", "Mystery"},
	{"Detective", "Mystery"},
	{"Thrillers", "Mystery"},
	{"Horror", "Horror"},
	{"Romance", "Romance"},
	{"Comics", "Comics"},
	{"Graphic Novels", "Comics"},
	{"Manga", "Comics"},
	{"Poetry", "Poetry"},
	{"Drama", "Drama"},
	{"Essays", "Essays"},
	{"Biography", "Biography"},
	{"Autobiography", "Biography"},
	{"Memoir", "Biography"},
	{"History", "History"},
	{"Philosophy", "Philosophy"},
	{"Religion", "Religion"},
	{"Psychology", "Psychology"},
	{"Self-Help", "Self-Help"},
	{"Business", "Business"},
	{"Economics", "Business"},
	{"Computers", "Technology"},
	{"Technology", "Technology"},
	{"Engineering", "Technology"},
	{"Mathematics", "Science"},
	{"Science", "Science"},
	{"Medical", "Health"},
	{"Health", "Health"},
	{"Cooking", "Cooking"},
	{"Travel", "Travel"},
	{"Art", "Art"},
	{"Music", "Art"},
	{"Photography", "Art"},
	{"Sports", "Sports"},
	{"Education", "Education"},
	{"Language Arts", "Language"},
	{"Foreign Language Study", "Language"},
	{"Nonfiction", "Nonfiction"},
	{"Fiction", "Fiction"},
}

// ccodeTable maps the 2-digit content suffix of a Japanese C-code
// (SubjectSchemeIdentifier 78) onto the genre vocabulary. Codes with
// no sensible mapping are simply absent.
var ccodeTable = map[string]string{
	"04": "Technology", // information science
	"10": "Philosophy",
	"11": "Psychology",
	"14": "Religion",
	"15": "Religion",
	"16": "Religion",
	"20": "History",
	"21": "History",
	"22": "History",
	"23": "Biography",
	"25": "Travel",
	"26": "Travel",
	"33": "Business",
	"34": "Business",
	"36": "Nonfiction",
	"37": "Education",
	"40": "Science",
	"41": "Science",
	"42": "Science",
	"43": "Science",
	"44": "Science",
	"45": "Science",
	"47": "Health",
	"50": "Technology",
	"52": "Technology",
	"53": "Technology",
	"54": "Technology",
	"55": "Technology",
	"63": "Business",
	"70": "Art",
	"71": "Art",
	"72": "Art",
	"73": "Art",
	"74": "Drama",
	"75": "Sports",
	"77": "Cooking",
	"79": "Comics",
	"80": "Language",
	"81": "Language",
	"82": "Language",
	"84": "Language",
	"85": "Language",
	"87": "Language",
	"90": "Fiction",
	"91": "Fiction",
	"92": "Poetry",
	"93": "Fiction",
	"95": "Essays",
	"97": "Fiction",
	"98": "Fiction",
}

// genreVocabulary is the closed set of labels the tables above produce.
// Record-level validation consults it so user input stays consistent
// with classifier output.
var genreVocabulary = map[string]struct{}{}

func init() {
	for _, e := range categoryTable {
		genreVocabulary[e.genre] = struct{}{}
	}
	for _, g := range ccodeTable {
		genreVocabulary[g] = struct{}{}
	}
}

// IsGenreLabel reports whether s belongs to the genre vocabulary.
func IsGenreLabel(s string) bool {
	_, ok := genreVocabulary[s]
	return ok
}

// GenreLabels returns the vocabulary in table-declaration order.
func GenreLabels() []string {
	labels := make([]string, 0, len(genreVocabulary))
	seen := make(map[string]struct{}, len(genreVocabulary))
	for _, e := range categoryTable {
		if _, ok := seen[e.genre]; ok {
			continue
		}
		seen[e.genre] = struct{}{}
		labels = append(labels, e.genre)
	}
	return labels
}

// ClassifyCategories maps free-form provider category labels onto the genre
// vocabulary. Exact matches win, then a case-insensitive substring match in
// table order; with no hit at all the first category passes through verbatim
// so an unusual label is kept rather than lost.
func ClassifyCategories(categories []string) string {
	if len(categories) == 0 {
		return ""
	}

	for _, c := range categories {
		for _, e := range categoryTable {
			if c == e.key {
				return e.genre
			}
		}
	}

	for _, e := range categoryTable {
		key := strings.ToLower(e.key)
		for _, c := range categories {
			if strings.Contains(strings.ToLower(c), key) {
				return e.genre
			}
		}
	}

	return categories[0]
}

// GenreFromCCode maps a 4-digit C-code to a genre label via its 2-digit
// content suffix. Unknown or malformed codes yield "".
func GenreFromCCode(code string) string {
	if len(code) != 4 {
		return ""
	}
	return ccodeTable[code[2:]]
}
