package corpus

// BookCount is the number of canonical books.
const BookCount = 66

// bookIDs maps numeric book indexes (1-66) to canonical 3-letter ids.
// Index 0 is the null sentinel so source indexes address it directly.
var bookIDs = [BookCount + 1]string{
	"",
	"gen", "exo", "lev", "num", "deu", "jos", "jdg", "rut",
	"1sa", "2sa", "1ki", "2ki", "1ch", "2ch", "ezr", "neh", "est",
	"job", "psa", "pro", "ecc", "sng",
	"isa", "jer", "lam", "eze", "dan",
	"hos", "joe", "amo", "oba", "jon", "mic", "nah", "hab", "zep", "hag", "zec", "mal",
	"mat", "mar", "luk", "joh", "act",
	"rom", "1co", "2co", "gal", "eph", "phi", "col",
	"1th", "2th", "1ti", "2ti", "tit", "phm",
	"heb", "jam", "1pe", "2pe", "1jo", "2jo", "3jo", "jud", "rev",
}

var bookIndexes = func() map[string]int {
	m := make(map[string]int, BookCount)
	for i := 1; i <= BookCount; i++ {
		m[bookIDs[i]] = i
	}
	return m
}()

// BookID returns the canonical id for a numeric book index, or "" when
// the index is outside 1-66.
func BookID(index int) string {
	if index < 1 || index > BookCount {
		return ""
	}
	return bookIDs[index]
}

// BookIndex returns the numeric index for a canonical book id, or 0 when
// the id is not canonical. Ids are matched exactly; callers lowercase
// source ids before resolving.
func BookIndex(id string) int {
	return bookIndexes[id]
}

// IsCanonicalBook reports whether id is one of the 66 canonical book ids.
func IsCanonicalBook(id string) bool {
	_, ok := bookIndexes[id]
	return ok
}
