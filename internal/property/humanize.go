package property

import (
	"strings"
	"unicode"
)

// Humanize разбивает camelCase ключ на слова через пробел:
// "userName" -> "user Name", "HTMLParser" -> "HTML Parser", "userID" -> "user ID".
// Пробел ставится перед заглавной буквой, если перед ней строчная
// или после нее идет строчная. После пробела новый не добавляется,
// поэтому повторный вызов ничего не меняет.
func Humanize(key string) string {
	runes := []rune(key)

	var b strings.Builder
	b.Grow(len(key) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsSpace(runes[i-1]) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}
