package util

import "strings"

const fence = "```"

// StripCodeFences снимает обёртку ```lang ... ``` вокруг ответа модели.
// Текст без открывающего ``` возвращается как есть (после TrimSpace).
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, fence) {
		return s
	}

	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// первая строка это ``` с необязательным тегом языка
		start := nl + 1
		end := strings.LastIndex(s, fence)
		if end <= start {
			end = len(s)
		}
		return strings.TrimSpace(s[start:end])
	}

	// всё в одну строку: ```json{...}```
	body := strings.TrimPrefix(s, fence)
	body = strings.TrimLeftFunc(body, isASCIILetter)
	body = strings.TrimSuffix(body, fence)
	return strings.TrimSpace(body)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
