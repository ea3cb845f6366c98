package service

import "regexp"

var mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)

// ExtractMentions returns the emails referenced as @email in text, in order of first
// appearance and without repeats. Existence is not checked.
func ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	mentions := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		email := match[1]
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		mentions = append(mentions, email)
	}
	return mentions
}
