package llm

import "strings"

// CleanMarkdownWrapper strips triple-backtick code fences from a completion.
// Providers asked for strict JSON still wrap payloads in ```json fences
// often enough that every parse path must tolerate them.
func CleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")

	if idx := strings.LastIndex(content, "```"); idx >= 0 {
		content = content[:idx]
	}

	return strings.TrimSpace(content)
}
