package bot

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

func formatReplyText(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

func parseCommand(s string) (string, []string) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return "", nil
	}
	// Commands in groups arrive as /cmd@botname
	cmd, _, _ := strings.Cut(parts[0], "@")
	return cmd, parts[1:]
}

// isValidCurrencyCode checks for a three letter upper case code.
func isValidCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// escapeMarkdown escapes characters that have meaning in Telegram's legacy
// Markdown parse mode.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// markdownEntity wraps s in marker ("*" or "_"). Legacy Markdown has no
// escaping inside an entity, so the entity is closed around each reserved
// character, which is emitted escaped outside of it.
func markdownEntity(marker, s string) string {
	var sb, seg strings.Builder
	flush := func() {
		if seg.Len() > 0 {
			sb.WriteString(marker + seg.String() + marker)
			seg.Reset()
		}
	}
	for _, r := range s {
		if strings.ContainsRune("_*`[", r) {
			flush()
			sb.WriteString("\\" + string(r))
			continue
		}
		seg.WriteRune(r)
	}
	flush()
	return sb.String()
}
