package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"projecthub/internal/models"
	"projecthub/internal/repositories"
)

// mentionPreviewLimit bounds the excerpt of the original content carried in
// a mention notification.
const mentionPreviewLimit = 80

// MentionService turns free text into notification creates. It never blocks
// or fails the primary write: unresolved names are skipped, store errors per
// token are logged and the scan moves on.
type MentionService struct {
	users  repositories.UserRepository
	notify *NotificationService
}

func NewMentionService(users repositories.UserRepository, notify *NotificationService) *MentionService {
	return &MentionService{users: users, notify: notify}
}

// ParseMentions extracts candidate display names from content. Two forms:
// @word (no whitespace) and @"quoted phrase" for names containing spaces.
// A quote immediately after the sigil signals the quoted form, so it is
// tried first; an unterminated quote yields no token. Duplicate tokens are
// kept — the same person mentioned twice notifies twice.
func ParseMentions(content string) []string {
	var names []string
	i := 0
	for i < len(content) {
		if content[i] != '@' {
			i++
			continue
		}
		rest := content[i+1:]
		if strings.HasPrefix(rest, `"`) {
			end := strings.Index(rest[1:], `"`)
			if end < 0 {
				i++
				continue
			}
			if name := rest[1 : 1+end]; name != "" {
				names = append(names, name)
			}
			i += 1 + 1 + end + 1
			continue
		}
		end := strings.IndexFunc(rest, unicode.IsSpace)
		name := rest
		if end >= 0 {
			name = rest[:end]
		}
		if name != "" {
			names = append(names, name)
		}
		i += 1 + len(name)
	}
	return names
}

// ScanAndNotify resolves each token case-insensitively against user display
// names and creates a mention notification per resolved token. The author is
// never notified about mentioning themselves.
func (s *MentionService) ScanAndNotify(ctx context.Context, author models.UserRef, content, taskID, projectID string) {
	for _, name := range ParseMentions(content) {
		user, err := s.users.FindByNameFold(ctx, name)
		if err != nil {
			log.Printf("mentions: lookup %q failed: %v", name, err)
			continue
		}
		if user == nil || user.ID == author.ID {
			continue
		}
		message := fmt.Sprintf("%s mentioned you: %s", author.Name, preview(content))
		if _, err := s.notify.Create(ctx, user.ID, models.NotifMention, message, taskID, projectID); err != nil {
			log.Printf("mentions: notify %s failed: %v", user.ID, err)
		}
	}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= mentionPreviewLimit {
		return content
	}
	return string(runes[:mentionPreviewLimit]) + "..."
}
