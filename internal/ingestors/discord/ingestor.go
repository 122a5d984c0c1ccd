// Package discord ingests Discord channel exports.
//
// Individual Discord messages are too small to stand alone, so the
// ingestor clusters consecutive messages into conversational bursts:
// replies join the group they answer, and runs of messages from one
// author within five minutes stay together.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/normalise"
)

// timeProximity is the window within which same-author messages are
// considered part of one burst.
const timeProximity = 5 * time.Minute

var spoilerPattern = regexp.MustCompile(`\|\|(.+?)\|\|`)

// Ensure Ingestor implements the interface.
var _ driven.Ingestor = (*Ingestor)(nil)

// Ingestor handles Discord data exports.
type Ingestor struct{}

// New creates a new Discord ingestor.
func New() *Ingestor {
	return &Ingestor{}
}

// Name identifies the ingestor.
func (i *Ingestor) Name() string {
	return "discord"
}

// Discover finds messages.json files under path/messages/{channel}/.
// Channel metadata comes from the sibling channel.json when present,
// otherwise from the directory name.
func (i *Ingestor) Discover(_ context.Context, path string) ([]domain.RawDocument, error) {
	messagesRoot := filepath.Join(path, "messages")
	entries, err := os.ReadDir(messagesRoot)
	if err != nil {
		return nil, nil
	}

	var docs []domain.RawDocument
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		channelDir := filepath.Join(messagesRoot, entry.Name())
		messagesFile := filepath.Join(channelDir, "messages.json")
		raw, err := os.ReadFile(messagesFile)
		if err != nil {
			continue
		}
		text, charset := normalise.DetectAndDecode(raw)
		docs = append(docs, domain.RawDocument{
			Path:             messagesFile,
			Content:          []byte(text),
			DetectedEncoding: charset,
			Metadata:         channelMetadata(channelDir, entry.Name()),
		})
	}
	sort.Slice(docs, func(a, b int) bool { return docs[a].Path < docs[b].Path })
	return docs, nil
}

// channelMetadata loads channel.json, degrading to directory-name
// defaults when the file is missing or unreadable.
func channelMetadata(channelDir, dirName string) map[string]any {
	meta := map[string]any{
		"channel_id":   dirName,
		"channel_name": dirName,
		"channel_type": "unknown",
	}

	raw, err := os.ReadFile(filepath.Join(channelDir, "channel.json"))
	if err != nil {
		return meta
	}
	var channel struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &channel); err != nil {
		return meta
	}

	meta["channel_type"] = "text"
	if channel.ID != "" {
		meta["channel_id"] = channel.ID
	}
	if channel.Name != "" {
		meta["channel_name"] = channel.Name
	}
	if channel.Type != "" {
		meta["channel_type"] = channel.Type
	}
	return meta
}

// Parse clusters the channel's messages and emits one fragment per
// cluster. Content that is not a message array in either accepted
// shape yields zero fragments.
func (i *Ingestor) Parse(raw domain.RawDocument) ([]domain.ParsedFragment, error) {
	messages := decodeMessages(raw.Content)
	if len(messages) == 0 {
		return nil, nil
	}

	// Global index so replies can quote messages outside their group.
	index := make(map[string]map[string]any, len(messages))
	for _, msg := range messages {
		if id := messageID(msg); id != "" {
			index[id] = msg
		}
	}

	var fragments []domain.ParsedFragment
	for _, group := range clusterMessages(messages) {
		if fragment, ok := groupFragment(group, index, raw); ok {
			fragments = append(fragments, fragment)
		}
	}
	return fragments, nil
}

// decodeMessages accepts a bare array or an object wrapping one under
// "messages". Anything else is treated as an empty channel.
func decodeMessages(raw []byte) []map[string]any {
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var wrapper struct {
		Messages []map[string]any `json:"messages"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil {
		return wrapper.Messages
	}
	return nil
}

// clusterMessages walks messages in order, joining a message onto the
// current group when it replies to a message already in the group, or
// when the same author continues within the proximity window.
func clusterMessages(messages []map[string]any) [][]map[string]any {
	var groups [][]map[string]any
	var current []map[string]any
	currentIDs := make(map[string]bool)

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = nil
		currentIDs = make(map[string]bool)
	}

	for _, msg := range messages {
		if len(current) > 0 && !joinsGroup(msg, current, currentIDs) {
			flush()
		}
		current = append(current, msg)
		if id := messageID(msg); id != "" {
			currentIDs[id] = true
		}
	}
	flush()
	return groups
}

// joinsGroup decides whether msg belongs with the current group.
func joinsGroup(msg map[string]any, group []map[string]any, groupIDs map[string]bool) bool {
	if ref := replyTargetID(msg); ref != "" && groupIDs[ref] {
		return true
	}

	last := group[len(group)-1]
	if messageAuthor(msg) != messageAuthor(last) {
		return false
	}
	msgTime, err1 := messageTime(msg)
	lastTime, err2 := messageTime(last)
	if err1 != nil || err2 != nil {
		return false
	}
	delta := msgTime.Sub(lastTime)
	if delta < 0 {
		delta = -delta
	}
	return delta <= timeProximity
}

// groupFragment renders one message group into a fragment. A group
// whose every message renders empty produces nothing.
func groupFragment(group []map[string]any, index map[string]map[string]any, raw domain.RawDocument) (domain.ParsedFragment, bool) {
	var rendered []string
	var messageIDs []string
	authorSet := make(map[string]bool)

	for _, msg := range group {
		if text := renderMessage(msg, index); text != "" {
			rendered = append(rendered, text)
		}
		if id := messageID(msg); id != "" {
			messageIDs = append(messageIDs, id)
		}
		authorSet[messageAuthor(msg)] = true
	}
	if len(rendered) == 0 {
		return domain.ParsedFragment{}, false
	}

	authors := make([]string, 0, len(authorSet))
	for author := range authorSet {
		authors = append(authors, author)
	}
	sort.Strings(authors)

	channelName, _ := raw.Metadata["channel_name"].(string)
	channelID, _ := raw.Metadata["channel_id"].(string)

	return domain.ParsedFragment{
		Content:    strings.Join(rendered, "\n\n"),
		SourcePath: raw.Path,
		Timestamp:  groupTimestamp(group[0]),
		Metadata: map[string]any{
			"channel_name":  channelName,
			"channel_id":    channelID,
			"authors":       authors,
			"message_count": len(group),
			"message_ids":   messageIDs,
		},
	}, true
}

// groupTimestamp uses the first message's time, falling back to the
// epoch when the export carries none.
func groupTimestamp(first map[string]any) time.Time {
	if ts, err := messageTime(first); err == nil {
		return ts
	}
	epoch, _ := normalise.Timestamp("1970-01-01T00:00:00Z", "")
	return epoch
}

// renderMessage produces the markdown for one message: an optional
// quoted reply target, the author-attributed content with spoilers
// unveiled, then embeds and reactions.
func renderMessage(msg map[string]any, index map[string]map[string]any) string {
	var lines []string

	if ref := replyTargetID(msg); ref != "" {
		if target, ok := index[ref]; ok {
			lines = append(lines,
				fmt.Sprintf("> **%s**: %s", messageAuthor(target), messageContent(target)),
				"")
		}
	}

	content := spoilerPattern.ReplaceAllString(messageContent(msg), "[SPOILER: $1]")
	hasBody := content != ""
	if hasBody {
		lines = append(lines, fmt.Sprintf("**%s**: %s", messageAuthor(msg), content))
	}

	embeds := renderEmbeds(msg)
	reactions := renderReactions(msg)
	if !hasBody && len(embeds) == 0 && reactions == "" {
		return ""
	}
	lines = append(lines, embeds...)
	if reactions != "" {
		lines = append(lines, reactions)
	}
	return strings.Join(lines, "\n")
}

// renderEmbeds renders each embed's title, description and URL, all of
// which are independently optional.
func renderEmbeds(msg map[string]any) []string {
	list, _ := msg["embeds"].([]any)
	var lines []string
	for _, item := range list {
		embed, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if title, _ := embed["title"].(string); title != "" {
			lines = append(lines, fmt.Sprintf("  *[Embed: %s]*", title))
		}
		if desc, _ := embed["description"].(string); desc != "" {
			lines = append(lines, fmt.Sprintf("  > %s", desc))
		}
		if url, _ := embed["url"].(string); url != "" {
			lines = append(lines, fmt.Sprintf("  Link: %s", url))
		}
	}
	return lines
}

// renderReactions compacts reactions into a single summary line.
func renderReactions(msg map[string]any) string {
	list, _ := msg["reactions"].([]any)
	var parts []string
	for _, item := range list {
		reaction, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := ""
		switch emoji := reaction["emoji"].(type) {
		case map[string]any:
			name, _ = emoji["name"].(string)
		case string:
			name = emoji
		}
		count := 0
		if c, ok := reaction["count"].(float64); ok {
			count = int(c)
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, count))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Reactions: " + strings.Join(parts, ", ")
}

// messageID stringifies the message ID, which exports carry as either
// a string or a number.
func messageID(msg map[string]any) string {
	switch id := msg["id"].(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	}
	return ""
}

// messageAuthor resolves the author's display name, degrading to
// "Unknown" for malformed messages.
func messageAuthor(msg map[string]any) string {
	switch author := msg["author"].(type) {
	case map[string]any:
		if name, _ := author["name"].(string); name != "" {
			return name
		}
		if name, _ := author["username"].(string); name != "" {
			return name
		}
	case string:
		if author != "" {
			return author
		}
	}
	return "Unknown"
}

func messageContent(msg map[string]any) string {
	content, _ := msg["content"].(string)
	return content
}

// messageTime parses the message timestamp into the canonical zone.
func messageTime(msg map[string]any) (time.Time, error) {
	ts, _ := msg["timestamp"].(string)
	if ts == "" {
		return time.Time{}, domain.ErrTimestampParse
	}
	return normalise.Timestamp(ts, "")
}

// replyTargetID extracts the referenced message ID for replies.
func replyTargetID(msg map[string]any) string {
	ref, ok := msg["reference"].(map[string]any)
	if !ok {
		return ""
	}
	if id, _ := ref["messageId"].(string); id != "" {
		return id
	}
	if id, _ := ref["message_id"].(string); id != "" {
		return id
	}
	return ""
}

// Render produces the markdown body: a channel heading above the
// clustered messages.
func (i *Ingestor) Render(fragment domain.ParsedFragment) (string, error) {
	channel, _ := fragment.Metadata["channel_name"].(string)
	return fmt.Sprintf("# #%s\n\n%s", channel, fragment.Content), nil
}

// DeriveMetadata builds the frontmatter mapping.
func (i *Ingestor) DeriveMetadata(fragment domain.ParsedFragment) (map[string]any, error) {
	channel, _ := fragment.Metadata["channel_name"].(string)
	return map[string]any{
		"title":         fmt.Sprintf("#%s", channel),
		"created":       fragment.Timestamp.Format(time.RFC3339),
		"authors":       fragment.Metadata["authors"],
		"message_count": fragment.Metadata["message_count"],
		"source": map[string]any{
			"platform":   "discord",
			"channel":    channel,
			"channel_id": fragment.Metadata["channel_id"],
		},
	}, nil
}
