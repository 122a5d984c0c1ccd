// Package claude ingests Claude conversation exports.
//
// Two on-disk shapes exist in the wild: a full export holding a
// "conversations" array, and a single conversation object with its own
// "messages" array. Field names also drift between schema versions
// (uuid vs conversation_id, name vs title, created_at vs create_time),
// so parsing normalises both shapes into one internal form first.
package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/normalise"
)

// Ensure Ingestor implements the interface.
var _ driven.Ingestor = (*Ingestor)(nil)

// Ingestor handles Claude JSON exports.
type Ingestor struct{}

// New creates a new Claude ingestor.
func New() *Ingestor {
	return &Ingestor{}
}

// Name identifies the ingestor.
func (i *Ingestor) Name() string {
	return "claude"
}

// conversation is the normalised form both schemas converge on.
type conversation struct {
	ID        string
	Name      string
	CreatedAt string
	Model     string
	Messages  []convMessage
}

type convMessage struct {
	Role      string
	Text      string
	CreatedAt string
}

// Discover finds *.json files under path whose structure looks like a
// Claude export. Files that are not JSON or not Claude-shaped are
// silently skipped; they likely belong to another tool's export.
func (i *Ingestor) Discover(_ context.Context, path string) ([]domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read export directory: %w", err)
	}

	var docs []domain.RawDocument
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		file := filepath.Join(path, entry.Name())
		raw, err := os.ReadFile(file)
		if err != nil {
			return docs, fmt.Errorf("read %s: %w", file, err)
		}
		text, charset := normalise.DetectAndDecode(raw)
		if !looksLikeExport([]byte(text)) {
			continue
		}
		docs = append(docs, domain.RawDocument{
			Path:             file,
			Content:          []byte(text),
			DetectedEncoding: charset,
		})
	}
	sort.Slice(docs, func(a, b int) bool { return docs[a].Path < docs[b].Path })
	return docs, nil
}

// looksLikeExport checks the structural markers of either schema.
func looksLikeExport(raw []byte) bool {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	if _, ok := obj["conversations"]; ok {
		return true
	}
	if _, ok := obj["messages"]; ok {
		_, hasID := obj["conversation_id"]
		_, hasUUID := obj["uuid"]
		return hasID || hasUUID
	}
	return false
}

// Parse extracts one fragment per human/assistant pair.
func (i *Ingestor) Parse(raw domain.RawDocument) ([]domain.ParsedFragment, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw.Content, &obj); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	var conversations []conversation
	if list, ok := obj["conversations"].([]any); ok {
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				conversations = append(conversations, normaliseConversation(m))
			}
		}
	} else {
		conversations = append(conversations, normaliseConversation(obj))
	}

	var fragments []domain.ParsedFragment
	for _, conv := range conversations {
		frags, err := pairTurns(conv, raw.Path)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frags...)
	}
	return fragments, nil
}

// normaliseConversation maps either schema's field names onto one form.
func normaliseConversation(m map[string]any) conversation {
	conv := conversation{
		ID:        firstString(m, "uuid", "conversation_id"),
		Name:      firstString(m, "name", "title"),
		CreatedAt: firstString(m, "created_at", "create_time"),
		Model:     firstString(m, "model"),
	}
	if conv.ID == "" {
		conv.ID = "unknown"
	}
	if conv.Name == "" {
		conv.Name = "Untitled"
	}

	list, _ := m["messages"].([]any)
	for _, item := range list {
		msg, ok := item.(map[string]any)
		if !ok {
			continue
		}
		conv.Messages = append(conv.Messages, convMessage{
			Role:      firstString(msg, "role", "sender"),
			Text:      extractText(msg["content"]),
			CreatedAt: firstString(msg, "created_at", "timestamp"),
		})
	}
	return conv
}

// firstString returns the first non-empty string among the named keys.
func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// extractText handles both content shapes: a plain string, or a list of
// typed parts where only "text" parts carry prose.
func extractText(content any) string {
	if s, ok := content.(string); ok {
		return s
	}
	parts, ok := content.([]any)
	if !ok {
		return ""
	}
	var texts []string
	for _, part := range parts {
		m, ok := part.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := m["type"].(string); t != "text" {
			continue
		}
		if text, ok := m["text"].(string); ok {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

// pairTurns walks the messages pairing each human turn with the
// assistant turn that answers it. A human message followed by another
// human message is superseded; a trailing unanswered human is dropped.
func pairTurns(conv conversation, sourcePath string) ([]domain.ParsedFragment, error) {
	var fragments []domain.ParsedFragment
	var pending *convMessage

	for idx := range conv.Messages {
		msg := conv.Messages[idx]
		switch msg.Role {
		case "system":
			continue
		case "human", "user":
			pending = &conv.Messages[idx]
		case "assistant":
			if pending == nil {
				continue
			}
			ts, err := pairTimestamp(pending.CreatedAt, conv.CreatedAt)
			if err != nil {
				return nil, err
			}
			turnIndex := len(fragments)
			meta := map[string]any{
				"conversation_id":   conv.ID,
				"conversation_name": conv.Name,
				"turn_index":        turnIndex,
				"human_text":        pending.Text,
				"assistant_text":    msg.Text,
			}
			if conv.Model != "" {
				meta["model"] = conv.Model
			}
			fragments = append(fragments, domain.ParsedFragment{
				Content:    pending.Text + "\n\n" + msg.Text,
				SourcePath: sourcePath,
				Timestamp:  ts,
				Metadata:   meta,
			})
			pending = nil
		}
	}
	return fragments, nil
}

// pairTimestamp resolves the fragment time: the human message's own
// timestamp, then the conversation's, then a fixed sentinel so the
// fragment still sorts deterministically.
func pairTimestamp(msgTime, convTime string) (time.Time, error) {
	value := msgTime
	if value == "" {
		value = convTime
	}
	if value == "" {
		value = "2000-01-01T00:00:00Z"
	}
	ts, err := normalise.Timestamp(value, "")
	if err != nil {
		return time.Time{}, fmt.Errorf("message timestamp: %w", err)
	}
	return ts, nil
}

// Render produces the markdown body: the human turn blockquoted above
// the assistant's answer.
func (i *Ingestor) Render(fragment domain.ParsedFragment) (string, error) {
	human, _ := fragment.Metadata["human_text"].(string)
	assistant, _ := fragment.Metadata["assistant_text"].(string)

	var b strings.Builder
	for idx, line := range strings.Split(human, "\n") {
		if idx > 0 {
			b.WriteString("\n")
		}
		if line == "" {
			b.WriteString(">")
		} else {
			b.WriteString("> " + line)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(assistant)
	return b.String(), nil
}

// DeriveMetadata builds the frontmatter mapping.
func (i *Ingestor) DeriveMetadata(fragment domain.ParsedFragment) (map[string]any, error) {
	name, _ := fragment.Metadata["conversation_name"].(string)
	turnIndex, _ := fragment.Metadata["turn_index"].(int)

	source := map[string]any{
		"platform":        "claude",
		"conversation_id": fragment.Metadata["conversation_id"],
	}
	if model, ok := fragment.Metadata["model"].(string); ok && model != "" {
		source["model"] = model
	}

	return map[string]any{
		"title":   fmt.Sprintf("%s (turn %d)", name, turnIndex),
		"created": fragment.Timestamp.Format(time.RFC3339),
		"source":  source,
	}, nil
}
