// Package chatgpt ingests ChatGPT conversation exports.
//
// A ChatGPT export stores each conversation as a tree of message nodes
// keyed by ID, because regenerated responses fork the conversation.
// The ingestor linearises the tree by always following the largest
// branch, then pairs user and assistant turns into fragments.
package chatgpt

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

// Ingestor handles ChatGPT JSON exports.
type Ingestor struct{}

// New creates a new ChatGPT ingestor.
func New() *Ingestor {
	return &Ingestor{}
}

// Name identifies the ingestor.
func (i *Ingestor) Name() string {
	return "chatgpt"
}

// conversation is one exported conversation.
type conversation struct {
	Title      string                 `json:"title"`
	CreateTime float64                `json:"create_time"`
	Mapping    map[string]mappingNode `json:"mapping"`
}

// mappingNode is one node of the conversation tree.
type mappingNode struct {
	ID       string   `json:"id"`
	Parent   *string  `json:"parent"`
	Children []string `json:"children"`
	Message  *message `json:"message"`
}

type message struct {
	Author     messageAuthor  `json:"author"`
	Content    messageContent `json:"content"`
	CreateTime *float64       `json:"create_time"`
}

type messageAuthor struct {
	Role string `json:"role"`
}

type messageContent struct {
	Parts []any `json:"parts"`
}

// Discover finds conversation export files: every *.json directly under
// path. A path that is not a directory yields zero documents.
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
		docs = append(docs, domain.RawDocument{
			Path:             file,
			Content:          []byte(text),
			DetectedEncoding: charset,
		})
	}
	sort.Slice(docs, func(a, b int) bool { return docs[a].Path < docs[b].Path })
	return docs, nil
}

// Parse extracts one fragment per user/assistant exchange across every
// conversation in the file.
func (i *Ingestor) Parse(raw domain.RawDocument) ([]domain.ParsedFragment, error) {
	var conversations []conversation
	if err := json.Unmarshal(raw.Content, &conversations); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}

	var fragments []domain.ParsedFragment
	for _, conv := range conversations {
		frags, err := i.parseConversation(conv, raw.Path)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frags...)
	}
	return fragments, nil
}

// turn is a linearised message with its role and timestamp.
type turn struct {
	role       string
	text       string
	createTime *float64
}

// parseConversation linearises one conversation tree and pairs turns.
func (i *Ingestor) parseConversation(conv conversation, sourcePath string) ([]domain.ParsedFragment, error) {
	if len(conv.Mapping) == 0 {
		return nil, nil
	}

	chain, err := linearise(conv.Mapping)
	if err != nil {
		return nil, err
	}

	var turns []turn
	for _, id := range chain {
		node := conv.Mapping[id]
		if node.Message == nil {
			continue
		}
		turns = append(turns, turn{
			role:       node.Message.Author.Role,
			text:       joinParts(node.Message.Content.Parts),
			createTime: node.Message.CreateTime,
		})
	}

	title := conv.Title
	if title == "" {
		title = "Untitled"
	}

	var fragments []domain.ParsedFragment
	for idx := 0; idx < len(turns); {
		t := turns[idx]
		if t.role == "system" {
			idx++
			continue
		}
		if t.role == "user" && idx+1 < len(turns) && turns[idx+1].role == "assistant" {
			fragments = append(fragments, domain.ParsedFragment{
				Content:    fmt.Sprintf("**User**: %s\n\n**Assistant**: %s", t.text, turns[idx+1].text),
				SourcePath: sourcePath,
				Timestamp:  turnTimestamp(t.createTime, conv.CreateTime),
				Metadata: map[string]any{
					"title":    title,
					"platform": "chatgpt",
				},
			})
			idx += 2
			continue
		}
		idx++
	}
	return fragments, nil
}

// linearise walks the tree from the root, choosing the child with the
// largest subtree at every fork. Ties keep the earlier child. A node
// seen twice means the mapping is cyclic, which is a parse error rather
// than an endless walk.
func linearise(mapping map[string]mappingNode) ([]string, error) {
	root := findRoot(mapping)
	if root == "" {
		return nil, nil
	}

	var chain []string
	visited := make(map[string]bool, len(mapping))

	current := root
	for {
		if visited[current] {
			return nil, domain.ErrCyclicMapping
		}
		visited[current] = true
		chain = append(chain, current)

		node, ok := mapping[current]
		if !ok || len(node.Children) == 0 {
			return chain, nil
		}

		next := ""
		bestCount := -1
		for _, child := range node.Children {
			if _, ok := mapping[child]; !ok {
				continue
			}
			count, err := countSubtree(mapping, child)
			if err != nil {
				return nil, err
			}
			if count > bestCount {
				bestCount = count
				next = child
			}
		}
		if next == "" {
			return chain, nil
		}
		current = next
	}
}

// findRoot returns the parentless node, preferring the lexically first
// when the export is malformed enough to contain several.
func findRoot(mapping map[string]mappingNode) string {
	var roots []string
	for id, node := range mapping {
		if node.Parent == nil {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 {
		return ""
	}
	sort.Strings(roots)
	return roots[0]
}

// countSubtree counts the nodes in the subtree rooted at id, including
// id itself. Iterative with an explicit stack so deep regeneration
// chains cannot overflow, and cycle-checked so they cannot loop.
func countSubtree(mapping map[string]mappingNode, id string) (int, error) {
	count := 0
	seen := make(map[string]bool)
	stack := []string{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[current] {
			return 0, domain.ErrCyclicMapping
		}
		seen[current] = true
		count++
		node, ok := mapping[current]
		if !ok {
			continue
		}
		for _, child := range node.Children {
			if _, ok := mapping[child]; ok {
				stack = append(stack, child)
			}
		}
	}
	return count, nil
}

// joinParts flattens multi-part message content. Nil parts are dropped;
// non-string parts (tool payloads and the like) are stringified.
func joinParts(parts []any) string {
	var texts []string
	for _, part := range parts {
		if part == nil {
			continue
		}
		if s, ok := part.(string); ok {
			texts = append(texts, s)
			continue
		}
		texts = append(texts, fmt.Sprintf("%v", part))
	}
	return strings.Join(texts, "\n")
}

// turnTimestamp resolves a fragment timestamp: the user message's own
// time, then the conversation's, then now.
func turnTimestamp(msgTime *float64, convTime float64) time.Time {
	if msgTime != nil && *msgTime > 0 {
		return normalise.FromEpoch(*msgTime)
	}
	if convTime > 0 {
		return normalise.FromEpoch(convTime)
	}
	return time.Now().In(normalise.Zone())
}

// Render produces the markdown body: the conversation title as a
// heading followed by the blockquoted exchange.
func (i *Ingestor) Render(fragment domain.ParsedFragment) (string, error) {
	title, _ := fragment.Metadata["title"].(string)
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for idx, line := range strings.Split(fragment.Content, "\n") {
		if idx > 0 {
			b.WriteString("\n")
		}
		if line == "" {
			b.WriteString(">")
		} else {
			b.WriteString("> " + line)
		}
	}
	return b.String(), nil
}

// DeriveMetadata builds the frontmatter mapping.
func (i *Ingestor) DeriveMetadata(fragment domain.ParsedFragment) (map[string]any, error) {
	title, _ := fragment.Metadata["title"].(string)
	return map[string]any{
		"title":   title,
		"created": fragment.Timestamp.Format(time.RFC3339),
		"source": map[string]any{
			"platform":      "chatgpt",
			"original_file": fragment.SourcePath,
		},
	}, nil
}
