package domain

// SourcePlatform identifies where a fragment originated.
type SourcePlatform string

const (
	// PlatformClaude is a Claude conversation export.
	PlatformClaude SourcePlatform = "claude"

	// PlatformChatGPT is a ChatGPT conversation export.
	PlatformChatGPT SourcePlatform = "chatgpt"

	// PlatformDiscord is a Discord channel export.
	PlatformDiscord SourcePlatform = "discord"

	// PlatformJournal is existing journal-style markdown.
	PlatformJournal SourcePlatform = "journal"

	// PlatformEssay is existing essay-style markdown.
	PlatformEssay SourcePlatform = "essay"

	// PlatformCode is existing technical markdown.
	PlatformCode SourcePlatform = "code"

	// PlatformOther is markdown that matched no heuristic.
	PlatformOther SourcePlatform = "other"
)

// String returns the platform name.
func (p SourcePlatform) String() string {
	return string(p)
}
