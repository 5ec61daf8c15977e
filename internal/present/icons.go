// pattern: Functional Core

package present

const (
	// GroupIcon marks entries that have children.
	GroupIcon = "📁"
	// DefaultIcon is used for leaves without a dedicated icon.
	DefaultIcon = "⚡"
)

var icons = map[string]string{
	"prd-writer":             "📝",
	"copywriter":             "📋",
	"daily-ai-news":          "📰",
	"rag-qa":                 "🔍",
	"agent-teams":            "👥",
	"skill-learning-planner": "📖",
	"skill-creator":          "🛠️",
	"superpowers":            "💼",
	"meeting-summary":        "🤝",
	"thesis-progress-report": "📚",
	"idea-debate":            "⚖️",
	"mcp-builder":            "🔧",

	"brainstorming":                  "💡",
	"dispatching-parallel-agents":    "⚡",
	"executing-plans":                "🚀",
	"finishing-a-development-branch": "🌿",
	"receiving-code-review":          "👀",
	"requesting-code-review":         "📤",
	"subagent-driven-development":    "🤖",
	"systematic-debugging":           "🔧",
	"test-driven-development":        "✅",
	"using-git-worktrees":            "🌳",
	"using-superpowers":              "✨",
	"verification-before-completion": "✔️",
	"writing-plans":                  "📋",
	"writing-skills":                 "✍️",
}

// Icon returns the icon for an entry. Groups always get GroupIcon.
func Icon(id string, isGroup bool) string {
	if isGroup {
		return GroupIcon
	}
	if icon, ok := icons[id]; ok {
		return icon
	}
	return DefaultIcon
}
