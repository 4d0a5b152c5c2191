package hookmeta

// CanonicalEvents is the fixed event vocabulary hooks can subscribe to.
var CanonicalEvents = []string{
	"pre_tool_use",
	"post_tool_use",
	"stop",
	"subagent_stop",
	"notification",
	"user_prompt_submit",
	"session_start",
	"session_end",
	"pre_compact",
}

// eventAliases maps informal/legacy tokens host tools have used at various
// points onto the canonical vocabulary above. A typo'd token simply fails
// to resolve here rather than aborting the parse.
var eventAliases = map[string]string{
	"pre_tool":           "pre_tool_use",
	"pretooluse":         "pre_tool_use",
	"post_tool":          "post_tool_use",
	"posttooluse":        "post_tool_use",
	"on_stop":            "stop",
	"sub_agent_stop":     "subagent_stop",
	"subagentstop":       "subagent_stop",
	"notify":             "notification",
	"prompt_submit":      "user_prompt_submit",
	"userpromptsubmit":   "user_prompt_submit",
	"session_begin":      "session_start",
	"sessionstart":       "session_start",
	"sessionend":         "session_end",
	"compact":            "pre_compact",
	"pre_compaction":     "pre_compact",
	"precompact":         "pre_compact",
}

var canonicalSet = func() map[string]bool {
	m := make(map[string]bool, len(CanonicalEvents))
	for _, e := range CanonicalEvents {
		m[e] = true
	}
	return m
}()

// NormalizeEvent resolves a raw token (as written in a hook header or
// frontmatter) to its canonical event name. It returns ok=false for any
// token, typo or otherwise, that doesn't resolve, so callers can drop it
// silently instead of rejecting the whole file.
func NormalizeEvent(raw string) (string, bool) {
	if canonicalSet[raw] {
		return raw, true
	}
	if canon, ok := eventAliases[raw]; ok {
		return canon, true
	}
	return "", false
}

// IsKnownEvent reports whether name is already a canonical event name
// (used by the legacy parent-directory fallback, which compares a bare
// directory name against the canonical set rather than the alias table).
func IsKnownEvent(name string) bool {
	return canonicalSet[name]
}
