package issues

import (
	"strings"
	"unicode"

	gh "github.com/google/go-github/v80/github"
)

// Issue attribute keys read outside this package.
const (
	AttrRepositoryName = "repository-name"
	AttrRepositoryHTML = "repository-html"
	AttrTitle          = "title"
	AttrHTMLURL        = "html-url"
)

const apiReposPrefix = "https://api.github.com/repos/"

// issueAttributes maps the fields of a search result we serve onto dashed
// attribute names. Nested objects (user, milestone, pull request) keep
// GitHub's field names. The repository name and web URL are derived from
// repository_url by plain prefix substitution; a URL on another host passes
// through unchanged.
func issueAttributes(raw *gh.Issue) map[string]any {
	repoURL := raw.GetRepositoryURL()
	attrs := map[string]any{
		AttrRepositoryName: strings.Replace(repoURL, apiReposPrefix, "", 1),
		AttrRepositoryHTML: strings.Replace(repoURL, "api.github.com/repos", "github.com", 1),
	}

	put(attrs, "url", raw.URL)
	put(attrs, "repository_url", raw.RepositoryURL)
	put(attrs, "labels_url", raw.LabelsURL)
	put(attrs, "comments_url", raw.CommentsURL)
	put(attrs, "events_url", raw.EventsURL)
	set(attrs, AttrHTMLURL, raw.HTMLURL)
	put(attrs, "node_id", raw.NodeID)
	put(attrs, "number", raw.Number)
	set(attrs, AttrTitle, raw.Title)
	put(attrs, "state", raw.State)
	put(attrs, "state_reason", raw.StateReason)
	put(attrs, "locked", raw.Locked)
	put(attrs, "active_lock_reason", raw.ActiveLockReason)
	put(attrs, "comments", raw.Comments)
	put(attrs, "author_association", raw.AuthorAssociation)
	put(attrs, "body", raw.Body)
	put(attrs, "draft", raw.Draft)
	putTime(attrs, "created_at", raw.CreatedAt)
	putTime(attrs, "updated_at", raw.UpdatedAt)
	putTime(attrs, "closed_at", raw.ClosedAt)

	if raw.User != nil {
		attrs[dasherize("user")] = userAttributes(raw.User)
	}
	if raw.Assignee != nil {
		attrs[dasherize("assignee")] = userAttributes(raw.Assignee)
	}
	if raw.Assignees != nil {
		assignees := make([]map[string]any, 0, len(raw.Assignees))
		for _, u := range raw.Assignees {
			if u != nil {
				assignees = append(assignees, userAttributes(u))
			}
		}
		attrs[dasherize("assignees")] = assignees
	}
	if m := raw.Milestone; m != nil {
		milestone := map[string]any{}
		set(milestone, "number", m.Number)
		set(milestone, "title", m.Title)
		set(milestone, "state", m.State)
		set(milestone, "html_url", m.HTMLURL)
		attrs[dasherize("milestone")] = milestone
	}
	if pr := raw.PullRequestLinks; pr != nil {
		links := map[string]any{}
		set(links, "url", pr.URL)
		set(links, "html_url", pr.HTMLURL)
		attrs[dasherize("pull_request")] = links
	}
	return attrs
}

// userAttributes keeps the user fields clients link to, under GitHub's names.
func userAttributes(u *gh.User) map[string]any {
	attrs := map[string]any{}
	set(attrs, "login", u.Login)
	set(attrs, "id", u.ID)
	set(attrs, "avatar_url", u.AvatarURL)
	set(attrs, "html_url", u.HTMLURL)
	set(attrs, "type", u.Type)
	return attrs
}

// labelAttributes maps every label field except id.
func labelAttributes(raw *gh.Label) map[string]any {
	attrs := map[string]any{}
	put(attrs, "url", raw.URL)
	put(attrs, "name", raw.Name)
	put(attrs, "color", raw.Color)
	put(attrs, "description", raw.Description)
	put(attrs, "default", raw.Default)
	put(attrs, "node_id", raw.NodeID)
	return attrs
}

// put stores *v under the dashed form of field; nil pointers are skipped.
// Only top-level attribute names are dashed.
func put[T any](attrs map[string]any, field string, v *T) {
	set(attrs, dasherize(field), v)
}

// set stores *v under key unchanged; nil pointers are skipped. Nested
// objects keep GitHub's own field names.
func set[T any](attrs map[string]any, key string, v *T) {
	if v != nil {
		attrs[key] = *v
	}
}

func putTime(attrs map[string]any, field string, v *gh.Timestamp) {
	if v != nil {
		attrs[dasherize(field)] = v.Time
	}
}

// dasherize converts a field name to lowercase words joined by dashes:
// "html_url" → "html-url", "createdAt" → "created-at", "HTMLUrl" → "html-url".
func dasherize(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	pendingDash := false
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingDash = b.Len() > 0
			continue
		}
		if i > 0 && b.Len() > 0 && wordBoundary(runes, i) {
			pendingDash = true
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// wordBoundary reports whether a new word starts at runes[i], given that
// runes[i-1] may or may not be alphanumeric.
func wordBoundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
		i+1 < len(runes) && unicode.IsLower(runes[i+1]):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur),
		unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	}
	return false
}
