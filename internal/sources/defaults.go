package sources

// Defaults is the built-in table used when no sources file is configured.
//
// Categories currently shown by the app, each on its own page: core,
// learning, community, rfcs, emberHelpWanted.
var Defaults = []Source{
	{Repo: "ember-cli/ember-cli", Label: "good first issue", Category: "core"},
	{Repo: "ember-cli/ember-twiddle", Label: "good first issue", Category: "community"},
	{Repo: "ember-cli/ember-twiddle", Label: "help wanted", Category: "community"},
	{Repo: "ember-engines/ember-engines", Label: "help wanted", Category: "community"},
	{Repo: "ember-learn/ember-help-wanted", Label: "good first issue", Category: "emberHelpWanted"},
	{Repo: "ember-learn/ember-help-wanted", Label: "help wanted", Category: "emberHelpWanted"},
	{Repo: "ember-learn/ember-styleguide", Label: "help wanted :sos:", Category: "learning"},
	{Repo: "ember-learn/guides-app", Label: "help wanted", Category: "learning"},
	{Repo: "ember-learn/guides-source", Label: "help wanted", Category: "learning"},
	{Repo: "emberjs/data", Label: "Good for New Contributors", Category: "core"},
	{Repo: "emberjs/ember-inspector", Label: "good for new contributors", Category: "core"},
	{Repo: "emberjs/ember-inspector", Label: "help wanted", Category: "core"},
	{Repo: "emberjs/ember-optional-features", Label: "good first issue", Category: "core"},
	{Repo: "emberjs/ember-optional-features", Label: "help wanted", Category: "core"},
	{Repo: "emberjs/ember-test-helpers", Label: "beginner-friendly", Category: "core"},
	{Repo: "emberjs/ember.js", Label: "Good for New Contributors", Category: "core"},
	{Repo: "emberjs/ember.js", Label: "Help Wanted", Category: "core"},
	{Repo: "emberjs/rfcs", Label: "Final Comment Period", Category: "rfcs"},
	{Repo: "emberjs/rfcs", Label: "Needs Champion", Category: "rfcs"},
	{Repo: "emberjs/website", Label: "good first issue", Category: "core"},
	{Repo: "emberjs/website", Label: "help wanted", Category: "core"},
	{Repo: "typed-ember/ember-cli-typescript", Label: "good first issue", Category: "community"},
	{Repo: "typed-ember/ember-cli-typescript", Label: "help wanted", Category: "community"},
}

// Default returns a Table built from Defaults.
func Default() *Table {
	return New(Defaults)
}
