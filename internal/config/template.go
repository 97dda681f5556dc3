package config

func DefaultTemplate() string {
	return `# pr-bump configuration
#
# Precedence: flags > environment variables > config file > defaults
# Environment prefix: PR_BUMP_
# GITHUB_TOKEN, GITHUB_REPOSITORY and GITHUB_API_URL are honored as
# fallbacks so the tool works out of the box in GitHub Actions.

# Repository the pull request lives in, as owner/name.
repository: ""

# Pull request number. Leave unset (or 0) to discover the PR from the
# branch checked out in the working directory.
# pr_number: 0

# Comma-separated manifest files to bump. Supported formats:
# package.json, pom.xml (first <version> element), Gradle
# build/properties files (version= assignment).
files: "package.json"

# Working directory holding the checked-out PR branch.
workdir: "."

# GitHub API endpoint; change for GitHub Enterprise.
api_url: "https://api.github.com"

# Commit message template. {class} and {version} are substituted.
commit_message: "chore({class}): bump version to {version}"

# Log level: debug, info, warn or none.
log_level: info

# Resolve and report without writing or committing anything.
dry_run: false

# PR label names requesting each increment class. When several are
# present, major beats minor beats patch. No recognized label means
# patch.
label_major: major
label_minor: minor
label_patch: patch
`
}
