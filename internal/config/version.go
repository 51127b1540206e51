package config

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// GetVersion returns the service version: APP_VERSION when set (CI/CD),
// otherwise the VERSION file plus the git commit count for local builds.
func GetVersion() string {
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	baseVersion := getBaseVersion()
	if commitCount := getGitCommitCount(); commitCount > 0 {
		return baseVersion + "." + strconv.Itoa(commitCount)
	}
	return baseVersion
}

// getBaseVersion reads the base version from the VERSION file in the
// repository root, falling back to a fixed development version.
func getBaseVersion() string {
	if content, err := os.ReadFile("VERSION"); err == nil {
		return strings.TrimSpace(string(content))
	}
	return "0.1.0"
}

// getGitCommitCount gets the total commit count from git, 0 when git or the
// repository is unavailable.
func getGitCommitCount() int {
	output, err := exec.Command("git", "rev-list", "--all", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0
	}
	return count
}
