package gitinfo

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var errNoGitDir = errors.New("git dir not found")

// Branch reports the checked out branch of the repository containing path,
// "detached:<sha>" for a detached HEAD, or "" outside a repository.
func Branch(path string) string {
	_, gitDir, err := findGitDir(path)
	if err != nil {
		return ""
	}
	branch, err := readHead(gitDir)
	if err != nil {
		return ""
	}
	return branch
}

// Root is the working tree directory of the repository containing path, or
// "" outside a repository.
func Root(path string) string {
	root, _, err := findGitDir(path)
	if err != nil {
		return ""
	}
	return root
}

// findGitDir walks up from path and returns the working tree root together
// with its git directory. Files that do not exist yet are resolved through
// their parent directory.
func findGitDir(path string) (string, string, error) {
	start, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	for {
		info, err := os.Stat(start)
		if err == nil && info.IsDir() {
			break
		}
		parent := filepath.Dir(start)
		if parent == start {
			return "", "", errNoGitDir
		}
		start = parent
	}
	for {
		gitPath := filepath.Join(start, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return start, gitPath, nil
			}
			if info.Mode().IsRegular() {
				gitDir, err := readGitFile(start, gitPath)
				return start, gitDir, err
			}
		}
		parent := filepath.Dir(start)
		if parent == start {
			return "", "", errNoGitDir
		}
		start = parent
	}
}

// readGitFile resolves worktree and submodule ".git" files.
func readGitFile(dir, gitPath string) (string, error) {
	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(line, prefix) {
		return "", errNoGitDir
	}
	target := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return target, nil
}

func readHead(gitDir string) (string, error) {
	f, err := os.Open(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", errors.New("empty HEAD")
	}
	line := strings.TrimSpace(scanner.Text())
	const refPrefix = "ref:"
	if strings.HasPrefix(line, refPrefix) {
		ref := strings.TrimSpace(strings.TrimPrefix(line, refPrefix))
		return strings.TrimPrefix(ref, "refs/heads/"), nil
	}
	if len(line) >= 7 {
		return "detached:" + line[:7], nil
	}
	return "detached", nil
}
