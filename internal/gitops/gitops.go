// Package gitops keeps the data directory under git so every change to the expense list is
// a commit.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sleekspend/sleekspend/internal/expense"
	"github.com/sleekspend/sleekspend/internal/log"
	"github.com/sleekspend/sleekspend/internal/model"
)

// Repo is a git working tree with a fixed commit identity.
type Repo struct {
	dir         string
	authorName  string
	authorEmail string
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Open returns the repository at dir, creating the directory and running git init when
// needed.
func Open(dir, authorName, authorEmail string) (*Repo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	if !IsRepo(dir) {
		if err := Init(dir); err != nil {
			return nil, err
		}
	}
	return &Repo{dir: dir, authorName: authorName, authorEmail: authorEmail}, nil
}

// Dir returns the working tree root.
func (r *Repo) Dir() string { return r.dir }

// CommitAll stages all files and creates a commit. Returns the short commit hash, or "" when
// there was nothing to commit.
func (r *Repo) CommitAll(message string) (string, error) {
	if out, err := r.git("add", "-A"); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Exit status 1 means the index differs from HEAD.
	_, err := r.git("diff", "--cached", "--quiet")
	if err == nil {
		return "", nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		return "", fmt.Errorf("git diff: %w", err)
	}

	author := fmt.Sprintf("%s <%s>", r.authorName, r.authorEmail)
	if out, err := r.git("commit", "-q", "-m", message, "--author", author); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := r.git("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return out, nil
}

func (r *Repo) git(args ...string) (string, error) {
	// The committer identity is set per call so commits work without a global git config.
	full := append([]string{"-c", "user.name=" + r.authorName, "-c", "user.email=" + r.authorEmail}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Committer commits the data directory after every added or deleted expense. Failures are
// logged; the expense list itself is already saved.
type Committer struct {
	repo   *Repo
	logger *log.Logger
}

// NewCommitter creates a Committer. A nil logger discards output.
func NewCommitter(repo *Repo, logger *log.Logger) *Committer {
	if logger == nil {
		logger = log.Nop()
	}
	return &Committer{repo: repo, logger: logger.WithComponent(log.ComponentGit)}
}

// ExpenseAdded commits with a message like "add: exp-001 $12.50 Coffee".
func (c *Committer) ExpenseAdded(e model.Expense) {
	c.commit("add", e)
}

// ExpenseDeleted commits with a message like "delete: exp-001 $12.50 Coffee".
func (c *Committer) ExpenseDeleted(e model.Expense) {
	c.commit("delete", e)
}

func (c *Committer) commit(action string, e model.Expense) {
	msg := fmt.Sprintf("%s: %s %s %s", action, e.ID, expense.FormatAmount(e.Amount), e.Description)
	hash, err := c.repo.CommitAll(msg)
	if err != nil {
		c.logger.Warn("failed to commit data directory",
			log.FieldExpenseID, e.ID,
			log.FieldError, err)
		return
	}
	if hash != "" {
		c.logger.Debug("data directory committed", log.FieldExpenseID, e.ID, log.FieldCommit, hash)
	}
}
