package eslint

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
)

// Mode selects how the eslint binary is reached
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeDocker Mode = "docker"
)

const (
	stdinFilename  = "snippet.js"
	defaultTimeout = 30 * time.Second
	// eslint exits 1 when it found problems; anything above is a crash or bad config
	exitLintProblems = 1
	// how long Wait keeps reading pipes after the process was killed
	waitDelay = time.Second
)

var (
	DefaultCommand = []string{"npx", "--no-install", "eslint"}
	DefaultImage   = "pipelinecomponents/eslint:latest"
)

type Options struct {
	Mode    Mode
	Command []string // local mode: argv prefix that runs eslint
	Image   string   // docker mode: image with eslint on PATH
	WorkDir string   // generated rc files live here
	Timeout time.Duration
}

// Runner runs eslint as a child process, once per Lint call.
type Runner struct {
	opts Options

	mu  sync.Mutex
	rcs map[string]string // config digest -> rc file path
}

func NewRunner(opts Options) (*Runner, error) {
	if opts.Mode == "" {
		opts.Mode = ModeLocal
	}
	if opts.Mode != ModeLocal && opts.Mode != ModeDocker {
		return nil, fmt.Errorf("unsupported linter mode: %s", opts.Mode)
	}
	if len(opts.Command) == 0 {
		opts.Command = DefaultCommand
	}
	if opts.Image == "" {
		opts.Image = DefaultImage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.WorkDir == "" {
		opts.WorkDir = filepath.Join(".", "temp", "eslint")
	}
	// docker bind mounts need an absolute host path
	abs, err := filepath.Abs(opts.WorkDir)
	if err != nil {
		return nil, err
	}
	opts.WorkDir = abs
	if err := os.MkdirAll(opts.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("create linter work dir: %w", err)
	}
	return &Runner{opts: opts, rcs: make(map[string]string)}, nil
}

// Lint feeds source through stdin and parses the json formatter output.
func (r *Runner) Lint(ctx context.Context, source string, cfg domain.LintConfig) (domain.LintReport, error) {
	rc, err := r.rcFile(cfg)
	if err != nil {
		return domain.LintReport{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	cmd := r.command(ctx, rc, cfg)
	cmd.Stdin = strings.NewReader(source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// jalankan eslint sekali, tanpa retry
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) || ee.ExitCode() != exitLintProblems {
			return domain.LintReport{}, fmt.Errorf("run eslint: %w, stderr=%s", err, strings.TrimSpace(stderr.String()))
		}
	}

	return ParseReport(stdout.Bytes())
}

// Check runs `eslint --version`; used by the health endpoint.
func (r *Runner) Check(ctx context.Context) error {
	cmd := r.buildCmd(ctx, []string{"--version"}, "")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("eslint unavailable: %w, output=%s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (r *Runner) command(ctx context.Context, rc string, cfg domain.LintConfig) *exec.Cmd {
	path := rc
	if r.opts.Mode == ModeDocker {
		path = "/cfg/" + filepath.Base(rc)
	}
	return r.buildCmd(ctx, Args(path, cfg), "-i")
}

// buildCmd builds the process for either mode. interactive is passed to docker
// when stdin has to reach the container. On cancel the whole process tree goes,
// not just the direct child: npx and docker both leave descendants holding the pipes.
func (r *Runner) buildCmd(ctx context.Context, args []string, interactive string) *exec.Cmd {
	var cmd *exec.Cmd
	switch r.opts.Mode {
	case ModeDocker:
		name := "eslint-" + uuid.New().String()
		argv := []string{"run", "--rm", "--init", "--name", name}
		if interactive != "" {
			argv = append(argv, interactive)
		}
		argv = append(argv,
			"-e", "ESLINT_USE_FLAT_CONFIG=false",
			"-v", fmt.Sprintf("%s:/cfg:ro", r.opts.WorkDir),
			r.opts.Image,
			"eslint",
		)
		cmd = exec.CommandContext(ctx, "docker", append(argv, args...)...)
		cmd.Cancel = func() error {
			killContainer(name)
			return cmd.Process.Kill()
		}
	default:
		argv := append(append([]string{}, r.opts.Command[1:]...), args...)
		cmd = exec.CommandContext(ctx, r.opts.Command[0], argv...)
		cmd.Env = append(os.Environ(), "ESLINT_USE_FLAT_CONFIG=false")
		killGroupOnCancel(cmd)
	}
	cmd.WaitDelay = waitDelay
	return cmd
}

// killContainer stops a run whose docker client was cancelled; --rm removes it afterwards
func killContainer(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if out, err := exec.CommandContext(ctx, "docker", "kill", name).CombinedOutput(); err != nil {
		log.Printf("docker kill %s: %v, output=%s", name, err, strings.TrimSpace(string(out)))
	}
}

// Args is the eslint argument list for one stdin lint run.
func Args(rcPath string, cfg domain.LintConfig) []string {
	args := []string{
		"--stdin",
		"--stdin-filename", stdinFilename,
		"--format", "json",
		"--config", rcPath,
	}
	if !cfg.UseProjectRC {
		args = append(args, "--no-eslintrc")
	}
	if cfg.Fix {
		args = append(args, "--fix-dry-run")
	}
	return args
}

type eslintrc struct {
	Root          bool            `json:"root"`
	ParserOptions parserOptions   `json:"parserOptions"`
	Env           map[string]bool `json:"env"`
	Extends       string          `json:"extends,omitempty"`
}

type parserOptions struct {
	EcmaVersion int    `json:"ecmaVersion"`
	SourceType  string `json:"sourceType"`
}

// RCFile renders cfg in the legacy .eslintrc json format.
func RCFile(cfg domain.LintConfig) ([]byte, error) {
	rc := eslintrc{
		Root: true,
		ParserOptions: parserOptions{
			EcmaVersion: cfg.EcmaVersion,
			SourceType:  cfg.SourceType,
		},
		Env:     make(map[string]bool, len(cfg.Env)),
		Extends: cfg.Extends,
	}
	for _, e := range cfg.Env {
		rc.Env[e] = true
	}
	return json.MarshalIndent(rc, "", "  ")
}

// rcFile writes the rc for cfg on first use and reuses it afterwards.
func (r *Runner) rcFile(cfg domain.LintConfig) (string, error) {
	data, err := RCFile(cfg)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:8])

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.rcs[key]; ok {
		return p, nil
	}
	p := filepath.Join(r.opts.WorkDir, fmt.Sprintf("eslintrc-%s.json", key))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write eslintrc: %w", err)
	}
	r.rcs[key] = p
	return p, nil
}
