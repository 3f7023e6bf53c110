package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgallion1/studymap/internal/config"
	"github.com/dgallion1/studymap/internal/llm"
	"github.com/dgallion1/studymap/internal/roadmap"
)

type roadmapFlags struct {
	format  string
	fanOut  int
	policy  string
	model   string
	verbose bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studymap",
		Short: "Build study roadmaps with a language model",
		Long: `studymap asks a language model to summarize a subject, picks out the
foundational topics behind it and summarizes those too.

Examples:
  studymap roadmap "photosynthesis"
  studymap roadmap "black holes" --format yaml
  echo "linear algebra" | studymap roadmap --fan-out 3 --policy first`,
		SilenceUsage: true,
	}
	root.AddCommand(newRoadmapCmd())
	return root
}

func newRoadmapCmd() *cobra.Command {
	var f roadmapFlags
	cmd := &cobra.Command{
		Use:   "roadmap [subject]",
		Short: "Build a roadmap for a subject",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := readSubject(args, cmd.InOrStdin(), term.IsTerminal(int(os.Stdin.Fd())))
			if err != nil {
				return err
			}
			return runRoadmap(cmd, subject, f)
		},
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", "markdown", "Output format: json, yaml or markdown")
	cmd.Flags().IntVar(&f.fanOut, "fan-out", -1, "Number of prerequisite topics to expand (default from ROADMAP_FAN_OUT)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "Which extracted topics to expand: last or first (default from ROADMAP_TOPIC_POLICY)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Model to use (default from LLM_MODEL)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log build progress to stderr")
	return cmd
}

func runRoadmap(cmd *cobra.Command, subject string, f roadmapFlags) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read .env: %w", err)
	}

	cfg := config.Load()
	if f.fanOut >= 0 {
		cfg.FanOut = f.fanOut
	}
	if f.policy != "" {
		cfg.TopicPolicy = f.policy
	}
	if f.model != "" {
		cfg.LLMModel = f.model
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := roadmap.ParseFormat(f.format)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	client := llm.NewClient(cfg.LLM())
	defer client.Close()
	builder := roadmap.NewBuilder(client, cfg.Roadmap(), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tree, err := builder.Build(ctx, subject)
	if err != nil {
		return err
	}

	out, err := renderTree(tree, format, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

// readSubject takes the subject from the first argument, or from stdin when
// stdin is piped.
func readSubject(args []string, stdin io.Reader, stdinIsTTY bool) (string, error) {
	var subject string
	switch {
	case len(args) > 0:
		subject = args[0]
	case !stdinIsTTY:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		subject = string(data)
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", fmt.Errorf("a subject is required")
	}
	return subject, nil
}

// renderTree encodes the tree, styling markdown for terminals.
func renderTree(tree *roadmap.Tree, format roadmap.Format, tty bool) (string, error) {
	if format == roadmap.FormatMarkdown && tty {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return "", fmt.Errorf("create renderer: %w", err)
		}
		return r.Render(tree.Markdown())
	}

	body, err := tree.Encode(format)
	if err != nil {
		return "", err
	}
	out := string(body)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}
