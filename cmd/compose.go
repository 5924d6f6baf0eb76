package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/promptforge/internal/prompts"
	"github.com/promptforge/pkg/models"
)

// ComposeCommand returns the compose command
func ComposeCommand() *cli.Command {
	return &cli.Command{
		Name:  "compose",
		Usage: "Compose a prompt from a JSON request file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Request `FILE` (use - for stdin)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the full result as JSON instead of the preview text",
			},
		},
		Action: runCompose,
	}
}

// ScoreCommand returns the score command
func ScoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "Score the quality of a prompt",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read the prompt from `FILE`",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the report as JSON",
			},
		},
		Action: runScore,
	}
}

func readInput(c *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.App.Reader)
	}
	return os.ReadFile(path)
}

func runCompose(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	data, err := readInput(c, c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	var req models.ComposeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse request: %w", err)
	}
	req.ApplySamplingDefaults(cfg.Defaults.NumberOfResponses, cfg.Defaults.DistributionType)

	if errs := models.CheckRequest(req); len(errs) > 0 {
		return fmt.Errorf("invalid request: %s", formatFieldErrors(errs))
	}

	resp := req.Compose(prompts.NewComposer())
	if c.Bool("json") {
		return writeJSON(c.App.Writer, resp)
	}
	fmt.Fprintln(c.App.Writer, resp.Preview)
	return nil
}

func runScore(c *cli.Context) error {
	var text string
	if path := c.String("file"); path != "" {
		data, err := readInput(c, path)
		if err != nil {
			return fmt.Errorf("failed to read prompt: %w", err)
		}
		text = string(data)
	} else {
		text = strings.Join(c.Args().Slice(), " ")
	}

	report := prompts.ValidatePromptQuality(text)
	if c.Bool("json") {
		return writeJSON(c.App.Writer, report)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Score: %d/100\n", report.Score)
	for _, s := range report.Strengths {
		fmt.Fprintf(w, "  + %s\n", s)
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFieldErrors(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+errs[k])
	}
	return strings.Join(parts, "; ")
}
