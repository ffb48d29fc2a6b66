// Package commands provides CLI commands for pulse.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/srynk/pulse/internal/models"
)

var (
	// Global flags
	modelFlag   string
	verboseFlag bool
	outputFlag  string
	fileFlag    string
	rawFlag     bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pulse [prompt]",
	Short: "Chat with " + models.AssistantName + ", a Gemini-backed assistant",
	Long: `pulse sends your prompt to the Gemini generateContent API and prints
the reply. The API key is read from GEMINI_API_KEY (or PULSE_API_KEY).

Examples:
  pulse chat                        Start interactive chat
  pulse "What is Go?"               Send a single query
  pulse -f prompt.md                Read prompt from file
  cat prompt.md | pulse             Read prompt from stdin
  pulse "Hello" -o response.md      Save response to file
  pulse config set theme light      Change a setting`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "pulse %s (built %s)\n", Version, BuildTime)
			return nil
		}

		prompt, ok, err := readPrompt(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		if !ok {
			return cmd.Help()
		}

		raw := rawFlag || !isTTY(cmd.OutOrStdout())
		return runQuery(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), prompt, raw)
	},
}

// readPrompt picks the prompt from --file, piped stdin or the argument, in
// that order. ok is false when there is no input at all.
func readPrompt(stdin io.Reader, args []string) (prompt string, ok bool, err error) {
	if fileFlag != "" {
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// hasPipedInput reports whether r is a non-terminal file such as a pipe
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log request details to stderr")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolVarP(&rawFlag, "raw", "r", false, "Print only the reply text")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
}
