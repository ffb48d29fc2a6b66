package commands

import (
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat window.

Enter sends, Ctrl+N starts a new chat, Ctrl+O opens tools, Ctrl+F picks a
file and Ctrl+T switches between the dark and light themes.
Type 'exit', 'quit', or press Esc/Ctrl+C to end the session.
Logs go to pulse.log in the state directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	cfg := loadConfig(newCLILogger(cmd.ErrOrStderr(), "warn"))
	logger := newTUILogger(effectiveLogLevel(cfg))

	controller, backend, err := newController(cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	logger.Info("chat started", "model", backend.GetModel().Name)
	return deps.RunChat(cmd.Context(), controller, backend.GetModel().Name, cfg.Theme, logger)
}
