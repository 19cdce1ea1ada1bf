package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"agentforge/cmd/forge/ui"
	"agentforge/internal/access"
	"agentforge/internal/api"
	"agentforge/internal/auth"
	"agentforge/internal/catalog"
	"agentforge/internal/config"
	"agentforge/internal/logging"
	"agentforge/internal/wizard"
)

var (
	// Global flags
	verbose   bool
	serverURL string

	// Shared state built in PersistentPreRunE
	cfg    *config.Config
	creds  *auth.Store
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "forge - terminal client for the AgentForge platform",
	Long: `forge manages AgentForge tools from the terminal.

Tools are capabilities your agents can call: APIs, knowledge bases,
webhooks, spreadsheets and more. The wizard walks through the same
steps as the web UI, including knowledge sources and access control.

Run "forge tool create" to start the wizard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(config.Dir()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		}
		logging.Boot("forge invoked: %s", cmd.CommandPath())

		var err error
		cfg, err = config.Load(config.Path())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if serverURL != "" {
			cfg.Server.BaseURL = serverURL
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		creds = auth.NewStore()

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func newClient() *api.Client {
	return api.New(cfg.Server.BaseURL, creds.Token)
}

// toolCmd groups the tool subcommands
var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Create, edit and list tools",
}

var toolCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new tool through the interactive wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		stopWatch := watchConfig()
		defer stopWatch()

		styles := ui.NewStyles(ui.DetectTheme(cfg.UI.DarkMode))
		model := ui.NewModel(newClient(), styles)
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

// watchConfig re-reads logging settings while the wizard runs, so a log
// level flipped from a second terminal takes effect without a restart.
// Server and UI settings are fixed for the lifetime of the command.
func watchConfig() func() {
	stop, err := config.Watch(config.Path(), nil)
	if err != nil {
		logging.BootDebug("config watch unavailable: %v", err)
		return func() {}
	}
	return stop
}

var toolEditCmd = &cobra.Command{
	Use:   "edit [tool-id]",
	Short: "Edit an existing tool through the interactive wizard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
		defer cancel()

		tool, err := client.GetTool(ctx, args[0])
		if err != nil {
			return fmt.Errorf("cannot load tool %s: %w", args[0], err)
		}
		dir, err := client.FetchDirectory(ctx)
		if err != nil {
			logger.Warn("Directory fetch failed, grant names will be ids", zap.Error(err))
		}

		st, err := stateFromTool(tool, dir)
		if err != nil {
			return err
		}

		stopWatch := watchConfig()
		defer stopWatch()

		styles := ui.NewStyles(ui.DetectTheme(cfg.UI.DarkMode))
		model := ui.NewEditModel(client, styles, st)
		_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

var toolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tools you can access",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
		defer cancel()

		tools, err := newClient().ListAccessibleTools(ctx)
		if err != nil {
			return err
		}
		if len(tools) == 0 {
			fmt.Println("No tools available.")
			return nil
		}
		w := bufio.NewWriter(os.Stdout)
		fmt.Fprintf(w, "%-36s  %-12s  %s\n", "ID", "TYPE", "NAME")
		for _, t := range tools {
			fmt.Fprintf(w, "%-36s  %-12s  %s\n", t.ID, t.Type, t.Name)
		}
		return w.Flush()
	},
}

// loginCmd signs in and stores the session token
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Sign in to the AgentForge server",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		username := ""
		if len(args) == 1 {
			username = args[0]
		} else {
			fmt.Print("Username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			username = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		password := strings.TrimRight(line, "\r\n")

		ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
		defer cancel()
		token, err := newClient().Login(ctx, username, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := creds.Save(token, username); err != nil {
			return err
		}
		fmt.Printf("Signed in as %s.\n", username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := creds.Clear(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

// directoryCmd dumps the user and group directory used by access control
var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Show the users and groups available for access control",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
		defer cancel()

		dir, err := newClient().FetchDirectory(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Users (%d):\n", len(dir.Users))
		for _, u := range dir.Users {
			fmt.Printf("  %-24s  %-28s  %s\n", u.ID, u.DisplayName, u.Email)
		}
		fmt.Printf("Groups (%d):\n", len(dir.Groups))
		for _, g := range dir.Groups {
			fmt.Printf("  %-24s  %s\n", g.ID, g.DisplayName)
		}
		return nil
	},
}

// stateFromTool rebuilds a wizard session from a stored tool record.
func stateFromTool(tool api.Tool, dir access.Directory) (*wizard.State, error) {
	toolType, err := catalog.Parse(tool.Type)
	if err != nil {
		return nil, fmt.Errorf("tool %s has unsupported type %q", tool.ID, tool.Type)
	}
	meta := catalog.MustLookup(toolType)

	st := wizard.NewState(meta)
	st.EditingID = tool.ID
	st.SetField("name", tool.Name)
	st.SetField("description", tool.Description)
	for k, v := range tool.Config {
		st.SetField(k, v)
	}

	grants := map[access.Permission][]string{
		access.PermEdit:    tool.CanEditUserIDs,
		access.PermDelete:  tool.CanDeleteUserIDs,
		access.PermExecute: tool.CanExecuteUserIDs,
	}
	st.Access = access.Load(
		access.AccessType(tool.AccessType),
		tool.AllowedUserIDs,
		tool.AllowedGroupIDs,
		grants,
		dir.Resolve,
	)
	return st, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "AgentForge server URL (overrides config)")

	toolCmd.AddCommand(toolCreateCmd)
	toolCmd.AddCommand(toolEditCmd)
	toolCmd.AddCommand(toolListCmd)

	rootCmd.AddCommand(toolCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(directoryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
