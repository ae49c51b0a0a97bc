package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/omenapps/adminsort/internal/config"
)

var dumpFlag bool

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration file",
	Long: `check parses the configuration and reports every problem the
middleware would otherwise surface on the first admin request.

With --dump, the parsed reorder entries are printed back as YAML so the
effective ordering can be inspected.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&dumpFlag, "dump", false,
		"print the parsed reorder entries as YAML")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	fmt.Println(dimStyle.Render("Checking " + configSource()))
	fmt.Println()

	failed := false
	report := func(section string, err error) {
		if err != nil {
			failed = true
			fmt.Printf("%s %s: %v\n", failStyle.Render("✗"), section, err)
			return
		}
		fmt.Printf("%s %s\n", okStyle.Render("✓"), section)
	}

	report("reorder", config.ValidateReorder(cfg.Reorder))
	report("log", config.ValidateLog(cfg.Log))
	report("tracing", config.ValidateTracing(cfg.Tracing))

	if dumpFlag {
		fmt.Println()
		fmt.Println(dimStyle.Render("reorder.apps:"))
		out, err := yaml.Marshal(cfg.Reorder.Apps)
		if err != nil {
			return fmt.Errorf("rendering entries: %w", err)
		}
		os.Stdout.Write(out)
	}

	if failed {
		return fmt.Errorf("configuration is invalid")
	}
	fmt.Println()
	fmt.Println(okStyle.Render("Configuration is valid"))
	return nil
}

func configSource() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return "built-in defaults (no config file found)"
}
