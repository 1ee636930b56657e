// Package cmd implements the tailwrt CLI commands.
package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tailwrt/tailwrt/internal/logging"
	"github.com/tailwrt/tailwrt/internal/setup"
)

var (
	interfaceName string
	zoneName      string
	smallBinary   bool
	updateMode    bool
	uninstallMode bool
	verbose       bool
	logFile       string
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("tailwrt version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "tailwrt",
	Short: "tailwrt installs and manages the Tailscale client on OpenWrt routers",
	Long: "tailwrt installs the Tailscale package on an OpenWrt router, provisions the\n" +
		"unmanaged network interface and firewall zone through UCI, patches the\n" +
		"tailscaled init script, and restarts the service. The --update and\n" +
		"--uninstall flags switch the run to the update or teardown flow.",
	Args: cobra.NoArgs,
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&interfaceName, "interface", setup.DefaultInterfaceName, "network interface name for the mesh tun device")
	rootCmd.PersistentFlags().StringVar(&zoneName, "zone", setup.DefaultZoneName, "firewall zone name for mesh traffic")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", logging.DefaultLogFile, "append log file path")

	rootCmd.Flags().BoolVar(&smallBinary, "small", false, "install the small userspace binary (not implemented)")
	rootCmd.Flags().BoolVar(&updateMode, "update", false, "update the installed package and restart the service")
	rootCmd.Flags().BoolVar(&uninstallMode, "uninstall", false, "remove the package and all configuration it created")
	rootCmd.MarkFlagsMutuallyExclusive("update", "uninstall")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("tailwrt version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, _ []string) error {
	logger, closeLog := logging.New(verbose, logFile)
	defer closeLog()

	cfg := setup.Config{
		InterfaceName: interfaceName,
		ZoneName:      zoneName,
		SmallBinary:   smallBinary,
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := setup.NewPreflight(cfg, logger).Run(); err != nil {
		logger.Error("preflight failed", "error", err)
		return err
	}

	installer := setup.NewInstaller(
		cfg,
		setup.NewPackageManager(),
		setup.NewConfigStore(),
		setup.NewServiceController(),
		setup.NewDaemonClient(),
		logger,
	)

	var err error
	var done string
	switch {
	case uninstallMode:
		err = installer.Uninstall()
		done = "uninstall complete"
	case updateMode:
		err = installer.Update()
		done = "update complete"
	default:
		err = installer.Install()
		done = "install complete"
	}
	if err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "tailwrt: %s\n", done)
	return nil
}
