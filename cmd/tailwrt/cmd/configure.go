package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tailwrt/tailwrt/internal/bringup"
	"github.com/tailwrt/tailwrt/internal/logging"
	"github.com/tailwrt/tailwrt/internal/setup"
)

var (
	authKey           string
	authKeyFile       string
	advertiseRoutes   []string
	acceptRoutes      bool
	advertiseExitNode bool
	exitNode          string
	exitNodeLANAccess bool
	tuneOffload       bool
	assumeYes         bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Bring the mesh link up and apply routing options",
	Long: "configure runs tailscale up with the chosen options: authentication,\n" +
		"subnet routes, route acceptance, and exit node roles. Options not given\n" +
		"as flags are prompted for when running on a terminal.",
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&authKey, "authkey", "", "pre-authorized key for unattended login")
	configureCmd.Flags().StringVar(&authKeyFile, "authkey-file", "", "file containing the pre-authorized key")
	configureCmd.Flags().StringSliceVar(&advertiseRoutes, "advertise-routes", nil, "CIDR routes to advertise as a subnet router")
	configureCmd.Flags().BoolVar(&acceptRoutes, "accept-routes", false, "accept routes advertised by other nodes")
	configureCmd.Flags().BoolVar(&advertiseExitNode, "advertise-exit-node", false, "offer this router as an exit node")
	configureCmd.Flags().StringVar(&exitNode, "exit-node", "", "route all traffic through this exit node")
	configureCmd.Flags().BoolVar(&exitNodeLANAccess, "exit-node-allow-lan-access", false, "keep LAN access while using an exit node")
	configureCmd.Flags().BoolVar(&tuneOffload, "tune", false, "install the UDP offload hotplug hook")
	configureCmd.Flags().BoolVar(&assumeYes, "yes", false, "never prompt, use flag values and defaults as given")
	configureCmd.MarkFlagsMutuallyExclusive("authkey", "authkey-file")
	configureCmd.MarkFlagsMutuallyExclusive("advertise-exit-node", "exit-node")

	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	logger, closeLog := logging.New(verbose, logFile)
	defer closeLog()

	opts := bringup.Options{
		AuthKey:           authKey,
		AdvertiseRoutes:   advertiseRoutes,
		AcceptRoutes:      acceptRoutes,
		AdvertiseExitNode: advertiseExitNode,
		ExitNode:          exitNode,
		AllowLANAccess:    exitNodeLANAccess,
		NetfilterOff:      true,
	}

	if authKeyFile != "" {
		data, err := os.ReadFile(authKeyFile)
		if err != nil {
			return fmt.Errorf("read auth key file: %w", err)
		}
		opts.AuthKey = strings.TrimSpace(string(data))
	}

	if !assumeYes && bringup.Interactive() {
		p := bringup.NewPrompter(os.Stdin, cmd.OutOrStdout())
		if err := p.FillOptions(&opts); err != nil {
			return err
		}
	}

	cfg := bringup.Config{
		InterfaceName: interfaceName,
		ZoneName:      zoneName,
	}
	cfg.ApplyDefaults()

	runner := bringup.NewRunner(cfg, setup.NewDaemonClient(), setup.NewConfigStore(), logger)
	if err := runner.Up(opts); err != nil {
		logger.Error("bring-up failed", "error", err)
		return err
	}

	if tuneOffload {
		if err := bringup.InstallTuning(bringup.DefaultHotplugDir, cfg.StateFilePath, logger); err != nil {
			logger.Error("offload tuning failed", "error", err)
			return err
		}
	}

	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "tailwrt: configuration applied")
	return nil
}
