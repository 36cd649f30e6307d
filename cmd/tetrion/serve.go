package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrion/internal/config"
	"github.com/vovakirdan/tetrion/internal/platform/tui"
	"github.com/vovakirdan/tetrion/internal/sim"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tetrion SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own menu and its own simulation sessions.
Results are stored per-server (all users share the same leaderboard).
Every running game is shut down when the server stops.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise uses ssh.host_key from the config, generating it if missing

Examples:
  tetrion serve                           # Listen on the configured address
  tetrion serve --ssh :2222               # Listen on port 2222
  tetrion serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (default from config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	e, err := setup(envOptions{logTo: os.Stderr, prefix: "tetrion-ssh"})
	if err != nil {
		exitf("%v", err)
	}
	defer e.close()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}
	if cfg.Address == "" {
		cfg.Address = net.JoinHostPort(e.cfg.SSH.Host, strconv.Itoa(e.cfg.SSH.Port))
	}
	if cfg.HostKeyPath == "" {
		cfg.HostKeyPath = e.cfg.SSH.HostKey
	}

	// Remote players use the default bindings.
	deps := e.deps(sim.NewRegistry())
	deps.Controls = config.DefaultControls()

	server, err := tui.NewSSHServer(cfg, deps)
	if err != nil {
		exitf("creating server: %v", err)
	}

	_, port, _ := net.SplitHostPort(cfg.Address)
	fmt.Printf("Starting tetrion SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(context.Background()); err != nil {
		e.close()
		exitf("server: %v", err)
	}
}
