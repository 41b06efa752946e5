// Package cmd wires up the CLI flags, resolves configuration and starts
// the terminal UI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"termlink/config"
	"termlink/internal/app"
	ncerr "termlink/internal/errors"
	"termlink/internal/metrics"
	"termlink/internal/session"
	"termlink/internal/transport"
	"termlink/internal/ui"
	"termlink/tunnel"
	"termlink/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X termlink/cmd.version=0.2.0"
var version = "0.1.0" //nolint:gochecknoglobals

// options holds the raw flag values.  Only flags the user actually set
// override the file and environment layers.
type options struct {
	bind        string
	remote      string
	timeoutSec  int
	configPath  string
	logFile     string
	verbose     int
	tunnel      string
	sshKey      string
	sshAgent    bool
	sshPassword bool
	strictHost  bool
	knownHosts  string
	dryRun      bool
	showVersion bool
	showHelp    bool
}

func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("termlink", flag.ContinueOnError)

	// ── session ──────────────────────────────────────────────────
	fs.StringVarP(&o.bind, "bind", "b", config.DefaultBindAddress, "Server role: address to listen on")
	fs.StringVarP(&o.remote, "remote", "r", config.DefaultRemoteAddress, "Client role: address to dial")
	fs.IntVarP(&o.timeoutSec, "connect-timeout", "w",
		int(config.DefaultConnectTimeout/time.Second), "Client dial timeout in seconds")

	// ── configuration ────────────────────────────────────────────
	fs.StringVarP(&o.configPath, "config", "f", "", "YAML config file")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Validate and print the configuration, then exit")

	// ── SSH jump host ────────────────────────────────────────────
	fs.StringVarP(&o.tunnel, "tunnel", "T", "", "Client role: dial through [user@]host[:port]")
	fs.StringVar(&o.sshKey, "ssh-key", "", "SSH private key file")
	fs.BoolVar(&o.sshPassword, "ssh-password", false, "Prompt for SSH password before the UI starts")
	fs.BoolVar(&o.sshAgent, "ssh-agent", false, "Use SSH agent")
	fs.BoolVar(&o.strictHost, "strict-hostkey", false, "Verify SSH host keys")
	fs.StringVar(&o.knownHosts, "known-hosts", "", "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.StringVar(&o.logFile, "log-file", "", "Append log output to this file")
	fs.CountVarP(&o.verbose, "verbose", "v", "Increase verbosity (repeatable)")

	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&o.showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }
	return fs
}

// Execute parses args and runs termlink until the user quits or ctx is
// cancelled.
func Execute(ctx context.Context, args []string) error {
	var o options
	fs := newFlagSet(&o)

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}
	if o.showHelp {
		printUsage(fs)
		return nil
	}
	if o.showVersion {
		fmt.Printf("termlink %s\n", version)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v (use --help for usage)", fs.Args())
	}

	cfg, err := resolve(fs, &o)
	if err != nil {
		return err
	}
	if o.dryRun {
		fmt.Println(cfg)
		return nil
	}

	// The UI needs a real terminal; bubbletea would otherwise fail
	// halfway through setting it up.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ncerr.ErrNotTerminal
	}

	// ── build components ─────────────────────────────────────────
	logger, err := util.NewFileLogger(cfg.LogFile, cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Close()

	dialer, err := buildDialer(cfg, logger, tunnel.TerminalPrompter)
	if err != nil {
		return err
	}

	mc := metrics.New()
	mgr := session.NewManager(session.Options{
		Dialer:         dialer,
		ConnectTimeout: cfg.ConnectTimeout,
		Logger:         logger,
		Metrics:        mc,
	})
	defer mgr.Close()

	logger.Info("termlink %s: %s", version, cfg)
	err = ui.Run(ctx, app.New(cfg, mgr, logger), cfg.PollInterval)
	logger.Info("metrics: %s", mc.JSON())
	return err
}

// resolve layers defaults, the config file, the environment and the
// flags that were set, in that order, and validates the result.
func resolve(fs *flag.FlagSet, o *options) (*config.Config, error) {
	cfg := config.Default()

	if o.configPath != "" {
		if err := config.LoadFile(o.configPath, cfg); err != nil {
			return nil, err
		}
	}
	config.LoadFromEnv(cfg)

	if fs.Changed("bind") {
		cfg.BindAddress = o.bind
	}
	if fs.Changed("remote") {
		cfg.RemoteAddress = o.remote
	}
	if fs.Changed("connect-timeout") {
		cfg.ConnectTimeout = time.Duration(o.timeoutSec) * time.Second
	}
	if fs.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if fs.Changed("verbose") {
		cfg.Verbose = o.verbose
	}
	if fs.Changed("tunnel") {
		cfg.TunnelSpec = o.tunnel
	}
	if fs.Changed("ssh-key") {
		cfg.SSHKeyPath = o.sshKey
	}
	if fs.Changed("ssh-password") {
		cfg.SSHPassword = o.sshPassword
	}
	if fs.Changed("ssh-agent") {
		cfg.UseSSHAgent = o.sshAgent
	}
	if fs.Changed("strict-hostkey") {
		cfg.StrictHostKey = o.strictHost
	}
	if fs.Changed("known-hosts") {
		cfg.KnownHostsPath = o.knownHosts
	}

	if err := cfg.ApplyTunnelSpec(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildDialer picks the client transport.  SSH credentials are
// gathered here, while the terminal is still in cooked mode.
func buildDialer(cfg *config.Config, logger *util.Logger, prompt tunnel.Prompter) (transport.Dialer, error) {
	if !cfg.TunnelEnabled {
		return &transport.TCPDialer{Timeout: cfg.ConnectTimeout}, nil
	}

	sshCfg := &tunnel.SSHConfig{
		User:          cfg.TunnelUser,
		Host:          cfg.TunnelHost,
		Port:          cfg.TunnelPort,
		KeyPath:       cfg.SSHKeyPath,
		PromptPass:    cfg.SSHPassword,
		UseAgent:      cfg.UseSSHAgent,
		StrictHostKey: cfg.StrictHostKey,
		KnownHosts:    cfg.KnownHostsPath,
		ConnTimeout:   cfg.ConnectTimeout,
	}
	if err := tunnel.PrepareAuth(sshCfg, prompt); err != nil {
		return nil, ncerr.WrapSSH("auth", sshCfg.Host, sshCfg.Port, err)
	}
	logger.Verbose("client role will dial through %s@%s", sshCfg.User, sshCfg.Addr())
	return transport.NewSSHDialer(sshCfg, logger), nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `termlink v%s

Pick a role from a terminal menu: Server listens for one peer, Client
dials one.  Esc goes back to the menu and closes the session.

Usage:
  termlink [options]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Environment:
  TERMLINK_BIND, TERMLINK_REMOTE, TERMLINK_CONNECT_TIMEOUT, TERMLINK_TUNNEL,
  TERMLINK_LOG_FILE, TERMLINK_VERBOSE, ...  (flags take precedence)

Examples:
  termlink -b :9000                           Serve on port 9000
  termlink -r 10.0.0.5:7070 -w 3              Dial a peer, 3s timeout
  termlink -T admin@bastion -r db-internal:7070
  termlink -f termlink.yaml --log-file /tmp/termlink.log -vv
`)
}
