package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jan-server/services/chat-share/internal/infrastructure/logger"
	"jan-server/services/chat-share/internal/infrastructure/shareclient"
)

var version = "1.0.0"

// options holds the persistent flags shared by every subcommand.
type options struct {
	server      string
	origin      string
	token       string
	userID      string
	timeout     time.Duration
	noClipboard bool
	verbose     bool
}

var opts options

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chatshare",
	Short: "Publish chat conversations and copy their share links",
	Long: `chatshare talks to a chat-share server.

Examples:
  chatshare share conv1a2b3c        # publish and copy the link
  chatshare share conv1a2b3c --no-clipboard
  chatshare unshare conv1a2b3c      # stop sharing
  chatshare show conv1a2b3c --public`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(unshareCmd)
	rootCmd.AddCommand(showCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.server, "server", envOr("CHAT_SHARE_SERVER", "http://localhost:8190"), "chat-share server URL")
	flags.StringVar(&opts.origin, "origin", os.Getenv("CHAT_SHARE_ORIGIN"), "origin share links are built on (defaults to --server)")
	flags.StringVar(&opts.token, "token", os.Getenv("CHAT_SHARE_TOKEN"), "bearer token")
	flags.StringVar(&opts.userID, "user", os.Getenv("CHAT_SHARE_USER"), "user ID sent as X-User-ID")
	flags.DurationVar(&opts.timeout, "timeout", 15*time.Second, "request timeout")
	flags.BoolVar(&opts.noClipboard, "no-clipboard", false, "print the link instead of copying it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (o options) logger() zerolog.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	log, err := logger.NewWithWriter(os.Stderr, level, "console")
	if err != nil {
		return zerolog.Nop()
	}
	return log
}

func (o options) client(log zerolog.Logger) *shareclient.Client {
	return shareclient.New(shareclient.Options{
		BaseURL: o.server,
		Token:   o.token,
		UserID:  o.userID,
		Timeout: o.timeout,
	}, log)
}

func (o options) originURL() string {
	if o.origin != "" {
		return o.origin
	}
	return o.server
}
