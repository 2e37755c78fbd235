package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/result"
	"jan-server/services/chat-share/internal/domain/sharelink"
	"jan-server/services/chat-share/internal/infrastructure/clipboard"
	"jan-server/services/chat-share/internal/infrastructure/metrics"
	"jan-server/services/chat-share/internal/infrastructure/notifier"
	"jan-server/services/chat-share/internal/utils/platformerrors"
)

var shareCmd = &cobra.Command{
	Use:   "share <conversation-id>",
	Short: "Publish a conversation and copy its share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShare(cmd.Context(), opts, args[0], cmd.OutOrStdout())
	},
}

var unshareCmd = &cobra.Command{
	Use:   "unshare <conversation-id>",
	Short: "Stop sharing a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnshare(cmd.Context(), opts, args[0], cmd.OutOrStdout())
	},
}

var showPublic bool

var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Print a conversation's page title and share status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd.Context(), opts, args[0], showPublic, cmd.OutOrStdout())
	},
}

func init() {
	showCmd.Flags().BoolVar(&showPublic, "public", false, "read through the public share route")
}

// errShareFailed makes the process exit non-zero; the notifier has already
// told the user why.
var errShareFailed = errors.New("share failed")

func runShare(ctx context.Context, o options, id string, out io.Writer) error {
	log := o.logger()
	client := o.client(log)
	defer client.Close()

	origin, err := sharelink.NewStaticOrigin(o.originURL())
	if err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}

	var board sharelink.Clipboard = clipboard.NewSystem()
	memory := &clipboard.Memory{}
	if o.noClipboard {
		board = memory
	}

	return shareWith(ctx, client, board, origin, out, log, func(outcome sharelink.Outcome) {
		if o.noClipboard && outcome.Kind == sharelink.OutcomeCopied {
			fmt.Fprintln(out, memory.Text())
		}
	}, id)
}

func shareWith(
	ctx context.Context,
	action sharelink.ShareAction,
	board sharelink.Clipboard,
	origin sharelink.OriginProvider,
	out io.Writer,
	log zerolog.Logger,
	onCopied func(sharelink.Outcome),
	id string,
) error {
	coordinator, err := sharelink.NewCoordinator(sharelink.Config{
		Action:    action,
		Clipboard: board,
		Notifier:  notifier.NewTerminal(out, log),
		Origin:    origin,
		OnSettled: func(outcome sharelink.Outcome) {
			metrics.RecordShareLinkOutcome(string(outcome.Kind))
		},
		Logger: log,
	})
	if err != nil {
		return err
	}

	outcome := coordinator.InvokeShare(ctx, id)
	if onCopied != nil {
		onCopied(outcome)
	}
	if outcome.Kind != sharelink.OutcomeCopied {
		return errShareFailed
	}
	return nil
}

type unsharer interface {
	UnshareConversation(ctx context.Context, id string) result.Result[*conversation.Conversation]
}

func runUnshare(ctx context.Context, o options, id string, out io.Writer) error {
	log := o.logger()
	client := o.client(log)
	defer client.Close()

	return unshareWith(ctx, client, out, id)
}

func unshareWith(ctx context.Context, client unsharer, out io.Writer, id string) error {
	return result.Match(client.UnshareConversation(ctx, id),
		func(*conversation.Conversation) error {
			fmt.Fprintf(out, "✓ Conversation %s is no longer shared\n", id)
			return nil
		},
		func(message string) error {
			fmt.Fprintf(out, "✗ %s\n", message)
			return errShareFailed
		},
	)
}

func runShow(ctx context.Context, o options, id string, public bool, out io.Writer) error {
	log := o.logger()
	client := o.client(log)
	defer client.Close()

	get := client.GetConversation
	if public {
		get = client.GetSharedConversation
	}

	conv, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return fmt.Errorf("conversation %s not found", id)
		}
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal) {
			return fmt.Errorf("chat-share server %s unreachable: %w", o.server, err)
		}
		return err
	}

	fmt.Fprintln(out, conversation.PageTitle(conv.Title))
	if !conv.IsShared() {
		fmt.Fprintln(out, "not shared")
		return nil
	}

	link, err := shareLink(ctx, o.originURL(), *conv.SharePath)
	if err != nil {
		link = *conv.SharePath
	}
	fmt.Fprintf(out, "shared: %s\n", link)
	return nil
}

func shareLink(ctx context.Context, rawOrigin, sharePath string) (string, error) {
	origin, err := sharelink.NewStaticOrigin(rawOrigin)
	if err != nil {
		return "", err
	}
	u, err := origin.Origin(ctx)
	if err != nil {
		return "", err
	}
	return sharelink.DeriveShareURL(u, sharePath)
}
