// Package cli implements the oraclectl admin commands.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/bootstrap"
	"rateoracle-service/internal/config"
	"rateoracle-service/internal/infrastructure/grpc/oracleclient"

	"github.com/spf13/cobra"
)

// RouterFactory opens the local store behind an oracle router.
type RouterFactory func(ctx context.Context) (*application.Router, func(), error)

// Dialer connects to a running oracle as sender.
type Dialer func(ctx context.Context, target, sender string, timeout time.Duration) (*oracleclient.Client, func(), error)

type deps struct {
	openRouter RouterFactory
	dial       Dialer
	cfg        config.Config
}

func defaultDial(ctx context.Context, target, sender string, timeout time.Duration) (*oracleclient.Client, func(), error) {
	return oracleclient.New(ctx, target, sender, timeout)
}

// NewRootCommand wires the commands to the configured store and gRPC target.
func NewRootCommand() *cobra.Command {
	return newRoot(deps{openRouter: bootstrap.InitRouter, dial: defaultDial, cfg: config.Load()})
}

func newRoot(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "oraclectl",
		Short:         "Administer a rate oracle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		getInstantiateCommand(d),
		getMigrateCommand(d),
		getVersionCommand(d),
		getPostCommand(d),
		getQueryCommand(d),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
