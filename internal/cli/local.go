package cli

import (
	"errors"
	"fmt"

	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/msg"
	"rateoracle-service/internal/version"

	"github.com/spf13/cobra"
)

const (
	adminFlag   = "admin"
	versionFlag = "version"

	adminFlagDesc   = "admin address allowed to post rates"
	versionFlagDesc = "target version; defaults to the binary version"
)

type instantiateParams struct {
	admin string
}

func (ip *instantiateParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ip.admin, adminFlag, "", adminFlagDesc)
}

func (ip *instantiateParams) validateFlags() error {
	if ip.admin == "" {
		return fmt.Errorf("missing admin address: --%s", adminFlag)
	}
	return nil
}

func getInstantiateCommand(d deps) *cobra.Command {
	params := &instantiateParams{}
	cmd := &cobra.Command{
		Use:   "instantiate",
		Short: "store the admin and contract version in the local store",
		PreRunE: func(*cobra.Command, []string) error {
			return params.validateFlags()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			router, cleanup, err := d.openRouter(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			resp, err := router.Instantiate(cmd.Context(), msg.InstantiateMsg{AdminAddress: params.admin})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	params.setFlags(cmd)
	return cmd
}

func getMigrateCommand(d deps) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "move the stored contract version forward",
		RunE: func(cmd *cobra.Command, _ []string) error {
			router, cleanup, err := d.openRouter(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			resp, err := router.Migrate(cmd.Context(), msg.MigrateMsg{Version: target})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&target, versionFlag, "", versionFlagDesc)
	return cmd
}

type versionOutput struct {
	Binary   string `json:"binary"`
	Contract string `json:"contract,omitempty"`
	Stored   string `json:"stored_version,omitempty"`
}

func getVersionCommand(d deps) *cobra.Command {
	var binaryOnly bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "print binary and stored contract versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := versionOutput{Binary: version.String()}
			if binaryOnly {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			router, cleanup, err := d.openRouter(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			info, err := router.ContractInfo(cmd.Context())
			if err != nil && !errors.Is(err, domain.ErrNotInstantiated) {
				return err
			}
			out.Contract, out.Stored = info.Contract, info.Version
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&binaryOnly, "binary", false, "skip opening the local store")
	return cmd
}
