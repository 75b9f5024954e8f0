package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"rateoracle-service/internal/msg"

	"github.com/spf13/cobra"
)

const (
	targetFlag = "target"
	senderFlag = "sender"
	denomFlag  = "denom"
	limitFlag  = "limit"
	paramsFlag = "params"

	targetFlagDesc = "gRPC address of the oracle"
	senderFlagDesc = "identity the request is sent as"
	denomFlagDesc  = "denom identifier"
	limitFlagDesc  = "max history entries; negative means all"
	paramsFlagDesc = "base64 extension params"
)

type postParams struct {
	target         string
	sender         string
	denom          string
	purchaseRate   string
	redemptionRate string
}

func (ip *postParams) setFlags(cmd *cobra.Command, d deps) {
	cmd.Flags().StringVar(&ip.target, targetFlag, d.cfg.GRPCTarget, targetFlagDesc)
	cmd.Flags().StringVar(&ip.sender, senderFlag, d.cfg.Sender, senderFlagDesc)
	cmd.Flags().StringVar(&ip.denom, denomFlag, "", denomFlagDesc)
	cmd.Flags().StringVar(&ip.purchaseRate, "purchase-rate", "", "purchase rate as a decimal string")
	cmd.Flags().StringVar(&ip.redemptionRate, "redemption-rate", "", "redemption rate as a decimal string")
}

func (ip *postParams) validateFlags() error {
	if ip.sender == "" {
		return fmt.Errorf("missing sender: --%s", senderFlag)
	}
	if ip.denom == "" {
		return fmt.Errorf("missing denom: --%s", denomFlag)
	}
	if ip.purchaseRate == "" || ip.redemptionRate == "" {
		return fmt.Errorf("both --purchase-rate and --redemption-rate are required")
	}
	return nil
}

func getPostCommand(d deps) *cobra.Command {
	params := &postParams{}
	cmd := &cobra.Command{
		Use:   "post",
		Short: "post a rate pair to a running oracle",
		PreRunE: func(*cobra.Command, []string) error {
			return params.validateFlags()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, cleanup, err := d.dial(cmd.Context(), params.target, params.sender, d.cfg.RequestTimeout)
			if err != nil {
				return err
			}
			defer cleanup()
			ack, err := cli.PostRates(cmd.Context(), msg.PostRates{
				Denom:          params.denom,
				PurchaseRate:   params.purchaseRate,
				RedemptionRate: params.redemptionRate,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ack)
		},
	}
	params.setFlags(cmd, d)
	return cmd
}

type queryParams struct {
	target string
	denom  string
	limit  int64
	params string
}

func (ip *queryParams) setFlags(cmd *cobra.Command, d deps) {
	cmd.PersistentFlags().StringVar(&ip.target, targetFlag, d.cfg.GRPCTarget, targetFlagDesc)
	cmd.PersistentFlags().StringVar(&ip.denom, denomFlag, "", denomFlagDesc)
	cmd.PersistentFlags().Int64Var(&ip.limit, limitFlag, -1, limitFlagDesc)
	cmd.PersistentFlags().StringVar(&ip.params, paramsFlag, "", paramsFlagDesc)
}

// build turns the flags into the query named by kind.
func (ip *queryParams) build(kind string) (msg.QueryMsg, error) {
	if kind == "config" {
		return msg.QueryMsg{Config: &msg.ConfigQuery{}}, nil
	}
	if ip.denom == "" {
		return msg.QueryMsg{}, fmt.Errorf("missing denom: --%s", denomFlag)
	}
	var raw []byte
	if ip.params != "" {
		b, err := base64.StdEncoding.DecodeString(ip.params)
		if err != nil {
			return msg.QueryMsg{}, fmt.Errorf("--%s: %w", paramsFlag, err)
		}
		raw = b
	}
	var limit *uint64
	if ip.limit >= 0 {
		l := uint64(ip.limit)
		limit = &l
	}
	switch kind {
	case "purchase-rate":
		return msg.QueryMsg{PurchaseRate: &msg.RateQuery{Denom: ip.denom, Params: raw}}, nil
	case "redemption-rate":
		return msg.QueryMsg{RedemptionRate: &msg.RateQuery{Denom: ip.denom, Params: raw}}, nil
	case "purchase-history":
		return msg.QueryMsg{HistoricalPurchaseRates: &msg.HistoricalQuery{Denom: ip.denom, Params: raw, Limit: limit}}, nil
	case "redemption-history":
		return msg.QueryMsg{HistoricalRedemptionRates: &msg.HistoricalQuery{Denom: ip.denom, Params: raw, Limit: limit}}, nil
	default:
		return msg.QueryMsg{}, fmt.Errorf("unknown query %q", kind)
	}
}

var queryKinds = []string{"config", "purchase-rate", "redemption-rate", "purchase-history", "redemption-history"}

func getQueryCommand(d deps) *cobra.Command {
	params := &queryParams{}
	cmd := &cobra.Command{
		Use:       "query [" + queryKinds[0] + "|...]",
		Short:     "query a running oracle",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: queryKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := params.build(args[0])
			if err != nil {
				return err
			}
			cli, cleanup, err := d.dial(cmd.Context(), params.target, "", d.cfg.RequestTimeout)
			if err != nil {
				return err
			}
			defer cleanup()
			var out json.RawMessage
			if err := cli.Query(cmd.Context(), q, &out); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	params.setFlags(cmd, d)
	return cmd
}
