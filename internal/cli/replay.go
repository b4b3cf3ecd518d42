package cli

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/loam-labs/evmkit/internal/adapters/blockchain"
	"github.com/loam-labs/evmkit/internal/domain/models"
	"github.com/loam-labs/evmkit/internal/usecase"
)

// blockFlag is a block-range endpoint flag: a decimal or 0x-hex block
// number, or "latest" for an open end.
type blockFlag struct {
	n *big.Int
}

var _ pflag.Value = (*blockFlag)(nil)

func (f *blockFlag) String() string {
	if f.n == nil {
		return "latest"
	}
	return f.n.String()
}

func (f *blockFlag) Set(raw string) error {
	if raw == "" || raw == "latest" {
		f.n = nil
		return nil
	}
	n, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return fmt.Errorf("invalid block number %q", raw)
	}
	f.n = n
	return nil
}

func (f *blockFlag) Type() string { return "block" }

func newReplayCmd() *cobra.Command {
	var (
		fromBlock = blockFlag{n: big.NewInt(0)}
		toBlock   blockFlag
		delay     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "replay <contract-key:EventName>...",
		Short: "Replay historical event logs in ledger order",
		Long: `Replay fetches the full log history of one or more contract events and
replays it sequentially. With several events the histories are fetched
concurrently and merged into a single (block, transaction, log)-ordered
sequence before replay.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := appFromContext(cmd)
			if err != nil {
				return err
			}

			var sources []usecase.LogSource
			for _, arg := range args {
				key, event, found := strings.Cut(arg, ":")
				if !found {
					return fmt.Errorf("invalid source %q, expected contract-key:EventName", arg)
				}

				inst, err := appInstance.Invoker.Resolve(cmd.Context(), models.KeyRef(key), false)
				if err != nil {
					return err
				}

				sources = append(sources, blockchain.NewFilterSource(
					appInstance.Ledger, inst.ABI(), inst.Address(), event, nil, fromBlock.n, toBlock.n,
				))
			}

			opts := usecase.ReplayOptions{Delay: delay}
			total := 0
			printLog := func(err error, log *models.EventLog) {
				if err != nil && log == nil {
					color.Red("✗ source error: %v", err)
					return
				}
				total++
				contract := log.Address.Hex()
				if log.Contract != nil {
					contract = log.Contract.Key
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %v\n",
					color.CyanString("[%d:%d:%d]", log.BlockNumber, log.TxIndex, log.LogIndex),
					color.YellowString(contract),
					log.Name,
					log.Args,
				)
			}

			if len(sources) == 1 {
				opts.OnFinish = func([]*models.EventLog) {
					color.Green("✓ replayed %d log(s)", total)
				}
				handle := appInstance.Replayer.Replay(cmd.Context(), sources[0], printLog, opts)
				<-handle.Done()
				return nil
			}

			opts.OnFinish = func(logs []*models.EventLog) {
				color.Green("✓ replayed %d log(s) from %d source(s)", len(logs), len(sources))
			}
			handle := appInstance.OrderedReplayer.ReplayOrdered(cmd.Context(), sources,
				func(err error, log *models.EventLog) []<-chan error {
					printLog(err, log)
					return nil
				}, opts)
			<-handle.Done()
			return nil
		},
	}

	cmd.Flags().Var(&fromBlock, "from-block", "first block of the filter range")
	cmd.Flags().Var(&toBlock, "to-block", `last block of the filter range ("latest" = open)`)
	cmd.Flags().DurationVar(&delay, "delay", 0, "pause between replayed logs")
	return cmd
}
