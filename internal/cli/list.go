package cli

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the contract registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := appFromContext(cmd)
			if err != nil {
				return err
			}

			records := appInstance.Registry.All()
			sort.Slice(records, func(i, j int) bool {
				return records[i].Key < records[j].Key
			})

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Key", "Name", "Address", "Forwards To"})
			for _, rec := range records {
				address := ""
				if rec.Address != (common.Address{}) {
					address = rec.Address.Hex()
				}
				t.AppendRow(table.Row{rec.Key, rec.Name, address, rec.ForwardsTo})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}
