package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pymetrics/internal/model"
)

// newMetricCmd 创建 metric 子命令。
// 命令用于展示内置指标目录，方便用户填写 --metrics。
func newMetricCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metric",
		Short: "展示可计算的指标目录",
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "ID\tNAME\tAGGREGATE\tDESCRIPTION"); err != nil {
				return err
			}

			for _, item := range model.AllMetricDefs() {
				if _, err := fmt.Fprintf(
					writer,
					"%s\t%s\t%s\t%s\n",
					item.ID,
					item.Name,
					item.Aggregate,
					item.Description,
				); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}
