package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"deliveryhub/insights"
	"deliveryhub/report"
)

func NewReportCmd(v *viper.Viper) *cobra.Command {
	var input, output, name string

	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Render the analysis of a snapshot as a PDF",
		Example: `  insightctl report --input snapshot.json --output insights.pdf --name "Cantina da Nonna"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := readSnapshot(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			analysis := insights.Analyze(snapshot.Historico, snapshot.Atual)
			if err := insights.CheckFinite(analysis); err != nil {
				return err
			}
			doc, err := report.BuildInsightsPDF(restaurantName(name, v), analysis, time.Now())
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, doc, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Snapshot file, - for stdin (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "insights.pdf", "PDF file to write")
	cmd.Flags().StringVar(&name, "name", "", "Restaurant name printed on the report")
	cmd.MarkFlagRequired("input")

	return cmd
}

// restaurantName prefers the flag, then INSIGHTCTL_NAME or the config file.
func restaurantName(flag string, v *viper.Viper) string {
	if flag != "" {
		return flag
	}
	return v.GetString("name")
}
