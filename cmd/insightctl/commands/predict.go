package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"deliveryhub/insights"
	"deliveryhub/models"
)

func NewPredictCmd(v *viper.Viper) *cobra.Command {
	var input string
	var pretty bool

	cmd := &cobra.Command{
		Use:     "predict",
		Short:   "Predict every metric seven days ahead",
		Example: `  insightctl predict --input snapshot.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := readSnapshot(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			predictions := insights.GeneratePredictions(snapshot.Historico)
			if err := insights.CheckFinite(models.AnalysisOutput{Predicoes: predictions}); err != nil {
				return err
			}
			return writeJSON("-", cmd.OutOrStdout(), predictions, pretty || v.GetBool("pretty"))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Snapshot file, - for stdin (required)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	cmd.MarkFlagRequired("input")

	return cmd
}
