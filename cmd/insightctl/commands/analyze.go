package commands

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"deliveryhub/insights"
)

type AnalyzeOptions struct {
	InputFile  string
	OutputFile string
	Pretty     bool
}

func NewAnalyzeCmd(v *viper.Viper) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis over a snapshot",
		Long: `Detect problems, suggest actions, classify trends and predict the next
seven days from a {historico, atual} snapshot.`,
		Example: `  # Analyze a snapshot and pretty print
  insightctl analyze --input snapshot.json --pretty

  # Read from stdin and write to a file
  cat snapshot.json | insightctl analyze -i - -o analysis.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := readSnapshot(opts.InputFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			output := insights.Analyze(snapshot.Historico, snapshot.Atual)
			if err := insights.CheckFinite(output); err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"problems":    len(output.ProblemasDetectados),
				"suggestions": len(output.SugestoesPersonalizadas),
			}).Debug("📊 [INSIGHTS] Analysis done")
			return writeJSON(opts.OutputFile, cmd.OutOrStdout(), output, opts.Pretty || v.GetBool("pretty"))
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Snapshot file to analyze, - for stdin (required)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file (- for stdout)")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "Indent the JSON output")

	cmd.MarkFlagRequired("input")

	return cmd
}
