package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliveryhub/models"
)

const snapshotJSON = `{
  "historico": {
    "semanas": 9,
    "pedidos": [50, 52, 48, 51, 49, 50, 10, 9, 8],
    "abandonos": [10, 11, 9, 10, 12, 10, 11, 9, 10],
    "cancelamentos": [],
    "conversao": [],
    "produtos": {"mais_vendidos": [], "menos_vendidos": []}
  },
  "atual": {"pedidos_total": 9, "abandonos": 30}
}`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0o644))
	return path
}

func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := run(t, NewAnalyzeCmd(viper.New()), "", "--input", writeSnapshot(t))
	require.NoError(t, err)

	var output models.AnalysisOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	assert.Len(t, output.Predicoes, 4)
	assert.NotEmpty(t, output.ProblemasDetectados)
}

func TestAnalyzeCommandFromStdinPretty(t *testing.T) {
	out, err := run(t, NewAnalyzeCmd(viper.New()), snapshotJSON, "-i", "-", "--pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"problemas_detectados\"")
}

func TestAnalyzeCommandWritesFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "analysis.json")
	_, err := run(t, NewAnalyzeCmd(viper.New()), "", "-i", writeSnapshot(t), "-o", target)
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, json.Valid(raw))
}

func TestAnalyzeCommandRequiresInput(t *testing.T) {
	_, err := run(t, NewAnalyzeCmd(viper.New()), "")
	assert.Error(t, err)
}

func TestAnalyzeCommandRejectsBadSnapshot(t *testing.T) {
	_, err := run(t, NewAnalyzeCmd(viper.New()), "{oops", "-i", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode snapshot")
}

func TestPredictCommand(t *testing.T) {
	out, err := run(t, NewPredictCmd(viper.New()), "", "-i", writeSnapshot(t))
	require.NoError(t, err)

	var predictions []models.Prediction
	require.NoError(t, json.Unmarshal([]byte(out), &predictions))
	require.Len(t, predictions, 4)
	assert.Equal(t, "pedidos", predictions[3].Tipo)
	assert.Equal(t, models.PredictionDown, predictions[3].Tendencia)
}

func TestReportCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "insights.pdf")
	v := viper.New()
	v.Set("name", "Cantina da Nonna")

	out, err := run(t, NewReportCmd(v), "", "-i", writeSnapshot(t), "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRestaurantName(t *testing.T) {
	v := viper.New()
	v.Set("name", "Config")
	assert.Equal(t, "Flag", restaurantName("Flag", v))
	assert.Equal(t, "Config", restaurantName("", v))
}

func TestCommandsRejectOverflowingSnapshot(t *testing.T) {
	huge := `{"historico": {"semanas": 4, "pedidos": [1e308, 1e308, 1e308, 1e308]}, "atual": {"pedidos_total": 1e308}}`

	_, err := run(t, NewAnalyzeCmd(viper.New()), huge, "-i", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-finite")

	_, err = run(t, NewPredictCmd(viper.New()), huge, "-i", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-finite")
}
