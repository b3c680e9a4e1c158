package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/services"
)

// testServices exposes the stores behind the installed services.
type testServices struct {
	config  *memory.ConfigStore
	lineage *memory.LineageStore
}

// setupTestServices installs services backed by memory stores and restores
// the previous state when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	hasher, err := services.NewHasher(domain.HashSHA256)
	require.NoError(t, err)

	config := memory.NewConfigStore()
	lineage := memory.NewLineageStore()
	SetServices(&Services{
		Partition: services.NewPartitionService(),
		Hash:      hasher,
		Versions:  services.NewVersionService(memory.NewVersionStore(), memory.NewSnapshotStore(), hasher),
		Lineage:   services.NewLineageService(hasher, lineage, "dataset://"),
		Settings:  services.NewSettingsService(config),
	})
	t.Cleanup(func() { SetServices(nil) })

	return &testServices{config: config, lineage: lineage}
}

// runCmd executes the root command with args and returns combined output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCmdWithInput(t, "", args...)
}

// runCmdWithInput executes the root command with stdin set to input.
// Flag values are reset afterwards so tests do not leak into each other.
func runCmdWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(parseDefaultSlice(f.DefValue))
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func parseDefaultSlice(def string) []string {
	def = strings.TrimSuffix(strings.TrimPrefix(def, "["), "]")
	if def == "" {
		return []string{}
	}
	return strings.Split(def, ",")
}

// writeJSONL writes lines to a file in a temp directory and returns its path.
func writeJSONL(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

// numbered returns n JSON Lines records with ids 1..n and alternating labels.
func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		label := "pos"
		if i%2 == 1 {
			label = "neg"
		}
		lines[i] = `{"id":` + strconv.Itoa(i+1) + `,"label":"` + label + `"}`
	}
	return lines
}

// countLines counts non-empty lines in a file.
func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
