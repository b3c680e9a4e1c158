package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCmd_Use(t *testing.T) {
	assert.Equal(t, "split", splitCmd.Use)
	assert.Equal(t, "two-way", splitTwoWayCmd.Use)
	assert.Equal(t, "three-way", splitThreeWayCmd.Use)
	assert.Equal(t, "kfold", splitKFoldCmd.Use)
	assert.Equal(t, "stratified", splitStratifiedCmd.Use)
}

func TestSplitCmd_Flags(t *testing.T) {
	flag := splitTwoWayCmd.Flags().Lookup("ratio")
	require.NotNil(t, flag)
	assert.Equal(t, "r", flag.Shorthand)
	assert.Equal(t, "0.8", flag.DefValue)

	flag = splitKFoldCmd.Flags().Lookup("folds")
	require.NotNil(t, flag)
	assert.Equal(t, "5", flag.DefValue)

	for _, name := range []string{"input", "out-dir", "seed", "no-shuffle"} {
		assert.NotNil(t, splitThreeWayCmd.Flags().Lookup(name), name)
	}
}

func TestSplitTwoWay_PrintsSizes(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", numbered(10)...)

	out, err := runCmd(t, "split", "two-way", "--input", input, "--ratio", "0.7", "--seed", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "train:")
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "test:")
	assert.Contains(t, out, "3")
}

func TestSplitTwoWay_WritesParts(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", numbered(10)...)
	outDir := t.TempDir()

	_, err := runCmd(t, "split", "two-way", "-i", input, "-o", outDir, "--no-shuffle")

	require.NoError(t, err)
	assert.Equal(t, 8, countLines(t, filepath.Join(outDir, "train.jsonl")))
	assert.Equal(t, 2, countLines(t, filepath.Join(outDir, "test.jsonl")))
}

func TestSplitTwoWay_SameSeedSameParts(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", numbered(20)...)
	first, second := t.TempDir(), t.TempDir()

	_, err := runCmd(t, "split", "two-way", "-i", input, "-o", first, "--seed", "42")
	require.NoError(t, err)
	_, err = runCmd(t, "split", "two-way", "-i", input, "-o", second, "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, readFile(t, filepath.Join(first, "train.jsonl")), readFile(t, filepath.Join(second, "train.jsonl")))
}

func TestSplitTwoWay_ReadsStdin(t *testing.T) {
	setupTestServices(t)

	out, err := runCmdWithInput(t, strings.Join(numbered(4), "\n"), "split", "two-way", "--ratio", "0.5")

	require.NoError(t, err)
	assert.Contains(t, out, "train:")
}

func TestSplitTwoWay_InvalidRatio(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", numbered(4)...)

	_, err := runCmd(t, "split", "two-way", "-i", input, "--ratio", "1.5")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "split failed")
}

func TestSplitThreeWay_WritesParts(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", numbered(10)...)
	outDir := t.TempDir()

	_, err := runCmd(t, "split", "three-way", "-i", input, "-o", outDir, "--ratios", "0.6,0.2,0.2", "--seed", "3")

	require.NoError(t, err)
	assert.Equal(t, 6, countLines(t, filepath.Join(outDir, "train.jsonl")))
	assert.Equal(t, 2, countLines(t, filepath.Join(outDir, "validation.jsonl")))
	assert.Equal(t, 2, countLines(t, filepath.Join(outDir, "test.jsonl")))
}

func TestSplitThreeWay_WrongRatioCount(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", numbered(10)...)

	_, err := runCmd(t, "split", "three-way", "-i", input, "--ratios", "0.5,0.5")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly three values")
}

func TestSplitKFold_WritesFolds(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", numbered(10)...)
	outDir := t.TempDir()

	_, err := runCmd(t, "split", "kfold", "-i", input, "-o", outDir, "-k", "3", "--no-shuffle")

	require.NoError(t, err)
	assert.Equal(t, 3, countLines(t, filepath.Join(outDir, "fold-0-test.jsonl")))
	assert.Equal(t, 7, countLines(t, filepath.Join(outDir, "fold-0-train.jsonl")))
	assert.Equal(t, 4, countLines(t, filepath.Join(outDir, "fold-2-test.jsonl")))
}

func TestSplitKFold_TooManyFolds(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", numbered(3)...)

	_, err := runCmd(t, "split", "kfold", "-i", input, "-k", "4")

	assert.Error(t, err)
}

func TestSplitStratified(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", numbered(20)...)
	outDir := t.TempDir()

	_, err := runCmd(t, "split", "stratified", "-i", input, "-o", outDir, "--label", "label", "--ratio", "0.5", "--seed", "7")

	require.NoError(t, err)
	train := readFile(t, filepath.Join(outDir, "train.jsonl"))
	assert.Equal(t, 5, strings.Count(train, `"pos"`))
	assert.Equal(t, 5, strings.Count(train, `"neg"`))
}

func TestSplitStratified_MissingLabel(t *testing.T) {
	setupTestServices(t)
	input := writeJSONL(t, "data.jsonl", `{"id":1}`)

	_, err := runCmd(t, "split", "stratified", "-i", input, "--label", "label")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no label")
}

func TestSplitCmd_ServiceNotConfigured(t *testing.T) {
	SetServices(nil)
	input := writeJSONL(t, "data.jsonl", numbered(2)...)

	_, err := runCmd(t, "split", "two-way", "-i", input)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "partition service not configured")
}
