package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator/internal/core/domain"
)

func TestLineageCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range lineageCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"ref", "edge", "edges"}, names)
}

func TestLineageRef_Version(t *testing.T) {
	setupTestServices(t)
	commit(t, "reviews", "v1", 3)

	out, err := runCmd(t, "lineage", "ref", "reviews@v1")
	require.NoError(t, err)

	var ref domain.ArtifactRef
	require.NoError(t, json.Unmarshal([]byte(out), &ref))
	assert.NotEmpty(t, ref.ArtifactID)
	assert.Equal(t, domain.ArtifactTypeDatasetVersion, ref.Type)
	assert.Equal(t, "dataset://reviews/versions/v1", ref.URI)
	assert.Len(t, ref.Checksum, 64)
	assert.Equal(t, "v1", ref.Metadata["version"])
}

func TestLineageRef_DatasetUsesLatestChecksum(t *testing.T) {
	setupTestServices(t)
	commit(t, "reviews", "v1", 3)
	commit(t, "reviews", "v2", 4)

	out, err := runCmd(t, "lineage", "ref", "reviews")
	require.NoError(t, err)
	var ref domain.ArtifactRef
	require.NoError(t, json.Unmarshal([]byte(out), &ref))

	out, err = runCmd(t, "dataset", "show", "reviews", "v2", "--json")
	require.NoError(t, err)
	var latest domain.VersionRecord
	require.NoError(t, json.Unmarshal([]byte(out), &latest))

	assert.Equal(t, domain.ArtifactTypeDataset, ref.Type)
	assert.Equal(t, "dataset://reviews", ref.URI)
	assert.Equal(t, latest.Hash, ref.Checksum)
}

func TestLineageRef_Overrides(t *testing.T) {
	setupTestServices(t)
	commit(t, "reviews", "v1", 3)

	out, err := runCmd(t, "lineage", "ref", "reviews@v1", "--type", "model_input", "--uri", "s3://bucket/reviews")
	require.NoError(t, err)

	var ref domain.ArtifactRef
	require.NoError(t, json.Unmarshal([]byte(out), &ref))
	assert.Equal(t, "model_input", ref.Type)
	assert.Equal(t, "s3://bucket/reviews", ref.URI)
}

func TestLineageRef_Unknown(t *testing.T) {
	setupTestServices(t)

	_, err := runCmd(t, "lineage", "ref", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLineageEdge_RecordAndList(t *testing.T) {
	stores := setupTestServices(t)
	commit(t, "raw", "v1", 5)
	commit(t, "clean", "v1", 3)

	out, err := runCmd(t, "lineage", "edge", "raw@v1", "clean@v1",
		"--relationship", "filtered_from", "--trace-id", "run-7", "-m", "step=dedupe", "--record")
	require.NoError(t, err)

	var edge domain.ProvenanceEdge
	require.NoError(t, json.Unmarshal([]byte(out), &edge))
	assert.NotEmpty(t, edge.ID)
	assert.Equal(t, "filtered_from", edge.Relationship)
	assert.Equal(t, "run-7", edge.TraceID)
	assert.Equal(t, "dedupe", edge.Metadata["step"])

	ref, err := stores.lineage.GetRef(context.Background(), edge.SourceID)
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactTypeDatasetVersion, ref.Type)

	out, err = runCmd(t, "lineage", "edges", edge.TargetID)
	require.NoError(t, err)
	assert.Contains(t, out, edge.ID)
	assert.Contains(t, out, "filtered_from")
	assert.Contains(t, out, "Total: 1 edges")
}

func TestLineageEdge_WithoutRecordStoresNothing(t *testing.T) {
	setupTestServices(t)
	commit(t, "raw", "v1", 5)
	commit(t, "clean", "v1", 3)

	out, err := runCmd(t, "lineage", "edge", "raw@v1", "clean@v1")
	require.NoError(t, err)
	var edge domain.ProvenanceEdge
	require.NoError(t, json.Unmarshal([]byte(out), &edge))
	assert.Equal(t, domain.RelationshipDerivedFrom, edge.Relationship)

	out, err = runCmd(t, "lineage", "edges", edge.SourceID)
	require.NoError(t, err)
	assert.Contains(t, out, "No edges recorded")
}

func TestLineageCmd_ServiceNotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := runCmd(t, "lineage", "edges", "abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "lineage service not configured")
}
