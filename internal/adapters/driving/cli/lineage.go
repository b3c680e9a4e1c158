package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator/internal/core/domain"
	"github.com/custodia-labs/curator/internal/core/ports/driving"
)

var lineageCmd = &cobra.Command{
	Use:   "lineage",
	Short: "Build and record provenance",
	Long: `Build artifact references and provenance edges for recorded datasets.

Datasets are addressed as name or name@version. A bare name refers to the
dataset as a whole and carries the checksum of its latest version.`,
}

var lineageRefCmd = &cobra.Command{
	Use:   "ref [name[@version]]",
	Short: "Print the artifact reference of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineageRef,
}

var lineageEdgeCmd = &cobra.Command{
	Use:   "edge [source] [target]",
	Short: "Build an edge from source to target",
	Long: `Build a provenance edge stating that target was derived from source.
With --record, both references and the edge are stored.`,
	Args: cobra.ExactArgs(2),
	RunE: runLineageEdge,
}

var lineageEdgesCmd = &cobra.Command{
	Use:   "edges [artifact-id]",
	Short: "List recorded edges touching an artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineageEdges,
}

var (
	refOverrides     driving.RefOverrides
	refRecord        bool
	edgeRelationship string
	edgeTraceID      string
	edgeMeta         []string
	edgeRecord       bool
)

func init() {
	lineageRefCmd.Flags().StringVar(&refOverrides.Type, "type", "", "Override the artifact type")
	lineageRefCmd.Flags().StringVar(&refOverrides.URI, "uri", "", "Override the artifact URI")
	lineageRefCmd.Flags().BoolVar(&refRecord, "record", false, "Store the reference")

	lineageEdgeCmd.Flags().StringVarP(&edgeRelationship, "relationship", "r", domain.RelationshipDerivedFrom, "Edge relationship")
	lineageEdgeCmd.Flags().StringVar(&edgeTraceID, "trace-id", "", "Pipeline run to correlate the edge with")
	lineageEdgeCmd.Flags().StringArrayVarP(&edgeMeta, "meta", "m", nil, "Edge metadata as key=value (repeatable)")
	lineageEdgeCmd.Flags().BoolVar(&edgeRecord, "record", false, "Store the references and the edge")

	lineageCmd.AddCommand(lineageRefCmd)
	lineageCmd.AddCommand(lineageEdgeCmd)
	lineageCmd.AddCommand(lineageEdgesCmd)
	rootCmd.AddCommand(lineageCmd)
}

// resolveDataset loads a recorded dataset addressed as name or name@version.
func resolveDataset(ctx context.Context, address string) (*domain.Dataset, error) {
	name, label, _ := strings.Cut(address, "@")
	if name == "" {
		return nil, fmt.Errorf("%w: empty dataset name in %q", domain.ErrInvalidInput, address)
	}

	id, err := versionService.DatasetID(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("dataset %q has no recorded versions: %w", name, err)
		}
		return nil, err
	}

	stored := label
	if stored == "" {
		labels, err := versionService.ListVersions(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(labels) == 0 {
			return nil, fmt.Errorf("dataset %q has no recorded versions: %w", name, domain.ErrNotFound)
		}
		stored = labels[0]
	}

	record, err := versionService.GetVersion(ctx, name, stored)
	if err != nil {
		return nil, err
	}
	content, err := versionService.LoadVersion(ctx, name, stored)
	if err != nil {
		return nil, err
	}

	return &domain.Dataset{
		Name:       name,
		Version:    label,
		Hash:       record.Hash,
		Metadata:   record.Metadata,
		ArtifactID: id,
		Content:    *content,
	}, nil
}

func runLineageRef(cmd *cobra.Command, args []string) error {
	if lineageService == nil {
		return errNotConfigured("lineage")
	}
	if versionService == nil {
		return errNotConfigured("version")
	}
	ctx := commandContext(cmd)

	dataset, err := resolveDataset(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}
	overrides := refOverrides
	ref, err := lineageService.ArtifactRef(dataset, &overrides)
	if err != nil {
		return fmt.Errorf("failed to build reference: %w", err)
	}

	if refRecord {
		if err := lineageService.Record(ctx, []domain.ArtifactRef{*ref}, nil); err != nil {
			return fmt.Errorf("failed to record reference: %w", err)
		}
	}
	return printJSON(cmd, ref)
}

func runLineageEdge(cmd *cobra.Command, args []string) error {
	if lineageService == nil {
		return errNotConfigured("lineage")
	}
	if versionService == nil {
		return errNotConfigured("version")
	}
	ctx := commandContext(cmd)

	meta, err := parseMetadata(edgeMeta)
	if err != nil {
		return err
	}

	refs := make([]domain.ArtifactRef, 0, 2)
	for _, address := range args {
		dataset, err := resolveDataset(ctx, address)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", address, err)
		}
		ref, err := lineageService.ArtifactRef(dataset, nil)
		if err != nil {
			return fmt.Errorf("failed to build reference for %s: %w", address, err)
		}
		refs = append(refs, *ref)
	}

	edge, err := lineageService.Edge(&refs[0], &refs[1], driving.EdgeOptions{
		Relationship: edgeRelationship,
		TraceID:      edgeTraceID,
		Metadata:     meta,
	})
	if err != nil {
		return fmt.Errorf("failed to build edge: %w", err)
	}

	if edgeRecord {
		if err := lineageService.Record(ctx, refs, []domain.ProvenanceEdge{*edge}); err != nil {
			return fmt.Errorf("failed to record edge: %w", err)
		}
	}
	return printJSON(cmd, edge)
}

func runLineageEdges(cmd *cobra.Command, args []string) error {
	if lineageService == nil {
		return errNotConfigured("lineage")
	}
	artifactID := args[0]

	edges, err := lineageService.Edges(commandContext(cmd), artifactID)
	if err != nil {
		return fmt.Errorf("failed to list edges: %w", err)
	}
	if len(edges) == 0 {
		cmd.Printf("No edges recorded for artifact: %s\n", artifactID)
		return nil
	}

	for i := range edges {
		e := &edges[i]
		cmd.Printf("%s  %s %s %s\n",
			style.Muted.Render(e.ID),
			style.ID.Render(e.TargetID),
			e.Relationship,
			style.ID.Render(e.SourceID),
		)
	}
	cmd.Printf("\nTotal: %d edges\n", len(edges))
	return nil
}
