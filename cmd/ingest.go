package cmd

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rhizome/indexer/internal/config"
	"rhizome/indexer/internal/metrics"
	"rhizome/indexer/internal/persist"
	"rhizome/indexer/internal/store"
)

var ingestDocType string

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Index every markdown file under a vault directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := OpenStore()
		if err != nil {
			return err
		}
		defer st.Close()

		scheduler, err := newScheduler(st, cfg)
		if err != nil {
			return err
		}
		defer scheduler.Dispose()

		root := args[0]
		count := 0
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			doc := store.MarkdownDocument{
				Path:       rel,
				Content:    string(content),
				DocType:    ingestDocType,
				Categories: pathCategories(rel),
			}
			if err := st.UpsertMarkdownDocument(doc); err != nil {
				return err
			}
			metrics.DocumentsIngested.Inc()
			count++

			scheduler.Schedule(persist.DomainGraph, persist.DomainMetadata)
			scheduler.FlushWhenIdle(cfg.FlushIdle())
			return nil
		})
		if err != nil {
			return err
		}

		// Final guaranteed write before the process exits.
		if err := scheduler.Flush(); err != nil {
			return err
		}

		slog.Info("ingest complete", "documents", count, "vault", root)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestDocType, "doc-type", "note", "Document type recorded on ingested nodes")
	rootCmd.AddCommand(ingestCmd)
}

// pathCategories derives categories from the document's folder segments.
func pathCategories(relPath string) []string {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	if dir == "." || dir == "/" {
		return nil
	}
	return strings.Split(dir, "/")
}

// newScheduler wires the persistence scheduler: graph snapshots go to a
// zstd-compressed byte store, metadata to a plain text store. The idle runner
// is chosen once: throttled when a budget is configured, immediate otherwise.
func newScheduler(st *store.Store, cfg config.Config) (*persist.Scheduler, error) {
	snapshotDir := cfg.SnapshotDir
	if snapshotDir == "" {
		snapshotDir = filepath.Join(filepath.Dir(st.Path), "rhizome-snapshots")
	}

	graphSink, err := persist.NewFileByteStore(filepath.Join(snapshotDir, "graph.json.zst"))
	if err != nil {
		return nil, err
	}
	metaSink := persist.NewFileTextStore(filepath.Join(snapshotDir, "metadata.json"))

	exporter := persist.NewExporter(map[string]persist.DomainExporter{
		persist.DomainGraph:    persist.GraphSnapshotJSON(st),
		persist.DomainMetadata: metadataJSON(st),
	})

	var idle persist.Runner = persist.ImmediateRunner{}
	if cfg.IdleEvery() > 0 {
		idle = persist.NewThrottledRunner(cfg.IdleEvery())
	}

	sinks := map[string]persist.Sink{
		persist.DomainGraph:    graphSink,
		persist.DomainMetadata: metaSink,
	}
	return persist.NewScheduler(exporter, sinks, idle, slog.Default()), nil
}

// metadataJSON exports lightweight vault statistics as the textual
// relational-metadata domain.
func metadataJSON(st *store.Store) persist.DomainExporter {
	return func() ([]byte, error) {
		nodes, err := st.AllNodes()
		if err != nil {
			return nil, err
		}
		counts := make(map[store.NodeType]int)
		for _, n := range nodes {
			counts[n.Type]++
		}
		return json.Marshal(map[string]any{"node_counts": counts, "total": len(nodes)})
	}
}
