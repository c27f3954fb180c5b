package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driving"
	"github.com/custodia-labs/campusrag/internal/logger"
)

var (
	watchTenant   string
	watchDebounce time.Duration
	watchInitial  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep a college index in sync with a directory",
	Long: `Watches a directory tree and re-ingests supported files when they change.
Removed files are deleted from the index. Document ids are the file paths
relative to the directory, the same ids "campusrag ingest <dir>" assigns.

Changes are batched over the debounce window.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addTenantFlag(watchCmd, &watchTenant)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "debounce window for batching changes")
	watchCmd.Flags().BoolVar(&watchInitial, "initial", false, "ingest every supported file before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if watchTenant == "" {
		return errTenantRequired
	}
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if info, err := os.Stat(root); err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", args[0])
	}

	ctx := cmd.Context()
	tenant := domain.TenantID(watchTenant)
	out := cmd.OutOrStdout()

	if watchInitial {
		files, err := supportedFiles(root)
		if err != nil {
			return fmt.Errorf("walk %s: %w", root, err)
		}
		pending := make(map[string]bool, len(files))
		for _, rel := range files {
			pending[filepath.Join(root, rel)] = true
		}
		syncPending(ctx, out, ingestService, tenant, root, pending)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("add watch dirs: %w", err)
	}

	fmt.Fprintf(out, "Watching %s for college %s...\n", root, tenant)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				queueNewDir(watcher, event.Name, pending)
			} else if shouldIgnoreEvent(event) {
				continue
			} else {
				pending[event.Name] = true
			}
			if len(pending) > 0 {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		case <-timer.C:
			syncPending(ctx, out, ingestService, tenant, root, pending)
			clear(pending)
		}
	}
}

// syncPending brings the index in line with the pending paths: files that
// still exist are re-ingested in place, missing ones are deleted.
// Failures are reported and do not stop the batch.
func syncPending(
	ctx context.Context,
	out io.Writer,
	ingest driving.IngestService,
	tenant domain.TenantID,
	root string,
	pending map[string]bool,
) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		id := filepath.ToSlash(rel)

		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			result, err := ingest.Ingest(ctx, domain.IngestRequest{
				TenantID:   tenant,
				DocumentID: id,
				Path:       path,
				Replace:    true,
			})
			if err != nil {
				fmt.Fprintln(out, warning("✗ %s: %v", id, err))
				continue
			}
			fmt.Fprintln(out, success("✓ %s (%d chunks)", id, result.Chunks))
			continue
		}

		removed, err := ingest.DeleteDocument(ctx, tenant, id)
		if err != nil {
			fmt.Fprintln(out, warning("✗ %s: %v", id, err))
			continue
		}
		if removed > 0 {
			fmt.Fprintln(out, success("- %s (%d chunks)", id, removed))
		}
	}
}

// queueNewDir watches a newly created directory and queues the files that
// were moved in with it.
func queueNewDir(watcher *fsnotify.Watcher, dir string, pending map[string]bool) {
	if err := addWatchDirs(watcher, dir); err != nil {
		logger.Warn("watch %s: %v", dir, err)
	}
	files, err := supportedFiles(dir)
	if err != nil {
		logger.Warn("walk %s: %v", dir, err)
		return
	}
	for _, rel := range files {
		pending[filepath.Join(dir, rel)] = true
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// shouldIgnoreEvent filters out events that cannot change a supported
// document: chmod-only events, hidden and backup files, and unsupported
// extensions.
func shouldIgnoreEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return true
	}

	_, err := domain.FormatFromPath(event.Name)
	return err != nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
