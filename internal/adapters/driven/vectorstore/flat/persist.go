package flat

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/logger"
)

const (
	currentFile   = "CURRENT"
	indexFile     = "index.msgpack"
	metadataFile  = "metadata.msgpack"
	documentsFile = "documents.msgpack"
	genPrefix     = "gen-"
	tmpSuffix     = ".tmp"

	formatVersion = 1
)

// indexArtifact is the on-disk form of the vectors. Vectors are stored
// flattened, row-major, Count rows of Dimension values.
type indexArtifact struct {
	Version   int       `msgpack:"version"`
	Dimension int       `msgpack:"dimension"`
	Count     int       `msgpack:"count"`
	Vectors   []float32 `msgpack:"vectors"`
}

func generationName(gen uint64) string {
	return fmt.Sprintf("%s%06d", genPrefix, gen)
}

func parseGeneration(name string) (uint64, bool) {
	if !strings.HasPrefix(name, genPrefix) || strings.HasSuffix(name, tmpSuffix) {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(name, genPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// writeGeneration stages snap as generation gen under dir and publishes it
// by replacing CURRENT. Older generations are removed afterwards.
func writeGeneration(dir string, gen uint64, snap *snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	name := generationName(gen)
	final := filepath.Join(dir, name)
	staging := final + tmpSuffix
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("remove stale staging dir: %w", err)
	}
	if err := os.Mkdir(staging, 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	data := make([]float32, 0, snap.len()*snap.dim)
	for _, v := range snap.vectors {
		data = append(data, v...)
	}
	artifacts := []struct {
		file string
		v    any
	}{
		{indexFile, indexArtifact{Version: formatVersion, Dimension: snap.dim, Count: snap.len(), Vectors: data}},
		{metadataFile, snap.records},
		{documentsFile, snap.texts},
	}
	for _, a := range artifacts {
		if err := writeMsgpackFile(filepath.Join(staging, a.file), a.v); err != nil {
			_ = os.RemoveAll(staging)
			return fmt.Errorf("write %s: %w", a.file, err)
		}
	}
	if err := syncDir(staging); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}

	// A leftover generation with this number was never published.
	if err := os.RemoveAll(final); err != nil {
		return fmt.Errorf("remove unpublished generation: %w", err)
	}
	if err := os.Rename(staging, final); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("publish generation: %w", err)
	}
	if err := writePointer(dir, name); err != nil {
		return err
	}

	pruneGenerations(dir, name)
	return nil
}

func writeMsgpackFile(path string, v any) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := msgpack.NewEncoder(w).Encode(v); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writePointer atomically replaces CURRENT with name.
func writePointer(dir, name string) error {
	tmp := filepath.Join(dir, currentFile+tmpSuffix)
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("write pointer: %w", err)
	}
	if _, err := f.WriteString(name + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write pointer: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync pointer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close pointer: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, currentFile)); err != nil {
		return fmt.Errorf("publish pointer: %w", err)
	}
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open dir for sync: %w", err)
	}
	defer d.Close()
	// Some filesystems do not support syncing directories.
	if err := d.Sync(); err != nil {
		logger.Debug("sync %s: %v", dir, err)
	}
	return nil
}

// pruneGenerations removes every generation and staging dir except keep.
// Failures are logged; a stale generation is harmless.
func pruneGenerations(dir, keep string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("list index dir %s: %v", dir, err)
		return
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == keep || !strings.HasPrefix(e.Name(), genPrefix) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			logger.Warn("remove old generation %s: %v", e.Name(), err)
		}
	}
}

// readPointer returns the live generation. A missing pointer is reported
// as fs.ErrNotExist.
func readPointer(dir string) (string, uint64, error) {
	data, err := os.ReadFile(filepath.Join(dir, currentFile))
	if err != nil {
		return "", 0, err
	}
	name := strings.TrimSpace(string(data))
	gen, ok := parseGeneration(name)
	if !ok {
		return name, 0, fmt.Errorf("%w: bad pointer %q", domain.ErrCorruptPersistedState, name)
	}
	return name, gen, nil
}

// loadGeneration reads the live triple under dir.
//
// A missing pointer or missing artifact yields an empty snapshot, since a
// partial triple is never valid. Undecodable or inconsistent artifacts
// yield ErrCorruptPersistedState along with the generation number, so the
// caller can overwrite it.
func loadGeneration(dir string) (*snapshot, uint64, error) {
	name, gen, err := readPointer(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return emptySnapshot(), 0, nil
	}
	if err != nil {
		return nil, highestGeneration(dir), err
	}

	genDir := filepath.Join(dir, name)
	var (
		idx     indexArtifact
		records []domain.ChunkRecord
		texts   []string
	)
	for _, a := range []struct {
		file string
		v    any
	}{
		{indexFile, &idx},
		{metadataFile, &records},
		{documentsFile, &texts},
	} {
		err := readMsgpackFile(filepath.Join(genDir, a.file), a.v)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("index generation %s is missing %s, treating as empty", name, a.file)
			return emptySnapshot(), gen, nil
		}
		if err != nil {
			return nil, gen, fmt.Errorf("%w: decode %s/%s: %w", domain.ErrCorruptPersistedState, name, a.file, err)
		}
	}

	snap, err := fromArtifacts(idx, records, texts)
	if err != nil {
		return nil, gen, fmt.Errorf("%w: %s: %w", domain.ErrCorruptPersistedState, name, err)
	}
	return snap, gen, nil
}

func readMsgpackFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return msgpack.NewDecoder(bufio.NewReader(f)).Decode(v)
}

func fromArtifacts(idx indexArtifact, records []domain.ChunkRecord, texts []string) (*snapshot, error) {
	if idx.Version != formatVersion {
		return nil, fmt.Errorf("unsupported format version %d", idx.Version)
	}
	if idx.Count != len(records) || idx.Count != len(texts) {
		return nil, fmt.Errorf("artifact lengths disagree: %d vectors, %d records, %d texts",
			idx.Count, len(records), len(texts))
	}
	if idx.Count == 0 {
		return emptySnapshot(), nil
	}
	if idx.Dimension <= 0 || len(idx.Vectors) != idx.Count*idx.Dimension {
		return nil, fmt.Errorf("vector data has %d values for %d x %d", len(idx.Vectors), idx.Count, idx.Dimension)
	}

	snap := &snapshot{
		dim:     idx.Dimension,
		vectors: make([][]float32, idx.Count),
		records: records,
		texts:   texts,
	}
	for i := range snap.vectors {
		snap.vectors[i] = idx.Vectors[i*idx.Dimension : (i+1)*idx.Dimension : (i+1)*idx.Dimension]
	}
	for i := range snap.records {
		snap.records[i].Timestamp = snap.records[i].Timestamp.UTC()
	}
	return snap, nil
}

// highestGeneration returns the largest published generation number under dir.
func highestGeneration(dir string) uint64 {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	var highest uint64
	for _, e := range entries {
		if gen, ok := parseGeneration(e.Name()); ok && gen > highest {
			highest = gen
		}
	}
	return highest
}
