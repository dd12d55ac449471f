package analysis

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"dupescan/internal/config"
	"dupescan/internal/fingerprint"
	"dupescan/internal/fpcache"
	"dupescan/internal/logging"
	"dupescan/internal/media"
	"dupescan/internal/unionfind"
)

// Request describes one analysis run.
type Request struct {
	// Root is the directory to scan recursively.
	Root string
	// Threshold is the similarity score at or above which two files join a
	// group. 1 means exact content matches only. 0 falls back to the
	// configured default.
	Threshold float64
}

// Groups is the final partition: one slice of file paths per duplicate
// class, ordered deterministically by each class's first-walked member.
type Groups [][]string

// Analyzer clusters media files under a root into duplicate groups. One
// Analyzer is constructed at startup and shared by every task; the only
// mutable state it touches is the fingerprint cache, which is safe for
// concurrent use.
type Analyzer struct {
	cache            *fpcache.Cache
	classifier       *media.Classifier
	defaultThreshold float64
	logger           *slog.Logger
}

// NewAnalyzer builds an analyzer from configuration and the shared cache.
func NewAnalyzer(cfg *config.Config, cache *fpcache.Cache, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		cache:            cache,
		classifier:       media.NewClassifier(cfg.Analysis.ImageExtensions, cfg.Analysis.VideoExtensions),
		defaultThreshold: cfg.Analysis.DefaultThreshold,
		logger:           logging.NewComponentLogger(logger, "analyzer"),
	}
}

type candidate struct {
	path    string
	kind    media.Kind
	print   fingerprint.Fingerprint
	skipped bool
}

// Analyze walks the request root, fingerprints every media candidate through
// the cache, and merges equivalent files into groups.
//
// Progress is published as a count of completed units; one unit per
// candidate file. The count is non-decreasing and reaches the candidate
// total on success. Files that vanish or turn unreadable between the walk
// and fingerprinting are skipped with a warning and still consume their
// unit; an unreadable root aborts the run.
func (a *Analyzer) Analyze(ctx context.Context, req Request, publish func(int)) (Groups, error) {
	if publish == nil {
		publish = func(int) {}
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = a.defaultThreshold
	}

	paths, err := a.collectCandidates(req.Root)
	if err != nil {
		return nil, err
	}

	a.logger.Info("analysis started",
		logging.String("root", req.Root),
		logging.Int("candidates", len(paths)),
		logging.Float64("threshold", threshold))

	publish(0)

	candidates := make([]candidate, len(paths))
	forest := unionfind.New(len(paths))
	byHash := make(map[string]int, len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, Wrap(ErrCancelled, "analyzer", "fingerprint", req.Root, err)
		}

		candidates[i] = candidate{path: path, kind: a.classifier.Classify(path)}

		print, err := a.fingerprintFile(path)
		if err != nil {
			a.logger.Warn("skipping unreadable file",
				logging.String("path", path),
				logging.Error(err))
			candidates[i].skipped = true
			publish(i + 1)
			continue
		}
		candidates[i].print = print

		// Exact duplicates collapse through the hash index; this yields the
		// same partition as exhaustive pairwise comparison.
		if prev, seen := byHash[print.Hash]; seen {
			forest.Union(prev, i)
		} else {
			byHash[print.Hash] = i
		}
		publish(i + 1)
	}

	if threshold < 1 {
		a.unionNearDuplicates(candidates, forest, threshold)
	}

	groups := buildGroups(candidates, forest)
	a.logger.Info("analysis completed",
		logging.String("root", req.Root),
		logging.Int("groups", len(groups)))
	return groups, nil
}

func (a *Analyzer) collectCandidates(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			// Unreadable subtree: skip it, keep scanning.
			a.logger.Warn("skipping unreadable entry",
				logging.String("path", path),
				logging.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if a.classifier.IsMedia(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, Wrap(ErrIO, "analyzer", "walk", root, err)
	}
	return paths, nil
}

func (a *Analyzer) fingerprintFile(path string) (fingerprint.Fingerprint, error) {
	id, err := fingerprint.IdentityFor(path)
	if err != nil {
		return fingerprint.Fingerprint{}, err
	}
	return a.cache.GetOrCompute(id, func() (fingerprint.Fingerprint, error) {
		return fingerprint.Compute(path)
	})
}

// unionNearDuplicates compares signatures pairwise within same-kind buckets.
// Buckets only narrow the comparisons a different kind could never win;
// the resulting partition matches exhaustive comparison.
func (a *Analyzer) unionNearDuplicates(candidates []candidate, forest *unionfind.Forest, threshold float64) {
	buckets := make(map[media.Kind][]int)
	for i, c := range candidates {
		if c.skipped {
			continue
		}
		buckets[c.kind] = append(buckets[c.kind], i)
	}

	for _, bucket := range buckets {
		for x := 0; x < len(bucket); x++ {
			for y := x + 1; y < len(bucket); y++ {
				i, j := bucket[x], bucket[y]
				if forest.Find(i) == forest.Find(j) {
					continue
				}
				if fingerprint.Similarity(candidates[i].print, candidates[j].print) >= threshold {
					forest.Union(i, j)
				}
			}
		}
	}
}

func buildGroups(candidates []candidate, forest *unionfind.Forest) Groups {
	groups := make(Groups, 0)
	for _, indices := range forest.Groups() {
		paths := make([]string, 0, len(indices))
		for _, idx := range indices {
			if candidates[idx].skipped {
				continue
			}
			paths = append(paths, candidates[idx].path)
		}
		if len(paths) > 0 {
			groups = append(groups, paths)
		}
	}
	return groups
}
