package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/promptstash/promptstash/core"
	"github.com/promptstash/promptstash/storage"
)

// defaultScanWorkers bounds how many vault files are read concurrently
// during a directory scan. Scans are I/O bound, so some parallelism
// pays off, but an unbounded fan-out would exhaust the file handle
// quota on large vaults.
const defaultScanWorkers = 8

// scanResult is the outcome of one full directory scan.
type scanResult struct {
	prompts   []*core.Prompt
	templates []*core.Template
	names     map[string]string // id -> filename
}

// scanDir reads every *.json entry in the vault directory, classifies
// each one structurally, and returns the parsed documents along with a
// complete id-to-filename mapping. Reads run on a bounded worker pool.
// Unparseable or unrecognized files are skipped with a warning; they
// never fail the scan. Result order across workers is unspecified,
// which is fine: list results are an unordered set.
func (v *Store) scanDir() (*scanResult, error) {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrConnection, err)
	}

	pool, err := ants.NewPool(v.scanWorkers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	res := &scanResult{names: make(map[string]string)}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}
		name := entry.Name()

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			data, err := os.ReadFile(filepath.Join(v.dir, name))
			if err != nil {
				v.logger.Warn("skipping unreadable vault file", "file", name, "err", err)
				return
			}

			switch storage.SniffDoc(data) {
			case storage.DocPrompt:
				p, err := storage.UnmarshalPrompt(data)
				if err != nil || p.Id == "" {
					v.logger.Warn("skipping malformed prompt file", "file", name, "err", err)
					return
				}
				mu.Lock()
				res.prompts = append(res.prompts, p)
				res.names[p.Id] = name
				mu.Unlock()
			case storage.DocTemplate:
				t, err := storage.UnmarshalTemplate(data)
				if err != nil || t.Id == "" {
					v.logger.Warn("skipping malformed template file", "file", name, "err", err)
					return
				}
				mu.Lock()
				res.templates = append(res.templates, t)
				res.names[t.Id] = name
				mu.Unlock()
			default:
				v.logger.Warn("skipping unrecognized file in vault", "file", name)
			}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, submitErr
		}
	}

	wg.Wait()
	return res, nil
}
