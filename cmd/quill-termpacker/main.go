// Command quill-termpacker assembles term fragment files into the single
// terms.json pack embedded by the content filter
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quill/internal/core/termpack"
)

type coreFile struct {
	Version    int            `json:"version"`
	Meta       map[string]any `json:"meta"`
	Categories []string       `json:"categories"`
	Allowlist  []string       `json:"allowlist"`
}

type fragmentFile struct {
	Terms     []termEntry `json:"terms"`
	Allowlist []string    `json:"allowlist,omitempty"`
}

type termEntry struct {
	Term     string `json:"term"`
	Category string `json:"category"`
	Severity int    `json:"severity"`
}

type outPack struct {
	Version    int            `json:"version"`
	Meta       map[string]any `json:"meta,omitempty"`
	Categories []string       `json:"categories"`
	Terms      []termEntry    `json:"terms"`
	Allowlist  []string       `json:"allowlist,omitempty"`
}

func readJSON[T any](path string, into *T) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, into); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func findFragmentFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Base(path) == "core.json" && filepath.Dir(path) == root {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func hasCore(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "core.json"))
	return err == nil
}

// resolveRoot tries, in order: flag, env, common locations
func resolveRoot(flagRoot string) (string, []string, error) {
	var attempts []string
	try := func(p string) bool {
		if p == "" {
			return false
		}
		attempts = append(attempts, p)
		return hasCore(p)
	}
	if try(flagRoot) {
		return flagRoot, attempts, nil
	}
	if env := strings.TrimSpace(os.Getenv("QUILL_TERMS_ROOT")); env != "" && try(env) {
		return env, attempts, nil
	}
	for _, c := range []string{"./terms", "/app/terms"} {
		if try(c) {
			return c, attempts, nil
		}
	}
	return "", attempts, errors.New("core.json not found in any known location")
}

func assemble(root string) (outPack, error) {
	var core coreFile
	if err := readJSON(filepath.Join(root, "core.json"), &core); err != nil {
		return outPack{}, fmt.Errorf("read core.json: %w", err)
	}
	if core.Version != 1 {
		_, _ = fmt.Fprintf(os.Stderr, "warning: core.json version=%d (expected 1)\n", core.Version)
	}

	fragPaths, err := findFragmentFiles(root)
	if err != nil {
		return outPack{}, err
	}

	terms := []termEntry{}
	allow := append([]string{}, core.Allowlist...)

	for _, p := range fragPaths {
		var fr fragmentFile
		if err := readJSON(p, &fr); err != nil {
			return outPack{}, err
		}
		terms = append(terms, fr.Terms...)
		allow = append(allow, fr.Allowlist...)
	}

	// de-dupe terms by collapsed lowercase form; later fragments win on severity
	key := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
	}
	byKey := map[string]termEntry{}
	for _, t := range terms {
		k := key(t.Term)
		if k == "" {
			continue
		}
		if prev, ok := byKey[k]; ok && prev.Severity > t.Severity {
			continue
		}
		byKey[k] = t
	}
	out := make([]termEntry, 0, len(byKey))
	for _, t := range byKey {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return key(out[i].Term) < key(out[j].Term)
	})

	seenA := map[string]bool{}
	allowOut := make([]string, 0, len(allow))
	for _, a := range allow {
		k := key(a)
		if k == "" || seenA[k] {
			continue
		}
		seenA[k] = true
		allowOut = append(allowOut, a)
	}
	sort.Strings(allowOut)

	return outPack{
		Version:    1,
		Meta:       core.Meta,
		Categories: core.Categories,
		Terms:      out,
		Allowlist:  allowOut,
	}, nil
}

func main() {
	var (
		rootFlag = flag.String("root", "", "terms root containing core.json and fragments")
		outFlag  = flag.String("out", "internal/core/termpack/terms.json", "output pack path")
		pretty   = flag.Bool("pretty", true, "indent the output json")
	)
	flag.Parse()

	root, attempts, err := resolveRoot(*rootFlag)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "tried: %s\n", strings.Join(attempts, ", "))
		must(err)
	}

	pack, err := assemble(root)
	must(err)

	var b []byte
	if *pretty {
		b, err = json.MarshalIndent(pack, "", "  ")
	} else {
		b, err = json.Marshal(pack)
	}
	must(err)
	b = append(b, '\n')

	// the output must load cleanly as an embedded pack
	if _, err := termpack.LoadBytes(b); err != nil {
		must(fmt.Errorf("assembled pack failed validation: %w", err))
	}

	must(os.WriteFile(*outFlag, b, 0o644))
	fmt.Printf("wrote %s: %d terms, %d categories, %d allowlist entries\n",
		*outFlag, len(pack.Terms), len(pack.Categories), len(pack.Allowlist))
}
