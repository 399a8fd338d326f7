package block

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aziis98/striplines/internal/util"
)

// Result is the outcome of checking a single file
type Result struct {
	Path   string
	Hash   string
	Prefix string
	Lines  int
	Err    error
}

// OK reports whether the file is a well-formed block
func (r Result) OK() bool {
	return r.Err == nil
}

// Processor handles file level dedent operations
type Processor struct {
	verbose bool
}

// New creates a new block processor
func New(verbose bool) *Processor {
	return &Processor{
		verbose: verbose,
	}
}

// HashFile calculates the SHA1 hash of a file
func (p *Processor) HashFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha1.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Load reads the whole file as text
func (p *Processor) Load(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filePath, err)
	}
	return string(data), nil
}

// Strip dedents the content of a file. A nil prefix is inferred.
func (p *Processor) Strip(filePath string, prefix *string) (string, error) {
	text, err := p.Load(filePath)
	if err != nil {
		return "", err
	}

	out, err := util.DedentOptional(&text, prefix)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filePath, err)
	}

	if p.verbose {
		log.Printf("Stripped %s (%d -> %d bytes)", filePath, len(text), len(*out))
	}
	return *out, nil
}

// Check validates a file without modifying it. Hash is left empty when the
// file can't be read.
func (p *Processor) Check(filePath string, prefix *string) Result {
	res := Result{Path: filePath}

	hash, err := p.HashFile(filePath)
	if err != nil {
		res.Err = fmt.Errorf("hashing %s: %w", filePath, err)
		return res
	}
	res.Hash = hash

	text, err := p.Load(filePath)
	if err != nil {
		res.Err = err
		return res
	}

	if prefix != nil {
		res.Prefix = *prefix
	} else {
		res.Prefix, err = util.InferPrefix(text)
		if err != nil {
			res.Err = err
			return res
		}
	}

	out, err := util.DedentPrefix(text, res.Prefix)
	if err != nil {
		res.Err = err
		return res
	}
	if out != "" {
		res.Lines = strings.Count(out, "\n")
	}

	return res
}

// Crawl discovers all files under root whose extension is in exts
func (p *Processor) Crawl(root string, exts []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if p.verbose {
				log.Printf("Warning: Error accessing %s: %v", path, err)
			}
			return nil // Continue walking
		}

		if d.IsDir() {
			return nil
		}

		if hasExtension(path, exts) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
