package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/aziis98/striplines/internal/block"
	"github.com/aziis98/striplines/internal/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [folders...]",
	Short: "Check that text blocks are well formed",
	Long: util.MustDedent(`
		Scan directories for block files and check that each one ends with a
		line-feed followed only by whitespace. Results are cached by file hash,
		so only changed files are checked again unless --force is used.

		If no folders are specified, checks the current directory.
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		folders := args
		if len(folders) == 0 {
			folders = []string{"."}
		}

		return runCheckCommand(cmd.OutOrStdout(), folders, force)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolP("force", "f", false, "force re-check of all files")
}

// fileToCheck holds information about a file that needs checking
type fileToCheck struct {
	Path        string
	CurrentHash string
	StoredHash  string
}

func runCheckCommand(out io.Writer, folders []string, forceRecheck bool) error {
	processor := block.New(cfg.Verbose)

	if cfg.Verbose {
		log.Printf("Checking folders: %v (force: %t, extensions: %v)", folders, forceRecheck, cfg.Extensions)
	}

	// Phase 1: Discovery
	fmt.Fprintln(out, "Phase 1: Discovering files...")
	var allFiles []string
	for _, folder := range folders {
		files, err := processor.Crawl(folder, cfg.Extensions)
		if err != nil {
			return fmt.Errorf("crawling %s: %w", folder, err)
		}
		if cfg.Verbose {
			log.Printf("Found %d files in %s", len(files), folder)
		}
		allFiles = append(allFiles, files...)
	}

	if len(allFiles) == 0 {
		fmt.Fprintln(out, "No files found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d files.\n\n", len(allFiles))

	// Phase 2: Hash Checking
	fmt.Fprintln(out, "Phase 2: Checking file hashes...")
	filesToCheck, err := checkHashes(out, processor, allFiles, forceRecheck)
	if err != nil {
		return fmt.Errorf("checking hashes: %w", err)
	}

	// Phase 3: Block Checking
	if len(filesToCheck) == 0 {
		fmt.Fprintln(out, "All files are up to date. No checking needed.")
	} else {
		fmt.Fprintf(out, "%d files need checking.\n\n", len(filesToCheck))
		fmt.Fprintln(out, "Phase 3: Checking blocks...")
		if err := checkBlocks(out, processor, filesToCheck); err != nil {
			return fmt.Errorf("checking blocks: %w", err)
		}
	}

	return reportFailures(out, allFiles)
}

func newProgressBar(out io.Writer, total int, description string) *progressbar.ProgressBar {
	// Verbose mode logs every file instead
	if cfg.Verbose {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// checkHashes selects the files whose content changed since the last check
func checkHashes(out io.Writer, processor *block.Processor, files []string, forceRecheck bool) ([]fileToCheck, error) {
	var filesToCheck []fileToCheck

	bar := newProgressBar(out, len(files), "Checking hashes")

	for i, path := range files {
		if cfg.Verbose {
			log.Printf("[%d/%d] Checking hash for: %s", i+1, len(files), path)
		}

		currentHash, err := processor.HashFile(path)
		if err != nil {
			fmt.Fprintf(out, "Warning: Failed to calculate hash for %s: %v\n", path, err)
			if bar != nil {
				bar.Add(1)
			}
			continue
		}

		storedHash, err := db.GetStoredHash(path)
		if err != nil {
			return nil, err
		}

		if forceRecheck || currentHash != storedHash {
			if cfg.Verbose {
				if storedHash == "" {
					log.Printf("File is new, will be checked: %s", path)
				} else if forceRecheck {
					log.Printf("Force re-check enabled, will check: %s", path)
				} else {
					log.Printf("File hash changed (stored: %s, current: %s), will be checked: %s",
						storedHash[:min(8, len(storedHash))],
						currentHash[:min(8, len(currentHash))],
						path)
				}
			}

			filesToCheck = append(filesToCheck, fileToCheck{
				Path:        path,
				CurrentHash: currentHash,
				StoredHash:  storedHash,
			})
		} else if cfg.Verbose {
			log.Printf("File up to date (hash: %s): %s", currentHash[:min(8, len(currentHash))], path)
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		fmt.Fprintln(out) // New line after progress bar
	}
	return filesToCheck, nil
}

// checkBlocks validates each file and stores the outcome
func checkBlocks(out io.Writer, processor *block.Processor, files []fileToCheck) error {
	bar := newProgressBar(out, len(files), "Checking blocks")

	for i, file := range files {
		if cfg.Verbose {
			log.Printf("[%d/%d] Checking block: %s", i+1, len(files), file.Path)
		}

		res := processor.Check(file.Path, cfg.Prefix)
		if res.Hash == "" {
			// Unreadable now, keep whatever the cache had
			fmt.Fprintf(out, "Warning: Failed to read %s: %v\n", file.Path, res.Err)
			if bar != nil {
				bar.Add(1)
			}
			continue
		}

		if err := db.UpsertCheck(res); err != nil {
			return err
		}

		if cfg.Verbose {
			if res.OK() {
				log.Printf("Block ok (prefix %q, %d lines): %s", res.Prefix, res.Lines, file.Path)
			} else {
				log.Printf("Block invalid: %s: %v", file.Path, res.Err)
			}
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		fmt.Fprintln(out) // New line after progress bar
	}
	return nil
}

// reportFailures prints cached failures among files and returns an error if
// there are any
func reportFailures(out io.Writer, files []string) error {
	failures, err := db.Failures()
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(files))
	for _, f := range files {
		wanted[f] = true
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("13")).
		Bold(true)

	fileStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("3")).
		Bold(true)

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	resultBoxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("9")).
		Padding(0, 1)

	okStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Bold(true)

	failStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	var failed int
	for _, f := range failures {
		if !wanted[f.Path] {
			continue
		}
		if failed == 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, headerStyle.Render("Invalid blocks"))
		}
		failed++

		fmt.Fprintln(out, resultBoxStyle.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			fileStyle.Render(f.Path),
			messageStyle.Render(f.Message),
		)))
	}

	if failed == 0 {
		fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("All %d file(s) are valid blocks.", len(files))))
		return nil
	}

	fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("%d of %d file(s) are invalid.", failed, len(files))))
	return fmt.Errorf("%d file(s) failed the check", failed)
}
