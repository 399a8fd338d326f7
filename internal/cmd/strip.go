package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/aziis98/striplines/internal/block"
	"github.com/aziis98/striplines/internal/util"
	"github.com/spf13/cobra"
)

var stripCmd = &cobra.Command{
	Use:   "strip [files...]",
	Short: "Dedent files or standard input",
	Long: util.MustDedent(`
		Remove the common indentation from each file and print the result.
		With --write the files are rewritten in place instead.

		If no files are given, or a file is "-", standard input is read.
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		write, _ := cmd.Flags().GetBool("write")

		prefix := cfg.Prefix
		if cmd.Flags().Changed("prefix") {
			raw, _ := cmd.Flags().GetString("prefix")
			p, err := parsePrefix(raw)
			if err != nil {
				return err
			}
			prefix = &p
		}

		return runStripCommand(cmd.InOrStdin(), cmd.OutOrStdout(), args, prefix, write)
	},
}

func init() {
	rootCmd.AddCommand(stripCmd)

	stripCmd.Flags().StringP("prefix", "p", "", `prefix to strip, Go escapes allowed (e.g. "\t"); inferred when unset`)
	stripCmd.Flags().BoolP("write", "w", false, "rewrite files in place")
}

// parsePrefix interprets Go escape sequences so tabs can be passed on the
// command line.
func parsePrefix(raw string) (string, error) {
	p, err := strconv.Unquote(`"` + raw + `"`)
	if err != nil {
		return "", fmt.Errorf("invalid prefix %q: %w", raw, err)
	}
	return p, nil
}

func runStripCommand(in io.Reader, out io.Writer, files []string, prefix *string, write bool) error {
	processor := block.New(cfg.Verbose)

	if len(files) == 0 {
		files = []string{"-"}
	}

	for _, file := range files {
		if file == "-" {
			if write {
				return fmt.Errorf("cannot use --write with standard input")
			}
			if err := stripReader(in, out, prefix); err != nil {
				return fmt.Errorf("<stdin>: %w", err)
			}
			continue
		}

		stripped, err := processor.Strip(file, prefix)
		if err != nil {
			return err
		}

		if !write {
			fmt.Fprint(out, stripped)
			continue
		}

		info, err := os.Stat(file)
		if err != nil {
			return err
		}
		if err := os.WriteFile(file, []byte(stripped), info.Mode().Perm()); err != nil {
			return fmt.Errorf("writing %s: %w", file, err)
		}
		if cfg.Verbose {
			log.Printf("Rewrote %s", file)
		}
	}

	return nil
}

func stripReader(in io.Reader, out io.Writer, prefix *string) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	text := string(data)
	stripped, err := util.DedentOptional(&text, prefix)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(out, *stripped)
	return err
}
