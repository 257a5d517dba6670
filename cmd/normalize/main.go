// Command normalize runs a saved scanner webhook payload through the response
// normalizer and prints the result, for checking workflow changes offline.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deds0099/nexaapp/internal/domain"
	"github.com/deds0099/nexaapp/internal/infrastructure/scanner"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var passes int

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize a scanner webhook payload",
		Long: "Reads a scanner webhook response from a file (or stdin when no file is given),\n" +
			"unwraps it and prints the normalized analysis as JSON. When the payload is not\n" +
			"recognized the reason and the unwrapped payload are printed instead.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readPayload(stdin, args)
			if err != nil {
				return err
			}
			return normalize(stdout, raw, passes)
		},
	}

	cmd.Flags().IntVarP(&passes, "passes", "p", 1, "number of unwrap passes")
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)

	return cmd
}

func readPayload(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

// normalize writes the result, or the failure with its raw payload, as indented JSON.
// A malformed payload is reported through the returned error as well.
func normalize(out io.Writer, raw []byte, passes int) error {
	if passes < 1 {
		return fmt.Errorf("--passes must be at least 1, got %d", passes)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	result, err := scanner.NewNormalizer(passes).Normalize(raw)
	if err != nil {
		var malformed *domain.MalformedResponseError
		if errors.As(err, &malformed) {
			if encErr := enc.Encode(map[string]any{
				"error": malformed.Error(),
				"raw":   malformed.Raw,
			}); encErr != nil {
				return encErr
			}
		}
		return err
	}

	return enc.Encode(result)
}
