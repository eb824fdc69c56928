package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/desktopkit/internal/ui"
	"github.com/bnema/desktopkit/internal/wire"
)

var decodePlain bool

var decodeCmd = &cobra.Command{
	Use:   "decode <file|->",
	Short: "Decode a recording of toolkit event records",
	Long: `Decode a stream of length-prefixed toolkit event records, as written by
a recording, and print one event per line. Use - to read standard input.
Decoding stops at the first record that breaks the event contract.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().BoolVar(&decodePlain, "plain", false, "print events without styling")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open recording: %w", err)
		}
		defer f.Close()
		in = f
	}
	n, err := decodeStream(bufio.NewReader(in), cmd.OutOrStdout(), decodePlain)
	if err != nil {
		return fmt.Errorf("record %d: %w", n+1, err)
	}
	return nil
}

// decodeStream prints every record of r and returns how many were decoded
func decodeStream(r io.Reader, out io.Writer, plain bool) (int, error) {
	n := 0
	for {
		e, err := wire.ReadEvent(r)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		line := ui.FormatEvent(e)
		if plain {
			line = ui.FormatPlain(e)
		}
		fmt.Fprintf(out, "%5d %s\n", n+1, line)
		n++
	}
}
