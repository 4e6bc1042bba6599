package main

import (
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
	"github.com/unclebandit/adcraft/internal/model"
)

var (
	defaultClipboardWriteAll = clipboard.WriteAll
	clipboardWriteAll        = defaultClipboardWriteAll
)

var copyCmd = &cobra.Command{
	Use:   "copy [id] [headline|description|cta] [n]",
	Short: "Copy one line of a saved generation to the clipboard",
	Long: `Copies a single headline, description or call to action to the system
clipboard. n counts from 1.

Example:
  adcraft copy 3f2c... headline 2`,
	Args: cobra.ExactArgs(3),
	RunE: runCopy,
}

func runCopy(cmd *cobra.Command, args []string) error {
	app, done, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	entry, ok := app.History.Get(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", appErrors.ErrHistoryEntryNotFound, args[0])
	}
	text, err := pickLine(entry.Copy, args[1], args[2])
	if err != nil {
		return err
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Copied: %s\n", text)
	return nil
}

func pickLine(c model.GeneratedCopy, kind, index string) (string, error) {
	var lines []string
	switch kind {
	case "headline", "headlines":
		lines = c.Headlines
	case "description", "descriptions":
		lines = c.Descriptions
	case "cta", "ctas":
		lines = c.CTAs
	default:
		return "", fmt.Errorf("unknown copy kind %q, want headline, description or cta", kind)
	}

	n, err := strconv.Atoi(index)
	if err != nil || n < 1 || n > len(lines) {
		return "", fmt.Errorf("%s number must be between 1 and %d", kind, len(lines))
	}
	return lines[n-1], nil
}
