package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"dupescan/internal/api"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// severity classifies a status line for labeling and coloring.
type severity int

const (
	sevInfo severity = iota
	sevOK
	sevWarn
	sevFail
)

const (
	ansiReset = "\x1b[0m"

	statusLabelWidth = 20
	statusIndent     = "  "
)

var severityLabels = map[severity]string{
	sevInfo: "INFO",
	sevOK:   "OK",
	sevWarn: "WARN",
	sevFail: "ERROR",
}

var severityColors = map[severity]string{
	sevInfo: "\x1b[34m",
	sevOK:   "\x1b[32m",
	sevWarn: "\x1b[33m",
	sevFail: "\x1b[31m",
}

func statusLine(label string, sev severity, message string, colorize bool) string {
	status := "[" + severityLabels[sev] + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", status)
	if colorize {
		return severityColors[sev] + line + ansiReset
	}
	return line
}

func sectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = severityColors[sevInfo] + line + ansiReset
		rule = severityColors[sevInfo] + rule + ansiReset
	}
	return []string{line, rule}
}

func colorEnabled(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// groupTable renders duplicate groups one row per group, members shortened to
// base names since the group shares a scan root.
func groupTable(groups [][]string) string {
	rows := make([][]string, 0, len(groups))
	for i, group := range groups {
		members := make([]string, len(group))
		for j, path := range group {
			members[j] = filepath.Base(path)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(group)),
			strings.Join(members, ", "),
		})
	}
	return mediaTable([]string{"Group", "Files", "Members"}, rows, 0, 1)
}

// listingTable renders one directory level; directories show no size or kind.
func listingTable(files []api.FileEntry) string {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		kind := f.Kind
		size := humanSize(f.Size)
		if f.IsDir {
			kind = "dir"
			size = "-"
		}
		rows = append(rows, []string{f.Name, f.DisplayName, kind, size})
	}
	return mediaTable([]string{"Name", "Title", "Kind", "Size"}, rows, 3)
}

// mediaTable is the shared go-pretty wrapper behind the domain tables:
// rounded style, left-aligned headers, and the listed column indexes
// right-aligned.
func mediaTable(headers []string, rows [][]string, rightAligned ...int) string {
	if len(headers) == 0 {
		return ""
	}
	right := make(map[int]bool, len(rightAligned))
	for _, idx := range rightAligned {
		right[idx] = true
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if right[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	value := float64(bytes)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	idx := -1
	for value >= unit && idx < len(suffixes)-1 {
		value /= unit
		idx++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[idx])
}
