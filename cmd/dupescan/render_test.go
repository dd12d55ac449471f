package main

import (
	"strings"
	"testing"

	"dupescan/internal/api"
)

func TestStatusLineLabelsAndColor(t *testing.T) {
	line := statusLine("Running", sevOK, "pid 42", false)
	if !strings.Contains(line, "Running:") {
		t.Fatalf("status line missing label: %q", line)
	}
	if !strings.Contains(line, "[OK] pid 42") {
		t.Fatalf("status line missing status text: %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("uncolored status line contains escape codes: %q", line)
	}

	colored := statusLine("Running", sevFail, "stopped", true)
	if !strings.HasPrefix(colored, severityColors[sevFail]) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("colored status line not wrapped in escape codes: %q", colored)
	}
	if !strings.Contains(colored, "[ERROR] stopped") {
		t.Fatalf("colored status line missing status text: %q", colored)
	}
}

func TestSectionHeaderRuleMatchesTitle(t *testing.T) {
	lines := sectionHeader("Dupescan Daemon", false)
	if len(lines) != 2 {
		t.Fatalf("expected header and rule, got %d lines", len(lines))
	}
	if lines[0] != "== Dupescan Daemon ==" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != strings.Repeat("-", len(lines[0])) {
		t.Fatalf("rule length %d does not match header length %d", len(lines[1]), len(lines[0]))
	}
}

func TestGroupTableListsMemberBaseNames(t *testing.T) {
	out := groupTable([][]string{
		{"/media/a/one.jpg", "/media/b/one_copy.jpg"},
		{"/media/clips/intro.mkv", "/media/clips/intro_old.mkv", "/media/intro.mkv"},
	})

	for _, want := range []string{"Group", "Files", "Members", "one.jpg, one_copy.jpg", "intro.mkv, intro_old.mkv, intro.mkv"} {
		if !strings.Contains(out, want) {
			t.Fatalf("group table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/media/") {
		t.Fatalf("group table should show base names only:\n%s", out)
	}

	rows := strings.Split(strings.TrimSpace(out), "\n")
	var sawCounts bool
	for _, row := range rows {
		if strings.Contains(row, "one.jpg") && strings.Contains(row, "2") {
			sawCounts = true
		}
	}
	if !sawCounts {
		t.Fatalf("group table missing member count for first group:\n%s", out)
	}
}

func TestListingTableMarksDirectories(t *testing.T) {
	out := listingTable([]api.FileEntry{
		{Name: "clips", DisplayName: "Clips", IsDir: true},
		{Name: "beach.jpg", DisplayName: "Beach Day", Kind: "image", Size: 2048},
	})

	for _, want := range []string{"Name", "Title", "Kind", "Size", "Clips", "dir", "Beach Day", "image", "2.0 KiB"} {
		if !strings.Contains(out, want) {
			t.Fatalf("listing table missing %q:\n%s", want, out)
		}
	}
}

func TestHumanSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tc := range cases {
		if got := humanSize(tc.bytes); got != tc.want {
			t.Fatalf("humanSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}
