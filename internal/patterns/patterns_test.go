package patterns

import "testing"

func TestWikiLink(t *testing.T) {
	matches := WikiLink.FindAllStringSubmatch("See [[Target Note|display]] and [[Other]]", -1)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0][1] != "Target Note|display" {
		t.Errorf("first span = %q", matches[0][1])
	}
	if matches[1][1] != "Other" {
		t.Errorf("second span = %q", matches[1][1])
	}
}

func TestTag(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"working on #projectX today", []string{"projectX"}},
		{"#start of line", []string{"start"}},
		{"no#tag here", nil},
		{"not a #1digit tag", nil},
		{"#a #b", []string{"a", "b"}},
		{"heading # alone", nil},
	}

	for _, tc := range tests {
		matches := Tag.FindAllStringSubmatch(tc.in, -1)
		var got []string
		for _, m := range matches {
			got = append(got, m[1])
		}
		if len(got) != len(tc.want) {
			t.Errorf("Tag(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Tag(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestSeparatorRow(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"| --- | :---: | ---: |", true},
		{"|---|---|", true},
		{"| - | - |", true},
		{"| Name | Due |", false},
		{"| ::: | --- |", false},
		{"plain text", false},
	}

	for _, tc := range tests {
		if got := IsSeparatorRow(tc.line); got != tc.want {
			t.Errorf("IsSeparatorRow(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestSplitCells(t *testing.T) {
	cells := SplitCells("| Name | Due | Priority |")
	want := []string{"Name", "Due", "Priority"}

	if len(cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(cells), len(want))
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, cells[i], want[i])
		}
	}
}

func TestHasImageExtension(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"a.png", true},
		{"dir/photo.JPEG", true},
		{"diagram.svg#section", true},
		{"doc.pdf", false},
		{"no-extension", false},
		{"https://example.com/pic.webp?size=2", true},
	}

	for _, tc := range tests {
		if got := HasImageExtension(tc.target); got != tc.want {
			t.Errorf("HasImageExtension(%q) = %v, want %v", tc.target, got, tc.want)
		}
	}
}

func TestDangerousPatterns(t *testing.T) {
	samples := []string{
		"<script>alert(1)</script>",
		"<SCRIPT src=x>",
		"<iframe src=evil></iframe>",
		"click [here](javascript:alert(1))",
		"href=vbscript:foo",
		"data:text/html;base64,xxx",
	}

	for _, s := range samples {
		matched := false
		for _, p := range Dangerous {
			if p.MatchString(s) {
				matched = true
				break
			}
		}
		if !matched {
			t.Errorf("no dangerous pattern matched %q", s)
		}
	}
}

func TestCalloutAndTaskList(t *testing.T) {
	if !Callout.MatchString("> [!note]\n> body") {
		t.Error("callout marker not matched")
	}
	if !TaskList.MatchString("- [ ] do the thing\n") {
		t.Error("open task marker not matched")
	}
	if !TaskList.MatchString("* [x] done\n") {
		t.Error("checked task marker not matched")
	}
	if TaskList.MatchString("- [link](a.md)") {
		t.Error("inline link mistaken for task marker")
	}
}
