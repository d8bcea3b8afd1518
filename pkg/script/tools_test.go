package script

import (
	"strings"
	"testing"

	"scenepartner/pkg/model"
)

func TestSearchLines(t *testing.T) {
	lines := []model.Line{
		{Speaker: "Dr. Alex Chen", Text: "Start the transfusion now or we lose him!"},
		{Speaker: "Dr. Rivera", Text: "His blood type hasn't come back yet."},
		{Speaker: "Dr. Alex Chen", Text: "O-negative. Universal donor."},
	}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"matches text", "blood", []int{1}},
		{"matches speaker", "rivera", []int{1}},
		{"case insensitive", "BLOOD", []int{1}},
		{"multiple matches", "dr.", []int{0, 1, 2}},
		{"no matches", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchLines(lines, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("SearchLines(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("SearchLines(%q)[%d] = %d, want %d", tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEstimateReadingTime(t *testing.T) {
	wordLine := func(n int) model.Line {
		return model.Line{Speaker: "A", Text: strings.TrimSpace(strings.Repeat("word ", n))}
	}

	tests := []struct {
		name  string
		lines []model.Line
		want  int
	}{
		{"empty", nil, 0},
		{"exactly 150 words", []model.Line{wordLine(150)}, 1},
		{"151 words", []model.Line{wordLine(151)}, 2},
		{"across lines", []model.Line{wordLine(100), wordLine(100)}, 2},
		{"one word", []model.Line{wordLine(1)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateReadingTime(tt.lines); got != tt.want {
				t.Errorf("EstimateReadingTime = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSplitByBeats(t *testing.T) {
	lines := make([]model.Line, 23)

	beats := SplitByBeats(lines, 10)
	if len(beats) != 3 {
		t.Fatalf("expected 3 beats, got %d", len(beats))
	}
	if len(beats[0]) != 10 || len(beats[1]) != 10 || len(beats[2]) != 3 {
		t.Errorf("beat sizes = %d, %d, %d", len(beats[0]), len(beats[1]), len(beats[2]))
	}

	if beats := SplitByBeats(nil, 10); len(beats) != 0 {
		t.Errorf("expected no beats for empty input, got %d", len(beats))
	}
}

func TestExportAsText(t *testing.T) {
	scene := &model.Scene{
		ID:          "test-01",
		Title:       "Triage Bay 3",
		Genre:       "Medical Drama",
		Roles:       [2]string{"Dr. Alex Chen", "Dr. Rivera"},
		Description: "ER crisis",
		Lines: []model.Line{
			{Speaker: "Dr. Alex Chen", Text: "Start the transfusion now!"},
			{Speaker: "Dr. Rivera", Text: "His blood type hasn't come back yet."},
		},
		Beats: []string{"Urgent", "Professional conflict"},
	}

	out := ExportAsText(scene)

	for _, want := range []string{
		"# Triage Bay 3",
		"Genre: Medical Drama",
		"Characters: Dr. Alex Chen, Dr. Rivera",
		"ER crisis",
		"Dr. Alex Chen: Start the transfusion now!",
		"Dr. Rivera: His blood type hasn't come back yet.",
		"Beats: Urgent, Professional conflict",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q", want)
		}
	}

	// Lines appear in scene order.
	if strings.Index(out, "Start the transfusion") > strings.Index(out, "blood type") {
		t.Error("lines exported out of order")
	}
}

func TestExportFilename(t *testing.T) {
	scene := &model.Scene{Title: "The  Performance Review"}
	if got := ExportFilename(scene); got != "The_Performance_Review.txt" {
		t.Errorf("ExportFilename = %q", got)
	}
}
