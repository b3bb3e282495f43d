package output

import "testing"

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "text", false},
		{"text", "text", false},
		{"json", "json", false},
		{"prometheus", "prometheus", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.name, FormatOptions{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFormatter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && f.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", f.Name(), tt.want)
			}
		})
	}
}

func TestBuildReport_HasIssues(t *testing.T) {
	report := createBuildReport()
	if !report.HasIssues() {
		t.Error("HasIssues() = false, want true with WARN and CRITICAL hints")
	}

	report.Hints = report.Hints[2:] // INFO only
	if report.HasIssues() {
		t.Error("HasIssues() = true, want false with only INFO hints")
	}

	report.Hints = nil
	if report.HasIssues() {
		t.Error("HasIssues() = true, want false without hints")
	}
}

func TestAggregateReport_HasIssues(t *testing.T) {
	report := createAggregateReport()
	if !report.HasIssues() {
		t.Error("HasIssues() = false, want true with skipped logs")
	}

	report.Skipped = nil
	if report.HasIssues() {
		t.Error("HasIssues() = true, want false")
	}
}

func TestNewMetadata(t *testing.T) {
	a := NewMetadata("v1", "")
	b := NewMetadata("v1", "")
	if a.ReportID == "" || a.ReportID == b.ReportID {
		t.Errorf("report IDs should be unique, got %q and %q", a.ReportID, b.ReportID)
	}
	if a.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be set")
	}
}
