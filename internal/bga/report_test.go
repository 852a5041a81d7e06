package bga

import (
	"errors"
	"strings"
	"testing"
)

func TestRunReportCounting(t *testing.T) {
	rep := NewRunReport("import")

	rep.CountAction(ComponentCatalog, "inserted")
	rep.CountAction(ComponentCatalog, "inserted")
	rep.CountAction(ComponentCatalog, "updated")
	rep.CountAction(ComponentCatalog, "unchanged")
	rep.CountSkipped(ComponentCatalog, 3)
	rep.CountProcessed(ComponentProfiles, 2)

	stats := rep.Component(ComponentCatalog)
	if stats.Processed != 7 || stats.Inserted != 2 || stats.Updated != 1 || stats.Unchanged != 1 || stats.Skipped != 3 {
		t.Fatalf("catalog stats: %+v", stats)
	}
	if got := rep.Component(ComponentProfiles).Processed; got != 2 {
		t.Fatalf("profile processed: want=2 got=%d", got)
	}
	if rep.HasErrors() {
		t.Fatal("HasErrors before any Record")
	}
}

func TestRunReportErrorBuckets(t *testing.T) {
	rep := NewRunReport("import")

	rep.Record(ComponentStats, NewParseError("dave.html", "Azul", "win_percentage", "no match in details text"))
	rep.Record(ComponentHistory, NewResolutionError("dave", "Azul", "no matching game"))
	rep.Record(ComponentHistory, NewValidationError("dave", "Azul", "wins exceed games played"))
	rep.RecordAll(ComponentSessions, []error{errors.New("boom")})

	if !rep.HasErrors() {
		t.Fatal("HasErrors after Record")
	}
	if got := rep.ErrorCount(); got != 4 {
		t.Fatalf("ErrorCount: want=4 got=%d", got)
	}
	if got := rep.Component(ComponentStats).Rejected; got != 1 {
		t.Fatalf("stats rejected: want=1 got=%d", got)
	}

	rep.Finish()
	sum := rep.Summary()
	if sum.Kind != "import" {
		t.Fatalf("Kind: %q", sum.Kind)
	}
	if len(sum.ParseErrors) != 1 || len(sum.ResolutionErrors) != 1 || len(sum.ValidationErrors) != 1 || len(sum.OtherErrors) != 1 {
		t.Fatalf("buckets: %+v", sum)
	}
	if !strings.Contains(sum.ParseErrors[0], "win_percentage") {
		t.Fatalf("parse error text: %q", sum.ParseErrors[0])
	}
	if !strings.Contains(sum.ResolutionErrors[0], "no matching game") {
		t.Fatalf("resolution error text: %q", sum.ResolutionErrors[0])
	}
	if sum.DurationSeconds < 0 {
		t.Fatalf("DurationSeconds: %v", sum.DurationSeconds)
	}
	if _, ok := sum.Components[ComponentStats]; !ok {
		t.Fatalf("components: %v", sum.Components)
	}
}

func TestSummaryRender(t *testing.T) {
	rep := NewRunReport("import")
	rep.DryRun = true
	rep.CountAction(ComponentCatalog, "inserted")
	rep.Record(ComponentStats, NewParseError("dave.html", "Azul", "win_percentage", "no match"))
	rep.Finish()

	out := rep.Summary().Render()
	for _, frag := range []string{
		"import run (dry run)",
		ComponentCatalog,
		"parse errors (1):",
		"win_percentage",
	} {
		if !strings.Contains(out, frag) {
			t.Fatalf("rendered summary missing %q:\n%s", frag, out)
		}
	}
	if strings.Contains(out, "validation errors") {
		t.Fatalf("rendered summary has empty error section:\n%s", out)
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want []string
	}{
		{NewParseError("list.html", "", "name", "empty after cleaning"), []string{"list.html", "name", "empty after cleaning"}},
		{NewParseError("dave.html", "Azul", "win_percentage", "no match"), []string{"dave.html", "Azul", "win_percentage"}},
		{NewResolutionError("dave", "Ghost Game", "no matching game"), []string{"dave", "Ghost Game"}},
		{NewValidationError("dave", "Azul", "negative games played"), []string{"dave", "Azul", "negative"}},
		{NewConfigurationError("/data/raw", "data root missing", nil), []string{"/data/raw", "data root missing"}},
	}
	for _, c := range cases {
		msg := c.err.Error()
		for _, frag := range c.want {
			if !strings.Contains(msg, frag) {
				t.Fatalf("%T message %q missing %q", c.err, msg, frag)
			}
		}
	}

	inner := errors.New("stat failed")
	cfg := NewConfigurationError("/data/raw", "data root missing", inner)
	if !errors.Is(cfg, inner) {
		t.Fatal("ConfigurationError should unwrap to its cause")
	}
}
