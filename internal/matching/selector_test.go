package matching_test

import (
	"testing"

	"ggnmatch/internal/ggn"
	"ggnmatch/internal/matching"
)

func linkless(id, platform string) matching.Candidate {
	return matching.Candidate{GroupID: id, Platform: platform}
}

func steam(id, platform, appID string) matching.Candidate {
	return matching.Candidate{GroupID: id, Platform: platform, SteamAppID: appID, SteamLinked: true, Linked: true}
}

func TestSelectHighConfidenceRegardlessOfPlatform(t *testing.T) {
	selector := matching.DefaultSelector()
	candidates := []matching.Candidate{
		linkless("1", "Windows"),
		steam("2", "Nintendo Switch", "220"),
		steam("3", "Windows", "999"),
	}
	got := selector.Select(candidates, "220")
	if got != matching.HighConfidence("2") {
		t.Fatalf("unexpected outcome: %+v", got)
	}
}

func TestSelectFirstIDMatchWins(t *testing.T) {
	selector := matching.DefaultSelector()
	candidates := []matching.Candidate{
		steam("10", "Mac", "220"),
		steam("11", "Windows", "220"),
	}
	if got := selector.Select(candidates, "220"); got.GroupID != "10" {
		t.Fatalf("expected first id match to win, got %+v", got)
	}
}

func TestSelectPlatformPrecedence(t *testing.T) {
	selector := matching.DefaultSelector()
	candidates := []matching.Candidate{linkless("1", "Linux"), linkless("2", "Mac")}
	got := selector.Select(candidates, "999")
	if got != matching.PreferredPlatform("2", "Mac") {
		t.Fatalf("expected Mac to precede Linux, got %+v", got)
	}
}

func TestSelectScansAllCandidatesForBestPlatform(t *testing.T) {
	selector := matching.DefaultSelector()
	candidates := []matching.Candidate{
		linkless("1", "Linux"),
		linkless("2", "Mac"),
		steam("3", "Windows", "5"),
		linkless("4", "Windows"),
	}
	if got := selector.Select(candidates, "999"); got != matching.PreferredPlatform("4", "Windows") {
		t.Fatalf("expected late Windows candidate, got %+v", got)
	}
}

func TestSelectTieKeepsFirst(t *testing.T) {
	selector := matching.DefaultSelector()
	candidates := []matching.Candidate{linkless("1", "Mac"), linkless("2", "Mac")}
	if got := selector.Select(candidates, "999"); got.GroupID != "1" {
		t.Fatalf("expected first of equal rank, got %+v", got)
	}
}

func TestSelectWindowsNeverNoMatch(t *testing.T) {
	selector := matching.DefaultSelector()
	sets := [][]matching.Candidate{
		{linkless("1", "Windows")},
		{steam("1", "Windows", "7"), linkless("2", "Windows")},
		{linkless("1", "PlayStation 2"), linkless("2", "Windows"), linkless("3", "Linux")},
	}
	for i, set := range sets {
		if got := selector.Select(set, "999"); got.Kind == matching.KindNoMatch {
			t.Fatalf("set %d: expected a match, got %+v", i, got)
		}
	}
}

func TestSelectLinkedCandidatesExcludedFromFallback(t *testing.T) {
	gogOnly := matching.Candidate{GroupID: "1", Platform: "Windows", Linked: true}
	wrongSteam := steam("2", "Windows", "7")

	strict := matching.DefaultSelector()
	if got := strict.Select([]matching.Candidate{gogOnly, wrongSteam}, "999"); got != matching.NoMatch(matching.ReasonNoPreferredPlatform) {
		t.Fatalf("expected no match under strict fallback, got %+v", got)
	}

	relaxed := matching.DefaultSelector()
	relaxed.AllowNonSteamLinks = true
	if got := relaxed.Select([]matching.Candidate{wrongSteam, gogOnly}, "999"); got != matching.PreferredPlatform("1", "Windows") {
		t.Fatalf("expected non-Steam linked group under relaxed fallback, got %+v", got)
	}
}

func TestSelectUnlistedPlatformsIgnored(t *testing.T) {
	selector := matching.DefaultSelector()
	got := selector.Select([]matching.Candidate{linkless("1", "Xbox 360")}, "999")
	if got.Kind != matching.KindNoMatch || got.Reason != "none in preferred platforms" {
		t.Fatalf("unexpected outcome: %+v", got)
	}
	if got := selector.Select(nil, "999"); got.Kind != matching.KindNoMatch {
		t.Fatalf("expected no match for empty candidate set, got %+v", got)
	}
}

func TestResolveRemoteFailure(t *testing.T) {
	selector := matching.DefaultSelector()
	got := selector.Resolve(ggn.LookupResult{Failed: true, Reason: "no groups found"}, "999")
	if got != matching.NoMatch("no groups found") {
		t.Fatalf("unexpected outcome: %+v", got)
	}
	got = selector.Resolve(ggn.LookupResult{Failed: true}, "999")
	if got.Reason != "Unknown error" {
		t.Fatalf("expected unknown error reason, got %+v", got)
	}
}

func TestOutcomeStatus(t *testing.T) {
	cases := map[string]matching.Outcome{
		"✅":        matching.HighConfidence("1"),
		"☑️":       matching.PreferredPlatform("1", "Mac"),
		"❌ (boom)": matching.NoMatch("boom"),
	}
	for want, outcome := range cases {
		if got := outcome.Status(); got != want {
			t.Errorf("Status() = %q, want %q", got, want)
		}
	}
}
