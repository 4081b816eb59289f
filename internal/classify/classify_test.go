package classify

import (
	"reflect"
	"testing"

	"github.com/finpulse/finpulse/pkg/models"
)

func TestCategorizeLadder(t *testing.T) {
	cases := []struct {
		title, summary string
		want           models.Category
	}{
		{"OPEC extends voluntary cuts", "Brent rises", models.CategoryOil},
		{"CPI comes in hot", "core inflation sticky", models.CategoryInflation},
		{"Copper rallies on LME squeeze", "", models.CategoryCommodities},
		{"New sanctions target crude exports", "", models.CategoryGeopolitics},
		{"Senate passes banking regulation bill", "", models.CategoryPolicy},
		{"Stocks close higher", "broad rally", models.CategoryMarkets},
		{"", "", models.CategoryMarkets},
	}
	for _, c := range cases {
		if got := Categorize(c.title, c.summary); got != c.want {
			t.Errorf("Categorize(%q, %q) = %s, want %s", c.title, c.summary, got, c.want)
		}
	}
}

func TestGeopoliticsWinsOverOil(t *testing.T) {
	// Policy/geopolitics keywords are more specific and checked first.
	got := Categorize("Sanctions hit crude shipments", "WTI jumps")
	if got != models.CategoryGeopolitics {
		t.Errorf("got %s, want Geopolitics", got)
	}
}

func TestAutoTagsKeywordAndTicker(t *testing.T) {
	tags := AutoTags("Fed raises rates as $TSLA slides", "inflation data surprises", nil, 6)

	want := map[string]bool{"Fed": true, "Inflation": true, "$TSLA": true}
	found := 0
	for _, tag := range tags {
		if want[tag] {
			found++
		}
	}
	if found != len(want) {
		t.Errorf("tags = %v, want to contain Fed, Inflation and $TSLA", tags)
	}
}

func TestAutoTagsUppercaseTitleTokens(t *testing.T) {
	tags := AutoTags("IMF warns on deficits", "", nil, 6)
	foundIMF := false
	for _, tag := range tags {
		if tag == "$IMF" || tag == "IMF" {
			foundIMF = true
		}
	}
	if !foundIMF {
		t.Errorf("tags = %v, want IMF token", tags)
	}
}

func TestAutoTagsStopTokensExcluded(t *testing.T) {
	tags := AutoTags("WHAT THE FED WILL DO", "", nil, 10)
	for _, tag := range tags {
		if tag == "WHAT" || tag == "THE" || tag == "WILL" {
			t.Errorf("stop token leaked into tags: %v", tags)
		}
	}
}

func TestAutoTagsIdempotent(t *testing.T) {
	title := "Fed raises rates as $TSLA and $AAPL slide"
	summary := "inflation data surprises; OPEC output steady"

	first := AutoTags(title, summary, []string{"Energy"}, 6)
	second := AutoTags(title, summary, first, 6)
	third := AutoTags(title, summary, second, 6)

	if !reflect.DeepEqual(second, third) {
		t.Fatalf("tagging not stable: %v vs %v", second, third)
	}
	if len(third) > 6 {
		t.Fatalf("tag limit exceeded: %v", third)
	}
}

func TestAutoTagsLimit(t *testing.T) {
	tags := AutoTags(
		"Fed OPEC inflation tariffs sanctions copper wheat stocks bonds forex GDP",
		"brent natural gas election congress",
		[]string{"A", "B", "C"}, 6,
	)
	if len(tags) != 6 {
		t.Errorf("len(tags) = %d, want 6: %v", len(tags), tags)
	}
}

func TestAutoTagsDedupeCaseInsensitive(t *testing.T) {
	tags := AutoTags("Oil update", "brent crude", []string{"oil", "OIL"}, 6)
	count := 0
	for _, tag := range tags {
		if tag == "oil" || tag == "OIL" || tag == "Oil" || tag == "$OIL" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("case-insensitive duplicates survived: %v", tags)
	}
}
