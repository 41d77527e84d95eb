package theme

import (
	"testing"

	"github.com/theirongolddev/moneymate/internal/model"
)

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("catppuccin-mocha").Name; got != "catppuccin-mocha" {
		t.Errorf("ByName(catppuccin-mocha) = %q", got)
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Errorf("unknown theme = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(All) || names[0] != "flexoki-dark" {
		t.Fatalf("Names() = %v", names)
	}
}

func TestCategoryColorsDistinct(t *testing.T) {
	seen := map[string]model.Category{}
	for _, c := range model.AllCategories() {
		col := string(FlexokiDark.CategoryColor(c))
		if prev, ok := seen[col]; ok {
			t.Errorf("%s and %s share color %s", prev, c, col)
		}
		seen[col] = c
	}
}

func TestEveryThemeColorsEveryCategory(t *testing.T) {
	for _, th := range All {
		for _, c := range model.AllCategories() {
			if _, ok := th.Categories[c]; !ok {
				t.Errorf("%s has no color for %s", th.Name, c)
			}
		}
	}
}
