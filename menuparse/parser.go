package menuparse

import (
	"regexp"
	"strings"

	"github.com/dfac-tools/menubuilder/config"
	"github.com/dfac-tools/menubuilder/extractor"
	"github.com/dfac-tools/menubuilder/logger"
	"github.com/dfac-tools/menubuilder/models"
)

// Recipe codes embedded next to item names, e.g. "Roasted Red Potatoes R20480"
// or "Grilled Chicken #R102". Usually R/L/Y plus 3-5 digits, but any single
// capital prefix shows up on the longer codes.
var recipeCodeRe = regexp.MustCompile(`\b([RLY]\d{3,5}|[A-Z]\d{4,5})\b`)

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// Source pairs a document with the meal its filename implies (the DFAC
// exports encode B/L/D in the name). Documents with in-text meal headers
// do not need a default.
type Source struct {
	Doc         *extractor.Document
	DefaultMeal models.Meal
	HasDefault  bool
}

// Parser turns the document text model into typed menu items. One parser
// per run; the config is read-only after construction.
type Parser struct {
	cfg *config.RunConfig
}

func New(cfg *config.RunConfig) *Parser {
	return &Parser{cfg: cfg}
}

// ParseAll parses every source in order and applies the cross-document
// meal-grouping rules (dinner rollover). Source order matters downstream:
// list production-schedule documents before outside-menu documents so
// their spellings win ties at dedup time.
func (p *Parser) ParseAll(date string, sources []Source) ([]models.MenuItem, error) {
	var items []models.MenuItem
	for _, src := range sources {
		parsed, err := p.Parse(date, src)
		if err != nil {
			return nil, err
		}
		items = append(items, parsed...)
	}

	if p.cfg.RolloverDinner {
		items = append(items, p.rollover(items)...)
	}
	return items, nil
}

// Parse extracts the menu items of one document. A blank document yields no
// items and no error; an item line that cannot be attributed to any meal is
// a structural failure.
func (p *Parser) Parse(date string, src Source) ([]models.MenuItem, error) {
	var items []models.MenuItem

	meal := src.DefaultMeal
	haveMeal := src.HasDefault
	category := ""
	excluded := false

	for _, page := range src.Doc.Pages {
		for _, line := range page.Lines {
			ln := strings.TrimSpace(line.Text)
			if ln == "" {
				continue
			}
			upper := strings.ToUpper(ln)

			if m, ok := p.mealHeader(upper); ok {
				meal = m
				haveMeal = true
				category = ""
				excluded = false
				continue
			}
			if p.matchesAny(upper, p.cfg.ExcludedCategories) {
				// Short lines are the station heading itself; everything
				// under it stays suppressed until the next heading.
				if len(strings.Fields(ln)) <= 4 {
					excluded = true
				}
				continue
			}
			if kw, ok := p.categoryHeader(upper); ok {
				category = kw
				excluded = false
				continue
			}
			if p.noiseLine(upper) {
				continue
			}
			if excluded {
				continue
			}
			if !strings.ContainsFunc(ln, isLetter) {
				continue
			}

			name, rid := extractNameRecipe(ln)
			// One-word lines without a code are stray headings ("Poultry"),
			// not items.
			if len(strings.Fields(name)) < 2 && rid == "" {
				continue
			}
			if name == "" {
				continue
			}
			if !haveMeal {
				return nil, &ParseError{
					Doc:     src.Doc.Name,
					Page:    page.Number,
					Section: "preamble",
					Msg:     "item line " + quote(ln) + " precedes any meal header and no default meal applies",
				}
			}

			items = append(items, models.MenuItem{
				Date:     date,
				Meal:     meal,
				Name:     name,
				RecipeID: rid,
				Category: category,
			})
		}
	}

	logger.Debug("parsed document", "doc", src.Doc.Name, "items", len(items))
	return items, nil
}

// rollover duplicates lunch items as dinner when dinner parsed empty.
func (p *Parser) rollover(items []models.MenuItem) []models.MenuItem {
	for _, it := range items {
		if it.Meal == models.Dinner {
			return nil
		}
	}
	var dinner []models.MenuItem
	for _, it := range items {
		if it.Meal == models.Lunch {
			d := it
			d.Meal = models.Dinner
			dinner = append(dinner, d)
		}
	}
	if len(dinner) > 0 {
		logger.Debug("dinner section empty, rolled over lunch items", "count", len(dinner))
	}
	return dinner
}

// mealHeader recognizes section headers like "LUNCH" or "LUNCH MENU",
// including configured aliases (e.g. BRUNCH).
func (p *Parser) mealHeader(upper string) (models.Meal, bool) {
	header := strings.TrimSuffix(upper, " MENU")
	header = strings.TrimSpace(header)

	if alias, ok := p.cfg.MealAliases[header]; ok {
		if m, ok := models.ParseMeal(alias); ok {
			return m, true
		}
	}
	// Only full-line headers count; "LUNCH SPECIAL PIZZA" is an item line.
	if m, ok := models.ParseMeal(header); ok && len(strings.Fields(header)) == 1 {
		return m, true
	}
	return 0, false
}

func (p *Parser) categoryHeader(upper string) (string, bool) {
	for _, kw := range p.cfg.CategoryKeywords {
		if strings.HasPrefix(upper, strings.ToUpper(kw)) {
			return kw, true
		}
	}
	return "", false
}

func (p *Parser) noiseLine(upper string) bool {
	for _, kw := range p.cfg.NoiseKeywords {
		kw = strings.ToUpper(kw)
		if upper == kw || strings.HasPrefix(upper, kw+" ") {
			return true
		}
	}
	return false
}

func (p *Parser) matchesAny(upper string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(upper, strings.ToUpper(kw)) {
			return true
		}
	}
	return false
}

// extractNameRecipe splits a fragment like "Roasted Garbanzo Beans R20330"
// into the display name and the recipe code, stripping the code token and
// any dangling separators from the name.
func extractNameRecipe(fragment string) (string, string) {
	frag := strings.TrimSpace(fragment)
	rid := recipeCodeRe.FindString(frag)

	name := frag
	if rid != "" {
		name = strings.Replace(frag, rid, "", 1)
		name = strings.Trim(name, " #-–—\t")
	}
	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name), rid
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func quote(s string) string {
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return "\"" + s + "\""
}
