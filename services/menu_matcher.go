package services

import (
	"iter"
	"strings"

	"FlashSaleSwiggy/models"
)

// ExtractMenuItems walks the menu payload and yields every named item in source order.
// Missing levels yield nothing. The sequence can be ranged over more than once.
func ExtractMenuItems(resp *models.MenuResponse) iter.Seq[models.MenuItem] {
	return func(yield func(models.MenuItem) bool) {
		if resp == nil || resp.Data == nil {
			return
		}
		for _, card := range resp.Data.Cards {
			if card.GroupedCard == nil || card.GroupedCard.CardGroupMap == nil || card.GroupedCard.CardGroupMap.Regular == nil {
				continue
			}
			for _, section := range card.GroupedCard.CardGroupMap.Regular.Cards {
				if section.Card == nil || section.Card.Card == nil {
					continue
				}
				content := section.Card.Card

				for _, ic := range content.ItemCards {
					if !yieldItem(ic, yield) {
						return
					}
				}
				for _, cat := range content.Categories {
					for _, ic := range cat.ItemCards {
						if !yieldItem(ic, yield) {
							return
						}
					}
				}
			}
		}
	}
}

// yieldItem converts one raw entry and hands it to yield. It reports whether iteration should go on.
func yieldItem(ic models.ItemCard, yield func(models.MenuItem) bool) bool {
	if ic.Card == nil || ic.Card.Info == nil {
		return true
	}
	item, ok := toMenuItem(ic.Card.Info)
	if !ok {
		return true
	}
	return yield(item)
}

func toMenuItem(info *models.ItemInfo) (models.MenuItem, bool) {
	name := strings.TrimSpace(info.Name)
	if name == "" {
		return models.MenuItem{}, false
	}

	var raw float64
	switch {
	case info.DefaultPrice != nil:
		raw = *info.DefaultPrice
	case info.Price != nil:
		raw = *info.Price
	}
	basePrice := raw / 100

	finalPrice := basePrice
	if info.FinalPrice != nil && *info.FinalPrice != 0 {
		finalPrice = *info.FinalPrice / 100
	}

	return models.MenuItem{
		Name:         name,
		BasePrice:    basePrice,
		FinalPrice:   finalPrice,
		IsDiscounted: hasFlashTag(info.OfferTags) || finalPrice < basePrice,
	}, true
}

func hasFlashTag(tags []models.OfferTag) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag.Title), "flash") {
			return true
		}
	}
	return false
}

// MatchItems resolves each target against the menu by case-insensitive exact name.
// When several items share a name the first one in menu order wins.
func MatchItems(menu iter.Seq[models.MenuItem], targets []string) []models.MatchResult {
	byName := make(map[string]models.MenuItem)
	for item := range menu {
		key := strings.ToLower(item.Name)
		if _, seen := byName[key]; !seen {
			byName[key] = item
		}
	}

	results := make([]models.MatchResult, 0, len(targets))
	for _, target := range targets {
		matched, ok := byName[strings.ToLower(target)]
		switch {
		case !ok:
			results = append(results, models.MatchResult{
				Name:   target,
				Status: models.StatusNotFound,
			})
		case !matched.IsDiscounted:
			results = append(results, models.MatchResult{
				Name:       matched.Name,
				BasePrice:  models.NewPrice(matched.BasePrice),
				FinalPrice: models.NewPrice(matched.FinalPrice),
				Status:     models.StatusNotDiscounted,
			})
		default:
			results = append(results, models.MatchResult{
				Name:       matched.Name,
				BasePrice:  models.NewPrice(matched.BasePrice),
				FinalPrice: models.NewPrice(matched.FinalPrice),
				Status:     models.StatusFoundDiscounted,
			})
		}
	}
	return results
}

// MissingReport drops the rows that are on discount.
func MissingReport(results []models.MatchResult) []models.MatchResult {
	out := make([]models.MatchResult, 0, len(results))
	for _, r := range results {
		if r.Status == models.StatusFoundDiscounted {
			continue
		}
		out = append(out, r)
	}
	return out
}
