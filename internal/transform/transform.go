// Package transform normalizes raw catalog data into the shapes persisted as
// cache artifacts. Every function here is pure: no I/O, no shared state.
package transform

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	escapeRe = regexp.MustCompile(`(?i)\\u[0-9a-f]{4}`)
)

// CleanText strips HTML-like tags and literal \uXXXX escape sequences.
// Returns "" for empty input. Idempotent.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = tagRe.ReplaceAllString(s, "")
	return escapeRe.ReplaceAllString(s, "")
}

// ExtractFileName reduces a path to its final segment.
func ExtractFileName(path string) string {
	if path == "" {
		return ""
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// GroupByItemType buckets items by item_type, preserving input order within
// each bucket. Entries with an empty item_type or the promotional
// "specialevent" rarity are dropped.
func GroupByItemType(items []CatalogItem) map[string][]Item {
	grouped := make(map[string][]Item)
	for _, it := range items {
		if it.ItemType == "" || it.Rarity == "specialevent" {
			continue
		}
		grouped[it.ItemType] = append(grouped[it.ItemType], Item{
			ItemType:    it.ItemType,
			Name:        it.Name,
			Description: CleanText(it.Description),
			Modifiers:   it.Modifiers,
			Rarity:      it.Rarity,
			Image:       ExtractFileName(it.Image),
		})
	}
	return grouped
}

// MergeItemsAddons attaches each item_type's add-on group to its item group.
// Items are the driving set: a type with items but no add-ons gets an empty
// add-on list, while add-on-only types are dropped.
func MergeItemsAddons(items, addons map[string][]Item) map[string]TypeGroup {
	merged := make(map[string]TypeGroup, len(items))
	for itemType, group := range items {
		a := addons[itemType]
		if a == nil {
			a = []Item{}
		}
		merged[itemType] = TypeGroup{Items: group, Addons: a}
	}
	return merged
}

// ResolveTunables replaces the first occurrence of each {i} placeholder with
// the last element of the i-th tunable value list. Placeholders without a
// matching tunable are left verbatim.
func ResolveTunables(description string, tunables [][]string) string {
	for i, values := range tunables {
		if len(values) == 0 {
			continue
		}
		placeholder := "{" + strconv.Itoa(i) + "}"
		description = strings.Replace(description, placeholder, values[len(values)-1], 1)
	}
	return description
}

// MergeKillerPower builds a normalized killer, attaching the cleaned
// description of its power item when one is referenced.
func MergeKillerPower(killer Character, powersByID map[string]CatalogItem) Killer {
	k := Killer{
		ID:     killer.ID,
		Name:   killer.Name,
		Gender: killer.Gender,
		Height: killer.Height,
		Bio:    CleanText(killer.Bio),
		Story:  CleanText(killer.Story),
		Image:  ExtractFileName(killer.Image),
	}
	if killer.Item != nil {
		if power, ok := powersByID[*killer.Item]; ok {
			desc := CleanText(power.Description)
			k.PowerDescription = &desc
		}
	}
	return k
}

// Survivors normalizes raw survivor characters.
func Survivors(chars []Character) []Survivor {
	out := make([]Survivor, 0, len(chars))
	for _, c := range chars {
		out = append(out, Survivor{
			ID:     c.ID,
			Name:   c.Name,
			Gender: c.Gender,
			Height: c.Height,
			Bio:    CleanText(c.Bio),
			Story:  CleanText(c.Story),
			Image:  ExtractFileName(c.Image),
		})
	}
	return out
}

// Killers normalizes raw killer characters, joining each killer's power item
// by id.
func Killers(chars []Character, powersByID map[string]CatalogItem) []Killer {
	out := make([]Killer, 0, len(chars))
	for _, c := range chars {
		out = append(out, MergeKillerPower(c, powersByID))
	}
	return out
}

// Perks normalizes raw perks, resolving tunable placeholders in each
// description before cleaning it.
func Perks(perks []CatalogPerk) []Perk {
	out := make([]Perk, 0, len(perks))
	for _, p := range perks {
		out = append(out, Perk{
			Name:        p.Name,
			Description: CleanText(ResolveTunables(p.Description, p.Tunables)),
			Categories:  p.Categories,
			Image:       ExtractFileName(p.Image),
		})
	}
	return out
}
