package transform

import "encoding/json"

// Upstream shapes from the catalog API. Items, addons and perks arrive as
// objects keyed by id; characters arrive as an array.

// Character is a raw survivor or killer entry.
type Character struct {
	ID     json.Number `json:"id"`
	Name   string      `json:"name"`
	Gender string      `json:"gender"`
	Height string      `json:"height"`
	Bio    string      `json:"bio"`
	Story  string      `json:"story"`
	Image  string      `json:"image"`
	// Item is the id of the killer's power item, null for survivors.
	Item *string `json:"item"`
}

// CatalogItem is a raw item, add-on or killer power entry.
type CatalogItem struct {
	ItemType    string          `json:"item_type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Modifiers   json.RawMessage `json:"modifiers"`
	Rarity      string          `json:"rarity"`
	Image       string          `json:"image"`
}

// CatalogPerk is a raw perk entry. Tunables are ordered value lists whose
// last element is the live value substituted into the description.
type CatalogPerk struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Categories  []string   `json:"categories"`
	Tunables    [][]string `json:"tunables"`
	Image       string     `json:"image"`
}

// Normalized shapes written to the cache artifacts.

// Survivor is a normalized survivor entry.
type Survivor struct {
	ID     json.Number `json:"id"`
	Name   string      `json:"name"`
	Gender string      `json:"gender"`
	Height string      `json:"height"`
	Bio    string      `json:"bio"`
	Story  string      `json:"story"`
	Image  string      `json:"image"`
}

// Killer is a normalized killer entry with its power description attached.
// PowerDescription is null when the killer has no power item.
type Killer struct {
	ID               json.Number `json:"id"`
	Name             string      `json:"name"`
	Gender           string      `json:"gender"`
	Height           string      `json:"height"`
	Bio              string      `json:"bio"`
	Story            string      `json:"story"`
	PowerDescription *string     `json:"power_description"`
	Image            string      `json:"image"`
}

// Item is a normalized item or add-on entry.
type Item struct {
	ItemType    string          `json:"item_type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Modifiers   json.RawMessage `json:"modifiers"`
	Rarity      string          `json:"rarity"`
	Image       string          `json:"image"`
}

// TypeGroup pairs the items of one item_type with their add-ons.
type TypeGroup struct {
	Items  []Item `json:"items"`
	Addons []Item `json:"addons"`
}

// Perk is a normalized perk entry with tunable placeholders resolved.
type Perk struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Image       string   `json:"image"`
}
