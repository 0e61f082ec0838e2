// Package testutil provides shared catalog fixtures for tests.
package testutil

import (
	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
)

// ItemsJSON is a small OpenDota-style items document.
const ItemsJSON = `{
  "boots": {"id": 29, "dname": "Boots of Speed", "cost": 500, "qual": "common", "components": null,
    "attrib": [{"key": "bonus_movement_speed", "value": "45"}]},
  "gloves": {"id": 25, "dname": "Gloves of Haste", "cost": 450, "qual": "component", "components": null,
    "attrib": [{"key": "bonus_attack_speed", "value": "20"}]},
  "belt_of_strength": {"id": 26, "dname": "Belt of Strength", "cost": 450, "qual": "component", "components": null,
    "attrib": [{"key": "bonus_strength", "value": "6"}]},
  "band_of_elvenskin": {"id": 18, "dname": "Band of Elvenskin", "cost": 450, "qual": "component", "components": null,
    "attrib": [{"key": "bonus_agility", "value": "6"}]},
  "blades_of_attack": {"id": 2, "dname": "Blades of Attack", "cost": 450, "qual": "component", "components": null,
    "attrib": [{"key": "bonus_damage", "value": "9"}]},
  "ring_of_regen": {"id": 27, "dname": "Ring of Regen", "cost": 175, "qual": "component", "components": null,
    "attrib": [{"key": "bonus_health_regen", "value": "1.25"}]},
  "chainmail": {"id": 4, "dname": "Chainmail", "cost": 550, "qual": "component", "components": null,
    "attrib": [{"key": "bonus_armor", "value": "4"}]},
  "ogre_axe": {"id": 22, "dname": "Ogre Axe", "cost": 1000, "qual": "component", "components": null,
    "attrib": [{"key": "bonus_strength", "value": "10"}]},
  "mithril_hammer": {"id": 23, "dname": "Mithril Hammer", "cost": 1600, "qual": "component", "components": null,
    "attrib": [{"key": "bonus_damage", "value": "24"}]},
  "tango": {"id": 44, "dname": "Tango", "cost": 90, "qual": "consumable", "components": null, "attrib": []},
  "recipe_headdress": {"id": 93, "dname": "Headdress Recipe", "cost": 250, "components": null},
  "power_treads": {"id": 63, "dname": "Power Treads", "cost": 1400, "qual": "common", "created": true,
    "components": ["boots", "gloves", "belt_of_strength"],
    "attrib": [{"key": "bonus_movement_speed", "value": "45"}, {"key": "bonus_attack_speed", "value": "25"},
      {"key": "bonus_stat", "value": "10"}]},
  "phase_boots": {"id": 50, "dname": "Phase Boots", "cost": 1400, "qual": "common", "created": true,
    "components": ["boots", "blades_of_attack", "blades_of_attack"],
    "attrib": [{"key": "bonus_movement_speed", "value": "45"}, {"key": "bonus_damage", "value": "18"}]},
  "headdress": {"id": 94, "dname": "Headdress", "cost": 425, "qual": "rare", "created": true,
    "components": ["ring_of_regen"],
    "attrib": [{"key": "aura_health_regen", "value": "2"}]},
  "mekansm": {"id": 79, "dname": "Mekansm", "cost": 1775, "qual": "rare", "created": true,
    "components": ["headdress", "chainmail"],
    "attrib": [{"key": "bonus_armor", "value": "4"}, {"key": "aura_health_regen", "value": "2.5"}]},
  "black_king_bar": {"id": 116, "dname": "Black King Bar", "cost": 4050, "qual": "epic", "created": true,
    "components": ["ogre_axe", "mithril_hammer"],
    "attrib": [{"key": "bonus_strength", "value": "10"}, {"key": "bonus_damage", "value": "24"}]}
}`

// Catalog parses ItemsJSON. It panics on fixture errors.
func Catalog() *catalog.Catalog {
	c, err := catalog.Parse(ItemsJSON)
	if err != nil {
		panic(err)
	}
	return c
}

// Pair builds a two-component catalog: a 1000-gold item assembled from two
// 500-gold components with no recipe, plus an unrelated component.
func Pair() *catalog.Catalog {
	return catalog.New([]*catalog.Item{
		{Name: "left_half", DisplayName: "Left Half", Cost: 500, IsComponent: true,
			Stats: map[string]float64{"strength": 5}},
		{Name: "right_half", DisplayName: "Right Half", Cost: 500, IsComponent: true,
			Stats: map[string]float64{"agility": 5}},
		{Name: "whole", DisplayName: "The Whole", Cost: 1000,
			Components: []string{"left_half", "right_half"},
			Stats:      map[string]float64{"strength": 6, "agility": 6}},
		{Name: "trinket", DisplayName: "Trinket", Cost: 300, IsComponent: true,
			Stats: map[string]float64{"intelligence": 3}},
	})
}

// Valuation is a fixed stat price table matching the fixtures.
func Valuation() catalog.Valuation {
	return catalog.Valuation{
		"movement_speed": 11,
		"attack_speed":   22.5,
		"strength":       75,
		"agility":        75,
		"intelligence":   75,
		"damage":         50,
		"health_regen":   140,
		"armor":          137.5,
		"stat":           100,
	}
}
