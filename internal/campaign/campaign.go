// Package campaign holds the domain model for generated campaign content:
// a world with its locations, characters, character relationships, and items.
package campaign

import (
	"encoding/json"
	"fmt"
	"strings"
)

// World is the root of a campaign setting.
type World struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Locations     []*Location     `json:"locations"`
	Characters    []*Character    `json:"characters"`
	Relationships []*Relationship `json:"relationships"`
}

func NewWorld(name, description string) *World {
	return &World{Name: name, Description: description}
}

// Trait is an ordered quality/description pair on a location.
type Trait struct {
	Quality     string `json:"quality"`
	Description string `json:"description"`
}

type Location struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Traits      []Trait `json:"traits,omitempty"`
	Inventory   []*Item `json:"inventory,omitempty"`
}

type Character struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Traits      map[string]string `json:"traits,omitempty"`
	Inventory   []*Item           `json:"inventory,omitempty"`
}

type Item struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Traits      map[string]string `json:"traits,omitempty"`
	Size        Size              `json:"size"`
}

// Relationship records how two characters regard one another, one
// description per direction. A symmetric relationship reads the same both
// ways.
type Relationship struct {
	CharacterA string `json:"character_a"`
	CharacterB string `json:"character_b"`
	AToB       string `json:"a_to_b"`
	BToA       string `json:"b_to_a"`
}

func (r *Relationship) Symmetric() bool {
	return r.AToB == r.BToA
}

// Flip returns the relationship viewed from the other end.
func (r *Relationship) Flip() *Relationship {
	return &Relationship{
		CharacterA: r.CharacterB,
		CharacterB: r.CharacterA,
		AToB:       r.BToA,
		BToA:       r.AToB,
	}
}

func (r *Relationship) equalEnds(other *Relationship) bool {
	return strings.EqualFold(r.CharacterA, other.CharacterA) &&
		strings.EqualFold(r.CharacterB, other.CharacterB)
}

func (w *World) AddLocation(loc *Location) error {
	if loc == nil {
		return fmt.Errorf("location is required")
	}
	if w.LocationByName(loc.Name) != nil {
		return fmt.Errorf("world already has location %q", loc.Name)
	}
	w.Locations = append(w.Locations, loc)
	return nil
}

func (w *World) AddCharacter(ch *Character) error {
	if ch == nil {
		return fmt.Errorf("character is required")
	}
	if w.CharacterByName(ch.Name) != nil {
		return fmt.Errorf("world already has character %q", ch.Name)
	}
	w.Characters = append(w.Characters, ch)
	return nil
}

// AddRelationship rejects a relationship when the pair is already related
// in either direction.
func (w *World) AddRelationship(rel *Relationship) error {
	if rel == nil {
		return fmt.Errorf("relationship is required")
	}
	if strings.EqualFold(rel.CharacterA, rel.CharacterB) {
		return fmt.Errorf("relationship must join two distinct characters")
	}
	if w.CharacterByName(rel.CharacterA) == nil {
		return fmt.Errorf("unknown character %q", rel.CharacterA)
	}
	if w.CharacterByName(rel.CharacterB) == nil {
		return fmt.Errorf("unknown character %q", rel.CharacterB)
	}
	if w.RelationshipBetween(rel.CharacterA, rel.CharacterB) != nil {
		return fmt.Errorf("%q and %q are already related", rel.CharacterA, rel.CharacterB)
	}
	w.Relationships = append(w.Relationships, rel)
	return nil
}

func (w *World) LocationByName(name string) *Location {
	for _, loc := range w.Locations {
		if strings.EqualFold(loc.Name, name) {
			return loc
		}
	}
	return nil
}

func (w *World) CharacterByName(name string) *Character {
	for _, ch := range w.Characters {
		if strings.EqualFold(ch.Name, name) {
			return ch
		}
	}
	return nil
}

// RelationshipBetween returns the relationship joining the two characters in
// either direction, or nil.
func (w *World) RelationshipBetween(a, b string) *Relationship {
	probe := &Relationship{CharacterA: a, CharacterB: b}
	flipped := probe.Flip()
	for _, rel := range w.Relationships {
		if rel.equalEnds(probe) || rel.equalEnds(flipped) {
			return rel
		}
	}
	return nil
}

func (c *Character) AddTrait(quality, description string) {
	if c.Traits == nil {
		c.Traits = make(map[string]string)
	}
	c.Traits[quality] = description
}

func (c *Character) AddItem(item *Item) {
	c.Inventory = append(c.Inventory, item)
}

func (l *Location) AddTrait(quality, description string) {
	l.Traits = append(l.Traits, Trait{Quality: quality, Description: description})
}

func (l *Location) AddItem(item *Item) {
	l.Inventory = append(l.Inventory, item)
}

func (i *Item) AddTrait(quality, description string) {
	if i.Traits == nil {
		i.Traits = make(map[string]string)
	}
	i.Traits[quality] = description
}

// Basics is the short world summary passed as context when generating
// follow-on entities, so item and character prompts do not have to carry the
// whole world document.
func (w *World) Basics() string {
	return fmt.Sprintf("The world is named %s. %s", w.Name, w.Description)
}

// EncodeJSON renders the full world document.
func (w *World) EncodeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding world: %w", err)
	}
	return data, nil
}

// DecodeWorld parses a world document produced by EncodeJSON.
func DecodeWorld(data []byte) (*World, error) {
	var w World
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding world: %w", err)
	}
	if strings.TrimSpace(w.Name) == "" {
		return nil, fmt.Errorf("decoding world: name is required")
	}
	return &w, nil
}
