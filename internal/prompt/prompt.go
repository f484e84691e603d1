// Package prompt composes chat messages for campaign generation and parses
// the pipe-delimited replies the prompts ask for.
package prompt

import (
	"encoding/json"
	"fmt"

	"campaignsmith/internal/campaign"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// The reply contract shared by every generation prompt. The underscore ban
// keeps the separator unambiguous for models that echo the format string.
const (
	formatNameDescription = "Give your reply in the format: %s_name|%s_description"
	asciiInstruction      = "Use only printable ASCII characters. Do not use the _ character."
)

// World composes the prompt for a fresh campaign world. The hint phrase
// describes what to generate; an empty hint falls back to the stock wording.
func World(hint string) []Message {
	if hint == "" {
		hint = "a world for a 5e campaign"
	}
	return []Message{
		{Role: RoleUser, Content: fmt.Sprintf("Generate %s.", hint)},
		{Role: RoleSystem, Content: fmt.Sprintf(formatNameDescription, "world", "world")},
		{Role: RoleSystem, Content: asciiInstruction},
	}
}

// Location composes the prompt for a new location, with the world document
// as system context.
func Location(w *campaign.World, hint string) ([]Message, error) {
	ctx, err := worldContext(w)
	if err != nil {
		return nil, err
	}
	if hint == "" {
		hint = "a location"
	}
	user := fmt.Sprintf("Generate %s to add to the world of %s. %s %s",
		hint, w.Name, fmt.Sprintf(formatNameDescription, "location", "location"), asciiInstruction)
	return []Message{ctx, {Role: RoleUser, Content: user}}, nil
}

// Character composes the prompt for a new character, with the world document
// as system context.
func Character(w *campaign.World, hint string) ([]Message, error) {
	ctx, err := worldContext(w)
	if err != nil {
		return nil, err
	}
	if hint == "" {
		hint = "a character"
	}
	user := fmt.Sprintf("Generate %s to add to the world of %s. %s %s",
		hint, w.Name, fmt.Sprintf(formatNameDescription, "character", "character"), asciiInstruction)
	return []Message{ctx, {Role: RoleUser, Content: user}}, nil
}

// Item composes the prompt for a new item found at the given location. Only
// the short world summary is sent, not the whole document.
func Item(worldBasics string, loc *campaign.Location, hint string) ([]Message, error) {
	if loc == nil {
		return nil, fmt.Errorf("location is required")
	}
	locJSON, err := json.Marshal(loc)
	if err != nil {
		return nil, fmt.Errorf("encoding location context: %w", err)
	}
	if hint == "" {
		hint = "an item"
	}
	user := fmt.Sprintf("Generate %s to add to the world. %s %s",
		hint, fmt.Sprintf(formatNameDescription, "item", "item"), asciiInstruction)
	return []Message{
		{Role: RoleSystem, Content: worldBasics + " " + string(locJSON)},
		{Role: RoleUser, Content: user},
	}, nil
}

// SymmetricRelationship asks for a single description that holds in both
// directions between two characters.
func SymmetricRelationship(a, b *campaign.Character) ([]Message, error) {
	ctxMessages, err := characterContext(a, b)
	if err != nil {
		return nil, err
	}
	user := fmt.Sprintf("Generate a relationship between %s and %s that is the same in both directions. Give your reply in the format: relationship_description. %s Limit your response to 30 words.",
		a.Name, b.Name, asciiInstruction)
	return append(ctxMessages, Message{Role: RoleUser, Content: user}), nil
}

// AsymmetricRelationship asks for two descriptions, one per direction,
// separated by the pipe character.
func AsymmetricRelationship(a, b *campaign.Character) ([]Message, error) {
	ctxMessages, err := characterContext(a, b)
	if err != nil {
		return nil, err
	}
	user := fmt.Sprintf("Generate a relationship between %s and %s. Give your reply in the format: how_%s_sees_%s|how_%s_sees_%s. %s Limit each side to 30 words.",
		a.Name, b.Name, a.Name, b.Name, b.Name, a.Name, asciiInstruction)
	return append(ctxMessages, Message{Role: RoleUser, Content: user}), nil
}

func worldContext(w *campaign.World) (Message, error) {
	if w == nil {
		return Message{}, fmt.Errorf("world is required")
	}
	data, err := json.Marshal(w)
	if err != nil {
		return Message{}, fmt.Errorf("encoding world context: %w", err)
	}
	return Message{Role: RoleSystem, Content: string(data)}, nil
}

func characterContext(a, b *campaign.Character) ([]Message, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("two characters are required")
	}
	aJSON, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding character context: %w", err)
	}
	bJSON, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding character context: %w", err)
	}
	return []Message{
		{Role: RoleSystem, Content: string(aJSON)},
		{Role: RoleSystem, Content: string(bJSON)},
	}, nil
}
