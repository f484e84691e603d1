package generate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"campaignsmith/internal/campaign"
	"campaignsmith/internal/config"
	"campaignsmith/internal/prompt"
	"campaignsmith/internal/store/sqlite"
)

type scriptedCompleter struct {
	replies      []string
	calls        int
	lastMessages []prompt.Message
}

func (s *scriptedCompleter) Complete(ctx context.Context, messages []prompt.Message, maxReplyTokens int) (string, error) {
	s.lastMessages = messages
	if s.calls >= len(s.replies) {
		return "", fmt.Errorf("unexpected completion call %d", s.calls+1)
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

func testConfig() *config.ProjectConfig {
	return &config.ProjectConfig{
		Project: "test",
		Version: 1,
		Generation: config.GenerationConfig{
			MaxLocations:            10,
			MaxCharacters:           10,
			MaxItems:                10,
			RelationshipProbability: 1.0,
			AsymmetricShare:         0,
			RetryLimit:              3,
		},
	}
}

func TestGenerateWorldPipeline(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		"Eldoria Prime|A realm of drifting isles above a glass sea.",
		"Duskhaven|A port city under eternal twilight.",
		"Mira|A priestess who hears the tide's voice.",
		"Tobias|A smuggler with a debt in every harbor.",
		"They are old rivals who still trade favors",
		"Cursed Blade|A blade that whispers the names of its victims.",
	}}

	g := New(testConfig(), config.DefaultSchema(), completer, 42)
	world, result, err := g.GenerateWorld(context.Background(), Options{Locations: 1, Characters: 2, Items: 1})
	if err != nil {
		t.Fatalf("generating world: %v", err)
	}

	if world.Name != "EldoriaPrime" {
		t.Errorf("world name = %q, want whitespace squashed out", world.Name)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.LocationsCreated != 1 || result.CharactersCreated != 2 || result.ItemsCreated != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/2/1",
			result.LocationsCreated, result.CharactersCreated, result.ItemsCreated)
	}
	if result.RelationshipsCreated != 1 {
		t.Fatalf("relationships = %d, want 1", result.RelationshipsCreated)
	}

	rel := world.Relationships[0]
	if !rel.Symmetric() {
		t.Errorf("expected symmetric relationship, got %+v", rel)
	}
	if !strings.HasSuffix(rel.AToB, ".") {
		t.Errorf("relationship description not closed with a full stop: %q", rel.AToB)
	}

	if len(world.Locations[0].Inventory) != 1 {
		t.Fatalf("expected item in the only location, got %d", len(world.Locations[0].Inventory))
	}
	if world.Locations[0].Inventory[0].Name != "Cursed Blade" {
		t.Errorf("item name = %q", world.Locations[0].Inventory[0].Name)
	}
}

func TestGenerateRetriesBadReplies(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		"a reply without the separator",
		"Ashen Vale|A valley of grey orchards.",
	}}

	g := New(testConfig(), config.DefaultSchema(), completer, 1)
	world := campaign.NewWorld("Eldoria", "A world.")

	loc, err := g.NewLocation(context.Background(), world)
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if loc.Name != "Ashen Vale" {
		t.Errorf("location name = %q", loc.Name)
	}
	if completer.calls != 2 {
		t.Errorf("calls = %d, want 2", completer.calls)
	}
}

func TestGenerateRetriesExhausted(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		"still no separator",
		"nope",
		"not this time either",
	}}

	g := New(testConfig(), config.DefaultSchema(), completer, 1)
	world := campaign.NewWorld("Eldoria", "A world.")

	_, err := g.NewCharacter(context.Background(), world)
	if err == nil {
		t.Fatal("expected failure after retry limit")
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error = %v, want retry count", err)
	}
}

func TestGenerateDuplicateNamesRejected(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		"Mira|A second Mira.",
		"Vex|A bounty hunter.",
	}}

	g := New(testConfig(), config.DefaultSchema(), completer, 1)
	world := campaign.NewWorld("Eldoria", "A world.")
	if err := world.AddCharacter(&campaign.Character{Name: "Mira", Description: "The first."}); err != nil {
		t.Fatal(err)
	}

	ch, err := g.NewCharacter(context.Background(), world)
	if err != nil {
		t.Fatalf("expected retry past the duplicate, got %v", err)
	}
	if ch.Name != "Vex" {
		t.Errorf("character name = %q, want the non-duplicate", ch.Name)
	}
}

func TestGenerateUsesSchemaPromptHints(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		"Duskhaven|A port city under eternal twilight.",
	}}

	g := New(testConfig(), config.DefaultSchema(), completer, 1)
	world := campaign.NewWorld("Eldoria", "A world.")

	if _, err := g.NewLocation(context.Background(), world); err != nil {
		t.Fatalf("generating location: %v", err)
	}

	var found bool
	for _, msg := range completer.lastMessages {
		if strings.Contains(msg.Content, "a notable place within the world") {
			found = true
		}
	}
	if !found {
		t.Errorf("schema prompt hint missing from request: %+v", completer.lastMessages)
	}
}

func TestGenerateOptionsValidated(t *testing.T) {
	g := New(testConfig(), config.DefaultSchema(), &scriptedCompleter{}, 1)

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"too many locations", Options{Locations: 11}, "locations must be between 0 and 10"},
		{"negative characters", Options{Characters: -1}, "characters must be between 0 and 10"},
		{"too many items", Options{Items: 99}, "items must be between 0 and 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := g.GenerateWorld(context.Background(), tt.opts)
			if err == nil || err.Error() != tt.want {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestAsymmetricRelationship(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		"Mira pities Tobias|Tobias envies Mira's certainty",
	}}

	cfg := testConfig()
	g := New(cfg, config.DefaultSchema(), completer, 1)
	world := campaign.NewWorld("Eldoria", "A world.")
	world.AddCharacter(&campaign.Character{Name: "Mira"})
	world.AddCharacter(&campaign.Character{Name: "Tobias"})

	rel, err := g.NewRelationship(context.Background(), world, "Mira", "Tobias", true)
	if err != nil {
		t.Fatalf("generating relationship: %v", err)
	}
	if rel.Symmetric() {
		t.Errorf("expected asymmetric relationship, got %+v", rel)
	}
	if rel.AToB == "" || rel.BToA == "" {
		t.Errorf("missing direction: %+v", rel)
	}
}

func TestPersistAndAssembleRoundTrip(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.New(ctx, "sqlite://"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { db.Close(ctx) })
	if err := db.EnsureSchema(ctx, config.DefaultSchema()); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}

	world := campaign.NewWorld("Eldoria", "A realm of drifting isles.")
	loc := &campaign.Location{Name: "Duskhaven", Description: "A twilight port."}
	loc.AddItem(&campaign.Item{Name: "Cursed Blade", Description: "It whispers.", Size: campaign.SizeSmall})
	if err := world.AddLocation(loc); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Mira", "Tobias"} {
		if err := world.AddCharacter(&campaign.Character{Name: name, Description: name + " of Duskhaven."}); err != nil {
			t.Fatal(err)
		}
	}
	if err := world.AddRelationship(&campaign.Relationship{
		CharacterA: "Mira", CharacterB: "Tobias",
		AToB: "Mira pities Tobias.", BToA: "Tobias envies Mira.",
	}); err != nil {
		t.Fatal(err)
	}

	entities, edges, err := Persist(ctx, db, world)
	if err != nil {
		t.Fatalf("persisting world: %v", err)
	}
	if entities != 5 || edges != 5 {
		t.Errorf("persisted %d entities and %d edges, want 5 and 5", entities, edges)
	}

	got, err := Assemble(ctx, db, "Eldoria")
	if err != nil {
		t.Fatalf("assembling world: %v", err)
	}

	if got.Name != "Eldoria" || got.Description != world.Description {
		t.Errorf("world = %q %q", got.Name, got.Description)
	}
	if len(got.Locations) != 1 || len(got.Characters) != 2 {
		t.Fatalf("got %d locations and %d characters", len(got.Locations), len(got.Characters))
	}

	gotLoc := got.LocationByName("Duskhaven")
	if gotLoc == nil || len(gotLoc.Inventory) != 1 {
		t.Fatalf("item not reattached to its location: %+v", gotLoc)
	}
	if gotLoc.Inventory[0].Size != campaign.SizeSmall {
		t.Errorf("item size = %v, want small", gotLoc.Inventory[0].Size)
	}

	if len(got.Relationships) != 1 {
		t.Fatalf("got %d relationships, want 1", len(got.Relationships))
	}
	rel := got.RelationshipBetween("Mira", "Tobias")
	if rel == nil || rel.Symmetric() {
		t.Errorf("relationship lost its directions: %+v", rel)
	}
}
