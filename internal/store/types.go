package store

type EntityInput struct {
	Name        string
	EntityType  string
	World       string
	Tags        []string
	Properties  map[string]any
	Description string
}

type Entity struct {
	Name        string
	EntityType  string
	World       string
	Tags        []string
	Properties  map[string]any
	Description string
}

type EntitySummary struct {
	Name       string
	EntityType string
	World      string
	Tags       []string
}

type EntityRef struct {
	Name       string
	EntityType string
	World      string
}

// RelationshipInput creates an edge. A missing target entity becomes a
// placeholder so the reference is never silently dropped.
type RelationshipInput struct {
	FromName string
	ToName   string
	World    string
	Type     string
	// ForwardDescription and ReverseDescription carry the two sides of a
	// character relationship; both empty for structural edges.
	ForwardDescription string
	ReverseDescription string
}

type Relationship struct {
	From               EntityRef
	To                 EntityRef
	Type               string
	Direction          string
	Depth              int
	ForwardDescription string
	ReverseDescription string
}

type SearchResult struct {
	Name       string
	EntityType string
	World      string
	Tags       []string
	Score      float64
	Snippet    string
}
