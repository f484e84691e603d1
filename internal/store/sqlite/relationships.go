package sqlite

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"campaignsmith/internal/store"
)

var relTypePattern = regexp.MustCompile(`^[A-Z0-9_]+$`)

func (c *Client) UpsertRelationship(ctx context.Context, r store.RelationshipInput) error {
	if strings.TrimSpace(r.Type) == "" || !relTypePattern.MatchString(r.Type) {
		return fmt.Errorf("invalid relationship type: %s", r.Type)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var srcID int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM entities WHERE name_normalized = ? AND world = ?",
		strings.ToLower(r.FromName), r.World,
	).Scan(&srcID)
	if err != nil {
		return fmt.Errorf("finding source entity: %w", err)
	}

	var dstID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO entities (name, name_normalized, entity_type, world, is_placeholder, tags, properties)
		VALUES (?, ?, '', ?, 1, '[]', '{}')
		ON CONFLICT (name_normalized, world) DO UPDATE SET name = entities.name
		RETURNING id`,
		r.ToName, strings.ToLower(r.ToName), r.World,
	).Scan(&dstID)
	if err != nil {
		return fmt.Errorf("upserting target entity: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO edges (src_id, dst_id, rel_type, forward_desc, reverse_desc)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (src_id, dst_id, rel_type) DO UPDATE SET
			forward_desc = excluded.forward_desc,
			reverse_desc = excluded.reverse_desc`,
		srcID, dstID, r.Type, r.ForwardDescription, r.ReverseDescription,
	)
	if err != nil {
		return fmt.Errorf("upserting edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (c *Client) GetRelationships(ctx context.Context, name, relType, direction string, depth int) ([]store.Relationship, error) {
	direction = strings.TrimSpace(direction)
	if direction == "" {
		direction = "both"
	}
	switch direction {
	case "outgoing", "incoming", "both":
	default:
		return nil, fmt.Errorf("invalid direction: %s", direction)
	}
	if depth < 1 || depth > 5 {
		return nil, fmt.Errorf("depth must be between 1 and 5")
	}
	if strings.TrimSpace(relType) != "" && !relTypePattern.MatchString(relType) {
		return nil, fmt.Errorf("invalid relationship type: %s", relType)
	}

	var startID int64
	err := c.db.QueryRowContext(ctx,
		"SELECT id FROM entities WHERE name_normalized = ?",
		strings.ToLower(name),
	).Scan(&startID)
	if err != nil {
		return nil, fmt.Errorf("finding start entity: %w", err)
	}

	visited := make(map[int64]bool)
	visited[startID] = true
	frontier := []int64{startID}
	var results []store.Relationship

	for currentDepth := 1; currentDepth <= depth; currentDepth++ {
		if len(frontier) == 0 {
			break
		}

		placeholders := make([]string, len(frontier))
		for i := range frontier {
			placeholders[i] = "?"
		}
		inClause := strings.Join(placeholders, ",")

		var query string
		switch direction {
		case "outgoing":
			query = fmt.Sprintf(`
			SELECT e.src_id, e.dst_id, e.rel_type, e.forward_desc, e.reverse_desc,
				   s.name AS src_name, s.entity_type AS src_type, s.world AS src_world,
				   d.name AS dst_name, d.entity_type AS dst_type, d.world AS dst_world
			FROM edges e
			JOIN entities s ON e.src_id = s.id
			JOIN entities d ON e.dst_id = d.id
			WHERE e.src_id IN (%s)
			  AND (? = '' OR e.rel_type = ?)`, inClause)
		case "incoming":
			query = fmt.Sprintf(`
			SELECT e.src_id, e.dst_id, e.rel_type, e.forward_desc, e.reverse_desc,
				   s.name AS src_name, s.entity_type AS src_type, s.world AS src_world,
				   d.name AS dst_name, d.entity_type AS dst_type, d.world AS dst_world
			FROM edges e
			JOIN entities s ON e.src_id = s.id
			JOIN entities d ON e.dst_id = d.id
			WHERE e.dst_id IN (%s)
			  AND (? = '' OR e.rel_type = ?)`, inClause)
		case "both":
			query = fmt.Sprintf(`
			SELECT e.src_id, e.dst_id, e.rel_type, e.forward_desc, e.reverse_desc,
				   s.name AS src_name, s.entity_type AS src_type, s.world AS src_world,
				   d.name AS dst_name, d.entity_type AS dst_type, d.world AS dst_world
			FROM edges e
			JOIN entities s ON e.src_id = s.id
			JOIN entities d ON e.dst_id = d.id
			WHERE (e.src_id IN (%s) OR e.dst_id IN (%s))
			  AND (? = '' OR e.rel_type = ?)`, inClause, inClause)
		}

		queryArgs := make([]any, 0, 2*len(frontier)+2)
		for _, id := range frontier {
			queryArgs = append(queryArgs, id)
		}
		if direction == "both" {
			for _, id := range frontier {
				queryArgs = append(queryArgs, id)
			}
		}
		queryArgs = append(queryArgs, relType, relType)

		rows, err := c.db.QueryContext(ctx, query, queryArgs...)
		if err != nil {
			return nil, fmt.Errorf("querying relationships: %w", err)
		}

		var newFrontier []int64
		for rows.Next() {
			var srcID, dstID int64
			var rel store.Relationship

			err := rows.Scan(&srcID, &dstID, &rel.Type,
				&rel.ForwardDescription, &rel.ReverseDescription,
				&rel.From.Name, &rel.From.EntityType, &rel.From.World,
				&rel.To.Name, &rel.To.EntityType, &rel.To.World,
			)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning relationship: %w", err)
			}

			var otherID int64
			var isFromFrontier bool
			for _, fid := range frontier {
				if fid == srcID {
					otherID = dstID
					isFromFrontier = true
					break
				} else if fid == dstID {
					otherID = srcID
					isFromFrontier = false
					break
				}
			}

			if visited[otherID] {
				continue
			}

			if isFromFrontier {
				rel.Direction = "outgoing"
			} else {
				rel.Direction = "incoming"
				rel.From, rel.To = rel.To, rel.From
			}

			rel.Depth = currentDepth
			results = append(results, rel)
			newFrontier = append(newFrontier, otherID)
			visited[otherID] = true
		}
		rows.Close()

		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating relationship rows: %w", err)
		}

		frontier = newFrontier
	}

	if results == nil {
		results = []store.Relationship{}
	}

	return results, nil
}
