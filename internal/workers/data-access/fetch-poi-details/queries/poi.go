// internal/workers/data-access/fetch-poi-details/queries/poi.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"poi-workers/internal/models"
)

const selectByIDs = `
	SELECT id, title, category, metadata
	FROM pois
	WHERE id = ANY($1)`

// FetchByIDs loads the POIs with the given ids. The result follows the
// order of ids; ids with no row are returned in missing.
func FetchByIDs(ctx context.Context, db *sql.DB, ids []string) (pois []models.POI, missing []string, err error) {
	if len(ids) == 0 {
		return []models.POI{}, nil, nil
	}

	rows, err := db.QueryContext(ctx, selectByIDs, pq.Array(ids))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	byID := make(map[string]models.POI, len(ids))
	for rows.Next() {
		var (
			poi      models.POI
			category sql.NullString
			metadata []byte
		)
		if err := rows.Scan(&poi.ID, &poi.Title, &category, &metadata); err != nil {
			return nil, nil, err
		}
		poi.Category = category.String
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &poi.Metadata); err != nil {
				return nil, nil, fmt.Errorf("decode metadata of %s: %w", poi.ID, err)
			}
		}
		byID[poi.ID] = poi
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	pois = make([]models.POI, 0, len(ids))
	for _, id := range ids {
		poi, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		pois = append(pois, poi)
	}
	return pois, missing, nil
}
