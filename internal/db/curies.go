package db

import "context"

// DistinctSubjectCuries returns the sorted distinct subject CURIEs across
// all assertions.
func (db *DB) DistinctSubjectCuries(ctx context.Context) ([]string, error) {
	return db.distinctColumn(ctx, `SELECT DISTINCT subject_curie FROM assertion ORDER BY subject_curie`)
}

// DistinctObjectCuries returns the sorted distinct object CURIEs across
// all assertions.
func (db *DB) DistinctObjectCuries(ctx context.Context) ([]string, error) {
	return db.distinctColumn(ctx, `SELECT DISTINCT object_curie FROM assertion ORDER BY object_curie`)
}

// DistinctPredicates returns the distinct predicate CURIEs appearing in
// any evidence score.
func (db *DB) DistinctPredicates(ctx context.Context) ([]string, error) {
	return db.distinctColumn(ctx, `SELECT DISTINCT predicate_curie FROM evidence_score ORDER BY predicate_curie`)
}

func (db *DB) distinctColumn(ctx context.Context, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
