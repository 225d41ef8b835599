package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LookupUniProt maps an internal identifier to its external cross-reference,
// or returns the input unchanged when no mapping exists.
func (db *DB) LookupUniProt(ctx context.Context, pr string) (string, error) {
	var uniprot string
	err := db.QueryRowContext(ctx, `SELECT uniprot FROM pr_to_uniprot WHERE pr = ?`, pr).Scan(&uniprot)
	if errors.Is(err, sql.ErrNoRows) {
		return pr, nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up cross-reference: %w", err)
	}
	return uniprot, nil
}

// LookupPR maps an external identifier back to the internal namespace, or
// returns the input unchanged when no mapping exists.
func (db *DB) LookupPR(ctx context.Context, uniprot string) (string, error) {
	var pr string
	err := db.QueryRowContext(ctx, `SELECT pr FROM pr_to_uniprot WHERE uniprot = ?`, uniprot).Scan(&pr)
	if errors.Is(err, sql.ErrNoRows) {
		return uniprot, nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up cross-reference: %w", err)
	}
	return pr, nil
}

// lookupUniProts bulk-maps internal identifiers to external ones. Missing
// identifiers are absent from the result map.
func (db *DB) lookupUniProts(ctx context.Context, prs []string) (map[string]string, error) {
	xrefs := make(map[string]string, len(prs))
	err := inChunks(prs, func(chunk []string) error {
		rows, err := db.QueryContext(ctx, `
			SELECT pr, uniprot FROM pr_to_uniprot
			WHERE pr IN (`+placeholders(len(chunk))+`)`, toAny(chunk)...)
		if err != nil {
			return fmt.Errorf("selecting cross-references: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var pr, uniprot string
			if err := rows.Scan(&pr, &uniprot); err != nil {
				return err
			}
			xrefs[pr] = uniprot
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return xrefs, nil
}
