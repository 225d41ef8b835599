package db

const schema = `
CREATE TABLE IF NOT EXISTS assertion (
    assertion_id      TEXT PRIMARY KEY,
    subject_curie     TEXT NOT NULL,
    object_curie      TEXT NOT NULL,
    association_curie TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assertion_subject ON assertion(subject_curie);
CREATE INDEX IF NOT EXISTS idx_assertion_object ON assertion(object_curie);

CREATE TABLE IF NOT EXISTS evidence (
    evidence_id               TEXT PRIMARY KEY,
    assertion_id              TEXT NOT NULL REFERENCES assertion(assertion_id),
    document_id               TEXT NOT NULL,
    sentence                  TEXT NOT NULL,
    subject_entity_id         TEXT,
    object_entity_id          TEXT,
    document_zone             TEXT DEFAULT '',
    document_publication_type TEXT DEFAULT '',
    document_year_published   INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_evidence_assertion ON evidence(assertion_id);

-- Insertion (rowid) order of evidence_score rows is the tie-break order for
-- top-predicate resolution; never reorder on write.
CREATE TABLE IF NOT EXISTS evidence_score (
    evidence_id     TEXT NOT NULL REFERENCES evidence(evidence_id),
    predicate_curie TEXT NOT NULL,
    score           REAL NOT NULL,
    PRIMARY KEY (evidence_id, predicate_curie)
);

CREATE TABLE IF NOT EXISTS entity (
    entity_id    TEXT PRIMARY KEY,
    span         TEXT DEFAULT '0|0',
    covered_text TEXT DEFAULT ''
);

-- Version tags are additive: a later ingestion run attaches new tags to
-- existing evidence rather than deleting rows.
CREATE TABLE IF NOT EXISTS evidence_version (
    evidence_id TEXT NOT NULL REFERENCES evidence(evidence_id),
    version     INTEGER NOT NULL,
    PRIMARY KEY (evidence_id, version)
);

CREATE TABLE IF NOT EXISTS pr_to_uniprot (
    pr      TEXT PRIMARY KEY,
    uniprot TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS evaluation (
    id                TEXT PRIMARY KEY,
    evidence_id       TEXT NOT NULL,
    overall_correct   INTEGER,
    subject_correct   INTEGER,
    object_correct    INTEGER,
    predicate_correct INTEGER,
    comments          TEXT,
    source_id         TEXT NOT NULL,
    created_at        DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS evidence_feedback (
    id          TEXT PRIMARY KEY,
    evidence_id TEXT NOT NULL,
    comments    TEXT,
    source_id   TEXT NOT NULL,
    created_at  DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS evidence_feedback_answer (
    feedback_id TEXT NOT NULL REFERENCES evidence_feedback(id),
    prompt_text TEXT NOT NULL,
    response    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS predication_feedback (
    id             TEXT PRIMARY KEY,
    predication_id TEXT NOT NULL,
    comments       TEXT,
    source_id      TEXT NOT NULL,
    created_at     DATETIME DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS predication_feedback_answer (
    feedback_id TEXT NOT NULL REFERENCES predication_feedback(id),
    prompt_text TEXT NOT NULL,
    response    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS curators (
    id            TEXT PRIMARY KEY,
    handle        TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    DATETIME DEFAULT (datetime('now'))
);
`
