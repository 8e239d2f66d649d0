package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/genegraph/internal/annotation"
)

// DB persists the annotation graph in a DuckDB database and serves as the
// Committer for deletion sweeps.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path. Use an empty
// string for an in-memory database.
func Open(path string) (*DB, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &DB{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// ensureSchema creates the graph tables if they don't exist.
func (s *DB) ensureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS loci (
			id BIGINT PRIMARY KEY,
			given_id VARCHAR,
			type VARCHAR,
			seqid VARCHAR,
			seq_start BIGINT,
			seq_end BIGINT
		);

		CREATE TABLE IF NOT EXISTS transcribeds (
			id BIGINT PRIMARY KEY,
			locus_id BIGINT,
			given_id VARCHAR,
			type VARCHAR
		);

		CREATE TABLE IF NOT EXISTS pieces (
			id BIGINT PRIMARY KEY,
			transcribed_id BIGINT,
			given_id VARCHAR
		);

		CREATE TABLE IF NOT EXISTS features (
			id BIGINT PRIMARY KEY,
			locus_id BIGINT,
			given_id VARCHAR,
			type VARCHAR,
			bearing VARCHAR,
			stream VARCHAR,
			seqid VARCHAR,
			start BIGINT,
			end_ BIGINT,
			is_plus_strand BOOLEAN,
			phase TINYINT,
			score DOUBLE,
			source VARCHAR
		);

		CREATE TABLE IF NOT EXISTS piece_features (
			piece_id BIGINT,
			feature_id BIGINT,
			ordinal INTEGER,
			PRIMARY KEY (piece_id, feature_id)
		);

		CREATE TABLE IF NOT EXISTS pairs (
			id BIGINT PRIMARY KEY,
			transcribed_id BIGINT,
			upstream_id BIGINT,
			downstream_id BIGINT
		);

		CREATE INDEX IF NOT EXISTS idx_transcribeds_locus ON transcribeds(locus_id);
		CREATE INDEX IF NOT EXISTS idx_pieces_transcribed ON pieces(transcribed_id);
		CREATE INDEX IF NOT EXISTS idx_features_locus ON features(locus_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveLocus writes one locus subgraph: the locus row, its transcripts,
// pieces, features, piece membership, and pairs. Records must already carry
// store-assigned ids.
func (s *DB) SaveLocus(sl *annotation.SuperLocus) error {
	seqid, seqStart, seqEnd := locusRegion(sl)
	_, err := s.db.Exec(`
		INSERT INTO loci (id, given_id, type, seqid, seq_start, seq_end)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sl.NodeID(), sl.GivenID, sl.Type, seqid, seqStart, seqEnd)
	if err != nil {
		return fmt.Errorf("insert locus %q: %w", sl.GivenID, err)
	}

	for _, f := range sl.Features {
		if err := s.insertFeature(sl, f); err != nil {
			return err
		}
	}

	for _, t := range sl.Transcribeds {
		if err := s.insertTranscribed(sl, t); err != nil {
			return err
		}
	}
	return nil
}

func locusRegion(sl *annotation.SuperLocus) (string, int64, int64) {
	for _, f := range sl.Features {
		if f.Coordinates != nil {
			return f.Coordinates.Seqid, f.Coordinates.Start, f.Coordinates.End
		}
	}
	return "", 0, 0
}

func (s *DB) insertFeature(sl *annotation.SuperLocus, f *annotation.Feature) error {
	seqid := ""
	if f.Coordinates != nil {
		seqid = f.Coordinates.Seqid
	}
	_, err := s.db.Exec(`
		INSERT INTO features (id, locus_id, given_id, type, bearing, stream,
		                      seqid, start, end_, is_plus_strand, phase, score, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.NodeID(), sl.NodeID(), f.GivenID, string(f.Type), string(f.Bearing),
		f.Stream.String(), seqid, f.Start, f.End, f.IsPlusStrand, f.Phase,
		f.Score, nullString(f.Source))
	if err != nil {
		return fmt.Errorf("insert feature %q: %w", f.GivenID, err)
	}
	return nil
}

func (s *DB) insertTranscribed(sl *annotation.SuperLocus, t *annotation.Transcribed) error {
	_, err := s.db.Exec(`
		INSERT INTO transcribeds (id, locus_id, given_id, type)
		VALUES (?, ?, ?, ?)
	`, t.NodeID(), sl.NodeID(), t.GivenID, t.Type)
	if err != nil {
		return fmt.Errorf("insert transcript %q: %w", t.GivenID, err)
	}

	for _, p := range t.Pieces {
		if _, err := s.db.Exec(`
			INSERT INTO pieces (id, transcribed_id, given_id)
			VALUES (?, ?, ?)
		`, p.NodeID(), t.NodeID(), p.GivenID); err != nil {
			return fmt.Errorf("insert piece %q: %w", p.GivenID, err)
		}
		for i, f := range p.Features {
			if _, err := s.db.Exec(`
				INSERT INTO piece_features (piece_id, feature_id, ordinal)
				VALUES (?, ?, ?)
			`, p.NodeID(), f.NodeID(), i); err != nil {
				return fmt.Errorf("insert piece feature link: %w", err)
			}
		}
	}

	for _, pair := range t.Pairs {
		var upID, downID interface{}
		if pair.Upstream != nil {
			upID = pair.Upstream.NodeID()
		}
		if pair.Downstream != nil {
			downID = pair.Downstream.NodeID()
		}
		if _, err := s.db.Exec(`
			INSERT INTO pairs (id, transcribed_id, upstream_id, downstream_id)
			VALUES (?, ?, ?, ?)
		`, pair.NodeID(), t.NodeID(), upID, downID); err != nil {
			return fmt.Errorf("insert pair: %w", err)
		}
	}
	return nil
}

// LoadAll rebuilds every persisted locus into a fresh store, wiring records
// through the link protocol. Returns the populated sequence region.
func (s *DB) LoadAll() (*Memory, *annotation.SequenceInfo, error) {
	m := NewMemory()

	genome := &annotation.AnnotatedGenome{}
	m.Add(genome)
	si := &annotation.SequenceInfo{}
	m.Add(si)
	if err := genome.LinkTo(si); err != nil {
		return nil, nil, err
	}

	coords := make(map[string]*annotation.Coordinates)
	features := make(map[int64]*annotation.Feature)
	loci := make(map[int64]*annotation.SuperLocus)
	transcripts := make(map[int64]*annotation.Transcribed)
	pieces := make(map[int64]*annotation.TranscribedPiece)

	if err := s.loadLoci(m, si, coords, loci); err != nil {
		return nil, nil, err
	}
	if err := s.loadFeatures(m, coords, loci, features); err != nil {
		return nil, nil, err
	}
	if err := s.loadTranscribeds(m, loci, transcripts); err != nil {
		return nil, nil, err
	}
	if err := s.loadPieces(m, transcripts, pieces); err != nil {
		return nil, nil, err
	}
	if err := s.loadPieceFeatures(pieces, features); err != nil {
		return nil, nil, err
	}
	if err := s.loadPairs(m, transcripts, features); err != nil {
		return nil, nil, err
	}

	si.Coordinates = make([]*annotation.Coordinates, 0, len(coords))
	for _, c := range coords {
		si.Coordinates = append(si.Coordinates, c)
	}
	return m, si, nil
}

func (s *DB) loadLoci(m *Memory, si *annotation.SequenceInfo, coords map[string]*annotation.Coordinates, loci map[int64]*annotation.SuperLocus) error {
	rows, err := s.db.Query(`SELECT id, given_id, type, seqid, seq_start, seq_end FROM loci ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query loci: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		sl := &annotation.SuperLocus{}
		var id, seqStart, seqEnd int64
		var seqid string
		if err := rows.Scan(&id, &sl.GivenID, &sl.Type, &seqid, &seqStart, &seqEnd); err != nil {
			return fmt.Errorf("scan locus: %w", err)
		}
		sl.SetNodeID(id)
		if seqid != "" {
			if _, ok := coords[seqid]; !ok {
				coords[seqid] = &annotation.Coordinates{Seqid: seqid, Start: seqStart, End: seqEnd}
			}
		}
		m.Add(sl)
		if err := si.LinkTo(sl); err != nil {
			return err
		}
		loci[id] = sl
	}
	return rows.Err()
}

func (s *DB) loadFeatures(m *Memory, coords map[string]*annotation.Coordinates, loci map[int64]*annotation.SuperLocus, features map[int64]*annotation.Feature) error {
	rows, err := s.db.Query(`
		SELECT id, locus_id, given_id, type, bearing, stream,
		       seqid, start, end_, is_plus_strand, phase, score, source
		FROM features ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		f := &annotation.Feature{}
		var id, locusID int64
		var ftype, bearing, stream, seqid string
		var source sql.NullString
		if err := rows.Scan(&id, &locusID, &f.GivenID, &ftype, &bearing, &stream,
			&seqid, &f.Start, &f.End, &f.IsPlusStrand, &f.Phase, &f.Score, &source); err != nil {
			return fmt.Errorf("scan feature: %w", err)
		}
		f.SetNodeID(id)
		f.Type = annotation.FeatureType(ftype)
		f.Bearing = annotation.Bearing(bearing)
		f.Source = source.String
		switch stream {
		case "upstream":
			f.Stream = annotation.StreamUpstream
		case "downstream":
			f.Stream = annotation.StreamDownstream
		}
		if seqid != "" {
			if _, ok := coords[seqid]; !ok {
				coords[seqid] = &annotation.Coordinates{Seqid: seqid}
			}
			f.Coordinates = coords[seqid]
		}
		m.Add(f)
		if sl, ok := loci[locusID]; ok {
			if err := sl.LinkTo(f); err != nil {
				return err
			}
		}
		features[id] = f
	}
	return rows.Err()
}

func (s *DB) loadTranscribeds(m *Memory, loci map[int64]*annotation.SuperLocus, transcripts map[int64]*annotation.Transcribed) error {
	rows, err := s.db.Query(`SELECT id, locus_id, given_id, type FROM transcribeds ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t := &annotation.Transcribed{}
		var id, locusID int64
		if err := rows.Scan(&id, &locusID, &t.GivenID, &t.Type); err != nil {
			return fmt.Errorf("scan transcript: %w", err)
		}
		t.SetNodeID(id)
		m.Add(t)
		if sl, ok := loci[locusID]; ok {
			if err := sl.LinkTo(t); err != nil {
				return err
			}
		}
		transcripts[id] = t
	}
	return rows.Err()
}

func (s *DB) loadPieces(m *Memory, transcripts map[int64]*annotation.Transcribed, pieces map[int64]*annotation.TranscribedPiece) error {
	rows, err := s.db.Query(`SELECT id, transcribed_id, given_id FROM pieces ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query pieces: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := &annotation.TranscribedPiece{}
		var id, transcribedID int64
		if err := rows.Scan(&id, &transcribedID, &p.GivenID); err != nil {
			return fmt.Errorf("scan piece: %w", err)
		}
		p.SetNodeID(id)
		m.Add(p)
		if t, ok := transcripts[transcribedID]; ok {
			if err := t.LinkTo(p); err != nil {
				return err
			}
			if t.SuperLocus != nil {
				if err := p.LinkTo(t.SuperLocus); err != nil {
					return err
				}
			}
		}
		pieces[id] = p
	}
	return rows.Err()
}

func (s *DB) loadPieceFeatures(pieces map[int64]*annotation.TranscribedPiece, features map[int64]*annotation.Feature) error {
	rows, err := s.db.Query(`SELECT piece_id, feature_id FROM piece_features ORDER BY piece_id, ordinal`)
	if err != nil {
		return fmt.Errorf("query piece features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pieceID, featureID int64
		if err := rows.Scan(&pieceID, &featureID); err != nil {
			return fmt.Errorf("scan piece feature link: %w", err)
		}
		p, ok := pieces[pieceID]
		if !ok {
			return fmt.Errorf("piece feature link references unknown piece %d", pieceID)
		}
		f, ok := features[featureID]
		if !ok {
			return fmt.Errorf("piece feature link references unknown feature %d", featureID)
		}
		if err := p.LinkTo(f); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *DB) loadPairs(m *Memory, transcripts map[int64]*annotation.Transcribed, features map[int64]*annotation.Feature) error {
	rows, err := s.db.Query(`SELECT id, transcribed_id, upstream_id, downstream_id FROM pairs ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query pairs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		pair := &annotation.UpDownPair{}
		var id, transcribedID int64
		var upID, downID sql.NullInt64
		if err := rows.Scan(&id, &transcribedID, &upID, &downID); err != nil {
			return fmt.Errorf("scan pair: %w", err)
		}
		pair.SetNodeID(id)
		m.Add(pair)
		if t, ok := transcripts[transcribedID]; ok {
			if err := t.LinkTo(pair); err != nil {
				return err
			}
		}
		if upID.Valid {
			if f, ok := features[upID.Int64]; ok {
				if err := pair.LinkTo(f); err != nil {
					return err
				}
			}
		}
		if downID.Valid {
			if f, ok := features[downID.Int64]; ok {
				if err := pair.LinkTo(f); err != nil {
					return err
				}
			}
		}
	}
	return rows.Err()
}

// CommitDelete removes the swept records' rows. Features also lose their
// piece membership rows; transcripts lose their pieces and pairs.
func (s *DB) CommitDelete(nodes []annotation.Node) error {
	for _, n := range nodes {
		var err error
		switch n.Kind() {
		case annotation.KindFeature, annotation.KindUpstreamFeature, annotation.KindDownstreamFeature:
			if _, err = s.db.Exec(`DELETE FROM piece_features WHERE feature_id = ?`, n.NodeID()); err == nil {
				_, err = s.db.Exec(`DELETE FROM features WHERE id = ?`, n.NodeID())
			}
		case annotation.KindTranscribed:
			if _, err = s.db.Exec(`DELETE FROM pairs WHERE transcribed_id = ?`, n.NodeID()); err == nil {
				if _, err = s.db.Exec(`DELETE FROM pieces WHERE transcribed_id = ?`, n.NodeID()); err == nil {
					_, err = s.db.Exec(`DELETE FROM transcribeds WHERE id = ?`, n.NodeID())
				}
			}
		case annotation.KindTranslated:
			// Translations are not persisted separately; nothing to remove.
		case annotation.KindSuperLocus:
			_, err = s.db.Exec(`DELETE FROM loci WHERE id = ?`, n.NodeID())
		default:
			return fmt.Errorf("cannot commit deletion of %s", n.Kind())
		}
		if err != nil {
			return fmt.Errorf("commit delete of %s %d: %w", n.Kind(), n.NodeID(), err)
		}
	}
	return nil
}

// LocusCount returns the number of persisted loci.
func (s *DB) LocusCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM loci`).Scan(&count)
	return count, err
}

// FeatureCount returns the number of persisted features.
func (s *DB) FeatureCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM features`).Scan(&count)
	return count, err
}

// nullString returns nil for an empty string so it lands as NULL.
func nullString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

// IsDB reports whether a path looks like a DuckDB database file.
func IsDB(path string) bool {
	return strings.HasSuffix(path, ".duckdb") || strings.HasSuffix(path, ".db")
}
