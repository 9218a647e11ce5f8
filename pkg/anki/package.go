package anki

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	// CollectionFileName is the database's path inside the package archive.
	CollectionFileName = "collection.anki2"
	// MediaIndexName maps stringified ordinals to the real filenames.
	MediaIndexName = "media"

	// fieldSeparator joins note fields inside a single column, per the
	// package format.
	fieldSeparator = "\x1f"

	collectionVersion = 11
)

// EngineFactory returns a ready database engine for the collection file, or
// an error the orchestrator's degradation policy reacts to.
type EngineFactory func(path string) (*gorm.DB, error)

// SQLiteEngine is the production factory.
func SQLiteEngine(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Discard})
}

type noteRow struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	GUID      string `gorm:"column:guid"`
	ModelID   int64  `gorm:"column:mid"`
	Modified  int64  `gorm:"column:mod"`
	USN       int    `gorm:"column:usn"`
	Tags      string `gorm:"column:tags"`
	Fields    string `gorm:"column:flds"`
	SortField string `gorm:"column:sfld"`
	Checksum  int64  `gorm:"column:csum"`
	Flags     int    `gorm:"column:flags"`
	Data      string `gorm:"column:data"`
}

func (noteRow) TableName() string { return "notes" }

type cardRow struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	NoteID   int64  `gorm:"column:nid"`
	DeckID   int64  `gorm:"column:did"`
	Ordinal  int    `gorm:"column:ord"`
	Modified int64  `gorm:"column:mod"`
	USN      int    `gorm:"column:usn"`
	Type     int    `gorm:"column:type"`
	Queue    int    `gorm:"column:queue"`
	Due      int    `gorm:"column:due"`
	Interval int    `gorm:"column:ivl"`
	Factor   int    `gorm:"column:factor"`
	Reps     int    `gorm:"column:reps"`
	Lapses   int    `gorm:"column:lapses"`
	Left     int    `gorm:"column:left"`
	ODue     int    `gorm:"column:odue"`
	ODeckID  int64  `gorm:"column:odid"`
	Flags    int    `gorm:"column:flags"`
	Data     string `gorm:"column:data"`
}

func (cardRow) TableName() string { return "cards" }

// PackageBuilder owns one collection database for the lifetime of one
// export call: it seeds the schema, inserts a note and a card per row, and
// serializes everything into the package archive.
type PackageBuilder struct {
	db       *gorm.DB
	path     string
	tmpl     *Template
	counters map[string]int64
	due      int
}

func NewPackageBuilder(factory EngineFactory, tmpl *Template) (*PackageBuilder, error) {
	path := filepath.Join(os.TempDir(), "collection-"+uuid.NewString()+".anki2")
	gdb, err := factory(path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("%w: %v", ErrEngineInit, err)
	}

	p := &PackageBuilder{
		db:       gdb,
		path:     path,
		tmpl:     tmpl,
		counters: make(map[string]int64),
	}
	if err := p.initSchema(); err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: %v", ErrEngineInit, err)
	}
	return p, nil
}

func (p *PackageBuilder) initSchema() error {
	for _, stmt := range schemaStatements {
		if err := p.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("executing schema statement: %v", err)
		}
	}

	conf, err := p.tmpl.ConfJSON()
	if err != nil {
		return err
	}
	models, err := p.tmpl.ModelsJSON()
	if err != nil {
		return err
	}
	decks, err := p.tmpl.DecksJSON()
	if err != nil {
		return err
	}
	dconf, err := p.tmpl.DConfJSON()
	if err != nil {
		return err
	}

	created := p.tmpl.Created
	err = p.db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		created.Unix(), created.UnixMilli(), created.UnixMilli(), collectionVersion,
		conf, models, decks, dconf,
	).Error
	if err != nil {
		return fmt.Errorf("inserting collection row: %v", err)
	}
	return nil
}

// AddNote inserts one note and its single card. The note GUID and checksum
// are derived from the content so re-imports dedup instead of duplicating.
func (p *PackageBuilder) AddNote(row Row, tags []string) error {
	noteID, err := p.nextID("notes")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}

	now := time.Now().Unix()
	note := noteRow{
		ID:        noteID,
		GUID:      Digest(strconv.FormatInt(p.tmpl.DeckID, 10) + row.Front + row.Back),
		ModelID:   p.tmpl.ModelID,
		Modified:  now,
		USN:       -1,
		Tags:      joinTags(tags),
		Fields:    row.Front + fieldSeparator + row.Back,
		SortField: row.Front,
		Checksum:  int64(Checksum(row.Front + fieldSeparator + row.Back)),
		Data:      "",
	}
	if err := p.db.Create(&note).Error; err != nil {
		return fmt.Errorf("%w: inserting note: %v", ErrSerialize, err)
	}

	cardID, err := p.nextID("cards")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	p.due++
	card := cardRow{
		ID:       cardID,
		NoteID:   noteID,
		DeckID:   p.tmpl.DeckID,
		Ordinal:  0,
		Modified: now,
		USN:      -1,
		Due:      p.due,
		Data:     "",
	}
	if err := p.db.Create(&card).Error; err != nil {
		return fmt.Errorf("%w: inserting card: %v", ErrSerialize, err)
	}
	return nil
}

// nextID hands out strictly increasing identifiers per table. The counter
// seeds once per run from the wall clock and is advanced past any existing
// maximum, so identifiers stay unique across repeated runs against the same
// session.
func (p *PackageBuilder) nextID(table string) (int64, error) {
	counter, ok := p.counters[table]
	if !ok {
		var query string
		switch table {
		case "notes":
			query = "SELECT MAX(id) FROM notes"
		case "cards":
			query = "SELECT MAX(id) FROM cards"
		default:
			return 0, fmt.Errorf("no identifier sequence for table %q", table)
		}

		var maxID *int64
		if err := p.db.Raw(query).Scan(&maxID).Error; err != nil {
			return 0, fmt.Errorf("reading max id for %s: %v", table, err)
		}
		counter = time.Now().UnixMilli()
		if maxID != nil && *maxID >= counter {
			counter = *maxID + 1
		}
	}
	p.counters[table] = counter + 1
	return counter, nil
}

// Build serializes the database and media into the package archive. The
// media index maps each asset's registration ordinal to its filename; the
// bytes are stored under the ordinal itself.
func (p *PackageBuilder) Build(media []MediaFile) ([]byte, error) {
	if p.db == nil {
		return nil, fmt.Errorf("%w: collection already closed", ErrSerialize)
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: accessing collection database: %v", ErrSerialize, err)
	}
	if err := sqlDB.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing collection database: %v", ErrSerialize, err)
	}
	p.db = nil

	dbBytes, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading collection file: %v", ErrSerialize, err)
	}

	index := make(map[string]string, len(media))
	for i, file := range media {
		index[strconv.Itoa(i)] = file.Name
	}
	indexBytes, err := json.Marshal(index)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding media index: %v", ErrSerialize, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []MediaFile{
		{Name: CollectionFileName, Data: dbBytes},
		{Name: MediaIndexName, Data: indexBytes},
	}
	for i, file := range media {
		entries = append(entries, MediaFile{Name: strconv.Itoa(i), Data: file.Data})
	}
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", ErrSerialize, entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("%w: writing %s: %v", ErrSerialize, entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing package: %v", ErrSerialize, err)
	}
	return buf.Bytes(), nil
}

// Close releases the database and removes the temp file. Safe to call after
// Build or a failed construction.
func (p *PackageBuilder) Close() {
	if p.db != nil {
		if sqlDB, err := p.db.DB(); err == nil {
			sqlDB.Close()
		}
		p.db = nil
	}
	if p.path != "" {
		os.Remove(p.path)
		p.path = ""
	}
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	joined := ""
	for _, tag := range tags {
		joined += " " + tag
	}
	return joined + " "
}
