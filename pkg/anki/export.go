package anki

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vocabforge/tg-anki-exporter/pkg/logger"
)

type Format string

const (
	FormatPackage Format = "apkg"
	FormatZip     Format = "zip"
	FormatTSV     Format = "tsv"
)

func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatPackage:
		return FormatPackage, nil
	case FormatZip:
		return FormatZip, nil
	case FormatTSV:
		return FormatTSV, nil
	default:
		return FormatPackage, fmt.Errorf("unknown export format %q", value)
	}
}

// Request is one export call: the cards, the deck to put them in, and the
// format to start the degradation chain from.
type Request struct {
	Cards         []Card
	DeckName      string
	Format        Format
	Tags          []string
	IncludeImages bool
	IncludeAudio  bool
}

// Artifact is the single downloadable file an export produces. Format may
// be a degraded one relative to what was requested.
type Artifact struct {
	RunID      string
	Filename   string
	Format     Format
	Data       []byte
	CardCount  int
	MediaCount int
}

// Exporter sequences row building and the three output formats, degrading
// package → zip → plain table. Each transition is one-directional; a failed
// stage is never retried.
type Exporter struct {
	Engine   EngineFactory
	Resolver *Resolver
	// Archive builds the zip-stage artifact. Defaults to BuildZip.
	Archive func(rows []Row, media []MediaFile) ([]byte, error)
	Clock   func() time.Time
}

func NewExporter(mediaTimeout time.Duration) *Exporter {
	return &Exporter{
		Engine:   SQLiteEngine,
		Resolver: NewResolver(mediaTimeout),
		Archive:  BuildZip,
		Clock:    time.Now,
	}
}

func (e *Exporter) Export(ctx context.Context, req Request) (*Artifact, error) {
	runID := uuid.NewString()
	artifact := &Artifact{RunID: runID, CardCount: len(req.Cards)}

	var rows []Row
	var media []MediaFile
	rowsBuilt := false
	buildRows := func() ([]Row, []MediaFile) {
		if !rowsBuilt {
			builder := NewRowBuilder(e.Resolver, RowOptions{
				IncludeImages: req.IncludeImages,
				IncludeAudio:  req.IncludeAudio,
			})
			rows, media = builder.Build(ctx, req.Cards)
			rowsBuilt = true
		}
		return rows, media
	}

	if req.Format == FormatPackage {
		data, mediaCount, err := e.buildPackage(ctx, req, buildRows)
		if err == nil {
			artifact.Format = FormatPackage
			artifact.Data = data
			artifact.MediaCount = mediaCount
			artifact.Filename = e.filename(req.DeckName, FormatPackage)
			return artifact, nil
		}
		logger.Warn("package export failed, falling back to zip", "run_id", runID, "error", err)
	}

	if req.Format == FormatPackage || req.Format == FormatZip {
		stageRows, stageMedia := buildRows()
		data, err := e.archive(stageRows, stageMedia)
		if err == nil {
			artifact.Format = FormatZip
			artifact.Data = data
			artifact.MediaCount = len(stageMedia)
			artifact.Filename = e.filename(req.DeckName, FormatZip)
			return artifact, nil
		}
		logger.Warn("zip export failed, falling back to plain table", "run_id", runID, "error", err)
	}

	// Terminal stage: plain table with inline images, no media packaging,
	// no binary dependencies.
	builder := NewRowBuilder(e.Resolver, RowOptions{
		Inline:        true,
		IncludeImages: req.IncludeImages,
		IncludeAudio:  req.IncludeAudio,
	})
	inlineRows, _ := builder.Build(ctx, req.Cards)
	artifact.Format = FormatTSV
	artifact.Data = BuildTSV(inlineRows)
	artifact.MediaCount = 0
	artifact.Filename = e.filename(req.DeckName, FormatTSV)
	return artifact, nil
}

func (e *Exporter) buildPackage(ctx context.Context, req Request, buildRows func() ([]Row, []MediaFile)) ([]byte, int, error) {
	tmpl := NewTemplate(req.DeckName, e.Clock())
	pb, err := NewPackageBuilder(e.Engine, tmpl)
	if err != nil {
		return nil, 0, err
	}
	defer pb.Close()

	rows, media := buildRows()
	for _, row := range rows {
		if err := pb.AddNote(row, req.Tags); err != nil {
			return nil, 0, err
		}
	}

	data, err := pb.Build(media)
	if err != nil {
		return nil, 0, err
	}
	return data, len(media), nil
}

func (e *Exporter) archive(rows []Row, media []MediaFile) ([]byte, error) {
	if e.Archive != nil {
		return e.Archive(rows, media)
	}
	return BuildZip(rows, media)
}

func (e *Exporter) filename(deckName string, format Format) string {
	return fmt.Sprintf("%s-%s.%s", Slugify(deckName), e.Clock().Format("20060102"), format)
}
