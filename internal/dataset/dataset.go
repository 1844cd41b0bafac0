// Package dataset reads the historical routines CSV that seeds the exercise
// catalog.
package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/meltforce/gymplan/internal/routine"
)

// Row is one line of the routines dataset.
type Row struct {
	Line      int
	Gender    string
	Age       int
	WeightKg  float64
	HeightM   float64
	Goal      string
	BMR       float64
	Day       string
	Muscles   []string
	Exercises []string
	Reps      []int
	Sets      []int
}

// column aliases as they appear in exported datasets
var columnAliases = map[string]string{
	"genero":        "genero",
	"género":        "genero",
	"edad":          "edad",
	"peso":          "peso",
	"altura":        "altura",
	"objetivo":      "objetivo",
	"tmb":           "tmb",
	"dia":           "dia",
	"día":           "dia",
	"parte_musculo": "parte_musculo",
	"ejercicio":     "ejercicio",
	"repeticiones":  "repeticiones",
	"series":        "series",
}

var requiredColumns = []string{"genero", "objetivo", "parte_musculo", "ejercicio"}

// Parse reads every row of the dataset. Numeric profile columns that fail to
// parse are left zero; list cells that fail to parse are left empty.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canon, ok := columnAliases[name]; ok {
			idx[canon] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	cell := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		row := Row{
			Line:     line,
			Gender:   cell(rec, "genero"),
			Goal:     cell(rec, "objetivo"),
			Day:      cell(rec, "dia"),
			Age:      int(parseFloat(cell(rec, "edad"))),
			WeightKg: parseFloat(cell(rec, "peso")),
			HeightM:  parseFloat(cell(rec, "altura")),
			BMR:      parseFloat(cell(rec, "tmb")),
		}
		row.Muscles, _ = ParseList(cell(rec, "parte_musculo"))
		row.Exercises, _ = ParseList(cell(rec, "ejercicio"))
		row.Reps, _ = parseIntList(cell(rec, "repeticiones"))
		row.Sets, _ = parseIntList(cell(rec, "series"))
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseList decodes a list cell such as ['Push-ups', "Dips"] or [12, 10].
// A cell without brackets is a single item. Empty and "nan" cells are nil.
func ParseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") {
		return []string{s}, nil
	}
	if !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("unterminated list %q", s)
	}
	inner := []rune(s[1 : len(s)-1])

	var items []string
	for i := 0; i < len(inner); {
		switch c := inner[i]; {
		case c == ' ' || c == ',' || c == '\t':
			i++
		case c == '\'' || c == '"':
			var b strings.Builder
			i++
			closed := false
			for i < len(inner) {
				if inner[i] == '\\' && i+1 < len(inner) {
					b.WriteRune(inner[i+1])
					i += 2
					continue
				}
				if inner[i] == c {
					closed = true
					i++
					break
				}
				b.WriteRune(inner[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quote in %q", s)
			}
			items = append(items, b.String())
		default:
			start := i
			for i < len(inner) && inner[i] != ',' {
				i++
			}
			items = append(items, strings.TrimSpace(string(inner[start:i])))
		}
	}
	return items, nil
}

func parseIntList(s string) ([]int, error) {
	items, err := ParseList(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(items))
	for _, it := range items {
		f, err := strconv.ParseFloat(it, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", it, err)
		}
		out = append(out, int(f))
	}
	return out, nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// ConvertStats counts what ToCatalogRecords kept and dropped.
type ConvertStats struct {
	Rows           int `json:"rows"`
	Records        int `json:"records"`
	SkippedProfile int `json:"skipped_profile"`
	UnknownMuscles int `json:"unknown_muscles"`
}

// ToCatalogRecords maps dataset rows onto the engine vocabulary. Rows with an
// unknown gender or goal are skipped; unknown muscle names are dropped.
func ToCatalogRecords(rows []Row) ([]routine.CatalogRecord, ConvertStats) {
	stats := ConvertStats{Rows: len(rows)}
	records := make([]routine.CatalogRecord, 0, len(rows))
	for _, row := range rows {
		gender, err := routine.ParseGender(row.Gender)
		if err != nil {
			stats.SkippedProfile++
			continue
		}
		goal, err := routine.ParseGoal(row.Goal)
		if err != nil {
			stats.SkippedProfile++
			continue
		}
		rec := routine.CatalogRecord{
			Gender:    gender,
			Goal:      goal,
			Day:       row.Day,
			Exercises: row.Exercises,
			Reps:      row.Reps,
			Sets:      row.Sets,
		}
		for _, name := range row.Muscles {
			m, err := routine.ParseMuscleGroup(name)
			if err != nil {
				stats.UnknownMuscles++
				continue
			}
			rec.Muscles = append(rec.Muscles, m)
		}
		records = append(records, rec)
	}
	stats.Records = len(records)
	return records, stats
}

// FileSource loads catalog records from a CSV file on every call.
type FileSource struct {
	Path string
	Log  *slog.Logger
}

// LoadCatalogRecords implements the catalog refresh source.
func (f FileSource) LoadCatalogRecords(ctx context.Context) ([]routine.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, stats, err := LoadFile(f.Path)
	if err != nil {
		return nil, err
	}
	if f.Log != nil {
		f.Log.Debug("dataset loaded", "path", f.Path, "rows", stats.Rows, "records", stats.Records,
			"skipped", stats.SkippedProfile, "unknown_muscles", stats.UnknownMuscles)
	}
	return records, nil
}

// LoadFile parses and converts a dataset file.
func LoadFile(path string) ([]routine.CatalogRecord, ConvertStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ConvertStats{}, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, ConvertStats{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	records, stats := ToCatalogRecords(rows)
	return records, stats, nil
}

// HashFile computes the SHA-256 hash of a dataset file, used to tie imports
// and journaled plans to the dataset version they came from.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
