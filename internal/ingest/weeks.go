package ingest

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rosterlab/scout-cli/internal/model"
)

// Identity columns recognized in weekly stat files. Any other column is
// treated as a numeric metric keyed by its lowercased header name.
const (
	colPlayerID = "player_id"
	colName     = "name"
	colTeam     = "team"
	colPosition = "position"
	colSeason   = "season"
	colWeek     = "week"
	colAge      = "age"
)

// ReadWeeks parses a weekly stats CSV into PlayerWeek rows. The file must
// carry a header with at least player_id, name, position, and week columns.
// defaultSeason is used for rows without a season column. Rows with an
// unknown position or unparseable week are skipped with a warning rather
// than failing the whole import.
func ReadWeeks(ctx context.Context, r io.Reader, defaultSeason int) ([]model.PlayerWeek, error) {
	headerCh := make(chan []string, 1)
	rowCh, errCh := StreamCSV(ctx, r, CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	})

	var header []string
	select {
	case header = <-headerCh:
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
		return nil, eris.New("ingest: empty file")
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "ingest: context cancelled")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(h)] = i
	}
	for _, required := range []string{colPlayerID, colName, colPosition, colWeek} {
		if _, ok := cols[required]; !ok {
			return nil, eris.Errorf("ingest: missing required column %q", required)
		}
	}

	var weeks []model.PlayerWeek
	var skipped int
	line := 1
	for row := range rowCh {
		line++
		w, err := parseWeekRow(header, cols, row, defaultSeason)
		if err != nil {
			zap.L().Warn("skipping stat row",
				zap.Int("line", line),
				zap.Error(err))
			skipped++
			continue
		}
		weeks = append(weeks, w)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrap(err, "ingest: read weeks")
	}

	if skipped > 0 {
		zap.L().Info("import finished with skipped rows",
			zap.Int("imported", len(weeks)),
			zap.Int("skipped", skipped))
	}
	return weeks, nil
}

func parseWeekRow(header []string, cols map[string]int, row []string, defaultSeason int) (model.PlayerWeek, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	pos, err := model.ParsePosition(field(colPosition))
	if err != nil {
		return model.PlayerWeek{}, err
	}

	week, err := strconv.Atoi(field(colWeek))
	if err != nil {
		return model.PlayerWeek{}, eris.Errorf("ingest: bad week %q", field(colWeek))
	}

	w := model.PlayerWeek{
		PlayerID: field(colPlayerID),
		Name:     field(colName),
		Team:     field(colTeam),
		Position: pos,
		Season:   defaultSeason,
		Week:     week,
		Metrics:  make(map[string]float64),
	}
	if w.PlayerID == "" {
		return model.PlayerWeek{}, eris.New("ingest: empty player_id")
	}

	if s := field(colSeason); s != "" {
		season, err := strconv.Atoi(s)
		if err != nil {
			return model.PlayerWeek{}, eris.Errorf("ingest: bad season %q", s)
		}
		w.Season = season
	}
	if a := field(colAge); a != "" {
		age, err := strconv.Atoi(a)
		if err != nil {
			return model.PlayerWeek{}, eris.Errorf("ingest: bad age %q", a)
		}
		w.Age = age
	}

	identity := map[string]bool{
		colPlayerID: true, colName: true, colTeam: true, colPosition: true,
		colSeason: true, colWeek: true, colAge: true,
	}
	for i, h := range header {
		name := strings.ToLower(h)
		if identity[name] || i >= len(row) {
			continue
		}
		cell := row[i]
		if cell == "" || cell == "NA" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return model.PlayerWeek{}, eris.Errorf("ingest: bad value %q for metric %s", cell, name)
		}
		w.Metrics[name] = v
	}
	return w, nil
}
