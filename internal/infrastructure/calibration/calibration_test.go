package calibration

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"omr-bot/internal/domain/entity"
)

// Запись калибровки в исходном JSON-виде.
const legacyJSON = `{
  "config": {
    "row_top_margin": 0.05,
    "row_bottom_margin": 0.07,
    "col_left_margin": 0.08,
    "col_right_margin": 0.08,
    "radius_scale": 0.39256198347107435,
    "abs_min": 0.02,
    "margin": 0.015,
    "z_min": 0.7,
    "row_shift_px": 2,
    "col_shift_px": -1,
    "force_pick": true,
    "mark_blanks": false
  },
  "rois_answers": [
    [0.558303886925795, 0.9063670411985019, 0.18815331010452963, 0.3763440860215054],
    [0.18374558303886926, 0.528957528957529, 0.43309859154929575, 0.6204379562043796],
    [0.558303886925795, 0.9073359073359073, 0.43661971830985913, 0.6167883211678832],
    [0.18374558303886926, 0.5328185328185329, 0.676056338028169, 0.8613138686131386],
    [0.56, 0.9073359073359073, 0.6725352112676056, 0.8613138686131386]
  ],
  "roi_id": [0.18021201413427562, 0.528957528957529, 0.18309859154929578, 0.38321167883211676]
}`

func TestDecode_LegacyJSON(t *testing.T) {
	cfg, err := Decode(strings.NewReader(legacyJSON))
	require.NoError(t, err)

	require.Equal(t, 0.05, cfg.Margins.RowTop)
	require.Equal(t, 0.07, cfg.Margins.RowBottom)
	require.Equal(t, entity.Thresholds{AbsMin: 0.02, Margin: 0.015, ZMin: 0.7}, cfg.Thresholds)
	require.Equal(t, 2.0, cfg.RowShiftPx)
	require.Equal(t, -1.0, cfg.ColShiftPx)
	require.True(t, cfg.ForcePick)
	require.False(t, cfg.MarkBlanks)
	require.Equal(t, 0.56, cfg.AnswerRegions[4].Top)
	require.Equal(t, entity.DefaultGeometry().IDRegion, cfg.IDRegion)

	// canvas и clahe не заданы: значения по умолчанию
	require.Equal(t, 1200, cfg.CanvasWidth)
	require.Equal(t, 8, cfg.CLAHE.TileGrid)
}

func TestDecode_EmptyGivesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, entity.DefaultGeometry(), cfg)
}

func TestDecode_PartialOverride(t *testing.T) {
	cfg, err := Decode(strings.NewReader("config:\n  z_min: 1.25\ncanvas:\n  padding: 60\n"))
	require.NoError(t, err)

	want := entity.DefaultGeometry()
	want.Thresholds.ZMin = 1.25
	want.Padding = 60
	require.Equal(t, want, cfg)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cfg := entity.DefaultGeometry()
	cfg.Thresholds = entity.Thresholds{AbsMin: 0.1234567890123456, Margin: 1.0 / 3.0, ZMin: 0.6000000000000001}
	cfg.ForcePick = true
	cfg.MarkBlanks = false
	cfg.RowShiftPx = -3.5
	cfg.AnswerRegions[1].Left = 0.4330985915492957

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cfg))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	cfg := entity.DefaultGeometry()
	cfg.CLAHE.ClipLimit = 3

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]string{
		"region count":  "rois_answers:\n  - [0.1, 0.2, 0.1, 0.2]\n",
		"region length": "roi_id: [0.1, 0.2, 0.3]\n",
		"invalid value": "config:\n  radius_scale: 0\n",
		"inverted":      "roi_id: [0.5, 0.2, 0.1, 0.3]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			require.ErrorIs(t, err, entity.ErrInvalidGeometry)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader("config: [1, 2"))
	require.Error(t, err)
}
