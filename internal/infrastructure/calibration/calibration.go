// Package calibration читает и пишет файл калибровки бланка.
//
// Формат повторяет запись калибровки: карта "config" со скалярными
// настройками, "rois_answers": список [y_top, y_bottom, x_left, x_right],
// "roi_id": то же для блока номера. YAML является надмножеством JSON, поэтому
// JSON-калибровка читается без изменений. Отсутствующие ключи берутся
// из entity.DefaultGeometry.
package calibration

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"omr-bot/internal/domain/entity"
)

type canvasDoc struct {
	Width   *int `yaml:"width,omitempty"`
	Height  *int `yaml:"height,omitempty"`
	Padding *int `yaml:"padding,omitempty"`
}

type settingsDoc struct {
	RowTopMargin    *float64 `yaml:"row_top_margin,omitempty"`
	RowBottomMargin *float64 `yaml:"row_bottom_margin,omitempty"`
	ColLeftMargin   *float64 `yaml:"col_left_margin,omitempty"`
	ColRightMargin  *float64 `yaml:"col_right_margin,omitempty"`
	RadiusScale     *float64 `yaml:"radius_scale,omitempty"`
	AbsMin          *float64 `yaml:"abs_min,omitempty"`
	Margin          *float64 `yaml:"margin,omitempty"`
	ZMin            *float64 `yaml:"z_min,omitempty"`
	RowShiftPx      *float64 `yaml:"row_shift_px,omitempty"`
	ColShiftPx      *float64 `yaml:"col_shift_px,omitempty"`
	ForcePick       *bool    `yaml:"force_pick,omitempty"`
	MarkBlanks      *bool    `yaml:"mark_blanks,omitempty"`
}

type claheDoc struct {
	ClipLimit *float64 `yaml:"clip_limit,omitempty"`
	TileGrid  *int     `yaml:"tile_grid,omitempty"`
}

type document struct {
	Canvas      *canvasDoc   `yaml:"canvas,omitempty"`
	Config      *settingsDoc `yaml:"config,omitempty"`
	CLAHE       *claheDoc    `yaml:"clahe,omitempty"`
	RoisAnswers [][]float64  `yaml:"rois_answers,omitempty"`
	RoiID       []float64    `yaml:"roi_id,omitempty"`
}

// Load читает калибровку из файла.
func Load(path string) (entity.GeometryConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.GeometryConfig{}, fmt.Errorf("open calibration: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return entity.GeometryConfig{}, fmt.Errorf("calibration %s: %w", path, err)
	}
	return cfg, nil
}

// Save записывает калибровку в файл.
func Save(path string, cfg entity.GeometryConfig) error {
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write calibration: %w", err)
	}
	return nil
}

// Decode разбирает калибровку поверх значений по умолчанию и проверяет результат.
func Decode(r io.Reader) (entity.GeometryConfig, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return entity.GeometryConfig{}, fmt.Errorf("decode calibration: %w", err)
	}

	cfg := entity.DefaultGeometry()
	if err := doc.apply(&cfg); err != nil {
		return entity.GeometryConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return entity.GeometryConfig{}, err
	}
	return cfg, nil
}

// Encode пишет все поля калибровки.
func Encode(w io.Writer, cfg entity.GeometryConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fromConfig(cfg)); err != nil {
		return fmt.Errorf("encode calibration: %w", err)
	}
	return enc.Close()
}

func (d document) apply(cfg *entity.GeometryConfig) error {
	if c := d.Canvas; c != nil {
		setInt(&cfg.CanvasWidth, c.Width)
		setInt(&cfg.CanvasHeight, c.Height)
		setInt(&cfg.Padding, c.Padding)
	}

	if s := d.Config; s != nil {
		setFloat(&cfg.Margins.RowTop, s.RowTopMargin)
		setFloat(&cfg.Margins.RowBottom, s.RowBottomMargin)
		setFloat(&cfg.Margins.ColLeft, s.ColLeftMargin)
		setFloat(&cfg.Margins.ColRight, s.ColRightMargin)
		setFloat(&cfg.RadiusScale, s.RadiusScale)
		setFloat(&cfg.Thresholds.AbsMin, s.AbsMin)
		setFloat(&cfg.Thresholds.Margin, s.Margin)
		setFloat(&cfg.Thresholds.ZMin, s.ZMin)
		setFloat(&cfg.RowShiftPx, s.RowShiftPx)
		setFloat(&cfg.ColShiftPx, s.ColShiftPx)
		if s.ForcePick != nil {
			cfg.ForcePick = *s.ForcePick
		}
		if s.MarkBlanks != nil {
			cfg.MarkBlanks = *s.MarkBlanks
		}
	}

	if c := d.CLAHE; c != nil {
		setFloat(&cfg.CLAHE.ClipLimit, c.ClipLimit)
		setInt(&cfg.CLAHE.TileGrid, c.TileGrid)
	}

	if d.RoisAnswers != nil {
		if len(d.RoisAnswers) != entity.AnswerRegionCount {
			return fmt.Errorf("%w: want %d answer regions, got %d",
				entity.ErrInvalidGeometry, entity.AnswerRegionCount, len(d.RoisAnswers))
		}
		for i, box := range d.RoisAnswers {
			r, err := toRegion(box)
			if err != nil {
				return fmt.Errorf("answer region %d: %w", i, err)
			}
			cfg.AnswerRegions[i] = r
		}
	}

	if d.RoiID != nil {
		r, err := toRegion(d.RoiID)
		if err != nil {
			return fmt.Errorf("id region: %w", err)
		}
		cfg.IDRegion = r
	}
	return nil
}

func fromConfig(cfg entity.GeometryConfig) document {
	rois := make([][]float64, 0, len(cfg.AnswerRegions))
	for _, r := range cfg.AnswerRegions {
		rois = append(rois, fromRegion(r))
	}

	return document{
		Canvas: &canvasDoc{
			Width:   &cfg.CanvasWidth,
			Height:  &cfg.CanvasHeight,
			Padding: &cfg.Padding,
		},
		Config: &settingsDoc{
			RowTopMargin:    &cfg.Margins.RowTop,
			RowBottomMargin: &cfg.Margins.RowBottom,
			ColLeftMargin:   &cfg.Margins.ColLeft,
			ColRightMargin:  &cfg.Margins.ColRight,
			RadiusScale:     &cfg.RadiusScale,
			AbsMin:          &cfg.Thresholds.AbsMin,
			Margin:          &cfg.Thresholds.Margin,
			ZMin:            &cfg.Thresholds.ZMin,
			RowShiftPx:      &cfg.RowShiftPx,
			ColShiftPx:      &cfg.ColShiftPx,
			ForcePick:       &cfg.ForcePick,
			MarkBlanks:      &cfg.MarkBlanks,
		},
		CLAHE: &claheDoc{
			ClipLimit: &cfg.CLAHE.ClipLimit,
			TileGrid:  &cfg.CLAHE.TileGrid,
		},
		RoisAnswers: rois,
		RoiID:       fromRegion(cfg.IDRegion),
	}
}

func toRegion(box []float64) (entity.Region, error) {
	if len(box) != 4 {
		return entity.Region{}, fmt.Errorf("%w: region needs 4 values, got %d", entity.ErrInvalidGeometry, len(box))
	}
	return entity.Region{Top: box[0], Bottom: box[1], Left: box[2], Right: box[3]}, nil
}

func fromRegion(r entity.Region) []float64 {
	return []float64{r.Top, r.Bottom, r.Left, r.Right}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
