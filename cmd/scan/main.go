// Command scan распознаёт один бланк из файла без Telegram.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"omr-bot/internal/domain/entity"
	"omr-bot/internal/infrastructure/calibration"
	"omr-bot/internal/infrastructure/keyfile"
	"omr-bot/internal/infrastructure/vision"
)

const (
	exitError           = 1
	exitMarkersNotFound = 2
)

type options struct {
	image           string
	key             string
	roster          string
	calibration     string
	dumpCalibration string
	items           int
	out             string
	json            bool
	verbose         bool
}

// report результат в формате -json
type report struct {
	Exam        string   `json:"exam,omitempty"`
	StudentID   string   `json:"student_id"`
	StudentName string   `json:"student_name,omitempty"`
	Answers     []string `json:"answers"`
	Score       *int     `json:"score,omitempty"`
	ActiveItems int      `json:"active_items"`
	Warnings    []string `json:"warnings,omitempty"`
}

func main() {
	var opts options
	flag.StringVar(&opts.image, "image", "", "path to the sheet photo (required)")
	flag.StringVar(&opts.key, "key", "", "answer key file")
	flag.StringVar(&opts.roster, "roster", "", "roster file")
	flag.StringVar(&opts.calibration, "calibration", "", "calibration file (YAML or JSON)")
	flag.StringVar(&opts.dumpCalibration, "dump-calibration", "", "write the effective calibration to this file and exit")
	flag.IntVar(&opts.items, "items", entity.MaxItems, "number of questions to grade (1..50)")
	flag.StringVar(&opts.out, "out", "", "where to write the annotated JPEG")
	flag.BoolVar(&opts.json, "json", false, "print the result as JSON")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Error().Err(err).Msg("scan failed")
		if errors.Is(err, entity.ErrMarkersNotFound) {
			os.Exit(exitMarkersNotFound)
		}
		os.Exit(exitError)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	geometry := entity.DefaultGeometry()
	if opts.calibration != "" {
		var err error
		if geometry, err = calibration.Load(opts.calibration); err != nil {
			return err
		}
	}
	if opts.dumpCalibration != "" {
		return calibration.Save(opts.dumpCalibration, geometry)
	}

	if opts.image == "" {
		return errors.New("-image is required")
	}
	if opts.items < 1 || opts.items > entity.MaxItems {
		return fmt.Errorf("-items must be in 1..%d, got %d", entity.MaxItems, opts.items)
	}

	var exam string
	var key entity.AnswerKey
	if opts.key != "" {
		var err error
		if exam, key, err = readFile(opts.key, keyfile.ParseAnswerKey); err != nil {
			return err
		}
	}
	var roster map[string]string
	if opts.roster != "" {
		var err error
		if _, roster, err = readFile(opts.roster, keyfile.ParseRoster); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(opts.image)
	if err != nil {
		return err
	}

	scanner := vision.NewSheetScanner(geometry)
	res, err := scanner.Scan(ctx, data, entity.ScanRequest{Key: key, ActiveItems: opts.items})
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := os.WriteFile(opts.out, res.Annotated, 0o644); err != nil {
			return err
		}
	}

	rep := newReport(exam, res, roster)
	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return printReport(stdout, rep)
}

func readFile[T any](path string, parse func(io.Reader) (string, T, error)) (string, T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return "", zero, err
	}
	defer f.Close()

	name, v, err := parse(f)
	if err != nil {
		return "", zero, fmt.Errorf("%s: %w", path, err)
	}
	return name, v, nil
}

func newReport(exam string, res *entity.ScanResult, roster map[string]string) report {
	rep := report{
		Exam:        exam,
		StudentID:   res.StudentID,
		StudentName: roster[res.StudentID],
		Answers:     make([]string, 0, res.ActiveItems),
		ActiveItems: res.ActiveItems,
		Warnings:    res.Warnings,
	}
	for i, a := range res.Answers {
		if i >= res.ActiveItems {
			break
		}
		rep.Answers = append(rep.Answers, a.String())
	}
	if res.Graded {
		score := res.Score
		rep.Score = &score
	}
	return rep
}

func printReport(w io.Writer, rep report) error {
	if rep.Exam != "" {
		fmt.Fprintf(w, "exam:    %s\n", rep.Exam)
	}
	fmt.Fprintf(w, "student: %s", rep.StudentID)
	if rep.StudentName != "" {
		fmt.Fprintf(w, " (%s)", rep.StudentName)
	}
	fmt.Fprintln(w)
	if rep.Score != nil {
		fmt.Fprintf(w, "score:   %d/%d\n", *rep.Score, rep.ActiveItems)
	}
	for i, a := range rep.Answers {
		fmt.Fprintf(w, "%2d: %s\n", i+1, a)
	}
	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}
