package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/internal/facedetect"
	"github.com/daverage/yt-thumb/internal/pipeline"
	"github.com/daverage/yt-thumb/internal/preset"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "Mon Jan 2 15:04:05"}
	log.Logger = zerolog.New(output).With().Caller().Timestamp().Logger()
}

func main() {
	pflag.String("input", "", "path to the input video file")
	pflag.String("out", "", "output directory for the manifest and images")
	pflag.String("preset", "", "path to a preset JSON file (see internal/preset)")
	pflag.String("cascades", "", "directory containing haarcascade_*.xml classifier files")
	pflag.Int("top", 5, "number of candidates to select")
	pflag.Int("neighbors", 2, "number of neighbor frames to fetch per candidate")
	pflag.Float64("rate", 0, "sample rate override in Hz (0 defers to the preset)")
	debug := pflag.Bool("debug", false, "sets log level to debug")
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		log.Panic().Msg(err.Error())
	}

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if viper.GetString("input") == "" {
		exitWithMessage("--input is required.")
	}
	if viper.GetString("out") == "" {
		exitWithMessage("--out is required.")
	}

	def, err := loadPreset(viper.GetString("preset"))
	if err != nil {
		exitWithMessage(err.Error())
	}

	bank, warnings := loadCascades(viper.GetString("cascades"))
	for _, w := range warnings {
		log.Warn().Msg(w)
	}

	opts := pipeline.SessionOptions{
		InputPath:     viper.GetString("input"),
		OutputDir:     viper.GetString("out"),
		Preset:        def,
		TopK:          viper.GetInt("top"),
		NeighborCount: viper.GetInt("neighbors"),
		SampleRateHz:  viper.GetFloat64("rate"),
	}

	bar := pb.New(0)
	bar.Start()
	reporter := &barReporter{bar: bar}

	session := pipeline.NewSession(opts, bank, reporter)
	runErr := session.Run()
	bar.Finish()
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("session failed")
	}
}

// barReporter adapts pipeline.ProgressReporter onto a cheggaaa/pb bar,
// logging once per stage transition (spec.md §4.9's stage sequence).
type barReporter struct {
	bar       *pb.ProgressBar
	lastStage pipeline.Stage
}

func (r *barReporter) Report(stage pipeline.Stage, processed, maximum int, detail string) {
	if stage != r.lastStage {
		log.Info().Str("stage", string(stage)).Msg(detail)
		r.lastStage = stage
	}
	if maximum > 0 {
		r.bar.SetTotal(maximum)
		r.bar.Set(processed)
	}
}

func loadPreset(path string) (preset.Definition, error) {
	if path == "" {
		return preset.Definition{
			Name:       "default",
			Thresholds: preset.Thresholds{SharpMin: 50, Lmin: 15, Lmax: 240},
		}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return preset.Definition{}, fmt.Errorf("reading preset %q: %w", path, err)
	}
	var def preset.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return preset.Definition{}, fmt.Errorf("parsing preset %q: %w", path, err)
	}
	return def, nil
}

func loadCascades(dir string) (*facedetect.Bank, []string) {
	if dir == "" {
		return facedetect.NewBank(facedetect.Classifiers{}), []string{"no --cascades directory configured, face detection disabled"}
	}

	var warnings []string
	classifiers := facedetect.Classifiers{
		Frontal:    loadCascade(filepath.Join(dir, "haarcascade_frontalface_default.xml"), &warnings),
		Profile:    loadCascade(filepath.Join(dir, "haarcascade_profileface.xml"), &warnings),
		EyeGlasses: loadCascade(filepath.Join(dir, "haarcascade_eye_tree_eyeglasses.xml"), &warnings),
		Smile:      loadCascade(filepath.Join(dir, "haarcascade_smile.xml"), &warnings),
	}
	return facedetect.NewBank(classifiers), warnings
}

func loadCascade(path string, warnings *[]string) *gocv.CascadeClassifier {
	if _, err := os.Stat(path); err != nil {
		*warnings = append(*warnings, fmt.Sprintf("cascade %s not found, skipping", path))
		return nil
	}
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		*warnings = append(*warnings, fmt.Sprintf("cascade %s failed to load, skipping", path))
		return nil
	}
	return &classifier
}

func exitWithMessage(message string) {
	fmt.Println(message)
	fmt.Println("Type ytthumb -h for a list of valid parameters and examples")
	os.Exit(2)
}
