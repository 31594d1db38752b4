package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/haivivi/beatsmith/pkg/analysis"
	"github.com/haivivi/beatsmith/pkg/cli"
	"github.com/haivivi/beatsmith/pkg/level"
	"github.com/haivivi/beatsmith/pkg/rhythm"
	"github.com/haivivi/beatsmith/pkg/song"
	"github.com/haivivi/beatsmith/pkg/storage"
)

// DefaultSkillLevel applies when neither a flag nor the context sets one.
const DefaultSkillLevel = 0.5

var (
	genFile     string
	genID       string
	genName     string
	genSubName  string
	genAuthor   string
	genSkill    float64
	genSeed     uint64
	genParallel bool
	genAudio    string
	genCover    string
	genOutput   string
	genEnv      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a level pack",
	Long: `Generate one level per difficulty from a detector document and save
the pack (level files, manifest, audio and cover) to a directory or S3.

The document comes from a file (-f, "-" for stdin) or from the analysis
library (--id). Without -o, the pack goes to a directory named after the
song, under the context's output location or the working directory.

Examples:
  beatsmith generate -f track.yaml --name "My Track" --author me
  beatsmith generate --id 0b6f... --skill 0.9 --seed 7 -o s3://levels/my-track
  beatsmith generate -f track.json --audio track.ogg --cover art.jpg --parallel`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genFile, "file", "f", "", "detector document (YAML or JSON, - for stdin)")
	f.StringVar(&genID, "id", "", "analysis library record ID")
	f.StringVar(&genName, "name", "", "song name (default: document name)")
	f.StringVar(&genSubName, "sub-name", "", "song subtitle")
	f.StringVar(&genAuthor, "author", "", "level author")
	f.Float64Var(&genSkill, "skill", DefaultSkillLevel, "skill level in [0, 1]; higher allows denser notes")
	f.Uint64Var(&genSeed, "seed", 0, "random seed for note attributes (default: random)")
	f.BoolVar(&genParallel, "parallel", false, "generate difficulties concurrently")
	f.StringVar(&genAudio, "audio", "", "audio file to copy into the pack")
	f.StringVar(&genCover, "cover", "", "cover image to copy into the pack")
	f.StringVarP(&genOutput, "output", "o", "", "pack directory or s3://bucket/prefix")
	f.StringVar(&genEnv, "environment", "", "environment name written to the manifest")
	generateCmd.MarkFlagsMutuallyExclusive("file", "id")
	generateCmd.MarkFlagsOneRequired("file", "id")

	rootCmd.AddCommand(generateCmd)
}

// generateResult is the machine-readable result of generate.
type generateResult struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	Seed    uint64         `json:"seed" yaml:"seed"`
	Skill   float64        `json:"skill_level" yaml:"skill_level"`
	Output  string         `json:"output" yaml:"output"`
	Files   []string       `json:"files" yaml:"files"`
	Levels  []levelSummary `json:"levels" yaml:"levels"`
	Elapsed string         `json:"elapsed" yaml:"elapsed"`
}

type levelSummary struct {
	Difficulty  rhythm.Difficulty `json:"difficulty" yaml:"difficulty"`
	level.Stats `yaml:",inline"`
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	format, err := getFormat()
	if err != nil {
		return err
	}
	_, settings, err := getContext()
	if err != nil {
		return err
	}

	doc, docName, err := loadDocument(cmd.Context())
	if err != nil {
		return err
	}
	meta, err := doc.Metadata()
	if err != nil {
		return err
	}

	name := genName
	if name == "" {
		name = docName
	}
	opts := song.Options{
		SkillLevel:  DefaultSkillLevel,
		Parallel:    genParallel || settings.Parallel,
		Environment: settings.Environment,
		Logger:      slog.Default(),
	}
	if cmd.Flags().Changed("skill") {
		opts.SkillLevel = genSkill
	} else if settings.SkillLevel != nil {
		opts.SkillLevel = *settings.SkillLevel
	}
	if genEnv != "" {
		opts.Environment = genEnv
	}
	req := song.Request{
		Name:      name,
		SubName:   genSubName,
		Author:    genAuthor,
		Metadata:  meta,
		Seed:      settings.Seed,
		AudioFile: genAudio,
		CoverFile: genCover,
	}
	if cmd.Flags().Changed("seed") {
		req.Seed = &genSeed
	}

	target, err := outputTarget(settings, name)
	if err != nil {
		return err
	}

	start := time.Now()
	gen, err := song.NewGenerator(opts)
	if err != nil {
		return err
	}
	s, err := gen.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	fs, err := storage.Open(target, settings.S3Config())
	if err != nil {
		return err
	}
	files, err := s.Save(cmd.Context(), fs)
	if err != nil {
		return err
	}
	slog.Debug("pack saved", "output", target, "files", len(files))

	result := generateResult{
		ID:      s.ID.String(),
		Name:    name,
		Seed:    s.Seed,
		Skill:   opts.SkillLevel,
		Output:  target.String(),
		Files:   files,
		Elapsed: cli.FormatElapsed(time.Since(start)),
	}
	for _, d := range rhythm.Difficulties {
		result.Levels = append(result.Levels, levelSummary{Difficulty: d, Stats: s.Level(d).Stats()})
	}

	if format != cli.FormatText {
		return output(result)
	}
	fmt.Print(renderGenerate(result, meta))
	return nil
}

func renderGenerate(r generateResult, meta *rhythm.AudioMetadata) string {
	fields := []cli.Field{
		{Label: "Tempo", Value: fmt.Sprintf("%g bpm, %d beats per bar", meta.BeatsPerMinute, meta.BeatsPerBar)},
		{Label: "Beats", Value: strconv.Itoa(len(meta.Beats))},
	}
	if meta.Length > 0 {
		fields = append(fields, cli.Field{Label: "Length", Value: cli.FormatDuration(meta.Length)})
	}
	fields = append(fields,
		cli.Field{Label: "Skill", Value: strconv.FormatFloat(r.Skill, 'g', -1, 64)},
		cli.Field{Label: "Seed", Value: strconv.FormatUint(r.Seed, 10)},
		cli.Field{Label: "Output", Value: r.Output},
	)
	sum := cli.Summary{
		Styles:  cli.NewStyles(cli.DefaultTheme),
		Title:   r.Name,
		Fields:  fields,
		Headers: []string{"Difficulty", "Notes", "Left", "Right", "Notes/bar"},
		Footer:  fmt.Sprintf("%d files written in %s", len(r.Files), r.Elapsed),
	}
	for _, l := range r.Levels {
		sum.Rows = append(sum.Rows, []string{
			l.Difficulty.String(),
			strconv.Itoa(l.Notes),
			strconv.Itoa(l.LeftHand),
			strconv.Itoa(l.RightHand),
			strconv.FormatFloat(l.NotesPerBar, 'f', 2, 64),
		})
	}
	return sum.Render()
}

// loadDocument reads the document named by -f or --id and returns it with
// a fallback song name.
func loadDocument(ctx context.Context) (*analysis.Document, string, error) {
	if genID != "" {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return nil, "", err
		}
		defer closeLib()
		r, err := lib.Get(ctx, genID)
		if err != nil {
			return nil, "", fmt.Errorf("analysis %s: %w", genID, err)
		}
		name := r.Name
		if name == "" {
			name = r.ID
		}
		return r.Document, name, nil
	}

	doc, err := readDocument(genFile)
	if err != nil {
		return nil, "", err
	}
	name := doc.Name
	if name == "" && genFile != cli.Stdin {
		name = strings.TrimSuffix(filepath.Base(genFile), filepath.Ext(genFile))
	}
	return doc, name, nil
}

// readDocument parses a detector document from a file or stdin.
func readDocument(path string) (*analysis.Document, error) {
	if path != cli.Stdin {
		return analysis.Load(path)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return analysis.Parse(data, "")
}

// outputTarget picks the pack location: -o as given, else a directory
// named after the song under the context output (or the working directory).
func outputTarget(settings *cli.Context, name string) (storage.Target, error) {
	if genOutput != "" {
		return storage.ParseTarget(genOutput)
	}
	root := storage.Target{Dir: "."}
	if settings.Output != "" {
		t, err := storage.ParseTarget(settings.Output)
		if err != nil {
			return storage.Target{}, err
		}
		root = t
	}
	return root.Join(packDirName(name)), nil
}

// packDirName turns a song name into a safe directory name.
func packDirName(name string) string {
	dir := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			return r
		case unicode.IsSpace(r):
			return '-'
		}
		return -1
	}, name)
	dir = strings.Trim(dir, ".-")
	if dir == "" {
		return "pack"
	}
	return dir
}
