package song

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/beatsmith/pkg/level"
	"github.com/haivivi/beatsmith/pkg/rhythm"
)

// Options configures a Generator.
type Options struct {
	// SkillLevel in [0, 1]; 0 generates the sparsest levels.
	SkillLevel float64

	// Spacing overrides the difficulty multiplier table. Nil uses the default.
	Spacing *rhythm.SpacingPolicy

	// Parallel generates the difficulties concurrently.
	Parallel bool

	// Environment is written to the manifest. Default DefaultEnvironment.
	Environment string

	// Logger receives progress records. Nil uses slog.Default().
	Logger *slog.Logger
}

// Request describes one song to generate.
type Request struct {
	Name     string
	SubName  string
	Author   string
	Metadata *rhythm.AudioMetadata

	// Seed for note attributes. Nil picks a random seed; the one used is
	// recorded in Song.Seed.
	Seed *uint64

	// Paths names the pack files. Nil uses LayoutFor(AudioFile, CoverFile).
	Paths PathNamer

	AudioFile string
	CoverFile string
}

// Generator runs the scheduler for every difficulty and assembles the pack.
type Generator struct {
	sched    *rhythm.Scheduler
	parallel bool
	env      string
	logger   *slog.Logger
}

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts Options) (*Generator, error) {
	sched, err := rhythm.NewScheduler(opts.Spacing, opts.SkillLevel)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		sched:    sched,
		parallel: opts.Parallel,
		env:      opts.Environment,
		logger:   opts.Logger,
	}
	if g.env == "" {
		g.env = DefaultEnvironment
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g, nil
}

// Generate builds one level per difficulty in rhythm.Difficulties order.
// Each difficulty gets its own random stream derived from the seed, so the
// sequential and parallel modes produce identical songs.
//
// Cancellation is checked before each difficulty starts.
func (g *Generator) Generate(ctx context.Context, req Request) (*Song, error) {
	if req.Metadata == nil {
		return nil, fmt.Errorf("song: %w: nil metadata", rhythm.ErrInvalidArgument)
	}
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	paths := req.Paths
	if paths == nil {
		paths = LayoutFor(req.AudioFile, req.CoverFile)
	}

	start := time.Now()
	levels := make([]*level.Instructions, len(rhythm.Difficulties))
	errs := make([]error, len(rhythm.Difficulties))

	if g.parallel {
		var wg sync.WaitGroup
		for i, d := range rhythm.Difficulties {
			wg.Add(1)
			go func() {
				defer wg.Done()
				levels[i], errs[i] = g.generateLevel(ctx, req.Metadata, d, seed)
			}()
		}
		wg.Wait()
	} else {
		for i, d := range rhythm.Difficulties {
			levels[i], errs[i] = g.generateLevel(ctx, req.Metadata, d, seed)
			if errs[i] != nil {
				break
			}
		}
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("song: generate %s: %w", rhythm.Difficulties[i], err)
		}
	}

	s := &Song{
		ID:        uuid.New(),
		Seed:      seed,
		Levels:    make(map[rhythm.Difficulty]*level.Instructions, len(levels)),
		AudioFile: req.AudioFile,
		CoverFile: req.CoverFile,
		paths:     paths,
	}
	for i, d := range rhythm.Difficulties {
		s.Levels[d] = levels[i]
	}
	s.Info = g.manifest(req, paths)

	g.logger.Info("song generated",
		"id", s.ID,
		"name", req.Name,
		"seed", seed,
		"beats", len(req.Metadata.Beats),
		"elapsed", time.Since(start))
	return s, nil
}

func (g *Generator) generateLevel(ctx context.Context, meta *rhythm.AudioMetadata, d rhythm.Difficulty, seed uint64) (*level.Instructions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notes, err := g.sched.Schedule(meta, d, rhythm.NewRand(seed, d))
	if err != nil {
		return nil, err
	}
	g.logger.Debug("level scheduled",
		"difficulty", d,
		"beats", len(meta.Beats),
		"notes", len(notes))
	return level.Assemble(meta, notes), nil
}

func (g *Generator) manifest(req Request, paths PathNamer) *Info {
	info := &Info{
		SongName:         req.Name,
		SongSubName:      req.SubName,
		AuthorName:       req.Author,
		BeatsPerMinute:   req.Metadata.BeatsPerMinute,
		PreviewStartTime: 0,
		PreviewDuration:  0,
		CoverImagePath:   paths.CoverImagePath(),
		EnvironmentName:  g.env,
		DifficultyLevels: make([]DifficultyLevel, 0, len(rhythm.Difficulties)),
	}
	for _, d := range rhythm.Difficulties {
		info.DifficultyLevels = append(info.DifficultyLevels, DifficultyLevel{
			Difficulty: d,
			AudioPath:  paths.AudioPath(),
			JSONPath:   paths.LevelPath(d),
		})
	}
	return info
}
