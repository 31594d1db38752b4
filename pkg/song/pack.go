package song

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/haivivi/beatsmith/pkg/rhythm"
	"github.com/haivivi/beatsmith/pkg/storage"
)

// Save writes the pack into fs: the manifest, one level file per
// difficulty, and the audio and cover assets when set. It returns the
// paths written, in order.
func (s *Song) Save(ctx context.Context, fs storage.FileStore) ([]string, error) {
	paths := s.Paths()

	var written []string
	put := func(name string, v any) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("song: encode %s: %w", name, err)
		}
		if err := storage.WriteFile(ctx, fs, name, data); err != nil {
			return err
		}
		written = append(written, name)
		return nil
	}

	for _, d := range rhythm.Difficulties {
		l := s.Levels[d]
		if l == nil {
			return written, fmt.Errorf("song: missing %s level", d)
		}
		if err := put(paths.LevelPath(d), l); err != nil {
			return written, err
		}
	}
	if s.AudioFile != "" {
		if _, err := storage.CopyLocal(ctx, fs, paths.AudioPath(), s.AudioFile); err != nil {
			return written, fmt.Errorf("song: copy audio: %w", err)
		}
		written = append(written, paths.AudioPath())
	}
	if s.CoverFile != "" {
		if _, err := storage.CopyLocal(ctx, fs, paths.CoverImagePath(), s.CoverFile); err != nil {
			return written, fmt.Errorf("song: copy cover: %w", err)
		}
		written = append(written, paths.CoverImagePath())
	}
	// Manifest last: a pack with info.json is complete.
	if err := put(InfoPath, s.Info); err != nil {
		return written, err
	}
	return written, nil
}
