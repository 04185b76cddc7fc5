package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/hidayaapp/hidaya-backend/internal/logger"
	"github.com/hidayaapp/hidaya-backend/internal/services"
	"github.com/hidayaapp/hidaya-backend/internal/types"
)

// File is the on-disk seed format: the static lesson catalog plus sacred
// text verses, both optional.
type File struct {
	Lessons     []*types.Lesson     `json:"lessons"`
	SacredTexts []*types.SacredText `json:"sacred_texts"`
}

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// Result reports how many rows each table received; zero means the table
// already had data and was left alone.
type Result struct {
	Lessons     int
	SacredTexts int
}

// Run loads the catalog into an empty database. Each table is seeded only
// when it has no rows yet, so re-running against a live database is safe.
func Run(ctx context.Context, db *gorm.DB, log *logger.Logger, lessons services.LessonService, texts services.SacredTextService, f *File) (*Result, error) {
	out := &Result{}

	var lessonCount int64
	if err := db.WithContext(ctx).Model(&types.Lesson{}).Count(&lessonCount).Error; err != nil {
		return nil, err
	}
	if lessonCount > 0 {
		log.Info("Lessons already present, skipping", "existing", lessonCount)
	} else if len(f.Lessons) > 0 {
		created, err := lessons.CreateLessons(ctx, f.Lessons)
		if err != nil {
			return nil, err
		}
		out.Lessons = len(created)
		log.Info("Lessons seeded", "count", out.Lessons)
	}

	var textCount int64
	if err := db.WithContext(ctx).Model(&types.SacredText{}).Count(&textCount).Error; err != nil {
		return nil, err
	}
	if textCount > 0 {
		log.Info("Sacred texts already present, skipping", "existing", textCount)
	} else if len(f.SacredTexts) > 0 {
		imported, err := texts.Import(ctx, f.SacredTexts)
		if err != nil {
			return nil, err
		}
		out.SacredTexts = imported
		log.Info("Sacred texts seeded", "count", out.SacredTexts)
	}

	return out, nil
}
