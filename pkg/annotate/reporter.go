package annotate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/DrSkyle/lineblame/pkg/blame"
	"github.com/DrSkyle/lineblame/pkg/cache"
	"github.com/DrSkyle/lineblame/pkg/editor"
)

// outsideRepository matches git's complaint about a path that lives outside
// the repository it was run from.
var outsideRepository = regexp.MustCompile(`(?i)outside repository`)

// Reporter routes fetch failures to the user.
type Reporter struct {
	shown  *cache.ShownErrors
	logger *slog.Logger
}

func NewReporter(shown *cache.ShownErrors, logger *slog.Logger) *Reporter {
	if shown == nil {
		shown = cache.NewShownErrors()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{shown: shown, logger: logger}
}

// Report surfaces err according to its kind:
//   - FileMissing is silent.
//   - ToolNotInstalled is shown every time.
//   - NotARepository switches the status indicator and is shown once per
//     session, unless git says the path is outside the repository.
//   - anything else is shown with git's message appended.
//
// A caller giving up on its own request is not an error.
func (r *Reporter) Report(h editor.Host, err error) {
	if errors.Is(err, context.Canceled) {
		r.logger.Debug("Blame abandoned", "error", err)
		return
	}

	var fe *blame.FetchError
	if !errors.As(err, &fe) {
		r.logger.Error("Blame failed", "error", err)
		h.Notifier().Error("git blame failed: " + err.Error())
		return
	}

	log := r.logger.With("path", fe.Path, "kind", fe.Kind.String())

	switch fe.Kind {
	case blame.KindFileMissing:
		log.Debug("Skipping blame for missing file")

	case blame.KindToolNotInstalled:
		log.Warn("Git not available", "detail", fe.Detail())
		h.Notifier().Error("Git is not installed or not on PATH. Install git to see blame annotations.")

	case blame.KindNotARepository:
		ShowNotRepository(h.Status())
		if outsideRepository.MatchString(fe.Detail()) {
			log.Debug("Path outside repository", "detail", fe.Detail())
			return
		}
		if r.shown.MarkShown(blame.KindNotARepository) {
			h.Notifier().Warning(fmt.Sprintf("%s is not inside a git repository.", filepath.Base(fe.Path)))
		}

	default:
		log.Error("Blame query failed", "detail", fe.Detail())
		h.Notifier().Error("git blame failed: " + fe.Detail())
	}
}
