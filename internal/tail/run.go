package tail

import (
	"context"
	"os"

	"github.com/rileyhilliard/vdash/internal/feed"
	"github.com/rileyhilliard/vdash/internal/logger"
)

// Source is the part of a session tail drives.
type Source interface {
	Activate()
	Deactivate()
	LivenessHint()
	Stats() feed.Stats
}

// Run activates src and prints updates until ctx is done or a stop signal
// arrives. Resume signals are liveness hints. The session is always
// deactivated before Run returns.
func Run(ctx context.Context, src Source, updates <-chan feed.Update, p *Printer, signals <-chan os.Signal, log logger.Logger) error {
	if log == nil {
		log = logger.Default()
	}

	src.Activate()
	defer src.Deactivate()

	for {
		select {
		case <-ctx.Done():
			return nil

		case sig := <-signals:
			if isResume(sig) {
				log.Debug("%s: liveness hint", sig)
				src.LivenessHint()
				continue
			}
			log.Debug("%s: stopping", sig)
			return nil

		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := p.Print(u, src.Stats()); err != nil {
				return err
			}
		}
	}
}
