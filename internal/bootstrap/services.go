package bootstrap

import (
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/badge"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/catalog"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/certificate"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/completion"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/enrollment"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/learning"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/notification"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/progress"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/quiz"
	"github.com/mo-amir99/lms-progress-server-go/pkg/cache"
	"github.com/mo-amir99/lms-progress-server-go/pkg/clock"
	"github.com/mo-amir99/lms-progress-server-go/pkg/config"
	"github.com/mo-amir99/lms-progress-server-go/pkg/email"
)

// Deps are the infrastructure pieces the feature services are built on.
// Mailer and Emitter are optional.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Cache   cache.Client
	Mailer  *email.Client
	Emitter notification.Emitter
	Clock   clock.Clock
}

// Services holds the wired feature services shared by the HTTP server and the CLI.
type Services struct {
	Catalog      *catalog.Reader
	Completions  *completion.Store
	Enrollments  *enrollment.Store
	Progress     *progress.Service
	Quizzes      *quiz.Service
	Certificates *certificate.Issuer
	BadgeCatalog *badge.CachedCatalog
	Badges       *badge.Evaluator
	Learning     *learning.Service
	Notifier     notification.Notifier
}

// NewServices wires the pipeline.
func NewServices(deps Deps, logger *slog.Logger) *Services {
	cfg := deps.Config
	clk := deps.Clock
	if clk == nil {
		clk = clock.System{}
	}
	store := deps.Cache
	if store == nil {
		store = cache.NewMemoryCache()
	}

	reader := catalog.NewReader(deps.DB)
	completions := completion.NewStore(deps.DB, clk)
	enrollments := enrollment.NewStore(deps.DB)
	notifier := newNotifier(deps, logger)

	progressService := progress.NewService(reader, completions, enrollments,
		progress.Options{StoredFloor: cfg.Progress.StoredFloor}, logger)
	issuer := certificate.NewIssuer(deps.DB, reader, notifier, clk, logger)
	badgeCatalog := badge.NewCachedCatalog(badge.NewDBCatalog(deps.DB), store, cfg.Badges.CacheTTL, logger)
	evaluator := badge.NewEvaluator(deps.DB, badgeCatalog, enrollments, notifier, clk, logger)

	return &Services{
		Catalog:      reader,
		Completions:  completions,
		Enrollments:  enrollments,
		Progress:     progressService,
		Quizzes:      quiz.NewService(deps.DB, clk, logger),
		Certificates: issuer,
		BadgeCatalog: badgeCatalog,
		Badges:       evaluator,
		Learning: learning.NewService(learning.Deps{
			Catalog:      reader,
			Completions:  completions,
			Progress:     progressService,
			Enrollments:  enrollments,
			Certificates: issuer,
			Badges:       evaluator,
		}, logger),
		Notifier: notifier,
	}
}

func newNotifier(deps Deps, logger *slog.Logger) notification.Notifier {
	var channels []notification.Notifier

	if deps.Mailer != nil && deps.Mailer.Configured() {
		verifyURL := strings.TrimRight(deps.Config.Email.FrontendURL, "/") + "/certificates/verify"
		channels = append(channels, notification.NewEmailNotifier(
			notification.NewUserDirectory(deps.DB), deps.Mailer, verifyURL, logger))
	}
	if deps.Emitter != nil {
		channels = append(channels, notification.NewSocketNotifier(deps.Emitter, logger))
	}

	if len(channels) == 0 {
		logger.Warn("no notification channel configured; achievements will not be announced")
		return notification.Nop{}
	}
	return notification.NewMulti(logger, channels...)
}
