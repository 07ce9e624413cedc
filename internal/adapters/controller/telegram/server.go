package telegram

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"AnonAskBot/internal/domain/repository"
	"AnonAskBot/internal/domain/service/access"
	answersvc "AnonAskBot/internal/domain/service/answer"
	"AnonAskBot/internal/domain/service/moderation"
	"AnonAskBot/internal/domain/service/notify"
	"AnonAskBot/internal/domain/service/profile"
	questionsvc "AnonAskBot/internal/domain/service/question"
	sessionsvc "AnonAskBot/internal/domain/service/session"
	subscriptionsvc "AnonAskBot/internal/domain/service/subscription"
	votesvc "AnonAskBot/internal/domain/service/vote"
	"AnonAskBot/internal/pkg/keymutex"
)

const answersPageSize = 5

type Runner struct {
	bot    *tgbot.Bot
	outbox *Outbox
	log    *zap.SugaredLogger
}

// messenger is the slice of the bot API the handlers reply through.
// *tgbot.Bot satisfies it; tests substitute a recording fake.
type messenger interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *tgbot.AnswerCallbackQueryParams) (bool, error)
}

type Controller struct {
	bot      messenger
	outbox   *Outbox
	users    repository.UserRepository
	access   *access.Service
	mod      *moderation.Service
	sessions *sessionsvc.Service
	question *questionsvc.Service
	answer   *answersvc.Service
	vote     *votesvc.Service
	subs     *subscriptionsvc.Service
	notify   *notify.Service
	profile  *profile.Service
	locks    *keymutex.KeyMutex
	log      *zap.SugaredLogger
}

type Deps struct {
	Users    repository.UserRepository
	Access   *access.Service
	Mod      *moderation.Service
	Sessions *sessionsvc.Service
	Question *questionsvc.Service
	Answer   *answersvc.Service
	Vote     *votesvc.Service
	Subs     *subscriptionsvc.Service
	Notify   *notify.Service
	Profile  *profile.Service
	Log      *zap.SugaredLogger
}

func New(token string, outbox *Outbox, deps Deps) (*Runner, error) {
	ctrl := &Controller{
		outbox:   outbox,
		users:    deps.Users,
		access:   deps.Access,
		mod:      deps.Mod,
		sessions: deps.Sessions,
		question: deps.Question,
		answer:   deps.Answer,
		vote:     deps.Vote,
		subs:     deps.Subs,
		notify:   deps.Notify,
		profile:  deps.Profile,
		locks:    keymutex.New(),
		log:      deps.Log,
	}

	b, err := tgbot.New(token, tgbot.WithDefaultHandler(ctrl.defaultHandler))
	if err != nil {
		return nil, err
	}
	ctrl.bot = b
	outbox.bind(b)

	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, ctrl.guard(ctrl.start))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/menu", tgbot.MatchTypeExact, ctrl.guard(ctrl.menu))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/ask", tgbot.MatchTypeExact, ctrl.guard(ctrl.ask))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/profile", tgbot.MatchTypeExact, ctrl.guard(ctrl.showProfile))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/top", tgbot.MatchTypeExact, ctrl.guard(ctrl.leaderboard))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/feedback", tgbot.MatchTypeExact, ctrl.guard(ctrl.feedback))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/cancel", tgbot.MatchTypeExact, ctrl.guard(ctrl.cancel))

	return &Runner{bot: b, outbox: outbox, log: deps.Log}, nil
}

func (r *Runner) Start(ctx context.Context) {
	if me, err := r.bot.GetMe(ctx); err != nil {
		r.log.Errorw("getMe failed, channel deep links will be broken", "error", err)
	} else {
		r.outbox.setUsername(me.Username)
	}
	r.log.Infow("telegram bot started")
	r.bot.Start(ctx)
}

func (c *Controller) defaultHandler(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
	switch {
	case upd.CallbackQuery != nil:
		c.guard(c.handleCallback)(ctx, b, upd)
	case upd.Message != nil && upd.Message.Text != "":
		c.guard(c.handleText)(ctx, b, upd)
	}
}

// guard serializes processing per user and makes sure the user record
// exists before any handler runs. Events from different users proceed in
// parallel; two messages from one user are handled in arrival order.
func (c *Controller) guard(next tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, upd *models.Update) {
		from, ok := updateFrom(upd)
		if !ok {
			return
		}
		c.locks.Lock(from.ID)
		defer c.locks.Unlock(from.ID)

		if _, err := c.users.Upsert(ctx, userFromTelegram(from)); err != nil {
			c.log.Errorw("user upsert failed", "user_id", from.ID, "error", err)
			c.sendText(ctx, chatIDOf(upd), msgTryAgain)
			return
		}
		next(ctx, b, upd)
	}
}
