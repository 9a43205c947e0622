package bot

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"oddeven_backend/internal/logger"
	"oddeven_backend/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AdminBot обрабатывает команды операторов через Telegram
type AdminBot struct {
	bot         *tgbotapi.BotAPI
	gameService *service.GameService
	adminIDs    []int64 // Telegram ID пользователей с правами оператора
	stopCh      chan struct{}
	wg          sync.WaitGroup
	log         *slog.Logger
}

// NewAdminBot создаёт нового админ бота
func NewAdminBot(token string, gameService *service.GameService, adminIDs []int64) (*AdminBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "admin_bot")
	log.Info("admin bot authorized", "username", bot.Self.UserName)

	return &AdminBot{
		bot:         bot,
		gameService: gameService,
		adminIDs:    adminIDs,
		stopCh:      make(chan struct{}),
		log:         log,
	}, nil
}

// Start запускает прослушивание команд
func (b *AdminBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			// Проверка является ли пользователь оператором
			if !b.isAdmin(update.Message.From.ID) {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop плавно останавливает бота
func (b *AdminBot) Stop() {
	b.log.Info("stopping admin bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	// Ожидание завершения обработчиков с таймаутом
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("admin bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("admin bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *AdminBot) isAdmin(userID int64) bool {
	for _, id := range b.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// handleCommand обрабатывает команды операторов
func (b *AdminBot) handleCommand(msg *tgbotapi.Message) {
	var response string

	switch msg.Command() {
	case "start", "help":
		response = b.helpMessage()

	case "stats":
		response = b.handleStats()

	case "game":
		response = b.handleGame(msg.CommandArguments())

	case "limits":
		response = b.handleLimits()

	default:
		response = "Неизвестная команда. Используйте /help для списка команд."
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ParseMode = "HTML"
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

func (b *AdminBot) helpMessage() string {
	return `<b>Команды оператора</b>

/stats - Статистика сервиса
/game &lt;id&gt; - Состояние конкретной игры
/limits - Текущие лимиты ставки`
}

func (b *AdminBot) handleStats() string {
	return fmt.Sprintf(`<b>Статистика сервиса</b>

Активных игр: %d
В эскроу всего: %d`,
		b.gameService.ActiveGamesCount(),
		b.gameService.TotalEscrowed(),
	)
}

func (b *AdminBot) handleGame(args string) string {
	if args == "" {
		return "Использование: /game <id>"
	}

	state, err := b.gameService.State(args)
	if err != nil {
		return fmt.Sprintf("Игра не найдена: %v", err)
	}

	return fmt.Sprintf(`<b>Игра %s</b>

Фаза: %v
Ставка: %v
Банк: %v
Победитель: %v`,
		args,
		state["phase"],
		state["stake"],
		state["total_wagered"],
		state["winner"],
	)
}

func (b *AdminBot) handleLimits() string {
	limits := b.gameService.GetLimits()
	return fmt.Sprintf(`<b>Лимиты ставки</b>

Минимум: %d
Максимум: %d`, limits.MinStake, limits.MaxStake)
}

// NotifyPayout уведомляет всех операторов о выплате банка победителю
func (b *AdminBot) NotifyPayout(gameID string, badgeID uint64, amount int64) {
	message := fmt.Sprintf(`<b>Выплата банка</b>

Игра: <code>%s</code>
Бейдж победителя: #%d
Сумма: %d`, gameID, badgeID, amount)

	for _, adminID := range b.adminIDs {
		msg := tgbotapi.NewMessage(adminID, message)
		msg.ParseMode = "HTML"
		if _, err := b.bot.Send(msg); err != nil {
			b.log.Error("не удалось уведомить оператора о выплате", "admin_id", adminID, "error", err)
		}
	}
}
