package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/fnhub/internal/charts"
	"github.com/ivanoskov/fnhub/internal/format"
	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/ivanoskov/fnhub/internal/service"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	historyLimit = 10
	chartWorkers = 2
)

// sender часть tgbotapi.BotAPI, через которую бот отвечает пользователю
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api     sender
	client  *tgbotapi.BotAPI
	service *service.ExpenseTracker
	charts  *charts.ChartGenerator
	format  *format.Formatter
	logger  zerolog.Logger
	now     func() time.Time

	mu     sync.Mutex
	states map[int64]*UserState // состояния пользователей по их ID
}

func NewBot(token string, tracker *service.ExpenseTracker, formatter *format.Formatter, logger zerolog.Logger) (*Bot, error) {
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}

	b := newBot(client, tracker, formatter, logger)
	b.client = client
	return b, nil
}

func newBot(api sender, tracker *service.ExpenseTracker, formatter *format.Formatter, logger zerolog.Logger) *Bot {
	return &Bot{
		api:     api,
		service: tracker,
		charts:  charts.NewChartGenerator(formatter),
		format:  formatter,
		logger:  logger,
		now:     time.Now,
		states:  make(map[int64]*UserState),
	}
}

// Start запускает бота в режиме long polling до отмены ctx
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return errors.New("bot api client is not configured")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	b.logger.Info().Str("username", b.client.Self.UserName).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			b.logger.Info().Msg("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				// Логируем ошибку, но продолжаем работу
				b.logger.Error().Err(err).Int("update_id", update.UpdateID).Msg("failed to handle update")
			}
		}
	}
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("failed to decode update: %w", err)
	}

	return b.handleUpdate(ctx, update)
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	// Сообщения без отправителя (посты каналов) пропускаем
	if update.Message != nil && (update.Message.From == nil || update.Message.Chat == nil) {
		b.logger.Debug().Int("update_id", update.UpdateID).Msg("skipping message without sender")
		return nil
	}

	switch {
	case update.Message != nil && update.Message.IsCommand():
		return b.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)
	}
	return nil
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID

	switch message.Command() {
	case "start":
		return b.handleStart(ctx, chatID, userID)
	case "add":
		return b.send(chatID, "Что добавить?", b.getFlowKeyboard())
	case "balance":
		return b.handleBalance(ctx, chatID, userID)
	case "report":
		args := message.CommandArguments()
		if args == "" {
			return b.send(chatID, "Выберите период отчета:", b.getReportKeyboard())
		}
		reportType, err := service.ParseReportType(args)
		if err != nil {
			return b.sendErrorMessage(chatID, "Период отчета: day, week, month или year")
		}
		return b.handleReport(ctx, chatID, userID, reportType)
	case "predict":
		return b.handlePredict(ctx, chatID, userID)
	case "budget":
		return b.handleBudget(ctx, chatID, userID)
	case "goals":
		return b.handleGoals(ctx, chatID, userID)
	case "history":
		return b.handleHistory(ctx, chatID, userID)
	case "categories":
		return b.handleCategories(ctx, chatID, userID)
	}
	return b.send(chatID, "Неизвестная команда. Выберите действие:", b.getMainKeyboard())
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Отвечаем на callback, чтобы убрать loading indicator
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			b.logger.Warn().Err(err).Msg("failed to answer callback")
		}
	}()

	if callback.From == nil || callback.Message == nil || callback.Message.Chat == nil {
		return nil
	}
	chatID, userID := callback.Message.Chat.ID, callback.From.ID
	data := callback.Data

	switch {
	case data == callbackBack:
		return b.send(chatID, "Выберите действие:", b.getMainKeyboard())
	case data == callbackNewIncome:
		b.setState(userID, &UserState{Action: actionNewCategory, Flow: model.Income})
		return b.send(chatID, "Введите название новой категории дохода:", nil)
	case data == callbackNewExpense:
		b.setState(userID, &UserState{Action: actionNewCategory, Flow: model.Expense})
		return b.send(chatID, "Введите название новой категории расхода:", nil)
	case data == callbackAddBudget:
		b.setState(userID, &UserState{Action: actionBudgetLine})
		return b.send(chatID, "Введите категорию и лимит в формате:\nПродукты 15000", nil)
	case data == callbackAddGoal:
		b.setState(userID, &UserState{Action: actionNewGoal})
		return b.send(chatID, "Введите сумму, срок и название цели в формате:\n100000 2025-12-31 Отпуск", nil)
	case strings.HasPrefix(data, callbackContribute):
		b.setState(userID, &UserState{Action: actionContribution, GoalID: strings.TrimPrefix(data, callbackContribute)})
		return b.send(chatID, "Введите сумму пополнения цели:", nil)
	case strings.HasPrefix(data, callbackFlow):
		return b.handleChooseCategory(ctx, chatID, userID, model.TransactionType(strings.TrimPrefix(data, callbackFlow)))
	case strings.HasPrefix(data, callbackReport):
		reportType, err := service.ParseReportType(strings.TrimPrefix(data, callbackReport))
		if err != nil {
			return err
		}
		return b.handleReport(ctx, chatID, userID, reportType)
	case strings.HasPrefix(data, callbackCategory):
		return b.handleCategorySelected(ctx, chatID, userID, strings.TrimPrefix(data, callbackCategory))
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID

	switch message.Text {
	case buttonAddIncome:
		return b.handleChooseCategory(ctx, chatID, userID, model.Income)
	case buttonAddExpense:
		return b.handleChooseCategory(ctx, chatID, userID, model.Expense)
	case buttonReports:
		return b.send(chatID, "Выберите период отчета:", b.getReportKeyboard())
	case buttonCategories:
		return b.handleCategories(ctx, chatID, userID)
	case buttonBalance:
		return b.handleBalance(ctx, chatID, userID)
	case buttonPredict:
		return b.handlePredict(ctx, chatID, userID)
	case buttonBudget:
		return b.handleBudget(ctx, chatID, userID)
	case buttonGoals:
		return b.handleGoals(ctx, chatID, userID)
	}

	// Проверяем, есть ли ожидаемое действие
	state, ok := b.getState(userID)
	if !ok {
		return b.send(chatID, "Выберите действие:", b.getMainKeyboard())
	}

	switch state.Action {
	case actionNewCategory:
		return b.submitCategory(ctx, chatID, userID, state, message.Text)
	case actionTransaction:
		return b.submitTransaction(ctx, chatID, userID, state, message.Text)
	case actionBudgetLine:
		return b.submitBudgetLine(ctx, chatID, userID, message.Text)
	case actionNewGoal:
		return b.submitGoal(ctx, chatID, userID, message.Text)
	case actionContribution:
		return b.submitContribution(ctx, chatID, userID, state, message.Text)
	}
	b.clearState(userID)
	return b.send(chatID, "Выберите действие:", b.getMainKeyboard())
}

func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) error {
	// Создаем категории по умолчанию при первом запуске
	if err := b.service.CreateDefaultCategories(ctx, userID); err != nil {
		b.sendErrorMessage(chatID, "Ошибка при создании категорий")
		return err
	}
	b.clearState(userID)
	return b.send(chatID, welcomeText, b.getMainKeyboard())
}

func (b *Bot) handleChooseCategory(ctx context.Context, chatID, userID int64, flow model.TransactionType) error {
	if flow == model.InvestmentFlow && !b.service.Analyzer().Features().Investments {
		return b.sendErrorMessage(chatID, "Инвестиции отключены")
	}
	categories, err := b.service.CategoriesOf(ctx, userID, flow)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении категорий")
		return err
	}
	if len(categories) == 0 {
		return b.sendErrorMessage(chatID, "У вас нет подходящих категорий. Сначала добавьте их через /categories")
	}
	return b.send(chatID, fmt.Sprintf("Выберите категорию (%s):", strings.ToLower(flowTitle(flow))), b.getCategoriesKeyboard(categories))
}

func (b *Bot) handleCategorySelected(ctx context.Context, chatID, userID int64, categoryID string) error {
	categories, err := b.service.GetCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("error getting categories: %w", err)
	}

	for _, category := range categories {
		if category.ID != categoryID {
			continue
		}
		// Сохраняем выбранную категорию и тип транзакции в состоянии пользователя
		b.setState(userID, &UserState{
			Action:   actionTransaction,
			Flow:     category.Type,
			Category: category.Name,
		})
		return b.send(chatID,
			fmt.Sprintf("Категория: %s\nВведите сумму и описание в формате:\n1000 Покупка продуктов", category.Name), nil)
	}
	return b.sendErrorMessage(chatID, "Категория не найдена")
}

func (b *Bot) submitTransaction(ctx context.Context, chatID, userID int64, state *UserState, text string) error {
	amount, description, err := parseTransactionInput(text)
	if err != nil {
		return b.sendErrorMessage(chatID, "Неверный формат. Используйте: <сумма> <описание>, например: 1000.50 Продукты")
	}

	_, err = b.service.AddTransaction(ctx, userID, model.Transaction{
		Amount:      amount,
		Type:        state.Flow,
		Category:    state.Category,
		Description: description,
		Date:        model.DateOf(b.now()),
	})
	if errors.Is(err, model.ErrInvalidInput) {
		return b.sendErrorMessage(chatID, fmt.Sprintf("Ошибка при сохранении транзакции: %v", err))
	}
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при сохранении транзакции")
		return err
	}

	// Очищаем состояние после сохранения транзакции
	b.clearState(userID)
	return b.send(chatID, "Транзакция сохранена! ✅", b.getMainKeyboard())
}

func (b *Bot) submitCategory(ctx context.Context, chatID, userID int64, state *UserState, text string) error {
	category := model.Category{
		Name: strings.TrimSpace(text),
		Type: state.Flow,
	}
	err := b.service.CreateCategory(ctx, userID, &category)
	if errors.Is(err, model.ErrInvalidInput) {
		return b.sendErrorMessage(chatID, "Название категории не может быть пустым")
	}
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при создании категории")
		return err
	}

	b.clearState(userID)
	if err := b.send(chatID, fmt.Sprintf("Категория '%s' успешно создана! ✅", category.Name), nil); err != nil {
		return err
	}
	return b.handleCategories(ctx, chatID, userID)
}

func (b *Bot) submitBudgetLine(ctx context.Context, chatID, userID int64, text string) error {
	category, limit, err := parseBudgetInput(text)
	if err != nil {
		return b.sendErrorMessage(chatID, "Неверный формат. Используйте: <категория> <лимит>")
	}
	if _, err := b.service.SetBudgetLimit(ctx, userID, category, limit, b.now()); err != nil {
		b.sendErrorMessage(chatID, "Ошибка при сохранении бюджета")
		return err
	}

	b.clearState(userID)
	if err := b.send(chatID, fmt.Sprintf("Лимит для «%s» установлен: %s ✅", category, b.format.Money(limit)), nil); err != nil {
		return err
	}
	return b.handleBudget(ctx, chatID, userID)
}

func (b *Bot) submitGoal(ctx context.Context, chatID, userID int64, text string) error {
	goal, err := parseGoalInput(text)
	if err != nil {
		return b.sendErrorMessage(chatID, "Неверный формат. Используйте: <сумма> <ГГГГ-ММ-ДД> <название>")
	}
	if err := b.service.AddGoal(ctx, userID, &goal); err != nil {
		b.sendErrorMessage(chatID, "Ошибка при создании цели")
		return err
	}

	b.clearState(userID)
	if err := b.send(chatID, fmt.Sprintf("Цель «%s» создана! 🎯", goal.Title), nil); err != nil {
		return err
	}
	return b.handleGoals(ctx, chatID, userID)
}

func (b *Bot) submitContribution(ctx context.Context, chatID, userID int64, state *UserState, text string) error {
	amount, err := parseAmount(text)
	if err != nil {
		return b.sendErrorMessage(chatID, "Введите положительную сумму, например: 5000")
	}
	goal, err := b.service.ContributeToGoal(ctx, userID, state.GoalID, amount)
	if errors.Is(err, model.ErrNotFound) {
		b.clearState(userID)
		return b.sendErrorMessage(chatID, "Цель не найдена")
	}
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при пополнении цели")
		return err
	}

	b.clearState(userID)
	return b.send(chatID, fmt.Sprintf("Цель «%s» пополнена: %s из %s ✅",
		goal.Title, b.format.Money(goal.CurrentAmount), b.format.Money(goal.TargetAmount)), b.getMainKeyboard())
}

func (b *Bot) handleBalance(ctx context.Context, chatID, userID int64) error {
	dashboard, err := b.service.Dashboard(ctx, userID, b.now())
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при расчете баланса")
		return err
	}
	if err := b.send(chatID, formatBalance(b.format, dashboard.Summary), nil); err != nil {
		return err
	}
	b.sendCharts(chatID, chartJob{"dashboard.png", func() ([]byte, error) {
		return b.charts.GenerateFinancialDashboard(dashboard.Daily)
	}})
	return nil
}

func (b *Bot) handleReport(ctx context.Context, chatID, userID int64, reportType service.ReportType) error {
	report, err := b.service.GetReport(ctx, userID, reportType, b.now())
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при формировании отчета")
		return err
	}
	if err := b.send(chatID, formatReport(b.format, report), nil); err != nil {
		return err
	}

	b.sendCharts(chatID,
		chartJob{"flow.png", func() ([]byte, error) {
			return b.charts.GenerateFinancialDashboard(report.Daily)
		}},
		chartJob{"expenses.png", func() ([]byte, error) {
			return b.charts.GenerateCategoryPieChart(report.Current.ExpenseCategories, "Расходы по категориям")
		}},
		chartJob{"comparison.png", func() ([]byte, error) {
			return b.charts.GenerateBalanceChart(report)
		}},
	)
	return nil
}

func (b *Bot) handlePredict(ctx context.Context, chatID, userID int64) error {
	dashboard, err := b.service.Dashboard(ctx, userID, b.now())
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при построении прогноза")
		return err
	}
	if err := b.send(chatID, formatPredictions(b.format, dashboard.Predictions, dashboard.Alerts), nil); err != nil {
		return err
	}
	b.sendCharts(chatID, chartJob{"trends.png", func() ([]byte, error) {
		return b.charts.GenerateTrendChart(dashboard.TrendSeries, dashboard.TopCategories)
	}})
	return nil
}

func (b *Bot) handleBudget(ctx context.Context, chatID, userID int64) error {
	if !b.service.Analyzer().Features().Budgets {
		return b.sendErrorMessage(chatID, "Бюджеты отключены")
	}
	dashboard, err := b.service.Dashboard(ctx, userID, b.now())
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при расчете бюджета")
		return err
	}
	if err := b.send(chatID, formatBudget(b.format, dashboard.Budget), b.getBudgetKeyboard()); err != nil {
		return err
	}
	if dashboard.Budget != nil {
		b.sendCharts(chatID, chartJob{"budget.png", func() ([]byte, error) {
			return b.charts.GenerateBudgetChart(*dashboard.Budget)
		}})
	}
	return nil
}

func (b *Bot) handleGoals(ctx context.Context, chatID, userID int64) error {
	if !b.service.Analyzer().Features().Goals {
		return b.sendErrorMessage(chatID, "Цели отключены")
	}
	goals, err := b.service.GetGoals(ctx, userID)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении целей")
		return err
	}

	now := b.now()
	byID := make(map[string]model.FinancialGoal, len(goals))
	progress := make([]service.GoalProgress, 0, len(goals))
	for _, goal := range goals {
		p, err := service.ComputeGoalProgress(goal, now)
		if err != nil {
			b.logger.Warn().Err(err).Str("goal_id", goal.ID).Msg("goal skipped")
			continue
		}
		byID[goal.ID] = goal
		progress = append(progress, p)
	}
	return b.send(chatID, formatGoals(b.format, progress, byID), b.getGoalsKeyboard(goals))
}

func (b *Bot) handleHistory(ctx context.Context, chatID, userID int64) error {
	transactions, err := b.service.GetRecentTransactions(ctx, userID, historyLimit)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении операций")
		return err
	}
	return b.send(chatID, formatHistory(b.format, transactions), nil)
}

func (b *Bot) handleCategories(ctx context.Context, chatID, userID int64) error {
	categories, err := b.service.GetCategories(ctx, userID)
	if err != nil {
		b.sendErrorMessage(chatID, "Ошибка при получении категорий")
		return err
	}
	return b.send(chatID, formatCategories(categories), b.getCategoriesManageKeyboard())
}

func (b *Bot) send(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

type chartJob struct {
	name   string
	render func() ([]byte, error)
}

// sendCharts рисует графики параллельно (не больше chartWorkers сразу) и отправляет их по порядку.
// Ошибки рендера и отправки только логируются.
func (b *Bot) sendCharts(chatID int64, jobs ...chartJob) {
	images := make([][]byte, len(jobs))
	var g errgroup.Group
	g.SetLimit(chartWorkers)
	for i, job := range jobs {
		g.Go(func() error {
			data, err := job.render()
			if err != nil {
				b.logger.Error().Err(err).Str("chart", job.name).Msg("failed to render chart")
				return nil
			}
			images[i] = data
			return nil
		})
	}
	_ = g.Wait()

	for i, data := range images {
		if data == nil {
			continue
		}
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: jobs[i].name, Bytes: data})
		if _, err := b.api.Send(photo); err != nil {
			b.logger.Error().Err(err).Str("chart", jobs[i].name).Msg("failed to send chart")
		}
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) error {
	return b.send(chatID, "❌ "+text, nil)
}
