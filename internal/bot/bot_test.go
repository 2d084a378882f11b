package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/fnhub/internal/format"
	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/ivanoskov/fnhub/internal/repository"
	"github.com/ivanoskov/fnhub/internal/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser int64 = 42

type fakeSender struct {
	mu        sync.Mutex
	messages  []tgbotapi.MessageConfig
	photos    []tgbotapi.PhotoConfig
	callbacks []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		f.messages = append(f.messages, v)
	case tgbotapi.PhotoConfig:
		f.photos = append(f.photos, v)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, cb.CallbackQueryID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1]
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.Text
	}
	return out
}

type harness struct {
	bot     *Bot
	sender  *fakeSender
	tracker *service.ExpenseTracker
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f, err := format.New("ru-RU", "RUB", "02.01.2006")
	require.NoError(t, err)

	sender := &fakeSender{}
	tracker := service.NewExpenseTracker(repository.NewMemory(), nil)
	b := newBot(sender, tracker, f, zerolog.Nop())
	b.now = func() time.Time { return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC) }
	return &harness{bot: b, sender: sender, tracker: tracker}
}

func (h *harness) command(t *testing.T, text string) {
	t.Helper()
	name := strings.SplitN(text, " ", 2)[0]
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: testUser},
		From:     &tgbotapi.User{ID: testUser},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
	require.NoError(t, h.bot.handleUpdate(context.Background(), update))
}

func (h *harness) text(t *testing.T, text string) {
	t.Helper()
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: testUser},
		From: &tgbotapi.User{ID: testUser},
	}}
	require.NoError(t, h.bot.handleUpdate(context.Background(), update))
}

func (h *harness) callback(t *testing.T, data string) {
	t.Helper()
	update := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		Data:    data,
		From:    &tgbotapi.User{ID: testUser},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: testUser}},
	}}
	require.NoError(t, h.bot.handleUpdate(context.Background(), update))
}

func (h *harness) categoryID(t *testing.T, name string) string {
	t.Helper()
	categories, err := h.tracker.GetCategories(context.Background(), testUser)
	require.NoError(t, err)
	for _, c := range categories {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not found", name)
	return ""
}

func TestStartCreatesDefaultCategories(t *testing.T) {
	h := newHarness(t)
	h.command(t, "/start")

	msg := h.sender.last(t)
	assert.Equal(t, welcomeText, msg.Text)
	keyboard, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, keyboard.ResizeKeyboard)
	assert.Equal(t, buttonAddIncome, keyboard.Keyboard[0][0].Text)

	categories, err := h.tracker.GetCategories(context.Background(), testUser)
	require.NoError(t, err)
	assert.Len(t, categories, 5)

	// повторный /start не дублирует категории
	h.command(t, "/start")
	categories, err = h.tracker.GetCategories(context.Background(), testUser)
	require.NoError(t, err)
	assert.Len(t, categories, 5)
}

func TestAddExpenseFlow(t *testing.T) {
	h := newHarness(t)
	h.command(t, "/start")

	h.callback(t, callbackFlow+string(model.Expense))
	keyboard, ok := h.sender.last(t).ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, keyboard.InlineKeyboard, 3)

	h.callback(t, callbackCategory+h.categoryID(t, "Продукты"))
	assert.Contains(t, h.sender.last(t).Text, "Категория: Продукты")

	h.text(t, "1500,50 Молоко и хлеб")
	assert.Equal(t, "Транзакция сохранена! ✅", h.sender.last(t).Text)

	transactions, err := h.tracker.GetRecentTransactions(context.Background(), testUser, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	tx := transactions[0]
	assert.Equal(t, model.Expense, tx.Type)
	assert.Equal(t, "Продукты", tx.Category)
	assert.Equal(t, "Молоко и хлеб", tx.Description)
	assert.True(t, decimal.RequireFromString("1500.5").Equal(tx.Amount))
	assert.Equal(t, model.NewDate(2024, time.March, 15), tx.Date)

	_, ok = h.bot.getState(testUser)
	assert.False(t, ok)
	assert.Len(t, h.sender.callbacks, 2)
}

func TestInvalidTransactionKeepsState(t *testing.T) {
	h := newHarness(t)
	h.command(t, "/start")
	h.callback(t, callbackCategory+h.categoryID(t, "Зарплата"))

	h.text(t, "много денег")
	assert.True(t, strings.HasPrefix(h.sender.last(t).Text, "❌"))

	state, ok := h.bot.getState(testUser)
	require.True(t, ok)
	assert.Equal(t, actionTransaction, state.Action)
	assert.Equal(t, model.Income, state.Flow)

	h.text(t, "50000 Аванс")
	assert.Equal(t, "Транзакция сохранена! ✅", h.sender.last(t).Text)
}

func TestUnknownCategoryCallback(t *testing.T) {
	h := newHarness(t)
	h.command(t, "/start")
	h.callback(t, callbackCategory+"missing")
	assert.Equal(t, "❌ Категория не найдена", h.sender.last(t).Text)
}

func TestCreateCategoryFlow(t *testing.T) {
	h := newHarness(t)
	h.command(t, "/start")
	h.callback(t, callbackNewExpense)
	h.text(t, "Кафе")

	assert.Contains(t, h.sender.texts(), "Категория 'Кафе' успешно создана! ✅")
	assert.Contains(t, h.sender.last(t).Text, "• Кафе")

	expenses, err := h.tracker.CategoriesOf(context.Background(), testUser, model.Expense)
	require.NoError(t, err)
	assert.Len(t, expenses, 4)
}

func TestBudgetFlow(t *testing.T) {
	h := newHarness(t)
	h.command(t, "/start")

	h.command(t, "/budget")
	assert.Contains(t, h.sender.last(t).Text, "не задан")

	h.callback(t, callbackAddBudget)
	h.text(t, "Продукты 10000")
	assert.Contains(t, strings.Join(h.sender.texts(), "\n"), "Лимит для «Продукты» установлен")
	assert.Contains(t, h.sender.last(t).Text, "Бюджет Март 2024")

	budgets, err := h.tracker.GetBudgets(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, decimal.NewFromInt(10000).Equal(budgets[0].TotalBudget))
}

func TestGoalFlow(t *testing.T) {
	h := newHarness(t)
	h.command(t, "/start")

	h.callback(t, callbackAddGoal)
	h.text(t, "50000 2024-12-31 Отпуск")
	assert.Contains(t, h.sender.texts(), "Цель «Отпуск» создана! 🎯")
	assert.Contains(t, h.sender.last(t).Text, "Отпуск")

	goals, err := h.tracker.GetGoals(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	h.callback(t, callbackContribute+goals[0].ID)
	h.text(t, "5000")
	assert.Contains(t, h.sender.last(t).Text, "Цель «Отпуск» пополнена")

	goals, err = h.tracker.GetGoals(context.Background(), testUser)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5000).Equal(goals[0].CurrentAmount))
}

func TestContributionToMissingGoal(t *testing.T) {
	h := newHarness(t)
	h.callback(t, callbackContribute+"missing")
	h.text(t, "100")
	assert.Equal(t, "❌ Цель не найдена", h.sender.last(t).Text)

	_, ok := h.bot.getState(testUser)
	assert.False(t, ok)
}

func TestBalanceHistoryAndReport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.command(t, "/start")

	_, err := h.tracker.AddTransaction(ctx, testUser, model.Transaction{
		Type: model.Income, Category: "Зарплата", Amount: decimal.NewFromInt(1000), Date: model.NewDate(2024, time.March, 1),
	})
	require.NoError(t, err)
	_, err = h.tracker.AddTransaction(ctx, testUser, model.Transaction{
		Type: model.Expense, Category: "Продукты", Amount: decimal.NewFromInt(250), Date: model.NewDate(2024, time.March, 10),
	})
	require.NoError(t, err)

	h.text(t, buttonBalance)
	assert.Contains(t, h.sender.last(t).Text, "Баланс")

	h.command(t, "/history")
	history := h.sender.last(t).Text
	assert.Contains(t, history, "Продукты")
	assert.Contains(t, history, "Зарплата")
	assert.Less(t, strings.Index(history, "Продукты"), strings.Index(history, "Зарплата"))

	photosBefore := len(h.sender.photos)
	h.command(t, "/report month")
	assert.True(t, strings.HasPrefix(h.sender.last(t).Text, "📊 Отчет: Март 2024"))
	assert.Greater(t, len(h.sender.photos), photosBefore)

	h.command(t, "/report century")
	assert.True(t, strings.HasPrefix(h.sender.last(t).Text, "❌"))
}

func TestPredictWithoutHistory(t *testing.T) {
	h := newHarness(t)
	h.command(t, "/predict")
	assert.Contains(t, h.sender.last(t).Text, "Недостаточно данных")
	assert.Empty(t, h.sender.photos)
}

func TestMessageWithoutStateShowsMenu(t *testing.T) {
	h := newHarness(t)
	h.text(t, "привет")
	msg := h.sender.last(t)
	assert.Equal(t, "Выберите действие:", msg.Text)
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, msg.ReplyMarkup)
}

func TestStateExpires(t *testing.T) {
	h := newHarness(t)
	h.bot.setState(testUser, &UserState{Action: actionBudgetLine})

	_, ok := h.bot.getState(testUser)
	require.True(t, ok)

	start := h.bot.now()
	h.bot.now = func() time.Time { return start.Add(stateTTL + time.Minute) }
	_, ok = h.bot.getState(testUser)
	assert.False(t, ok)
}

func TestDisabledFeatures(t *testing.T) {
	f, err := format.New("ru-RU", "RUB", "02.01.2006")
	require.NoError(t, err)
	analyzer := service.NewAnalyzer(service.WithFeatures(service.Features{}))
	sender := &fakeSender{}
	b := newBot(sender, service.NewExpenseTracker(repository.NewMemory(), analyzer), f, zerolog.Nop())

	update := func(text string) tgbotapi.Update {
		return tgbotapi.Update{Message: &tgbotapi.Message{
			Text:     text,
			Chat:     &tgbotapi.Chat{ID: testUser},
			From:     &tgbotapi.User{ID: testUser},
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
		}}
	}
	require.NoError(t, b.handleUpdate(context.Background(), update("/goals")))
	require.NoError(t, b.handleUpdate(context.Background(), update("/budget")))
	require.Len(t, sender.messages, 2)
	assert.Equal(t, "❌ Цели отключены", sender.messages[0].Text)
	assert.Equal(t, "❌ Бюджеты отключены", sender.messages[1].Text)

	keyboard := b.getFlowKeyboard()
	assert.Len(t, keyboard.InlineKeyboard[0], 2)
}

func TestHandleWebhook(t *testing.T) {
	h := newHarness(t)
	assert.Error(t, h.bot.HandleWebhook(context.Background(), []byte("{not json")))

	body := `{"update_id":1,"message":{"message_id":1,"text":"/start","chat":{"id":42},"from":{"id":42},"entities":[{"type":"bot_command","offset":0,"length":6}]}}`
	require.NoError(t, h.bot.HandleWebhook(context.Background(), []byte(body)))
	assert.Equal(t, welcomeText, h.sender.last(t).Text)
}

func TestMessagesWithoutSenderAreSkipped(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	channelPost := tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     "/start",
		Chat:     &tgbotapi.Chat{ID: testUser},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}
	require.NoError(t, h.bot.handleUpdate(ctx, channelPost))

	plain := tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: testUser}}}
	require.NoError(t, h.bot.handleUpdate(ctx, plain))

	anonymous := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-anon",
		Data:    callbackBack,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: testUser}},
	}}
	require.NoError(t, h.bot.handleUpdate(ctx, anonymous))

	assert.Empty(t, h.sender.texts())
	assert.Equal(t, []string{"cb-anon"}, h.sender.callbacks)
}

func TestStartWithoutClient(t *testing.T) {
	h := newHarness(t)
	assert.Error(t, h.bot.Start(context.Background()))
}
