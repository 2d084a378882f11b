package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/ivanoskov/fnhub/internal/service"
)

// Кнопки главного меню
const (
	buttonAddIncome  = "💰 Добавить доход"
	buttonAddExpense = "💸 Добавить расход"
	buttonReports    = "📊 Отчёты"
	buttonCategories = "📋 Категории"
	buttonBalance    = "💵 Баланс"
	buttonPredict    = "🔮 Прогноз"
	buttonBudget     = "💼 Бюджет"
	buttonGoals      = "🎯 Цели"
)

// Префиксы и значения callback data
const (
	callbackFlow       = "flow_"
	callbackCategory   = "category_"
	callbackReport     = "report_"
	callbackContribute = "goal_contribute_"
	callbackAddGoal    = "goal_add"
	callbackAddBudget  = "budget_add"
	callbackBack       = "action_back"
	callbackNewIncome  = "add_income_category"
	callbackNewExpense = "add_expense_category"
)

func (b *Bot) getMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	features := b.service.Analyzer().Features()

	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAddIncome),
			tgbotapi.NewKeyboardButton(buttonAddExpense),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonReports),
			tgbotapi.NewKeyboardButton(buttonCategories),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonBalance),
			tgbotapi.NewKeyboardButton(buttonPredict),
		),
	}

	var extra []tgbotapi.KeyboardButton
	if features.Budgets {
		extra = append(extra, tgbotapi.NewKeyboardButton(buttonBudget))
	}
	if features.Goals {
		extra = append(extra, tgbotapi.NewKeyboardButton(buttonGoals))
	}
	if len(extra) > 0 {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(extra...))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func (b *Bot) getFlowKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("💰 Доход", callbackFlow+string(model.Income)),
		tgbotapi.NewInlineKeyboardButtonData("💸 Расход", callbackFlow+string(model.Expense)),
	}
	if b.service.Analyzer().Features().Investments {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("📈 Инвестиция", callbackFlow+string(model.InvestmentFlow)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func (b *Bot) getCategoriesKeyboard(categories []model.Category) tgbotapi.InlineKeyboardMarkup {
	var buttons [][]tgbotapi.InlineKeyboardButton

	for _, category := range categories {
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				category.Name,
				callbackCategory+category.ID,
			),
		})
	}

	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

func (b *Bot) getCategoriesManageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Категория дохода", callbackNewIncome),
			tgbotapi.NewInlineKeyboardButtonData("➕ Категория расхода", callbackNewExpense),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Назад", callbackBack),
		),
	)
}

func (b *Bot) getReportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("День", callbackReport+service.DailyReport.String()),
			tgbotapi.NewInlineKeyboardButtonData("Неделя", callbackReport+service.WeeklyReport.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Месяц", callbackReport+service.MonthlyReport.String()),
			tgbotapi.NewInlineKeyboardButtonData("Год", callbackReport+service.YearlyReport.String()),
		),
	)
}

func (b *Bot) getGoalsKeyboard(goals []model.FinancialGoal) tgbotapi.InlineKeyboardMarkup {
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, goal := range goals {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+goal.Title, callbackContribute+goal.ID),
		))
	}
	buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎯 Новая цель", callbackAddGoal),
	))
	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

func (b *Bot) getBudgetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Добавить лимит", callbackAddBudget),
		),
	)
}
