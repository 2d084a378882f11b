package charts

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ivanoskov/fnhub/internal/format"
	"github.com/ivanoskov/fnhub/internal/model"
	"github.com/ivanoskov/fnhub/internal/service"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette цвета серий, когда у категории нет своего цвета
var palette = []string{"#00E676", "#FF5252", "#7B61FF", "#FFD600", "#00B0FF"}

// minPieShare категории с меньшей долей (в процентах) не попадают на круговую диаграмму
const minPieShare = 1.0

// movingAverageWindow окно скользящего среднего в днях
const movingAverageWindow = 7

// ChartGenerator генерирует различные типы графиков в PNG.
// Пустые или вырожденные данные дают nil без ошибки.
type ChartGenerator struct {
	formatter *format.Formatter
}

// NewChartGenerator создает новый генератор графиков. formatter может быть nil.
func NewChartGenerator(formatter *format.Formatter) *ChartGenerator {
	return &ChartGenerator{formatter: formatter}
}

func (g *ChartGenerator) money(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	if g.formatter == nil {
		return fmt.Sprintf("%.0f", f)
	}
	return g.formatter.Number(f) + g.formatter.Symbol()
}

func (g *ChartGenerator) label(amount float64) string {
	if g.formatter == nil {
		return fmt.Sprintf("%.0f", amount)
	}
	return g.formatter.Number(amount) + " " + g.formatter.Symbol()
}

// calculateMovingAverage вычисляет скользящее среднее
func calculateMovingAverage(values []float64, window int) []float64 {
	result := make([]float64, len(values))
	for i := range values {
		count := 0
		sum := 0.0
		for j := max(0, i-window+1); j <= i; j++ {
			sum += values[j]
			count++
		}
		result[i] = sum / float64(count)
	}
	return result
}

func colorFor(hex string, index int) drawing.Color {
	if hex == "" {
		hex = palette[index%len(palette)]
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func textColorFor(hex string) drawing.Color {
	if (model.Category{Color: hex}).IsLight() {
		return chart.ColorBlack
	}
	return chart.ColorWhite
}

func background(padding int) chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    padding,
			Left:   padding,
			Right:  padding,
			Bottom: padding,
		},
		FillColor: chart.ColorWhite,
	}
}

func axisStyle() chart.Style {
	return chart.Style{
		FontSize:  12,
		FontColor: chart.ColorBlack,
	}
}

func allZero(values ...[]float64) bool {
	for _, series := range values {
		for _, v := range series {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// GenerateFinancialDashboard рисует доходы, расходы, нарастающий баланс и 7-дневные средние по дням
func (g *ChartGenerator) GenerateFinancialDashboard(daily []service.DayBucket) ([]byte, error) {
	if len(daily) < 2 {
		return nil, nil
	}

	xValues := make([]time.Time, len(daily))
	expenseValues := make([]float64, len(daily))
	incomeValues := make([]float64, len(daily))
	balanceValues := make([]float64, len(daily))
	for i, b := range daily {
		xValues[i] = b.Date.Time
		expenseValues[i] = b.Expenses.Add(b.Investments).InexactFloat64()
		incomeValues[i] = b.Income.InexactFloat64()
		balanceValues[i] = b.Balance.InexactFloat64()
	}
	if allZero(expenseValues, incomeValues, balanceValues) {
		return nil, nil
	}

	maExpenses := calculateMovingAverage(expenseValues, movingAverageWindow)
	maIncome := calculateMovingAverage(incomeValues, movingAverageWindow)

	graph := chart.Chart{
		Width:      1200,
		Height:     600,
		Background: background(50),
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02.01"),
			Style:          axisStyle(),
		},
		YAxis: chart.YAxis{
			ValueFormatter: g.money,
			Style:          axisStyle(),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Расходы",
				XValues: xValues,
				YValues: expenseValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Доходы",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Баланс",
				XValues: xValues,
				YValues: balanceValues,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 3,
				},
			},
			chart.TimeSeries{
				Name:    "Тренд расходов (7 дней)",
				XValues: xValues,
				YValues: maExpenses,
				Style: chart.Style{
					StrokeColor:     chart.ColorRed.WithAlpha(100),
					StrokeWidth:     2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
			chart.TimeSeries{
				Name:    "Тренд доходов (7 дней)",
				XValues: xValues,
				YValues: maIncome,
				Style: chart.Style{
					StrokeColor:     chart.ColorGreen.WithAlpha(100),
					StrokeWidth:     2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, axisStyle()),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render financial dashboard: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateCategoryPieChart рисует распределение по категориям в цветах категорий
func (g *ChartGenerator) GenerateCategoryPieChart(shares []service.CategoryShare, title string) ([]byte, error) {
	values := make([]chart.Value, 0, len(shares))
	for i, s := range shares {
		share := s.Share.InexactFloat64()
		if share <= minPieShare {
			continue
		}
		amount := s.Amount.InexactFloat64()
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", s.Name, g.label(amount), share),
			Value: amount,
			Style: chart.Style{
				FillColor: colorFor(s.Color, i),
				FontSize:  12,
				FontColor: textColorFor(s.Color),
			},
		})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Title:      title,
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background(50),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateTrendChart рисует помесячные расходы выбранных категорий
func (g *ChartGenerator) GenerateTrendChart(series []service.MonthSpend, categories []string) ([]byte, error) {
	if len(series) < 2 || len(categories) == 0 {
		return nil, nil
	}

	xValues := make([]float64, len(series))
	ticks := make([]chart.Tick, len(series))
	for i, m := range series {
		xValues[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: m.Period.Padded()}
	}

	lines := make([]chart.Series, 0, len(categories))
	values := make([][]float64, 0, len(categories))
	for i, category := range categories {
		yValues := make([]float64, len(series))
		for j, m := range series {
			yValues[j] = m.ByCategory[category].InexactFloat64()
		}
		values = append(values, yValues)
		lines = append(lines, chart.ContinuousSeries{
			Name:    category,
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: colorFor("", i),
				StrokeWidth: 3,
				DotColor:    colorFor("", i),
				DotWidth:    4,
			},
		})
	}
	if allZero(values...) {
		return nil, nil
	}

	graph := chart.Chart{
		Title:      "Тренды расходов",
		Width:      1200,
		Height:     600,
		Background: background(50),
		XAxis: chart.XAxis{
			Ticks: ticks,
			Style: axisStyle(),
		},
		YAxis: chart.YAxis{
			ValueFormatter: g.money,
			Style:          axisStyle(),
		},
		Series: lines,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, axisStyle()),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render trend chart: %w", err)
	}
	return buffer.Bytes(), nil
}

var levelColors = map[service.UtilizationLevel]drawing.Color{
	service.UtilizationOK:       drawing.ColorFromHex("00E676"),
	service.UtilizationModerate: drawing.ColorFromHex("00B0FF"),
	service.UtilizationWarning:  drawing.ColorFromHex("FFD600"),
	service.UtilizationCritical: drawing.ColorFromHex("FF5252"),
}

// GenerateBudgetChart рисует заполнение строк бюджета в процентах, цвет по уровню
func (g *ChartGenerator) GenerateBudgetChart(progress service.BudgetProgress) ([]byte, error) {
	bars := make([]chart.Value, 0, len(progress.Lines))
	hasValue := false
	for _, line := range progress.Lines {
		if line.Percentage > 0 {
			hasValue = true
		}
		color := levelColors[line.Level]
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s: %d%%", line.Category, line.Percentage),
			Value: float64(line.Percentage),
			Style: chart.Style{
				StrokeColor: color,
				FillColor:   color,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		})
	}
	if !hasValue {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Бюджет %s", progress.Period.Padded()),
		TitleStyle: chart.Style{FontSize: 14, FontColor: chart.ColorBlack},
		Width:      1200,
		Height:     600,
		BarWidth:   60,
		Background: background(50),
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f%%", v.(float64))
			},
			Style: axisStyle(),
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render budget chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateAllocationChart рисует распределение портфеля по типам активов
func (g *ChartGenerator) GenerateAllocationChart(perf service.InvestmentPerformance) ([]byte, error) {
	shares := make([]service.CategoryShare, 0, len(perf.ByType))
	for _, s := range perf.ByType {
		shares = append(shares, service.CategoryShare{Name: s.Key, Amount: s.Value, Share: s.Share})
	}
	return g.GenerateCategoryPieChart(shares, "Распределение портфеля")
}

// GenerateBalanceChart сравнивает доходы, расходы и баланс текущего и предыдущего периодов
func (g *ChartGenerator) GenerateBalanceChart(report *service.Report) ([]byte, error) {
	if report == nil {
		return nil, nil
	}
	prev, cur := report.Previous, report.Current
	type bar struct {
		name  string
		value float64
		color drawing.Color
		faded bool
	}
	items := []bar{
		{"Баланс (пред.)", prev.CurrentBalance.InexactFloat64(), chart.ColorBlue, true},
		{"Баланс (тек.)", cur.CurrentBalance.InexactFloat64(), chart.ColorBlue, false},
		{"Расходы (пред.)", -prev.Expenses.InexactFloat64(), chart.ColorRed, true},
		{"Расходы (тек.)", -cur.Expenses.InexactFloat64(), chart.ColorRed, false},
		{"Доходы (пред.)", prev.Income.InexactFloat64(), chart.ColorGreen, true},
		{"Доходы (тек.)", cur.Income.InexactFloat64(), chart.ColorGreen, false},
	}

	bars := make([]chart.Value, 0, len(items))
	values := make([]float64, 0, len(items))
	for _, item := range items {
		fill := item.color
		if item.faded {
			fill = item.color.WithAlpha(100)
		}
		values = append(values, item.value)
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s: %s", item.name, g.label(item.value)),
			Value: item.value,
			Style: chart.Style{
				StrokeColor: item.color,
				FillColor:   fill,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		})
	}
	if allZero(values) {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:      "Сравнение периодов",
		TitleStyle: chart.Style{FontSize: 14, FontColor: chart.ColorBlack},
		Width:      1200,
		Height:     600,
		BarWidth:   60,
		Background: background(50),
		YAxis: chart.YAxis{
			ValueFormatter: g.money,
			Style:          axisStyle(),
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render balance chart: %w", err)
	}
	return buffer.Bytes(), nil
}
